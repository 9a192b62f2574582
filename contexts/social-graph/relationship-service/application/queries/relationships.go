package queries

import (
	"context"
	"strings"

	"rookery/contexts/social-graph/relationship-service/domain/entities"
	domainerrors "rookery/contexts/social-graph/relationship-service/domain/errors"
	"rookery/contexts/social-graph/relationship-service/ports"
)

type RelationshipQueryUseCase struct {
	Relationships ports.RelationshipRepository
	Notifications ports.NotificationRepository
}

// ListRelationships returns the relationships touching the actor, optionally
// filtered by status. An empty status means no filter.
func (uc RelationshipQueryUseCase) ListRelationships(
	ctx context.Context,
	actorID string,
	status string,
) ([]entities.Relationship, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, domainerrors.ErrInvalidRequestInput
	}
	filter := entities.RelationshipStatus(strings.ToLower(strings.TrimSpace(status)))
	switch filter {
	case "", entities.StatusPending, entities.StatusAccepted, entities.StatusBlocked, entities.StatusRejected:
	default:
		return nil, domainerrors.ErrInvalidRequestInput
	}
	return uc.Relationships.ListByActor(ctx, actorID, filter)
}

// GetRelationship looks up the single row for an unordered actor pair.
func (uc RelationshipQueryUseCase) GetRelationship(
	ctx context.Context,
	actorA string,
	actorB string,
) (entities.Relationship, error) {
	relationship, found, err := uc.Relationships.GetByPair(ctx, actorA, actorB)
	if err != nil {
		return entities.Relationship{}, err
	}
	if !found {
		return entities.Relationship{}, domainerrors.ErrRelationshipNotFound
	}
	return relationship, nil
}

// ListNotifications returns the recipient's notification feed, newest first.
func (uc RelationshipQueryUseCase) ListNotifications(
	ctx context.Context,
	recipientID string,
) ([]entities.Notification, error) {
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return nil, domainerrors.ErrInvalidRequestInput
	}
	return uc.Notifications.ListByRecipient(ctx, recipientID)
}
