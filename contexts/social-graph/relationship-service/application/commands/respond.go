package commands

import (
	"context"
	"strings"

	application "rookery/contexts/social-graph/relationship-service/application"
	"rookery/contexts/social-graph/relationship-service/domain/entities"
	domainerrors "rookery/contexts/social-graph/relationship-service/domain/errors"
)

// RespondToRequestCommand resolves a pending request addressed to ActorID.
// Action is "accept" or "decline".
type RespondToRequestCommand struct {
	ActorID          string
	ActorDisplayName string
	RequesterID      string
	Action           string
}

type RespondToRequestResult struct {
	Relationship entities.Relationship
}

// RespondToRequest accepts or declines a pending request. Accepting
// transitions the same pair row to accepted and notifies the requester;
// declining transitions it to rejected with no notification. Either way the
// one-row-per-pair invariant holds.
func (uc RelationshipUseCase) RespondToRequest(ctx context.Context, cmd RespondToRequestCommand) (RespondToRequestResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	actorID := strings.TrimSpace(cmd.ActorID)
	requesterID := strings.TrimSpace(cmd.RequesterID)
	action := strings.ToLower(strings.TrimSpace(cmd.Action))
	logger.Info("friend request response processing started",
		"event", "relationship_respond_started",
		"module", "social-graph/relationship-service",
		"layer", "application",
		"actor_id", actorID,
		"requester_id", requesterID,
		"action", action,
	)
	if actorID == "" || requesterID == "" {
		return RespondToRequestResult{}, domainerrors.ErrInvalidRequestInput
	}
	if action != "accept" && action != "decline" {
		logger.Warn("friend request response validation failed",
			"event", "relationship_respond_validation_failed",
			"module", "social-graph/relationship-service",
			"layer", "application",
			"actor_id", actorID,
			"requester_id", requesterID,
			"action", action,
		)
		return RespondToRequestResult{}, domainerrors.ErrInvalidRespondAction
	}

	now := uc.now()
	toStatus := entities.StatusRejected
	var notification *entities.Notification
	eventType := "relationship.declined"
	if action == "accept" {
		toStatus = entities.StatusAccepted
		eventType = "relationship.accepted"
		notificationID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return RespondToRequestResult{}, err
		}
		notification = &entities.Notification{
			NotificationID: notificationID,
			RecipientID:    requesterID,
			Kind:           entities.NotificationKindRelationshipAccepted,
			Title:          "Friend request accepted",
			Body:           acceptNotificationBody(cmd.ActorDisplayName),
			Payload: map[string]any{
				"addressee_id":           actorID,
				"addressee_display_name": strings.TrimSpace(cmd.ActorDisplayName),
			},
			CreatedAt: now,
		}
	}

	persisted, err := uc.Relationships.ResolveRequest(ctx, actorID, requesterID, toStatus, notification, now)
	if err != nil {
		logger.Warn("friend request response rejected",
			"event", "relationship_respond_rejected",
			"module", "social-graph/relationship-service",
			"layer", "application",
			"actor_id", actorID,
			"requester_id", requesterID,
			"action", action,
			"error", err.Error(),
		)
		return RespondToRequestResult{}, err
	}

	if err := uc.appendRelationshipEvent(ctx, eventType, persisted, now); err != nil {
		return RespondToRequestResult{}, err
	}

	logger.Info("friend request resolved",
		"event", "relationship_respond_resolved",
		"module", "social-graph/relationship-service",
		"layer", "application",
		"relationship_id", persisted.RelationshipID,
		"actor_id", actorID,
		"requester_id", requesterID,
		"status", string(persisted.Status),
	)
	return RespondToRequestResult{Relationship: persisted}, nil
}

func acceptNotificationBody(displayName string) string {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return "Your friend request was accepted."
	}
	return displayName + " accepted your friend request."
}
