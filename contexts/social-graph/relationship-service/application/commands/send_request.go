package commands

import (
	"context"
	"log/slog"
	"strings"

	application "rookery/contexts/social-graph/relationship-service/application"
	"rookery/contexts/social-graph/relationship-service/domain/entities"
	domainerrors "rookery/contexts/social-graph/relationship-service/domain/errors"
	"rookery/contexts/social-graph/relationship-service/ports"
)

// SendRequestCommand is the write-model input for friend request creation.
// Identity resolution happens upstream; RequesterID arrives authenticated.
type SendRequestCommand struct {
	RequesterID          string
	RequesterDisplayName string
	AddresseeID          string
}

type SendRequestResult struct {
	Relationship entities.Relationship
}

// RelationshipUseCase orchestrates relationship commands. Pair uniqueness and
// the atomicity of row + notification writes are delegated to the repository
// transaction; the use case owns input invariants and the decision inputs.
type RelationshipUseCase struct {
	Relationships ports.RelationshipRepository
	Outbox        ports.OutboxWriter
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

// SendRequest creates a pending relationship for the unordered actor pair and
// appends the addressee's notification in the same transaction. Every
// conflict branch is terminal; callers resubmit with corrected intent or not
// at all.
func (uc RelationshipUseCase) SendRequest(ctx context.Context, cmd SendRequestCommand) (SendRequestResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	requesterID := strings.TrimSpace(cmd.RequesterID)
	addresseeID := strings.TrimSpace(cmd.AddresseeID)
	logger.Info("friend request processing started",
		"event", "relationship_send_request_started",
		"module", "social-graph/relationship-service",
		"layer", "application",
		"requester_id", requesterID,
		"addressee_id", addresseeID,
	)
	if requesterID == "" || addresseeID == "" {
		logger.Warn("friend request validation failed",
			"event", "relationship_send_request_validation_failed",
			"module", "social-graph/relationship-service",
			"layer", "application",
			"requester_id", requesterID,
			"addressee_id", addresseeID,
		)
		return SendRequestResult{}, domainerrors.ErrInvalidRequestInput
	}
	if requesterID == addresseeID {
		logger.Warn("friend request rejected as self request",
			"event", "relationship_send_request_self_rejected",
			"module", "social-graph/relationship-service",
			"layer", "application",
			"requester_id", requesterID,
		)
		return SendRequestResult{}, domainerrors.ErrSelfRequest
	}

	now := uc.now()
	relationshipID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return SendRequestResult{}, err
	}
	notificationID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return SendRequestResult{}, err
	}

	relationship := entities.Relationship{
		RelationshipID: relationshipID,
		RequesterID:    requesterID,
		AddresseeID:    addresseeID,
		Status:         entities.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	notification := entities.Notification{
		NotificationID: notificationID,
		RecipientID:    addresseeID,
		Kind:           entities.NotificationKindRelationshipRequest,
		Title:          "New friend request",
		Body:           requestNotificationBody(cmd.RequesterDisplayName),
		Payload: map[string]any{
			"requester_id":           requesterID,
			"requester_display_name": strings.TrimSpace(cmd.RequesterDisplayName),
		},
		CreatedAt: now,
	}

	persisted, err := uc.Relationships.CreateRequest(ctx, relationship, notification)
	if err != nil {
		logger.Warn("friend request rejected",
			"event", "relationship_send_request_rejected",
			"module", "social-graph/relationship-service",
			"layer", "application",
			"requester_id", requesterID,
			"addressee_id", addresseeID,
			"error", err.Error(),
		)
		return SendRequestResult{}, err
	}

	if err := uc.appendRelationshipEvent(ctx, "relationship.requested", persisted, now); err != nil {
		return SendRequestResult{}, err
	}

	logger.Info("friend request created",
		"event", "relationship_send_request_created",
		"module", "social-graph/relationship-service",
		"layer", "application",
		"relationship_id", persisted.RelationshipID,
		"requester_id", persisted.RequesterID,
		"addressee_id", persisted.AddresseeID,
	)
	return SendRequestResult{Relationship: persisted}, nil
}

func requestNotificationBody(displayName string) string {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return "You have a new friend request."
	}
	return displayName + " sent you a friend request."
}
