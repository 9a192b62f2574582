package commands

import (
	"context"
	"strings"

	application "rookery/contexts/social-graph/relationship-service/application"
	"rookery/contexts/social-graph/relationship-service/domain/entities"
	domainerrors "rookery/contexts/social-graph/relationship-service/domain/errors"
)

type BlockActorCommand struct {
	BlockerID string
	TargetID  string
}

type BlockActorResult struct {
	Relationship entities.Relationship
}

// BlockActor forces the pair row into blocked state with the block direction
// recorded on the requester side. Blocking produces no notification.
func (uc RelationshipUseCase) BlockActor(ctx context.Context, cmd BlockActorCommand) (BlockActorResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	blockerID := strings.TrimSpace(cmd.BlockerID)
	targetID := strings.TrimSpace(cmd.TargetID)
	logger.Info("block processing started",
		"event", "relationship_block_started",
		"module", "social-graph/relationship-service",
		"layer", "application",
		"blocker_id", blockerID,
		"target_id", targetID,
	)
	if blockerID == "" || targetID == "" {
		return BlockActorResult{}, domainerrors.ErrInvalidRequestInput
	}
	if blockerID == targetID {
		return BlockActorResult{}, domainerrors.ErrSelfRequest
	}

	now := uc.now()
	relationshipID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return BlockActorResult{}, err
	}

	persisted, err := uc.Relationships.UpsertBlock(ctx, entities.Relationship{
		RelationshipID: relationshipID,
		RequesterID:    blockerID,
		AddresseeID:    targetID,
		Status:         entities.StatusBlocked,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		logger.Error("block failed",
			"event", "relationship_block_failed",
			"module", "social-graph/relationship-service",
			"layer", "application",
			"blocker_id", blockerID,
			"target_id", targetID,
			"error", err.Error(),
		)
		return BlockActorResult{}, err
	}

	if err := uc.appendRelationshipEvent(ctx, "relationship.blocked", persisted, now); err != nil {
		return BlockActorResult{}, err
	}

	logger.Info("actor blocked",
		"event", "relationship_block_applied",
		"module", "social-graph/relationship-service",
		"layer", "application",
		"relationship_id", persisted.RelationshipID,
		"blocker_id", blockerID,
		"target_id", targetID,
	)
	return BlockActorResult{Relationship: persisted}, nil
}
