package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "rookery/contexts/social-graph/voting-engine/application"
	"rookery/contexts/social-graph/voting-engine/domain/entities"
	domainerrors "rookery/contexts/social-graph/voting-engine/domain/errors"
	"rookery/contexts/social-graph/voting-engine/ports"
)

// CastVoteCommand is the write-model input for vote casting. ActorID arrives
// authenticated; VoteType shape is validated upstream but re-checked as a
// business invariant.
type CastVoteCommand struct {
	SubjectID string
	ActorID   string
	VoteType  entities.VoteType
}

// CastVoteResult returns the action taken plus the aggregate recomputed
// inside the mutation's transaction. Counts always match persisted rows.
type CastVoteResult struct {
	SubjectID string
	Action    entities.VoteAction
	Upvotes   int
	Downvotes int
}

type VoteUseCase struct {
	Votes  ports.VoteRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// CastVote applies the toggle/switch/insert transition for the (subject,
// actor) pair and returns fresh counts. Every failure is terminal for the
// call; the caller may resubmit.
func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	subjectID := strings.TrimSpace(cmd.SubjectID)
	actorID := strings.TrimSpace(cmd.ActorID)
	logger.Info("vote cast processing started",
		"event", "voting_cast_started",
		"module", "social-graph/voting-engine",
		"layer", "application",
		"subject_id", subjectID,
		"actor_id", actorID,
		"vote_type", string(cmd.VoteType),
	)
	if subjectID == "" || actorID == "" || !cmd.VoteType.Valid() {
		logger.Warn("vote cast validation failed",
			"event", "voting_cast_validation_failed",
			"module", "social-graph/voting-engine",
			"layer", "application",
			"subject_id", subjectID,
			"actor_id", actorID,
			"vote_type", string(cmd.VoteType),
		)
		return CastVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}

	result, err := uc.Votes.ApplyVote(ctx, ports.ApplyVoteInput{
		SubjectID: subjectID,
		ActorID:   actorID,
		VoteType:  cmd.VoteType,
		NewVoteID: voteID,
		Now:       uc.now(),
	})
	if err != nil {
		logger.Warn("vote cast rejected",
			"event", "voting_cast_rejected",
			"module", "social-graph/voting-engine",
			"layer", "application",
			"subject_id", subjectID,
			"actor_id", actorID,
			"error", err.Error(),
		)
		return CastVoteResult{}, err
	}

	logger.Info("vote cast applied",
		"event", "voting_cast_applied",
		"module", "social-graph/voting-engine",
		"layer", "application",
		"subject_id", subjectID,
		"actor_id", actorID,
		"action", result.Action.String(),
		"upvotes", result.Aggregate.Upvotes,
		"downvotes", result.Aggregate.Downvotes,
	)
	return CastVoteResult{
		SubjectID: result.Aggregate.SubjectID,
		Action:    result.Action,
		Upvotes:   result.Aggregate.Upvotes,
		Downvotes: result.Aggregate.Downvotes,
	}, nil
}

func (uc VoteUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
