package queries

import (
	"context"
	"strings"

	"rookery/contexts/social-graph/voting-engine/domain/entities"
	domainerrors "rookery/contexts/social-graph/voting-engine/domain/errors"
	"rookery/contexts/social-graph/voting-engine/ports"
)

type AggregateUseCase struct {
	Votes ports.VoteRepository
}

// SubjectVotes recomputes the aggregate from persisted rows. Nothing is
// cached between calls.
func (uc AggregateUseCase) SubjectVotes(ctx context.Context, subjectID string) (entities.VoteAggregate, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return entities.VoteAggregate{}, domainerrors.ErrInvalidVoteInput
	}
	exists, err := uc.Votes.SubjectExists(ctx, subjectID)
	if err != nil {
		return entities.VoteAggregate{}, err
	}
	if !exists {
		return entities.VoteAggregate{}, domainerrors.ErrSubjectNotFound
	}
	return uc.Votes.CountVotes(ctx, subjectID)
}
