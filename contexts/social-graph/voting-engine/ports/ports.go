package ports

import (
	"context"
	"time"

	"rookery/contexts/social-graph/voting-engine/domain/entities"
)

// ApplyVoteInput carries a decided cast into the repository. The repository
// re-reads the current vote under its transaction and applies the domain
// transition table, so two racing casts on the same (subject, actor) pair
// serialize instead of both inserting.
type ApplyVoteInput struct {
	SubjectID string
	ActorID   string
	VoteType  entities.VoteType
	NewVoteID string
	Now       time.Time
}

// ApplyVoteResult reports the action taken and the aggregate recomputed from
// rows inside the same transaction.
type ApplyVoteResult struct {
	Action    entities.VoteAction
	Aggregate entities.VoteAggregate
}

// VoteRepository owns vote rows and the subject projection used for the
// existence check. ApplyVote is one atomic unit: subject check, vote read,
// transition write, and aggregate recount commit or roll back together.
type VoteRepository interface {
	ApplyVote(ctx context.Context, input ApplyVoteInput) (ApplyVoteResult, error)
	GetVoteByIdentity(ctx context.Context, subjectID string, actorID string) (entities.Vote, bool, error)
	CountVotes(ctx context.Context, subjectID string) (entities.VoteAggregate, error)
	SubjectExists(ctx context.Context, subjectID string) (bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
