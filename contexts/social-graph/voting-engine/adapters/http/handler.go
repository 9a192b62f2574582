package httpadapter

import (
	"context"
	"log/slog"

	"rookery/contexts/social-graph/voting-engine/application/commands"
	"rookery/contexts/social-graph/voting-engine/application/queries"
	"rookery/contexts/social-graph/voting-engine/domain/entities"
	httptransport "rookery/contexts/social-graph/voting-engine/transport/http"
)

type Handler struct {
	Votes   commands.VoteUseCase
	Queries queries.AggregateUseCase
	Logger  *slog.Logger
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	actorID string,
	subjectID string,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	result, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		SubjectID: subjectID,
		ActorID:   actorID,
		VoteType:  entities.VoteType(req.VoteType),
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		SubjectID: result.SubjectID,
		Action:    result.Action.String(),
		Upvotes:   result.Upvotes,
		Downvotes: result.Downvotes,
	}, nil
}

func (h Handler) SubjectVotesHandler(
	ctx context.Context,
	subjectID string,
) (httptransport.VoteAggregateResponse, error) {
	aggregate, err := h.Queries.SubjectVotes(ctx, subjectID)
	if err != nil {
		return httptransport.VoteAggregateResponse{}, err
	}
	return httptransport.VoteAggregateResponse{
		SubjectID: aggregate.SubjectID,
		Upvotes:   aggregate.Upvotes,
		Downvotes: aggregate.Downvotes,
	}, nil
}
