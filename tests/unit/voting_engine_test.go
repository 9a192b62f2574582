package unit

import (
	"context"
	"errors"
	"sync"
	"testing"

	votingengine "rookery/contexts/social-graph/voting-engine"
	domainerrors "rookery/contexts/social-graph/voting-engine/domain/errors"
	httptransport "rookery/contexts/social-graph/voting-engine/transport/http"
)

func TestCastVoteInsertToggleSwitch(t *testing.T) {
	module := votingengine.NewInMemoryModule([]string{"post-1"}, nil)

	first, err := module.Handler.CastVoteHandler(
		context.Background(),
		"alice",
		"post-1",
		httptransport.CastVoteRequest{VoteType: "up"},
	)
	if err != nil {
		t.Fatalf("first cast should succeed: %v", err)
	}
	if first.Action != "insert" || first.Upvotes != 1 || first.Downvotes != 0 {
		t.Fatalf("expected insert 1/0, got %+v", first)
	}

	// Same vote again toggles it off.
	second, err := module.Handler.CastVoteHandler(
		context.Background(),
		"alice",
		"post-1",
		httptransport.CastVoteRequest{VoteType: "up"},
	)
	if err != nil {
		t.Fatalf("toggle should succeed: %v", err)
	}
	if second.Action != "delete" || second.Upvotes != 0 || second.Downvotes != 0 {
		t.Fatalf("expected delete 0/0, got %+v", second)
	}

	// Vote again, then switch direction in place.
	if _, err := module.Handler.CastVoteHandler(
		context.Background(),
		"alice",
		"post-1",
		httptransport.CastVoteRequest{VoteType: "up"},
	); err != nil {
		t.Fatalf("re-insert should succeed: %v", err)
	}
	switched, err := module.Handler.CastVoteHandler(
		context.Background(),
		"alice",
		"post-1",
		httptransport.CastVoteRequest{VoteType: "down"},
	)
	if err != nil {
		t.Fatalf("switch should succeed: %v", err)
	}
	if switched.Action != "update" || switched.Upvotes != 0 || switched.Downvotes != 1 {
		t.Fatalf("expected update 0/1, got %+v", switched)
	}
}

func TestCastVoteUnknownSubject(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)

	_, err := module.Handler.CastVoteHandler(
		context.Background(),
		"alice",
		"post-missing",
		httptransport.CastVoteRequest{VoteType: "up"},
	)
	if !errors.Is(err, domainerrors.ErrSubjectNotFound) {
		t.Fatalf("expected ErrSubjectNotFound, got %v", err)
	}
}

func TestCastVoteInvalidType(t *testing.T) {
	module := votingengine.NewInMemoryModule([]string{"post-1"}, nil)

	for _, voteType := range []string{"", "sideways", "UP"} {
		_, err := module.Handler.CastVoteHandler(
			context.Background(),
			"alice",
			"post-1",
			httptransport.CastVoteRequest{VoteType: voteType},
		)
		if !errors.Is(err, domainerrors.ErrInvalidVoteInput) {
			t.Fatalf("vote type %q: expected ErrInvalidVoteInput, got %v", voteType, err)
		}
	}
}

func TestSubjectVotesAggregatesAcrossActors(t *testing.T) {
	module := votingengine.NewInMemoryModule([]string{"post-1"}, nil)

	casts := []struct {
		actor    string
		voteType string
	}{
		{"alice", "up"},
		{"bob", "up"},
		{"carol", "down"},
	}
	for _, cast := range casts {
		if _, err := module.Handler.CastVoteHandler(
			context.Background(),
			cast.actor,
			"post-1",
			httptransport.CastVoteRequest{VoteType: cast.voteType},
		); err != nil {
			t.Fatalf("cast by %s should succeed: %v", cast.actor, err)
		}
	}

	resp, err := module.Handler.SubjectVotesHandler(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("aggregate read should succeed: %v", err)
	}
	if resp.Upvotes != 2 || resp.Downvotes != 1 {
		t.Fatalf("expected 2/1, got %+v", resp)
	}
}

func TestSubjectVotesUnknownSubject(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)

	_, err := module.Handler.SubjectVotesHandler(context.Background(), "post-missing")
	if !errors.Is(err, domainerrors.ErrSubjectNotFound) {
		t.Fatalf("expected ErrSubjectNotFound, got %v", err)
	}
}

func TestConcurrentCastsKeepAggregateConsistent(t *testing.T) {
	module := votingengine.NewInMemoryModule([]string{"post-1"}, nil)

	// Each actor casts up three times: insert, toggle off, insert again.
	// Whatever the interleaving across actors, every actor ends with one
	// upvote on the board.
	const actors = 10
	var wg sync.WaitGroup
	for i := 0; i < actors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := string(rune('a'+i)) + "-voter"
			for j := 0; j < 3; j++ {
				if _, err := module.Handler.CastVoteHandler(
					context.Background(),
					actor,
					"post-1",
					httptransport.CastVoteRequest{VoteType: "up"},
				); err != nil {
					t.Errorf("cast by %s failed: %v", actor, err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	resp, err := module.Handler.SubjectVotesHandler(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("aggregate read should succeed: %v", err)
	}
	if resp.Upvotes != actors || resp.Downvotes != 0 {
		t.Fatalf("expected %d/0, got %+v", actors, resp)
	}
}
