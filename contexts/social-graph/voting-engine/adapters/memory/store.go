package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"rookery/contexts/social-graph/voting-engine/domain/entities"
	domainerrors "rookery/contexts/social-graph/voting-engine/domain/errors"
	"rookery/contexts/social-graph/voting-engine/ports"
)

// Store is an in-memory vote repository used by tests and local wiring.
// A single mutex gives it the same all-or-nothing behavior per call that
// the postgres adapter gets from a transaction.
type Store struct {
	mu       sync.Mutex
	votes    map[string]entities.Vote // keyed by subjectID+"|"+actorID
	subjects map[string]struct{}
	now      time.Time
	idSeq    int
}

func NewStore() *Store {
	return &Store{
		votes:    make(map[string]entities.Vote),
		subjects: make(map[string]struct{}),
		now:      time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *Store) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idSeq++
	return fmt.Sprintf("vote-%06d", s.idSeq), nil
}

// SetSubject registers a votable subject. Tests seed subjects through this
// before casting votes against them.
func (s *Store) SetSubject(subjectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects[strings.TrimSpace(subjectID)] = struct{}{}
}

func (s *Store) ApplyVote(_ context.Context, input ports.ApplyVoteInput) (ports.ApplyVoteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjectID := strings.TrimSpace(input.SubjectID)
	actorID := strings.TrimSpace(input.ActorID)
	if _, ok := s.subjects[subjectID]; !ok {
		return ports.ApplyVoteResult{}, domainerrors.ErrSubjectNotFound
	}

	key := voteKey(subjectID, actorID)
	existing, hasExisting := s.votes[key]
	action := entities.DecideTransition(existing.VoteType, hasExisting, input.VoteType)
	now := input.Now.UTC()
	switch action {
	case entities.VoteActionInsert:
		s.votes[key] = entities.Vote{
			VoteID:    strings.TrimSpace(input.NewVoteID),
			SubjectID: subjectID,
			ActorID:   actorID,
			VoteType:  input.VoteType,
			CreatedAt: now,
			UpdatedAt: now,
		}
	case entities.VoteActionDelete:
		delete(s.votes, key)
	case entities.VoteActionUpdate:
		existing.VoteType = input.VoteType
		existing.UpdatedAt = now
		s.votes[key] = existing
	}

	return ports.ApplyVoteResult{
		Action:    action,
		Aggregate: s.countLocked(subjectID),
	}, nil
}

func (s *Store) GetVoteByIdentity(_ context.Context, subjectID string, actorID string) (entities.Vote, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vote, ok := s.votes[voteKey(strings.TrimSpace(subjectID), strings.TrimSpace(actorID))]
	return vote, ok, nil
}

func (s *Store) CountVotes(_ context.Context, subjectID string) (entities.VoteAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked(strings.TrimSpace(subjectID)), nil
}

func (s *Store) SubjectExists(_ context.Context, subjectID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.subjects[strings.TrimSpace(subjectID)]
	return ok, nil
}

func (s *Store) countLocked(subjectID string) entities.VoteAggregate {
	aggregate := entities.VoteAggregate{SubjectID: subjectID}
	for _, vote := range s.votes {
		if vote.SubjectID != subjectID {
			continue
		}
		switch vote.VoteType {
		case entities.VoteTypeUp:
			aggregate.Upvotes++
		case entities.VoteTypeDown:
			aggregate.Downvotes++
		}
	}
	return aggregate
}

func voteKey(subjectID string, actorID string) string {
	return subjectID + "|" + actorID
}

var (
	_ ports.VoteRepository = (*Store)(nil)
	_ ports.Clock          = (*Store)(nil)
	_ ports.IDGenerator    = (*Store)(nil)
)
