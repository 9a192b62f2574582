package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"rookery/contexts/social-graph/relationship-service/domain/entities"
	domainerrors "rookery/contexts/social-graph/relationship-service/domain/errors"
	"rookery/contexts/social-graph/relationship-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory repository used by tests and local wiring. One
// mutex guards every mutation, which gives each repository call the same
// all-or-nothing visibility the postgres adapter gets from a transaction.
type Store struct {
	mu sync.Mutex

	relationships map[string]entities.Relationship
	notifications []entities.Notification
	outbox        map[string]outboxRecord
}

func NewStore(seed []entities.Relationship) *Store {
	relationships := make(map[string]entities.Relationship, len(seed))
	for _, relationship := range seed {
		relationships[pairKeyOf(relationship)] = relationship
	}
	return &Store{
		relationships: relationships,
		outbox:        make(map[string]outboxRecord),
	}
}

func (s *Store) CreateRequest(
	_ context.Context,
	relationship entities.Relationship,
	notification entities.Notification,
) (entities.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKeyOf(relationship)
	if existing, ok := s.relationships[key]; ok {
		if err := entities.RequestConflict(existing, relationship.RequesterID); err != nil {
			return entities.Relationship{}, err
		}
		existing.RequesterID = strings.TrimSpace(relationship.RequesterID)
		existing.AddresseeID = strings.TrimSpace(relationship.AddresseeID)
		existing.Status = entities.StatusPending
		existing.UpdatedAt = relationship.UpdatedAt.UTC()
		s.relationships[key] = existing
		s.notifications = append(s.notifications, notification)
		return existing, nil
	}

	s.relationships[key] = relationship
	s.notifications = append(s.notifications, notification)
	return relationship, nil
}

func (s *Store) ResolveRequest(
	_ context.Context,
	addresseeID string,
	requesterID string,
	toStatus entities.RelationshipStatus,
	notification *entities.Notification,
	now time.Time,
) (entities.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	low, high := entities.PairKey(addresseeID, requesterID)
	existing, ok := s.relationships[low+"|"+high]
	if !ok {
		return entities.Relationship{}, domainerrors.ErrRelationshipNotFound
	}
	if existing.AddresseeID != strings.TrimSpace(addresseeID) || existing.RequesterID != strings.TrimSpace(requesterID) {
		return entities.Relationship{}, domainerrors.ErrRelationshipNotFound
	}
	if existing.Status != entities.StatusPending {
		return entities.Relationship{}, domainerrors.ErrRequestNotPending
	}

	existing.Status = toStatus
	existing.UpdatedAt = now.UTC()
	s.relationships[low+"|"+high] = existing
	if notification != nil {
		s.notifications = append(s.notifications, *notification)
	}
	return existing, nil
}

func (s *Store) UpsertBlock(_ context.Context, block entities.Relationship) (entities.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKeyOf(block)
	if existing, ok := s.relationships[key]; ok {
		existing.RequesterID = strings.TrimSpace(block.RequesterID)
		existing.AddresseeID = strings.TrimSpace(block.AddresseeID)
		existing.Status = entities.StatusBlocked
		existing.UpdatedAt = block.UpdatedAt.UTC()
		s.relationships[key] = existing
		return existing, nil
	}
	s.relationships[key] = block
	return block, nil
}

func (s *Store) GetByPair(_ context.Context, actorA string, actorB string) (entities.Relationship, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	low, high := entities.PairKey(actorA, actorB)
	relationship, ok := s.relationships[low+"|"+high]
	if !ok {
		return entities.Relationship{}, false, nil
	}
	return relationship, true, nil
}

func (s *Store) ListByActor(
	_ context.Context,
	actorID string,
	status entities.RelationshipStatus,
) ([]entities.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	actorID = strings.TrimSpace(actorID)
	items := make([]entities.Relationship, 0)
	for _, relationship := range s.relationships {
		if !relationship.Involves(actorID) {
			continue
		}
		if status != "" && relationship.Status != status {
			continue
		}
		items = append(items, relationship)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
	return items, nil
}

func (s *Store) ListByRecipient(_ context.Context, recipientID string) ([]entities.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipientID = strings.TrimSpace(recipientID)
	items := make([]entities.Notification, 0)
	for _, notification := range s.notifications {
		if notification.RecipientID == recipientID {
			items = append(items, notification)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// Notifications returns every stored notification; test helper.
func (s *Store) Notifications() []entities.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Notification(nil), s.notifications...)
}

// Relationships returns every stored relationship row; test helper.
func (s *Store) Relationships() []entities.Relationship {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Relationship, 0, len(s.relationships))
	for _, relationship := range s.relationships {
		items = append(items, relationship)
	}
	return items
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.message.Payload, payload) {
			return domainerrors.ErrRelationshipExists
		}
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrRelationshipNotFound
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func pairKeyOf(relationship entities.Relationship) string {
	low, high := entities.PairKey(relationship.RequesterID, relationship.AddresseeID)
	return low + "|" + high
}
