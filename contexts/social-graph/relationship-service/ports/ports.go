package ports

import (
	"context"
	"encoding/json"
	"time"

	"rookery/contexts/social-graph/relationship-service/domain/entities"
)

// RelationshipRepository owns the relationship rows and their paired
// notification side effects. Every mutating method runs as one atomic unit:
// the pair lookup, the state decision, the row write, and the notification
// append either all commit or all roll back.
type RelationshipRepository interface {
	// CreateRequest applies the request conflict policy against the current
	// unordered-pair state and persists the pending relationship together
	// with its notification. A racing insert on the same pair surfaces as
	// ErrRelationshipExists.
	CreateRequest(ctx context.Context, relationship entities.Relationship, notification entities.Notification) (entities.Relationship, error)

	// ResolveRequest transitions the pending request addressed to addresseeID
	// from requesterID into toStatus (accepted or rejected). The optional
	// notification is appended in the same transaction.
	ResolveRequest(
		ctx context.Context,
		addresseeID string,
		requesterID string,
		toStatus entities.RelationshipStatus,
		notification *entities.Notification,
		now time.Time,
	) (entities.Relationship, error)

	// UpsertBlock forces the pair row into blocked state with the block
	// direction recorded on the requester side, creating the row when the
	// pair has no history.
	UpsertBlock(ctx context.Context, block entities.Relationship) (entities.Relationship, error)

	GetByPair(ctx context.Context, actorA string, actorB string) (entities.Relationship, bool, error)
	ListByActor(ctx context.Context, actorID string, status entities.RelationshipStatus) ([]entities.Relationship, error)
}

type NotificationRepository interface {
	ListByRecipient(ctx context.Context, recipientID string) ([]entities.Notification, error)
}

type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SourceService string          `json:"source_service"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SchemaVersion int             `json:"schema_version"`
	PartitionKey  string          `json:"partition_key"`
	Data          json.RawMessage `json:"data"`
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
