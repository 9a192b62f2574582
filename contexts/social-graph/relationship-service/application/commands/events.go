package commands

import (
	"context"
	"encoding/json"
	"time"

	"rookery/contexts/social-graph/relationship-service/domain/entities"
	"rookery/contexts/social-graph/relationship-service/ports"
)

func (uc RelationshipUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc RelationshipUseCase) appendRelationshipEvent(
	ctx context.Context,
	eventType string,
	relationship entities.Relationship,
	occurredAt time.Time,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newRelationshipEnvelope(eventID, eventType, relationship, occurredAt)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func newRelationshipEnvelope(
	eventID string,
	eventType string,
	relationship entities.Relationship,
	occurredAt time.Time,
) (ports.EventEnvelope, error) {
	// Events are partitioned by the canonical pair key for stable ordering on
	// pair-scoped consumers.
	low, high := entities.PairKey(relationship.RequesterID, relationship.AddresseeID)
	payload, err := json.Marshal(map[string]any{
		"relationship_id": relationship.RelationshipID,
		"requester_id":    relationship.RequesterID,
		"addressee_id":    relationship.AddresseeID,
		"status":          string(relationship.Status),
		"occurred_at":     occurredAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: "relationship-service",
		OccurredAt:    occurredAt.UTC(),
		SchemaVersion: 1,
		PartitionKey:  low + ":" + high,
		Data:          payload,
	}, nil
}
