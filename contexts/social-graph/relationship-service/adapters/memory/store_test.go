package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"rookery/contexts/social-graph/relationship-service/domain/entities"
	domainerrors "rookery/contexts/social-graph/relationship-service/domain/errors"
)

func TestCreateRequestRevivesRejectedRow(t *testing.T) {
	store := NewStore([]entities.Relationship{
		{
			RelationshipID: "rel-1",
			RequesterID:    "alice",
			AddresseeID:    "bob",
			Status:         entities.StatusRejected,
			CreatedAt:      time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			UpdatedAt:      time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
	})

	now := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	created, err := store.CreateRequest(context.Background(),
		entities.Relationship{
			RelationshipID: "rel-new",
			RequesterID:    "bob",
			AddresseeID:    "alice",
			Status:         entities.StatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		entities.Notification{NotificationID: "ntf-1", RecipientID: "alice"},
	)
	if err != nil {
		t.Fatalf("create over rejected row failed: %v", err)
	}

	// The original row is reused; the pair never gets a second row.
	if created.RelationshipID != "rel-1" {
		t.Fatalf("expected revived row rel-1, got %s", created.RelationshipID)
	}
	if created.Status != entities.StatusPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}
	if created.RequesterID != "bob" {
		t.Fatalf("requester side must follow the new request, got %s", created.RequesterID)
	}
	if rows := store.Relationships(); len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
}

func TestCreateRequestConflictLeavesNoNotification(t *testing.T) {
	store := NewStore([]entities.Relationship{
		{
			RelationshipID: "rel-1",
			RequesterID:    "alice",
			AddresseeID:    "bob",
			Status:         entities.StatusAccepted,
		},
	})

	_, err := store.CreateRequest(context.Background(),
		entities.Relationship{
			RelationshipID: "rel-new",
			RequesterID:    "bob",
			AddresseeID:    "alice",
			Status:         entities.StatusPending,
		},
		entities.Notification{NotificationID: "ntf-1", RecipientID: "alice"},
	)
	if !errors.Is(err, domainerrors.ErrAlreadyFriends) {
		t.Fatalf("expected ErrAlreadyFriends, got %v", err)
	}
	if len(store.Notifications()) != 0 {
		t.Fatalf("conflict must not append a notification")
	}
}

func TestResolveRequestChecksDirectionAndState(t *testing.T) {
	store := NewStore([]entities.Relationship{
		{
			RelationshipID: "rel-1",
			RequesterID:    "alice",
			AddresseeID:    "bob",
			Status:         entities.StatusPending,
		},
	})
	now := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	// The requester cannot accept their own request.
	_, err := store.ResolveRequest(context.Background(), "alice", "bob",
		entities.StatusAccepted, nil, now)
	if !errors.Is(err, domainerrors.ErrRelationshipNotFound) {
		t.Fatalf("expected ErrRelationshipNotFound for wrong direction, got %v", err)
	}

	accepted, err := store.ResolveRequest(context.Background(), "bob", "alice",
		entities.StatusAccepted, &entities.Notification{NotificationID: "ntf-1", RecipientID: "alice"}, now)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != entities.StatusAccepted {
		t.Fatalf("expected accepted, got %s", accepted.Status)
	}

	// Already resolved.
	_, err = store.ResolveRequest(context.Background(), "bob", "alice",
		entities.StatusAccepted, nil, now)
	if !errors.Is(err, domainerrors.ErrRequestNotPending) {
		t.Fatalf("expected ErrRequestNotPending, got %v", err)
	}
}

func TestUpsertBlockOverridesExistingState(t *testing.T) {
	store := NewStore([]entities.Relationship{
		{
			RelationshipID: "rel-1",
			RequesterID:    "alice",
			AddresseeID:    "bob",
			Status:         entities.StatusAccepted,
		},
	})
	now := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	blocked, err := store.UpsertBlock(context.Background(), entities.Relationship{
		RelationshipID: "rel-new",
		RequesterID:    "bob",
		AddresseeID:    "alice",
		Status:         entities.StatusBlocked,
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatalf("block failed: %v", err)
	}
	if blocked.RelationshipID != "rel-1" {
		t.Fatalf("block must reuse the pair row, got %s", blocked.RelationshipID)
	}
	if blocked.Status != entities.StatusBlocked || blocked.RequesterID != "bob" {
		t.Fatalf("expected blocked by bob, got %+v", blocked)
	}
}

func TestGetByPairIsDirectionless(t *testing.T) {
	store := NewStore([]entities.Relationship{
		{
			RelationshipID: "rel-1",
			RequesterID:    "alice",
			AddresseeID:    "bob",
			Status:         entities.StatusPending,
		},
	})

	forward, okForward, err := store.GetByPair(context.Background(), "alice", "bob")
	if err != nil || !okForward {
		t.Fatalf("forward lookup failed: ok=%v err=%v", okForward, err)
	}
	reverse, okReverse, err := store.GetByPair(context.Background(), "bob", "alice")
	if err != nil || !okReverse {
		t.Fatalf("reverse lookup failed: ok=%v err=%v", okReverse, err)
	}
	if forward.RelationshipID != reverse.RelationshipID {
		t.Fatalf("expected same row both directions")
	}
}
