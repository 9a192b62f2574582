package entities

import (
	"errors"
	"testing"

	domainerrors "rookery/contexts/social-graph/relationship-service/domain/errors"
)

func TestPairKeyCanonicalOrder(t *testing.T) {
	lowAB, highAB := PairKey("alice", "bob")
	lowBA, highBA := PairKey("bob", "alice")
	if lowAB != lowBA || highAB != highBA {
		t.Fatalf("pair key not canonical: (%s,%s) vs (%s,%s)", lowAB, highAB, lowBA, highBA)
	}
	if lowAB != "alice" || highAB != "bob" {
		t.Fatalf("expected (alice,bob), got (%s,%s)", lowAB, highAB)
	}
}

func TestPairKeyTrimsWhitespace(t *testing.T) {
	low, high := PairKey("  bob ", " alice  ")
	if low != "alice" || high != "bob" {
		t.Fatalf("expected trimmed (alice,bob), got (%s,%s)", low, high)
	}
}

func TestRequestConflictBranchOrder(t *testing.T) {
	cases := []struct {
		name        string
		existing    Relationship
		requesterID string
		want        error
	}{
		{
			name:     "accepted pair",
			existing: Relationship{RequesterID: "alice", AddresseeID: "bob", Status: StatusAccepted},
			want:     domainerrors.ErrAlreadyFriends,
		},
		{
			name:     "pending request from either side",
			existing: Relationship{RequesterID: "bob", AddresseeID: "alice", Status: StatusPending},
			want:     domainerrors.ErrRequestAlreadyPending,
		},
		{
			name:        "requester owns the block",
			existing:    Relationship{RequesterID: "alice", AddresseeID: "bob", Status: StatusBlocked},
			requesterID: "alice",
			want:        domainerrors.ErrSelfBlocked,
		},
		{
			name:        "other side owns the block",
			existing:    Relationship{RequesterID: "bob", AddresseeID: "alice", Status: StatusBlocked},
			requesterID: "alice",
			want:        domainerrors.ErrBlockedByAddressee,
		},
		{
			name:     "rejected row does not forbid a new request",
			existing: Relationship{RequesterID: "alice", AddresseeID: "bob", Status: StatusRejected},
			want:     nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			requesterID := tc.requesterID
			if requesterID == "" {
				requesterID = "alice"
			}
			got := RequestConflict(tc.existing, requesterID)
			if !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRequestConflictAcceptedWinsOverBlockDirection(t *testing.T) {
	// Status drives the branch; an accepted row reports friendship no matter
	// which side asks again.
	existing := Relationship{RequesterID: "bob", AddresseeID: "alice", Status: StatusAccepted}
	if err := RequestConflict(existing, "alice"); !errors.Is(err, domainerrors.ErrAlreadyFriends) {
		t.Fatalf("expected ErrAlreadyFriends, got %v", err)
	}
	if err := RequestConflict(existing, "bob"); !errors.Is(err, domainerrors.ErrAlreadyFriends) {
		t.Fatalf("expected ErrAlreadyFriends, got %v", err)
	}
}

func TestInvolves(t *testing.T) {
	relationship := Relationship{RequesterID: "alice", AddresseeID: "bob"}
	if !relationship.Involves("alice") || !relationship.Involves("bob") {
		t.Fatalf("expected both sides involved")
	}
	if relationship.Involves("carol") {
		t.Fatalf("carol is not involved")
	}
}
