package entities

import (
	"strings"
	"time"

	domainerrors "rookery/contexts/social-graph/relationship-service/domain/errors"
)

type RelationshipStatus string

const (
	StatusPending  RelationshipStatus = "pending"
	StatusAccepted RelationshipStatus = "accepted"
	StatusBlocked  RelationshipStatus = "blocked"
	StatusRejected RelationshipStatus = "rejected"
)

// Relationship is the single row kept per unordered actor pair. RequesterID
// records which side initiated the current status (the sender of a pending
// request, the blocker of a blocked pair).
type Relationship struct {
	RelationshipID string
	RequesterID    string
	AddresseeID    string
	Status         RelationshipStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Involves reports whether the actor appears on either side of the pair.
func (r Relationship) Involves(actorID string) bool {
	actorID = strings.TrimSpace(actorID)
	return r.RequesterID == actorID || r.AddresseeID == actorID
}

// PairKey canonicalizes an unordered actor pair by lexicographic order, so
// (A,B) and (B,A) map to the same storage key.
func PairKey(a string, b string) (string, string) {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a > b {
		return b, a
	}
	return a, b
}

// RequestConflict evaluates the existing row against a new request from
// requesterID. Branch order is fixed: accepted, pending, blocked by the
// requester, blocked by the other side. A nil result means no row state
// forbids the request.
func RequestConflict(existing Relationship, requesterID string) error {
	switch existing.Status {
	case StatusAccepted:
		return domainerrors.ErrAlreadyFriends
	case StatusPending:
		return domainerrors.ErrRequestAlreadyPending
	case StatusBlocked:
		if existing.RequesterID == strings.TrimSpace(requesterID) {
			return domainerrors.ErrSelfBlocked
		}
		return domainerrors.ErrBlockedByAddressee
	default:
		return nil
	}
}
