package entities

import "time"

type VoteType string

const (
	VoteTypeUp   VoteType = "up"
	VoteTypeDown VoteType = "down"
)

func (t VoteType) Valid() bool {
	return t == VoteTypeUp || t == VoteTypeDown
}

// Vote is the single row kept per (subject, actor) pair.
type Vote struct {
	VoteID    string
	SubjectID string
	ActorID   string
	VoteType  VoteType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VoteAction is the storage action a cast decision resolves to.
type VoteAction int

const (
	VoteActionInsert VoteAction = iota
	VoteActionDelete
	VoteActionUpdate
)

func (a VoteAction) String() string {
	switch a {
	case VoteActionInsert:
		return "insert"
	case VoteActionDelete:
		return "delete"
	case VoteActionUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// DecideTransition is the cast-vote transition table. Re-submitting the
// current choice toggles the vote off; a different choice switches it in
// place; no prior vote inserts. Toggle, not set: repeating the same vote
// type oscillates.
func DecideTransition(existing VoteType, hasExisting bool, incoming VoteType) VoteAction {
	switch {
	case !hasExisting:
		return VoteActionInsert
	case existing == incoming:
		return VoteActionDelete
	default:
		return VoteActionUpdate
	}
}

// VoteAggregate is derived by counting persisted rows; it is never stored.
type VoteAggregate struct {
	SubjectID string
	Upvotes   int
	Downvotes int
}
