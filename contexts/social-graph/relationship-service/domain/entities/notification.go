package entities

import "time"

const (
	NotificationKindRelationshipRequest  = "relationship-request"
	NotificationKindRelationshipAccepted = "relationship-accepted"
)

// Notification is an append-only side-effect record persisted in the same
// transaction as the relationship mutation that produced it.
type Notification struct {
	NotificationID string
	RecipientID    string
	Kind           string
	Title          string
	Body           string
	Payload        map[string]any
	Read           bool
	CreatedAt      time.Time
}
