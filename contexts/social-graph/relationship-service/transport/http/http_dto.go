package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SendRequestRequest struct {
	AddresseeID string `json:"addressee_id"`
}

type RespondRequestRequest struct {
	Action string `json:"action"`
}

type BlockActorRequest struct {
	TargetID string `json:"target_id"`
}

type RelationshipResponse struct {
	RelationshipID string `json:"relationship_id"`
	RequesterID    string `json:"requester_id"`
	AddresseeID    string `json:"addressee_id"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type RelationshipListResponse struct {
	Items []RelationshipResponse `json:"items"`
}

type NotificationResponse struct {
	NotificationID string         `json:"notification_id"`
	RecipientID    string         `json:"recipient_id"`
	Kind           string         `json:"kind"`
	Title          string         `json:"title"`
	Body           string         `json:"body"`
	Payload        map[string]any `json:"payload"`
	Read           bool           `json:"read"`
	CreatedAt      string         `json:"created_at"`
}

type NotificationListResponse struct {
	Items []NotificationResponse `json:"items"`
}
