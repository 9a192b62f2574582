package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CastVoteRequest struct {
	VoteType string `json:"vote_type"`
}

type CastVoteResponse struct {
	SubjectID string `json:"subject_id"`
	Action    string `json:"action"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
}

type VoteAggregateResponse struct {
	SubjectID string `json:"subject_id"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
}
