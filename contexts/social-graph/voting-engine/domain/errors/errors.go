package errors

import "errors"

var (
	ErrInvalidVoteInput = errors.New("invalid vote input")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrDuplicateVote    = errors.New("a vote already exists for the actor and subject")
	ErrStoreUnavailable = errors.New("vote store unavailable")
)
