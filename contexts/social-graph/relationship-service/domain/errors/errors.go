package errors

import "errors"

var (
	ErrInvalidRequestInput   = errors.New("invalid relationship request input")
	ErrSelfRequest           = errors.New("requester and addressee are the same actor")
	ErrAlreadyFriends        = errors.New("actors are already friends")
	ErrRequestAlreadyPending = errors.New("a friend request is already pending between the actors")
	ErrSelfBlocked           = errors.New("requester has blocked the addressee")
	ErrBlockedByAddressee    = errors.New("addressee has blocked the requester")
	ErrRelationshipExists    = errors.New("a relationship already exists for the actor pair")
	ErrRelationshipNotFound  = errors.New("relationship not found")
	ErrRequestNotPending     = errors.New("friend request is not pending")
	ErrInvalidRespondAction  = errors.New("invalid respond action")
	ErrStoreUnavailable      = errors.New("relationship store unavailable")
)
