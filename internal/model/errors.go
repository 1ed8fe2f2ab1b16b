package model

import "errors"

// Sentinel errors mapped to HTTP statuses at the handler layer.
var (
	ErrNotFound            = errors.New("not found")
	ErrNoSubscription      = errors.New("no subscription for organization")
	ErrSubscriptionExpired = errors.New("subscription expired")
	ErrNotMember           = errors.New("caller is not a member of the organization")
	ErrForbidden           = errors.New("operation not permitted for this role")
	ErrSeatLimitReached    = errors.New("seat limit reached")
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvitationExpired   = errors.New("invitation expired")
)
