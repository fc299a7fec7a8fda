package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrMissingInput = errors.New("missing input")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrDelivery     = errors.New("delivery failed")
	ErrPersistence  = errors.New("persistence failure")

	// ErrInvalidOTP means no code is on record for the address.
	ErrInvalidOTP = errors.New("invalid otp")
	// ErrInvalidOrExpiredOTP covers both a wrong code and an expired one.
	// The two cases are never reported separately.
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired otp")

	// ErrFriendCodeTaken means an insert lost a race for its friend code.
	ErrFriendCodeTaken   = errors.New("friend code taken")
	ErrKeyspaceExhausted = errors.New("friend code keyspace exhausted")
)
