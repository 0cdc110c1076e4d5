package types

import "errors"

// Every ledger operation failure wraps one of these, use errors.Is to
// classify. None of them is transient: retrying the same call against the
// same state fails the same way.
var (
	ErrZeroAddress         = errors.New("zero address")
	ErrNotFound            = errors.New("not found")
	ErrNotOwner            = errors.New("not owner")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrLengthMismatch      = errors.New("length mismatch")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrReceiverRejected    = errors.New("receiver rejected")
)
