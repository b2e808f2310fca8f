package core

import "errors"

var (
	// ErrInvalidInput indicates malformed input that was rejected before any mutation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound indicates that the referenced entity does not exist.
	ErrNotFound = errors.New("entity does not exist")
	// ErrConflict indicates a uniqueness violation, e.g. a duplicate e-mail address.
	ErrConflict = errors.New("entity already exists")
	// ErrInvalidOperation is the catch-all for storage failures that fit no other kind.
	ErrInvalidOperation = errors.New("invalid operation")
)
