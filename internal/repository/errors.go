package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the store.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert collides with a unique key
// (for example a second waitlist entry for the same email).
var ErrDuplicate = errors.New("duplicate record")
