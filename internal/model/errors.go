package model

import "errors"

var (
	// ErrNotFound is returned by stores when no row matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned by stores when a write violates a uniqueness
	// constraint, e.g. two senders racing to claim the same card ID.
	ErrDuplicate = errors.New("duplicate")
)
