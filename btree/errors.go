package btree

import "errors"

var (
	// ErrInvalidConfig signals an invalid tree configuration.
	ErrInvalidConfig = errors.New("btree: invalid configuration")
	// ErrCorruptTree signals that a structural invariant does not hold.
	ErrCorruptTree = errors.New("btree: corrupt tree")
)
