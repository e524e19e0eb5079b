package store

import "errors"

var (
	// ErrNotFound is returned when no entity exists at (partition, row).
	ErrNotFound = errors.New("store: entity not found")

	// ErrAlreadyExists is returned when creating an entity whose (partition, row) is taken.
	ErrAlreadyExists = errors.New("store: entity already exists")

	// ErrVersionConflict is returned when an update carries a stale version tag.
	ErrVersionConflict = errors.New("store: entity was modified concurrently")

	// ErrBadVersionTag is returned when a caller-supplied version tag cannot be parsed.
	ErrBadVersionTag = errors.New("store: malformed version tag")
)
