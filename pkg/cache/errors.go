package cache

import "errors"

var (
	// ErrInvalidMaxSize is returned when a cache is constructed with a negative bound.
	ErrInvalidMaxSize = errors.New("cache max size must not be negative")

	// ErrInvalidGuardConfig is returned by NewGuard for a non-positive interval or
	// a trim fraction outside (0, 1].
	ErrInvalidGuardConfig = errors.New("invalid memory guard configuration")
)
