package repository

import "errors"

var (
	// ErrInvalidTimezone is returned when a zone's stored timezone cannot
	// be loaded.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrZoneNotFound is returned when a bidding zone code is unknown.
	ErrZoneNotFound = errors.New("zone not found")

	// ErrFetchLogNotFound is returned when a fetch log id does not exist.
	ErrFetchLogNotFound = errors.New("fetch log not found")
	// ErrAlreadyCompleted is returned when completing a fetch log twice.
	ErrAlreadyCompleted = errors.New("fetch log already completed")
)
