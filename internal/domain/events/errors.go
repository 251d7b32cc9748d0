package events

import "errors"

var (
	// ErrValidation is returned when caller input is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when an event does not exist in the owner's
	// partition. A foreign owner's eventId maps here too: the composite key
	// never matches, so the caller cannot tell the record exists at all.
	ErrNotFound = errors.New("event not found")
)
