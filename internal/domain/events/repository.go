package events

import "context"

// Repository is the event table adapter. Every keyed operation is scoped to
// the owner partition; cross-partition access is impossible through this
// interface.
type Repository interface {
	// Put stores a full event record.
	Put(ctx context.Context, event Event) error

	// ListByOwner returns every event in the owner's partition.
	ListByOwner(ctx context.Context, ownerEmail string) ([]Event, error)

	// ApplyPatch applies a sparse patch to the event at (ownerEmail,
	// eventID), sets updatedAt, and returns the post-update record. The
	// write is conditional on the key existing; a missing or foreign key
	// fails with ErrNotFound without mutating anything.
	ApplyPatch(ctx context.Context, ownerEmail, eventID string, patch Patch, updatedAt int64) (*Event, error)

	// Delete removes the event at (ownerEmail, eventID). Deleting a key
	// that does not exist is not an error.
	Delete(ctx context.Context, ownerEmail, eventID string) error

	// ScanAll reads the entire table across all owners, invoking fn once
	// per page until exhaustion. fn returning an error stops the scan.
	ScanAll(ctx context.Context, fn func(page []Event) error) error
}
