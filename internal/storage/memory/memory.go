// Package memory provides in-process store adapters with the same contract
// as the DynamoDB adapters: atomic insert-if-absent on users, key-scoped
// conditional patch on events, paginated full scan. Used by tests and local
// development.
package memory

import (
	"context"
	"sync"

	"github.com/planora/server/internal/domain/events"
	"github.com/planora/server/internal/domain/users"
)

// scanPageSize is deliberately small so tests exercise pagination.
const scanPageSize = 25

// UserRepository is a mutex-guarded map of users keyed by email.
type UserRepository struct {
	mu    sync.Mutex
	users map[string]users.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]users.User)}
}

// Create inserts the record iff the email is absent. Check and insert
// happen under one lock, mirroring the conditional write of the production
// adapter.
func (r *UserRepository) Create(_ context.Context, user users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Email]; ok {
		return users.ErrUserExists
	}
	r.users[user.Email] = user
	return nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[email]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return &user, nil
}

// EventRepository keeps per-owner event slices in insertion order, which is
// the tie-break order the event listing contract requires.
type EventRepository struct {
	mu sync.Mutex
	// byOwner preserves insertion order within a partition.
	byOwner map[string][]events.Event
	// owners preserves partition discovery order for stable scans.
	owners []string
}

func NewEventRepository() *EventRepository {
	return &EventRepository{byOwner: make(map[string][]events.Event)}
}

func (r *EventRepository) Put(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	partition := r.byOwner[event.OwnerEmail]
	for i := range partition {
		if partition[i].EventID == event.EventID {
			partition[i] = event
			return nil
		}
	}
	if len(partition) == 0 {
		r.owners = append(r.owners, event.OwnerEmail)
	}
	r.byOwner[event.OwnerEmail] = append(partition, event)
	return nil
}

func (r *EventRepository) ListByOwner(_ context.Context, ownerEmail string) ([]events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	partition := r.byOwner[ownerEmail]
	out := make([]events.Event, len(partition))
	copy(out, partition)
	return out, nil
}

func (r *EventRepository) ApplyPatch(_ context.Context, ownerEmail, eventID string, patch events.Patch, updatedAt int64) (*events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	partition := r.byOwner[ownerEmail]
	for i := range partition {
		if partition[i].EventID != eventID {
			continue
		}
		event := &partition[i]
		if patch.Title != nil {
			event.Title = *patch.Title
		}
		if patch.Date != nil {
			event.Date = *patch.Date
		}
		if patch.Time != nil {
			event.Time = *patch.Time
		}
		if patch.Venue != nil {
			event.Venue = *patch.Venue
		}
		if patch.Details != nil {
			event.Details = *patch.Details
		}
		event.UpdatedAt = updatedAt
		updated := *event
		return &updated, nil
	}
	return nil, events.ErrNotFound
}

func (r *EventRepository) Delete(_ context.Context, ownerEmail, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	partition := r.byOwner[ownerEmail]
	for i := range partition {
		if partition[i].EventID == eventID {
			r.byOwner[ownerEmail] = append(partition[:i], partition[i+1:]...)
			return nil
		}
	}
	// Deleting a missing key succeeds, matching DynamoDB semantics.
	return nil
}

func (r *EventRepository) ScanAll(_ context.Context, fn func(page []events.Event) error) error {
	r.mu.Lock()
	var all []events.Event
	for _, owner := range r.owners {
		all = append(all, r.byOwner[owner]...)
	}
	r.mu.Unlock()

	for start := 0; start < len(all); start += scanPageSize {
		end := start + scanPageSize
		if end > len(all) {
			end = len(all)
		}
		if err := fn(all[start:end]); err != nil {
			return err
		}
	}
	if len(all) == 0 {
		return fn(nil)
	}
	return nil
}
