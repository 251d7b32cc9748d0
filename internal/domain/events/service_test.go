package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	byOwner map[string][]Event
	pute    error
	liste   error
}

func newStubRepo() *stubRepo {
	return &stubRepo{byOwner: make(map[string][]Event)}
}

func (r *stubRepo) Put(_ context.Context, event Event) error {
	if r.pute != nil {
		return r.pute
	}
	r.byOwner[event.OwnerEmail] = append(r.byOwner[event.OwnerEmail], event)
	return nil
}

func (r *stubRepo) ListByOwner(_ context.Context, ownerEmail string) ([]Event, error) {
	if r.liste != nil {
		return nil, r.liste
	}
	return append([]Event(nil), r.byOwner[ownerEmail]...), nil
}

func (r *stubRepo) ApplyPatch(_ context.Context, ownerEmail, eventID string, patch Patch, updatedAt int64) (*Event, error) {
	partition := r.byOwner[ownerEmail]
	for i := range partition {
		if partition[i].EventID != eventID {
			continue
		}
		if patch.Title != nil {
			partition[i].Title = *patch.Title
		}
		if patch.Date != nil {
			partition[i].Date = *patch.Date
		}
		if patch.Time != nil {
			partition[i].Time = *patch.Time
		}
		if patch.Venue != nil {
			partition[i].Venue = *patch.Venue
		}
		if patch.Details != nil {
			partition[i].Details = *patch.Details
		}
		partition[i].UpdatedAt = updatedAt
		updated := partition[i]
		return &updated, nil
	}
	return nil, ErrNotFound
}

func (r *stubRepo) Delete(_ context.Context, ownerEmail, eventID string) error {
	partition := r.byOwner[ownerEmail]
	for i := range partition {
		if partition[i].EventID == eventID {
			r.byOwner[ownerEmail] = append(partition[:i], partition[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubRepo) ScanAll(_ context.Context, fn func(page []Event) error) error {
	var all []Event
	for _, partition := range r.byOwner {
		all = append(all, partition...)
	}
	return fn(all)
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo, zerolog.Nop())
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	return svc
}

func strPtr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	event, err := svc.Create(context.Background(), "alice@example.com", CreateParams{
		Title:   "Team sync",
		Date:    "2026-09-02",
		Details: "Quarterly planning",
		Time:    "14:00",
		Venue:   "Room 4",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", event.OwnerEmail)
	require.NotEmpty(t, event.EventID)
	require.Equal(t, "Team sync", event.Title)
	require.Equal(t, "14:00", event.Time)
	require.Equal(t, "Room 4", event.Venue)
	require.Equal(t, int64(1700000000), event.CreatedAt)
	require.Equal(t, event.CreatedAt, event.UpdatedAt)
	require.Len(t, repo.byOwner["alice@example.com"], 1)
}

func TestCreatePlaceholders(t *testing.T) {
	svc := newTestService(newStubRepo())

	event, err := svc.Create(context.Background(), "alice@example.com", CreateParams{
		Title:   "Team sync",
		Date:    "2026-09-02",
		Details: "Quarterly planning",
	})
	require.NoError(t, err)
	require.Equal(t, PlaceholderValue, event.Time)
	require.Equal(t, PlaceholderValue, event.Venue)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newStubRepo())

	tests := []struct {
		name   string
		params CreateParams
	}{
		{"missing title", CreateParams{Date: "2026-09-02", Details: "d"}},
		{"missing date", CreateParams{Title: "t", Details: "d"}},
		{"missing details", CreateParams{Title: "t", Date: "2026-09-02"}},
		{"whitespace only", CreateParams{Title: "  ", Date: "2026-09-02", Details: "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "alice@example.com", tt.params)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestListOrdering(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	// Stored out of order; ties on (date, time) keep insertion order.
	repo.byOwner["alice@example.com"] = []Event{
		{EventID: "c", Date: "2026-09-03", Time: "09:00"},
		{EventID: "a", Date: "2026-09-02", Time: "18:00"},
		{EventID: "tie-1", Date: "2026-09-02", Time: "09:00"},
		{EventID: "tie-2", Date: "2026-09-02", Time: "09:00"},
	}

	items, err := svc.List(context.Background(), "alice@example.com")
	require.NoError(t, err)

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.EventID
	}
	require.Equal(t, []string{"tie-1", "tie-2", "a", "c"}, ids)
}

func TestUpdate(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	repo.byOwner["alice@example.com"] = []Event{{
		EventID: "evt-1", Title: "Old", Date: "2026-09-02", Time: "09:00",
		Venue: "Room 1", Details: "Old details", CreatedAt: 100, UpdatedAt: 100,
	}}

	updated, err := svc.Update(context.Background(), "alice@example.com", "evt-1", Patch{
		Title: strPtr("New"),
		Venue: strPtr("Room 2"),
	})
	require.NoError(t, err)
	require.Equal(t, "New", updated.Title)
	require.Equal(t, "Room 2", updated.Venue)
	// Untouched fields survive; updatedAt is bumped.
	require.Equal(t, "2026-09-02", updated.Date)
	require.Equal(t, "Old details", updated.Details)
	require.Equal(t, int64(1700000000), updated.UpdatedAt)
	require.Equal(t, int64(100), updated.CreatedAt)
}

func TestUpdateValidation(t *testing.T) {
	svc := newTestService(newStubRepo())

	_, err := svc.Update(context.Background(), "alice@example.com", "", Patch{Title: strPtr("x")})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(context.Background(), "alice@example.com", "evt-1", Patch{})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateNotFound(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	repo.byOwner["bob@example.com"] = []Event{{EventID: "evt-1"}}

	// Unknown id, and an id that exists only in another owner's partition.
	_, err := svc.Update(context.Background(), "alice@example.com", "missing", Patch{Title: strPtr("x")})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(context.Background(), "alice@example.com", "evt-1", Patch{Title: strPtr("x")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	repo.byOwner["alice@example.com"] = []Event{{EventID: "evt-1"}}

	require.NoError(t, svc.Delete(context.Background(), "alice@example.com", "evt-1"))
	require.Empty(t, repo.byOwner["alice@example.com"])

	// Deleting again is not an error.
	require.NoError(t, svc.Delete(context.Background(), "alice@example.com", "evt-1"))

	err := svc.Delete(context.Background(), "alice@example.com", "  ")
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateRepoError(t *testing.T) {
	repo := newStubRepo()
	repo.pute = errors.New("store unavailable")
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), "alice@example.com", CreateParams{
		Title: "t", Date: "2026-09-02", Details: "d",
	})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrValidation)
}
