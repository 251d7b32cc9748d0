package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/planora/server/internal/domain/events"
	"github.com/planora/server/internal/storage/memory"
)

type stubNotifier struct {
	mu      sync.Mutex
	calls   map[string][]events.Event
	dates   map[string]string
	failFor map[string]bool
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{
		calls:   make(map[string][]events.Event),
		dates:   make(map[string]string),
		failFor: make(map[string]bool),
	}
}

func (n *stubNotifier) Notify(_ context.Context, ownerEmail string, items []events.Event, targetDate string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failFor[ownerEmail] {
		return errors.New("delivery refused")
	}
	n.calls[ownerEmail] = items
	n.dates[ownerEmail] = targetDate
	return nil
}

type failingRepo struct {
	events.Repository
}

func (r *failingRepo) ScanAll(context.Context, func(page []events.Event) error) error {
	return errors.New("table unavailable")
}

// fixedNow pins the sweep so tomorrow is always 2026-09-02.
var fixedNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func newTestReminder(repo events.Repository, notifier Notifier) *Reminder {
	r := NewReminder(repo, notifier, 4, zerolog.Nop())
	r.now = func() time.Time { return fixedNow }
	return r
}

func seed(t *testing.T, repo *memory.EventRepository, owner, id, date string) {
	t.Helper()
	require.NoError(t, repo.Put(context.Background(), events.Event{
		OwnerEmail: owner,
		EventID:    id,
		Title:      "Event " + id,
		Date:       date,
		Time:       "10:00",
		Venue:      "Somewhere",
		Details:    "Details",
	}))
}

func TestReminderRun(t *testing.T) {
	repo := memory.NewEventRepository()
	seed(t, repo, "alice@example.com", "a1", "2026-09-02")
	seed(t, repo, "alice@example.com", "a2", "2026-09-02")
	seed(t, repo, "bob@example.com", "b1", "2026-09-02")
	seed(t, repo, "carol@example.com", "c1", "2026-09-04")

	notifier := newStubNotifier()
	reminder := newTestReminder(repo, notifier)

	summary, err := reminder.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, Summary{
		Message:           "Notification check complete",
		TotalEvents:       4,
		TomorrowEvents:    3,
		NotificationsSent: 2,
		Errors:            0,
		DateChecked:       "2026-09-02",
	}, summary)

	// One digest per owner with a matching event; Carol's event is not
	// tomorrow so she gets nothing.
	require.Len(t, notifier.calls, 2)
	require.Len(t, notifier.calls["alice@example.com"], 2)
	require.Len(t, notifier.calls["bob@example.com"], 1)
	require.NotContains(t, notifier.calls, "carol@example.com")
	require.Equal(t, "2026-09-02", notifier.dates["alice@example.com"])
}

func TestReminderRunNoMatches(t *testing.T) {
	repo := memory.NewEventRepository()
	seed(t, repo, "alice@example.com", "a1", "2026-09-10")

	notifier := newStubNotifier()
	reminder := newTestReminder(repo, notifier)

	summary, err := reminder.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.TotalEvents)
	require.Zero(t, summary.TomorrowEvents)
	require.Zero(t, summary.NotificationsSent)
	require.Empty(t, notifier.calls)
}

func TestReminderRunEmptyTable(t *testing.T) {
	reminder := newTestReminder(memory.NewEventRepository(), newStubNotifier())

	summary, err := reminder.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, summary.TotalEvents)
	require.Zero(t, summary.TomorrowEvents)
	require.Equal(t, "2026-09-02", summary.DateChecked)
}

func TestReminderRunPartialFailure(t *testing.T) {
	repo := memory.NewEventRepository()
	seed(t, repo, "alice@example.com", "a1", "2026-09-02")
	seed(t, repo, "bob@example.com", "b1", "2026-09-02")

	notifier := newStubNotifier()
	notifier.failFor["alice@example.com"] = true
	reminder := newTestReminder(repo, notifier)

	summary, err := reminder.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.NotificationsSent)
	require.Equal(t, 1, summary.Errors)

	// Bob's digest went out despite Alice's failure.
	require.Len(t, notifier.calls["bob@example.com"], 1)
}

func TestReminderRunScanFailure(t *testing.T) {
	reminder := newTestReminder(&failingRepo{}, newStubNotifier())

	_, err := reminder.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "scan events")
}

func TestReminderRunRepeatable(t *testing.T) {
	repo := memory.NewEventRepository()
	seed(t, repo, "alice@example.com", "a1", "2026-09-02")

	notifier := newStubNotifier()
	reminder := newTestReminder(repo, notifier)

	first, err := reminder.Run(context.Background())
	require.NoError(t, err)
	second, err := reminder.Run(context.Background())
	require.NoError(t, err)

	// No delivery dedup between runs.
	require.Equal(t, first, second)
	require.Equal(t, 1, second.NotificationsSent)
}
