// Package jobs contains the background work this service runs outside the
// request path: the daily reminder sweep and its in-process schedule.
package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/planora/server/internal/domain/events"
	"github.com/planora/server/internal/metrics"
)

// Notifier delivers one owner's digest. Satisfied by notify.Notifier.
type Notifier interface {
	Notify(ctx context.Context, ownerEmail string, items []events.Event, targetDate string) error
}

// Summary is the result of one reminder sweep. Field names match the JSON
// summary the scheduled trigger reports.
type Summary struct {
	Message           string `json:"message"`
	TotalEvents       int    `json:"total_events"`
	TomorrowEvents    int    `json:"tomorrow_events"`
	NotificationsSent int    `json:"notifications_sent"`
	Errors            int    `json:"errors"`
	DateChecked       string `json:"date_checked"`
}

// Reminder implements the scan→filter→group→notify sweep. One run reads
// the whole events table, keeps events dated tomorrow, groups them by
// owner, and dispatches one digest per owner. Owner failures are counted,
// never fatal; only a scan failure aborts the run.
type Reminder struct {
	repo           events.Repository
	notifier       Notifier
	maxConcurrency int
	logger         zerolog.Logger
	now            func() time.Time
}

func NewReminder(repo events.Repository, notifier Notifier, maxConcurrency int, logger zerolog.Logger) *Reminder {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Reminder{
		repo:           repo,
		notifier:       notifier,
		maxConcurrency: maxConcurrency,
		logger:         logger.With().Str("component", "reminder").Logger(),
		now:            time.Now,
	}
}

// Run executes one sweep. The scan consumes every page before any
// notification goes out; the date filter is applied per page so only
// matching events are held in memory. Re-running on the same day re-sends
// digests: the sweep keeps no delivery record beyond the summary.
func (r *Reminder) Run(ctx context.Context) (Summary, error) {
	targetDate := r.now().AddDate(0, 0, 1).Format("2006-01-02")
	r.logger.Info().Str("target_date", targetDate).Msg("starting reminder sweep")

	total := 0
	byOwner := make(map[string][]events.Event)
	var owners []string

	err := r.repo.ScanAll(ctx, func(page []events.Event) error {
		total += len(page)
		for _, event := range page {
			if event.Date != targetDate {
				continue
			}
			if len(byOwner[event.OwnerEmail]) == 0 {
				owners = append(owners, event.OwnerEmail)
			}
			byOwner[event.OwnerEmail] = append(byOwner[event.OwnerEmail], event)
		}
		return nil
	})
	if err != nil {
		metrics.ReminderSweepFailures.Inc()
		return Summary{}, fmt.Errorf("scan events: %w", err)
	}

	matched := 0
	for _, items := range byOwner {
		matched += len(items)
	}

	var sent, failed atomic.Int64
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.maxConcurrency)
	for _, owner := range owners {
		items := byOwner[owner]
		group.Go(func() error {
			if err := r.notifier.Notify(groupCtx, owner, items, targetDate); err != nil {
				failed.Add(1)
				r.logger.Error().Err(err).Str("owner", owner).Msg("notification failed")
				// Swallow the error: one owner's failure must not stop
				// the remaining dispatches.
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = group.Wait()

	summary := Summary{
		Message:           "Notification check complete",
		TotalEvents:       total,
		TomorrowEvents:    matched,
		NotificationsSent: int(sent.Load()),
		Errors:            int(failed.Load()),
		DateChecked:       targetDate,
	}

	metrics.ReminderEventsScanned.Add(float64(summary.TotalEvents))
	metrics.ReminderEventsMatched.Add(float64(summary.TomorrowEvents))
	metrics.ReminderNotificationsSent.Add(float64(summary.NotificationsSent))
	metrics.ReminderNotificationErrors.Add(float64(summary.Errors))

	r.logger.Info().
		Int("total_events", summary.TotalEvents).
		Int("tomorrow_events", summary.TomorrowEvents).
		Int("notifications_sent", summary.NotificationsSent).
		Int("errors", summary.Errors).
		Str("date_checked", summary.DateChecked).
		Msg("reminder sweep complete")
	return summary, nil
}
