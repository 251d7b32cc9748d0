package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Schedule fires the reminder sweep once per day at a fixed UTC hour. It
// holds no persistent state: a missed fire (process down) is simply skipped
// and the next day's trigger runs as usual.
type Schedule struct {
	reminder *Reminder
	hourUTC  int
	logger   zerolog.Logger
	now      func() time.Time
}

func NewSchedule(reminder *Reminder, hourUTC int, logger zerolog.Logger) *Schedule {
	return &Schedule{
		reminder: reminder,
		hourUTC:  hourUTC,
		logger:   logger.With().Str("component", "schedule").Logger(),
		now:      time.Now,
	}
}

// Run blocks until ctx is cancelled, executing one sweep per daily fire.
// A sweep failure is logged and the schedule keeps going.
func (s *Schedule) Run(ctx context.Context) {
	for {
		next := nextRunAt(s.now().UTC(), s.hourUTC)
		s.logger.Info().Time("next_run", next).Msg("reminder scheduled")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info().Msg("schedule stopped")
			return
		case <-timer.C:
		}

		if _, err := s.reminder.Run(ctx); err != nil {
			s.logger.Error().Err(err).Msg("scheduled sweep failed")
		}
	}
}

// nextRunAt returns the next occurrence of hourUTC strictly after now.
func nextRunAt(now time.Time, hourUTC int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hourUTC, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
