// Package notify renders reminder digests and delivers them through a
// pluggable publisher. Delivery is best-effort: the reminder sweep counts a
// failed publish and moves on, so publishers must not retry internally.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/planora/server/internal/domain/events"
)

// ErrDeliveryFailed wraps any publisher failure so the caller can account
// for it without inspecting backend-specific errors.
var ErrDeliveryFailed = errors.New("delivery failed")

// Message is a rendered digest ready for delivery, together with the
// structured attributes the delivery channel carries alongside the body.
type Message struct {
	Recipient  string
	Subject    string
	Body       string
	EventDate  string
	EventCount int
}

// Publisher delivers one message. Implementations translate Message into
// their channel's native shape.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// NameLookup resolves a user's display name. Implementations must be
// best-effort and never block a notification on a failed lookup.
type NameLookup interface {
	DisplayName(ctx context.Context, email string) string
}

type Notifier struct {
	names     NameLookup
	publisher Publisher
	logger    zerolog.Logger
}

func NewNotifier(names NameLookup, publisher Publisher, logger zerolog.Logger) *Notifier {
	return &Notifier{
		names:     names,
		publisher: publisher,
		logger:    logger.With().Str("component", "notify").Logger(),
	}
}

// Notify renders the digest for one owner's events on targetDate and
// publishes it. The events are expected to all fall on targetDate; ordering
// in the digest follows the order given.
func (n *Notifier) Notify(ctx context.Context, ownerEmail string, items []events.Event, targetDate string) error {
	name := n.names.DisplayName(ctx, ownerEmail)

	msg := Message{
		Recipient:  ownerEmail,
		Subject:    fmt.Sprintf("Reminder: You have %d event(s) tomorrow (%s)", len(items), targetDate),
		Body:       renderDigest(name, items, targetDate),
		EventDate:  targetDate,
		EventCount: len(items),
	}

	if err := n.publisher.Publish(ctx, msg); err != nil {
		n.logger.Error().Err(err).Str("recipient", ownerEmail).Msg("digest publish failed")
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	n.logger.Info().
		Str("recipient", ownerEmail).
		Int("event_count", len(items)).
		Msg("digest sent")
	return nil
}
