// Package events implements per-user calendar event CRUD. Events live in an
// owner partition keyed by (ownerEmail, eventId); every operation takes the
// authenticated owner and cannot reach another user's records.
package events

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PlaceholderValue is stored for optional fields the caller omitted, so the
// record always carries every attribute.
const PlaceholderValue = "Not specified"

// Event is a stored calendar event.
type Event struct {
	OwnerEmail string `json:"userId" dynamodbav:"userId"`
	EventID    string `json:"eventId" dynamodbav:"eventId"`
	Title      string `json:"title" dynamodbav:"title"`
	Date       string `json:"date" dynamodbav:"date"`
	Time       string `json:"time" dynamodbav:"time"`
	Venue      string `json:"venue" dynamodbav:"venue"`
	Details    string `json:"details" dynamodbav:"details"`
	CreatedAt  int64  `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt  int64  `json:"updatedAt" dynamodbav:"updatedAt"`
}

// CreateParams contains the create request fields. Time and Venue are
// optional.
type CreateParams struct {
	Title   string
	Date    string
	Details string
	Time    string
	Venue   string
}

// Patch is a sparse update: only non-nil fields are written, everything
// else is left untouched. It is validated here before it reaches the store
// adapter, which translates it into the store's native partial update.
type Patch struct {
	Title   *string
	Date    *string
	Time    *string
	Venue   *string
	Details *string
}

// IsEmpty reports whether the patch carries no fields.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Date == nil && p.Time == nil && p.Venue == nil && p.Details == nil
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "events").Logger(),
		now:    time.Now,
	}
}

// Create stores a new event in the owner's partition and returns the full
// record. Title, date, and details are required after trimming.
func (s *Service) Create(ctx context.Context, ownerEmail string, params CreateParams) (*Event, error) {
	title := strings.TrimSpace(params.Title)
	date := strings.TrimSpace(params.Date)
	details := strings.TrimSpace(params.Details)
	if title == "" || date == "" || details == "" {
		return nil, fmt.Errorf("%w: title, date and details are required", ErrValidation)
	}

	now := s.now().Unix()
	event := Event{
		OwnerEmail: ownerEmail,
		EventID:    uuid.New().String(),
		Title:      title,
		Date:       date,
		Time:       orPlaceholder(params.Time),
		Venue:      orPlaceholder(params.Venue),
		Details:    details,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Put(ctx, event); err != nil {
		return nil, fmt.Errorf("put event: %w", err)
	}

	s.logger.Info().Str("event_id", event.EventID).Msg("event created")
	return &event, nil
}

// List returns every event in the owner's partition, ordered ascending by
// (date, time) as plain strings. The sort is stable, so events tying on
// both fields keep their stored order.
func (s *Service) List(ctx context.Context, ownerEmail string) ([]Event, error) {
	items, err := s.repo.ListByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return items[i].Time < items[j].Time
	})
	return items, nil
}

// Update applies a sparse patch to one of the owner's events and returns
// the post-update record. updatedAt is always bumped. An eventId that does
// not exist in the owner's partition fails with ErrNotFound, including ids
// that belong to another owner.
func (s *Service) Update(ctx context.Context, ownerEmail, eventID string, patch Patch) (*Event, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, fmt.Errorf("%w: eventId is required", ErrValidation)
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	updated, err := s.repo.ApplyPatch(ctx, ownerEmail, eventID, patch, s.now().Unix())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("patch event: %w", err)
	}

	s.logger.Info().Str("event_id", eventID).Msg("event updated")
	return updated, nil
}

// Delete removes one of the owner's events. Deletion is idempotent: a
// missing eventId succeeds so that deleting twice is not an error.
func (s *Service) Delete(ctx context.Context, ownerEmail, eventID string) error {
	if strings.TrimSpace(eventID) == "" {
		return fmt.Errorf("%w: eventId is required", ErrValidation)
	}
	if err := s.repo.Delete(ctx, ownerEmail, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.Info().Str("event_id", eventID).Msg("event deleted")
	return nil
}

func orPlaceholder(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return PlaceholderValue
	}
	return value
}
