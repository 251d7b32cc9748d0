package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/planora/server/internal/api/middleware"
	"github.com/planora/server/internal/domain/events"
)

// EventsHandler serves the authenticated event CRUD endpoints. Every
// operation is scoped to the owner resolved by the auth middleware.
type EventsHandler struct {
	service *events.Service
	logger  zerolog.Logger
}

func NewEventsHandler(service *events.Service, logger zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		service: service,
		logger:  logger.With().Str("handler", "events").Logger(),
	}
}

type createEventRequest struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Details string `json:"details"`
	Time    string `json:"time"`
	Venue   string `json:"venue"`
}

type updateEventRequest struct {
	EventID string  `json:"eventId"`
	Title   *string `json:"title"`
	Date    *string `json:"date"`
	Time    *string `json:"time"`
	Venue   *string `json:"venue"`
	Details *string `json:"details"`
}

type deleteEventRequest struct {
	EventID string `json:"eventId"`
}

type eventResponse struct {
	Message string        `json:"message"`
	Item    *events.Event `json:"item"`
}

type listEventsResponse struct {
	Items []events.Event `json:"items"`
	Count int            `json:"count"`
}

// Create handles POST /events.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFromContext(r.Context())

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	item, err := h.service.Create(r.Context(), owner, events.CreateParams{
		Title:   req.Title,
		Date:    req.Date,
		Details: req.Details,
		Time:    req.Time,
		Venue:   req.Venue,
	})
	if err != nil {
		if errors.Is(err, events.ErrValidation) {
			writeError(w, r, http.StatusBadRequest, "missing required fields: title, date, details", nil)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to create event", err)
		return
	}

	writeJSON(w, http.StatusCreated, eventResponse{Message: "Event created successfully", Item: item})
}

// List handles GET /events.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFromContext(r.Context())

	items, err := h.service.List(r.Context(), owner)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to fetch events", err)
		return
	}
	if items == nil {
		items = []events.Event{}
	}

	writeJSON(w, http.StatusOK, listEventsResponse{Items: items, Count: len(items)})
}

// Update handles PUT /events. Only the fields present in the body are
// changed.
func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFromContext(r.Context())

	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	patch := events.Patch{
		Title:   req.Title,
		Date:    req.Date,
		Time:    req.Time,
		Venue:   req.Venue,
		Details: req.Details,
	}
	item, err := h.service.Update(r.Context(), owner, req.EventID, patch)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrValidation):
			writeError(w, r, http.StatusBadRequest, "eventId and at least one field are required", nil)
		case errors.Is(err, events.ErrNotFound):
			writeError(w, r, http.StatusNotFound, "event not found", nil)
		default:
			writeError(w, r, http.StatusInternalServerError, "failed to update event", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, eventResponse{Message: "Event updated successfully", Item: item})
}

// Delete handles DELETE /events. The eventId comes from the body when one
// is present, falling back to the query string. Deleting an id that no
// longer exists succeeds.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFromContext(r.Context())

	var req deleteEventRequest
	if r.Body != nil {
		// Body is optional here; a decode failure just means the id must
		// come from the query string.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	eventID := req.EventID
	if eventID == "" {
		eventID = r.URL.Query().Get("eventId")
	}

	if err := h.service.Delete(r.Context(), owner, eventID); err != nil {
		if errors.Is(err, events.ErrValidation) {
			writeError(w, r, http.StatusBadRequest, "eventId is required", nil)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to delete event", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Event deleted successfully",
		"eventId": eventID,
	})
}
