package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"ticketdesk/models"
)

type EventHandler struct {
	app core.App
}

func NewEventHandler(app core.App) *EventHandler {
	return &EventHandler{app: app}
}

// Create - Add an event to the catalog with every seat available
func (h *EventHandler) Create(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		Name  string  `json:"name"`
		Date  string  `json:"date"`
		Venue string  `json:"venue"`
		Seats int     `json:"seats"`
		Price float64 `json:"price"`
	}

	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	event := &models.Event{
		Name:  req.Name,
		Date:  req.Date,
		Venue: req.Venue,
		Seats: req.Seats,
		Price: decimal.NewFromFloat(req.Price),
	}
	if err := event.Validate(); err != nil {
		return apiError(err)
	}

	collection, err := h.app.FindCollectionByNameOrId("events")
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to create event", err)
	}

	record := core.NewRecord(collection)
	event.ApplyToRecord(record)

	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to create event", err)
	}

	return e.JSON(http.StatusOK, models.EventFromRecord(record))
}

// List - All events ordered by date
func (h *EventHandler) List(e *core.RequestEvent) error {
	records := []*core.Record{}
	if err := h.app.RecordQuery("events").OrderBy("date ASC").All(&records); err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to list events", err)
	}

	events := make([]*models.Event, len(records))
	for i, record := range records {
		events[i] = models.EventFromRecord(record)
	}

	return e.JSON(http.StatusOK, events)
}

// Delete - Remove an event. Tickets referencing it are left in place; they
// keep their own snapshot of the event details.
func (h *EventHandler) Delete(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	eventID := e.Request.PathValue("eventId")

	record, err := h.app.FindRecordById("events", eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apis.NewNotFoundError("Event not found", err)
		}
		return apis.NewApiError(http.StatusInternalServerError, "Failed to load event", err)
	}

	if err := h.app.Delete(record); err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to delete event", err)
	}

	return e.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
