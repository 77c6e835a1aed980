package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticketdesk/models"
)

type IDCardHandler struct {
	app core.App
}

func NewIDCardHandler(app core.App) *IDCardHandler {
	return &IDCardHandler{app: app}
}

// Issue - Create a printable access badge for an event
func (h *IDCardHandler) Issue(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		Name    string `json:"name"`
		Role    string `json:"role"`
		EventID string `json:"event_id"`
		Contact string `json:"contact"`
	}

	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	card := &models.IDCard{
		Name:    req.Name,
		Role:    req.Role,
		EventID: req.EventID,
		Contact: req.Contact,
	}
	if err := card.Validate(); err != nil {
		return apiError(err)
	}

	event, err := h.app.FindRecordById("events", req.EventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apis.NewNotFoundError("Event not found", err)
		}
		return apis.NewApiError(http.StatusInternalServerError, "Failed to load event", err)
	}

	collection, err := h.app.FindCollectionByNameOrId("idcards")
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to issue ID card", err)
	}

	record := core.NewRecord(collection)
	record.Set("name", req.Name)
	record.Set("role", req.Role)
	record.Set("event", event.Id)
	record.Set("event_name", event.GetString("name"))
	record.Set("contact", req.Contact)

	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to issue ID card", err)
	}

	return e.JSON(http.StatusOK, models.IDCardFromRecord(record))
}

// List - All issued badges, most recent first
func (h *IDCardHandler) List(e *core.RequestEvent) error {
	records := []*core.Record{}
	if err := h.app.RecordQuery("idcards").OrderBy("created DESC").All(&records); err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to list ID cards", err)
	}

	cards := make([]*models.IDCard, len(records))
	for i, record := range records {
		cards[i] = models.IDCardFromRecord(record)
	}

	return e.JSON(http.StatusOK, cards)
}
