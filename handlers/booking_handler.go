package handlers

import (
	"net/http"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticketdesk/models"
	"ticketdesk/services"
)

type BookingHandler struct {
	app       core.App
	booking   *services.BookingService
	inventory *services.InventoryService
}

func NewBookingHandler(app core.App, booking *services.BookingService, inventory *services.InventoryService) *BookingHandler {
	return &BookingHandler{
		app:       app,
		booking:   booking,
		inventory: inventory,
	}
}

// Initiate - Optimistic pre-check and pending booking capture
func (h *BookingHandler) Initiate(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		EventID  string `json:"event_id"`
		Quantity int    `json:"quantity"`
		Attendee string `json:"attendee"`
		Email    string `json:"email"`
	}

	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	pending, err := h.booking.Initiate(e.Request.Context(), services.BookRequest{
		EventID:  req.EventID,
		Quantity: req.Quantity,
		Attendee: req.Attendee,
		Email:    req.Email,
	})
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, pending)
}

// Confirm - Settle the simulated payment and commit the booking
func (h *BookingHandler) Confirm(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	pendingID := e.Request.PathValue("pendingId")

	ticket, err := h.booking.ConfirmAndPay(e.Request.Context(), pendingID)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"ticket":      ticket,
		"total_price": ticket.TotalPrice,
	})
}

// Abandon - Discard a pending booking without store interaction
func (h *BookingHandler) Abandon(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	pendingID := e.Request.PathValue("pendingId")

	if err := h.booking.Abandon(e.Request.Context(), pendingID); err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]string{"status": "abandoned"})
}

// CancelTicket - Release the ticket's seats and remove the ticket
func (h *BookingHandler) CancelTicket(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	ticketID := e.Request.PathValue("ticketId")

	var req struct {
		EventID  string `json:"event_id"`
		Quantity int    `json:"quantity"`
	}

	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := h.inventory.Cancel(e.Request.Context(), ticketID, req.EventID, req.Quantity); err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
}

// ListTickets - All tickets, most recent booking first. Accepts an
// optional ?event= filter.
func (h *BookingHandler) ListTickets(e *core.RequestEvent) error {
	query := h.app.RecordQuery("tickets").OrderBy("created DESC")
	if eventID := e.Request.URL.Query().Get("event"); eventID != "" {
		query.AndWhere(dbx.HashExp{"event": eventID})
	}

	records := []*core.Record{}
	if err := query.All(&records); err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to list tickets", err)
	}

	tickets := make([]*models.Ticket, len(records))
	for i, record := range records {
		tickets[i] = models.TicketFromRecord(record)
	}

	return e.JSON(http.StatusOK, tickets)
}
