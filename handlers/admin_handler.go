package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type AdminHandler struct {
	app core.App
}

func NewAdminHandler(app core.App) *AdminHandler {
	return &AdminHandler{app: app}
}

// GetDashboard - Catalog and ledger totals for the operator console
func (h *AdminHandler) GetDashboard(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	totalEvents, err := h.app.CountRecords("events")
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to load dashboard", err)
	}

	totalTickets, err := h.app.CountRecords("tickets")
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to load dashboard", err)
	}

	var ledger struct {
		Revenue     float64 `db:"revenue"`
		SeatsBooked int     `db:"seats_booked"`
	}
	err = h.app.DB().
		NewQuery("SELECT COALESCE(SUM(total_price), 0) AS revenue, COALESCE(SUM(quantity), 0) AS seats_booked FROM tickets").
		One(&ledger)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to load dashboard", err)
	}

	var catalog struct {
		TotalSeats int `db:"total_seats"`
	}
	err = h.app.DB().
		NewQuery("SELECT COALESCE(SUM(seats), 0) AS total_seats FROM events").
		One(&catalog)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to load dashboard", err)
	}

	bookingRate := 0.0
	if catalog.TotalSeats > 0 {
		bookingRate = float64(ledger.SeatsBooked) / float64(catalog.TotalSeats) * 100
	}

	return e.JSON(http.StatusOK, map[string]any{
		"total_events":  totalEvents,
		"total_tickets": totalTickets,
		"total_revenue": ledger.Revenue,
		"total_seats":   catalog.TotalSeats,
		"seats_booked":  ledger.SeatsBooked,
		"booking_rate":  bookingRate,
	})
}
