package models

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"ticketdesk/internal/status"
)

// Event is a catalog entry with finite seat inventory.
//
// Seats is fixed at creation; AvailableSeats is mutated only by committed
// booking and cancellation transactions and always stays within
// [0, Seats].
type Event struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Date           string          `json:"date"`
	Venue          string          `json:"venue"`
	Seats          int             `json:"seats"`
	AvailableSeats int             `json:"available_seats"`
	Price          decimal.Decimal `json:"price"`
}

func EventFromRecord(record *core.Record) *Event {
	return &Event{
		ID:             record.Id,
		Name:           record.GetString("name"),
		Date:           record.GetString("date"),
		Venue:          record.GetString("venue"),
		Seats:          record.GetInt("seats"),
		AvailableSeats: record.GetInt("available_seats"),
		Price:          decimal.NewFromFloat(record.GetFloat("price")),
	}
}

// ApplyToRecord writes the creatable fields onto a fresh record. A new
// event starts with every seat available.
func (e *Event) ApplyToRecord(record *core.Record) {
	record.Set("name", e.Name)
	record.Set("date", e.Date)
	record.Set("venue", e.Venue)
	record.Set("seats", e.Seats)
	record.Set("available_seats", e.Seats)
	price, _ := e.Price.Float64()
	record.Set("price", price)
}

func (e *Event) Validate() error {
	if e.Name == "" || e.Date == "" || e.Venue == "" {
		return fmt.Errorf("%w: name, date and venue are required", status.ErrValidation)
	}
	if e.Seats < 0 {
		return fmt.Errorf("%w: seats must not be negative", status.ErrValidation)
	}
	if e.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", status.ErrValidation)
	}
	return nil
}
