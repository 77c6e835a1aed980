package models

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// Ticket proves a purchase of Quantity seats against one event. The event
// name, date and venue are snapshotted at booking time so the ticket stays
// readable if the event is later deleted. Quantity and TotalPrice never
// change after creation.
type Ticket struct {
	ID         string          `json:"id"`
	EventID    string          `json:"event_id"`
	EventName  string          `json:"event_name"`
	EventDate  string          `json:"event_date"`
	Venue      string          `json:"venue"`
	Attendee   string          `json:"attendee"`
	Email      string          `json:"email"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Reference  string          `json:"reference"`
	Booked     time.Time       `json:"booked"`
}

func TicketFromRecord(record *core.Record) *Ticket {
	return &Ticket{
		ID:         record.Id,
		EventID:    record.GetString("event"),
		EventName:  record.GetString("event_name"),
		EventDate:  record.GetString("event_date"),
		Venue:      record.GetString("venue"),
		Attendee:   record.GetString("attendee"),
		Email:      record.GetString("email"),
		Quantity:   record.GetInt("quantity"),
		UnitPrice:  decimal.NewFromFloat(record.GetFloat("unit_price")),
		TotalPrice: decimal.NewFromFloat(record.GetFloat("total_price")),
		Reference:  record.GetString("reference"),
		Booked:     record.GetDateTime("created").Time(),
	}
}

// PendingBooking is the context captured between InitiateBooking and
// ConfirmAndPay. It lives in Redis with a TTL and is discarded on every
// terminal outcome (committed, failed or abandoned).
type PendingBooking struct {
	ID         string          `json:"id"`
	EventID    string          `json:"event_id"`
	EventName  string          `json:"event_name"`
	EventDate  string          `json:"event_date"`
	Venue      string          `json:"venue"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Attendee   string          `json:"attendee"`
	Email      string          `json:"email"`
	CreatedAt  time.Time       `json:"created_at"`
}
