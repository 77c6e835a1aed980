package models

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"ticketdesk/internal/status"
)

// IDCard is a printable access badge. It references an event for access
// scoping but has no link to seat inventory.
type IDCard struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	EventID   string    `json:"event_id"`
	EventName string    `json:"event_name"`
	Contact   string    `json:"contact"`
	Issued    time.Time `json:"issued"`
}

func IDCardFromRecord(record *core.Record) *IDCard {
	return &IDCard{
		ID:        record.Id,
		Name:      record.GetString("name"),
		Role:      record.GetString("role"),
		EventID:   record.GetString("event"),
		EventName: record.GetString("event_name"),
		Contact:   record.GetString("contact"),
		Issued:    record.GetDateTime("created").Time(),
	}
}

func (c *IDCard) Validate() error {
	if c.Name == "" || c.Role == "" || c.EventID == "" {
		return fmt.Errorf("%w: name, role and event are required", status.ErrValidation)
	}
	return nil
}
