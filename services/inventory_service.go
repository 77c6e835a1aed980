package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"ticketdesk/internal/status"
	"ticketdesk/models"
	"ticketdesk/monitoring"
	"ticketdesk/utils"
)

// InventoryService is the atomic booking and cancellation engine. Every
// operation is a single read-validate-write transaction against the store;
// the seat counter is never read-modify-written outside that boundary, so
// two conflicting attempts against the same event can never both commit.
type InventoryService struct {
	app core.App
}

func NewInventoryService(app core.App) *InventoryService {
	return &InventoryService{app: app}
}

type BookRequest struct {
	EventID  string
	Quantity int
	Attendee string
	Email    string
}

func (r BookRequest) validate() error {
	if r.EventID == "" {
		return fmt.Errorf("%w: event id is required", status.ErrValidation)
	}
	if r.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", status.ErrValidation)
	}
	if r.Attendee == "" {
		return fmt.Errorf("%w: attendee name is required", status.ErrValidation)
	}
	return nil
}

// Book reserves req.Quantity seats and creates the ticket record in one
// transaction. The event snapshot (name, date, venue, price) is taken from
// the authoritative record read inside the transaction, never from a cache.
func (s *InventoryService) Book(ctx context.Context, req BookRequest) (*models.Ticket, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	var ticket *models.Ticket

	err := s.app.RunInTransaction(func(txApp core.App) error {
		event, err := txApp.FindRecordById("events", req.EventID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", status.ErrEventNotFound, req.EventID)
			}
			return err
		}

		available := event.GetInt("available_seats")
		if available < req.Quantity {
			return fmt.Errorf("%w: only %d seats available", status.ErrInsufficientInventory, available)
		}

		event.Set("available_seats", available-req.Quantity)
		if err := txApp.Save(event); err != nil {
			return err
		}

		collection, err := txApp.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}

		unitPrice := decimal.NewFromFloat(event.GetFloat("price"))
		totalPrice := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
		totalValue, _ := totalPrice.Float64()

		reference, err := utils.GenerateCode(4)
		if err != nil {
			return err
		}

		record := core.NewRecord(collection)
		record.Set("event", event.Id)
		record.Set("event_name", event.GetString("name"))
		record.Set("event_date", event.GetString("date"))
		record.Set("venue", event.GetString("venue"))
		record.Set("attendee", req.Attendee)
		record.Set("email", req.Email)
		record.Set("quantity", req.Quantity)
		record.Set("unit_price", event.GetFloat("price"))
		record.Set("total_price", totalValue)
		record.Set("reference", reference)

		if err := txApp.Save(record); err != nil {
			return err
		}

		ticket = models.TicketFromRecord(record)
		return nil
	})

	monitoring.ObserveTransaction("book", outcomeLabel(err), time.Since(start))

	if err != nil {
		return nil, classifyStoreError(err)
	}

	s.refreshSeatGauge(req.EventID)

	return ticket, nil
}

// Cancel releases a ticket's seats and deletes the ticket in one
// transaction. The quantity to release is re-read from the ticket record
// inside the transaction; a non-zero caller-supplied quantity that
// disagrees with the record is rejected rather than trusted.
func (s *InventoryService) Cancel(ctx context.Context, ticketID, eventID string, quantity int) error {
	if ticketID == "" || eventID == "" {
		return fmt.Errorf("%w: ticket and event ids are required", status.ErrValidation)
	}

	start := time.Now()

	err := s.app.RunInTransaction(func(txApp core.App) error {
		ticket, err := txApp.FindRecordById("tickets", ticketID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", status.ErrTicketNotFound, ticketID)
			}
			return err
		}

		if ticket.GetString("event") != eventID {
			return fmt.Errorf("%w: ticket %s does not belong to event %s", status.ErrValidation, ticketID, eventID)
		}

		recorded := ticket.GetInt("quantity")
		if quantity != 0 && quantity != recorded {
			return fmt.Errorf("%w: quantity %d does not match ticket quantity %d", status.ErrValidation, quantity, recorded)
		}

		event, err := txApp.FindRecordById("events", eventID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", status.ErrEventNotFound, eventID)
			}
			return err
		}

		released := event.GetInt("available_seats") + recorded
		if total := event.GetInt("seats"); released > total {
			return fmt.Errorf("%w: releasing %d seats would exceed capacity %d", status.ErrTransactionConflict, recorded, total)
		}

		event.Set("available_seats", released)
		if err := txApp.Save(event); err != nil {
			return err
		}

		return txApp.Delete(ticket)
	})

	monitoring.ObserveTransaction("cancel", outcomeLabel(err), time.Since(start))

	if err != nil {
		return classifyStoreError(err)
	}

	s.refreshSeatGauge(eventID)
	return nil
}

func (s *InventoryService) refreshSeatGauge(eventID string) {
	event, err := s.app.FindRecordById("events", eventID)
	if err != nil {
		return
	}
	monitoring.SetAvailableSeats(eventID, event.GetInt("available_seats"))
}

// classifyStoreError keeps taxonomy errors as-is and wraps everything else
// (aborted transactions, driver failures) as a transaction conflict.
func classifyStoreError(err error) error {
	switch {
	case errors.Is(err, status.ErrEventNotFound),
		errors.Is(err, status.ErrTicketNotFound),
		errors.Is(err, status.ErrInsufficientInventory),
		errors.Is(err, status.ErrValidation),
		errors.Is(err, status.ErrTransactionConflict):
		return err
	default:
		return fmt.Errorf("%w: %v", status.ErrTransactionConflict, err)
	}
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, status.ErrEventNotFound):
		return "event_not_found"
	case errors.Is(err, status.ErrTicketNotFound):
		return "ticket_not_found"
	case errors.Is(err, status.ErrInsufficientInventory):
		return "insufficient_inventory"
	case errors.Is(err, status.ErrValidation):
		return "invalid"
	default:
		return "conflict"
	}
}
