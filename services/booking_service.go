package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"ticketdesk/config"
	"ticketdesk/internal/clock"
	"ticketdesk/internal/status"
	"ticketdesk/models"
	"ticketdesk/services/payment"
	"ticketdesk/utils"
)

type inventoryBooker interface {
	Book(ctx context.Context, req BookRequest) (*models.Ticket, error)
}

type catalogReader interface {
	Get(ctx context.Context, eventID string) (*models.Event, error)
}

// BookingService sequences a booking attempt around the transaction core:
// optimistic pre-check, pending context, simulated payment, commit. It is
// deliberately not part of the atomicity guarantee — the authoritative
// availability check happens again inside InventoryService.Book.
//
// A booking attempt moves Idle -> Pending -> {Committed, Failed,
// Abandoned}. Terminal states never return to Pending: confirming or
// abandoning consumes the pending context, and unconsumed contexts expire
// with their Redis TTL.
type BookingService struct {
	inventory inventoryBooker
	catalog   catalogReader
	gateway   payment.Gateway
	redis     *redis.Client
	clock     clock.Clock
	ttl       time.Duration
	newID     func() (string, error)
}

func NewBookingService(inventory *InventoryService, catalog *CatalogCache, gateway payment.Gateway, redisClient *redis.Client, cfg *config.Config) *BookingService {
	return &BookingService{
		inventory: inventory,
		catalog:   catalog,
		gateway:   gateway,
		redis:     redisClient,
		clock:     clock.System(),
		ttl:       cfg.PendingBookingTTL,
		newID:     func() (string, error) { return utils.GenerateCode(8) },
	}
}

func pendingKey(id string) string {
	return fmt.Sprintf("booking:pending:%s", id)
}

// Initiate checks the request against the cached catalog and captures a
// pending booking context. The availability check here is a fast-path
// only; inventory may still change before confirmation.
func (s *BookingService) Initiate(ctx context.Context, req BookRequest) (*models.PendingBooking, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	event, err := s.catalog.Get(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	if event.AvailableSeats < req.Quantity {
		return nil, fmt.Errorf("%w: only %d seats available", status.ErrInsufficientInventory, event.AvailableSeats)
	}

	id, err := s.newID()
	if err != nil {
		return nil, err
	}

	pending := &models.PendingBooking{
		ID:         id,
		EventID:    event.ID,
		EventName:  event.Name,
		EventDate:  event.Date,
		Venue:      event.Venue,
		Quantity:   req.Quantity,
		UnitPrice:  event.Price,
		TotalPrice: event.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Attendee:   req.Attendee,
		Email:      req.Email,
		CreatedAt:  s.clock.Now(),
	}

	data, err := json.Marshal(pending)
	if err != nil {
		return nil, err
	}

	if err := s.redis.Set(ctx, pendingKey(id), data, s.ttl).Err(); err != nil {
		return nil, err
	}

	return pending, nil
}

// ConfirmAndPay settles the simulated payment and then books against
// authoritative inventory. The pending context is consumed atomically up
// front, so of any number of concurrent confirmations for the same id
// exactly one proceeds, and every outcome of it is terminal.
func (s *BookingService) ConfirmAndPay(ctx context.Context, pendingID string) (*models.Ticket, error) {
	data, err := s.redis.GetDel(ctx, pendingKey(pendingID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", status.ErrPendingNotFound, pendingID)
		}
		return nil, err
	}

	var pending models.PendingBooking
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, err
	}

	receipt, err := s.gateway.Charge(ctx, &payment.ChargeRequest{
		Reference: pending.ID,
		Amount:    pending.TotalPrice,
		Currency:  "INR",
		Payer:     pending.Attendee,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Payment %s settled for pending booking %s", receipt.TransactionID, pending.ID)

	ticket, err := s.inventory.Book(ctx, BookRequest{
		EventID:  pending.EventID,
		Quantity: pending.Quantity,
		Attendee: pending.Attendee,
		Email:    pending.Email,
	})
	if err != nil {
		// Inventory may have changed during settlement; the failure is
		// terminal for this attempt and surfaces unchanged.
		return nil, err
	}

	return ticket, nil
}

// Abandon discards a pending booking without touching the store.
func (s *BookingService) Abandon(ctx context.Context, pendingID string) error {
	deleted, err := s.redis.Del(ctx, pendingKey(pendingID)).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %s", status.ErrPendingNotFound, pendingID)
	}
	return nil
}
