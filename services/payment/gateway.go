package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ticketdesk/internal/status"
	"ticketdesk/monitoring"
	"ticketdesk/utils"
)

// ChargeRequest is a generic payment request.
type ChargeRequest struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Payer     string          `json:"payer"`
}

// Receipt is the settlement confirmation returned by a gateway.
type Receipt struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	SettledAt     time.Time       `json:"settled_at"`
}

// Gateway is the settlement interface the booking flow charges against.
type Gateway interface {
	// Provider returns the gateway provider name.
	Provider() string

	// Charge settles a payment. The call blocks until the gateway
	// resolves; callers get either a receipt or an error, never both.
	Charge(ctx context.Context, req *ChargeRequest) (*Receipt, error)
}

// Simulated is a gateway that settles every charge after a fixed delay.
// There is no monetary transfer and no cancellation path: once a charge
// starts, it runs the full delay before resolving. A real provider would
// slot in behind the same interface with idempotency keyed on Reference.
type Simulated struct {
	delay time.Duration
}

func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{delay: delay}
}

func (s *Simulated) Provider() string { return "simulated" }

func (s *Simulated) Charge(ctx context.Context, req *ChargeRequest) (*Receipt, error) {
	if req == nil || req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: invalid charge amount", status.ErrPaymentFailed)
	}

	start := time.Now()
	time.Sleep(s.delay)
	monitoring.ObservePaymentSettlement(time.Since(start))

	transactionID, err := utils.GenerateCode(8)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrPaymentFailed, err)
	}

	return &Receipt{
		TransactionID: transactionID,
		Amount:        req.Amount,
		SettledAt:     time.Now(),
	}, nil
}

// Guarded wraps a gateway in a circuit breaker so a flapping provider
// fails fast instead of stalling every confirmation.
type Guarded struct {
	gateway Gateway
	breaker *utils.CircuitBreaker
}

func NewGuarded(gateway Gateway, breaker *utils.CircuitBreaker) *Guarded {
	return &Guarded{gateway: gateway, breaker: breaker}
}

func (g *Guarded) Provider() string { return g.gateway.Provider() }

func (g *Guarded) Charge(ctx context.Context, req *ChargeRequest) (*Receipt, error) {
	result, err := g.breaker.Execute(ctx, func() (any, error) {
		return g.gateway.Charge(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrPaymentFailed, err)
	}
	return result.(*Receipt), nil
}
