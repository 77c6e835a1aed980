package status

import "errors"

// Failure taxonomy for booking and cancellation. Every error leaving the
// inventory and booking services wraps one of these sentinels so handlers
// can map them to HTTP responses with errors.Is.
var (
	ErrEventNotFound         = errors.New("inventory: event not found")
	ErrTicketNotFound        = errors.New("inventory: ticket not found")
	ErrInsufficientInventory = errors.New("inventory: insufficient seats")
	ErrTransactionConflict   = errors.New("inventory: transaction aborted")
	ErrValidation            = errors.New("inventory: invalid request")
	ErrPendingNotFound       = errors.New("booking: pending booking not found")
	ErrPaymentFailed         = errors.New("payment: payment failed")
)
