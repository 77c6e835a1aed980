package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"

	"ticketdesk/internal/status"
)

// apiError maps service failures onto HTTP responses. Taxonomy errors keep
// their message; anything unrecognized becomes an opaque 500.
func apiError(err error) error {
	switch {
	case errors.Is(err, status.ErrValidation):
		return apis.NewBadRequestError(err.Error(), err)
	case errors.Is(err, status.ErrEventNotFound),
		errors.Is(err, status.ErrTicketNotFound),
		errors.Is(err, status.ErrPendingNotFound):
		return apis.NewNotFoundError(err.Error(), err)
	case errors.Is(err, status.ErrInsufficientInventory),
		errors.Is(err, status.ErrTransactionConflict):
		return apis.NewApiError(http.StatusConflict, err.Error(), err)
	case errors.Is(err, status.ErrPaymentFailed):
		return apis.NewApiError(http.StatusBadGateway, err.Error(), err)
	default:
		return apis.NewApiError(http.StatusInternalServerError, "Something went wrong", err)
	}
}
