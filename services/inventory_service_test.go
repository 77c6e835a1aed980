package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pocketbase/pocketbase/tests"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketdesk/internal/status"
	"ticketdesk/internal/testutil"
)

func setupInventoryTest(t *testing.T) (*tests.TestApp, *InventoryService) {
	t.Helper()

	testApp, err := tests.NewTestApp()
	require.NoError(t, err)
	t.Cleanup(testApp.Cleanup)

	testutil.SetupCollections(t, testApp)

	return testApp, NewInventoryService(testApp)
}

func TestInventoryService_Book_Success(t *testing.T) {
	testApp, service := setupInventoryTest(t)
	event := testutil.CreateEvent(t, testApp, "Summer Gala", "2026-09-12", "City Hall", 100, 50.00)

	ticket, err := service.Book(context.Background(), BookRequest{
		EventID:  event.Id,
		Quantity: 3,
		Attendee: "Alice",
		Email:    "a@x.com",
	})
	require.NoError(t, err)
	require.NotNil(t, ticket)

	assert.Equal(t, event.Id, ticket.EventID)
	assert.Equal(t, "Summer Gala", ticket.EventName)
	assert.Equal(t, "2026-09-12", ticket.EventDate)
	assert.Equal(t, "City Hall", ticket.Venue)
	assert.Equal(t, 3, ticket.Quantity)
	assert.True(t, ticket.TotalPrice.Equal(decimal.NewFromInt(150)), "expected total 150, got %s", ticket.TotalPrice)
	assert.NotEmpty(t, ticket.Reference)

	updated, err := testApp.FindRecordById("events", event.Id)
	require.NoError(t, err)
	assert.Equal(t, 97, updated.GetInt("available_seats"))

	stored, err := testApp.FindRecordById("tickets", ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.GetInt("quantity"))
}

func TestInventoryService_Book_InsufficientSeats(t *testing.T) {
	testApp, service := setupInventoryTest(t)
	event := testutil.CreateEvent(t, testApp, "Small Show", "2026-10-01", "Club", 2, 50.00)

	ticket, err := service.Book(context.Background(), BookRequest{
		EventID:  event.Id,
		Quantity: 5,
		Attendee: "Bob",
		Email:    "b@x.com",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrInsufficientInventory)
	assert.Nil(t, ticket)

	// A failed transaction leaves zero side effects
	updated, err := testApp.FindRecordById("events", event.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.GetInt("available_seats"))

	tickets, err := testApp.FindAllRecords("tickets")
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestInventoryService_Book_EventNotFound(t *testing.T) {
	_, service := setupInventoryTest(t)

	_, err := service.Book(context.Background(), BookRequest{
		EventID:  "missing0000000",
		Quantity: 1,
		Attendee: "Alice",
	})
	assert.ErrorIs(t, err, status.ErrEventNotFound)
}

func TestInventoryService_Book_Validation(t *testing.T) {
	_, service := setupInventoryTest(t)

	cases := []struct {
		name string
		req  BookRequest
	}{
		{"zero quantity", BookRequest{EventID: "evt", Quantity: 0, Attendee: "Alice"}},
		{"negative quantity", BookRequest{EventID: "evt", Quantity: -2, Attendee: "Alice"}},
		{"missing event", BookRequest{Quantity: 1, Attendee: "Alice"}},
		{"missing attendee", BookRequest{EventID: "evt", Quantity: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Book(context.Background(), tc.req)
			assert.ErrorIs(t, err, status.ErrValidation)
		})
	}
}

func TestInventoryService_Book_BoundaryDrainsToZero(t *testing.T) {
	testApp, service := setupInventoryTest(t)
	event := testutil.CreateEvent(t, testApp, "Finale", "2026-11-20", "Arena", 4, 25.00)

	ticket, err := service.Book(context.Background(), BookRequest{
		EventID:  event.Id,
		Quantity: 4,
		Attendee: "Carol",
		Email:    "c@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, ticket.Quantity)

	updated, err := testApp.FindRecordById("events", event.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.GetInt("available_seats"))

	_, err = service.Book(context.Background(), BookRequest{
		EventID:  event.Id,
		Quantity: 1,
		Attendee: "Dave",
	})
	assert.ErrorIs(t, err, status.ErrInsufficientInventory)
}

func TestInventoryService_Cancel_RoundTrip(t *testing.T) {
	testApp, service := setupInventoryTest(t)
	event := testutil.CreateEvent(t, testApp, "Matinee", "2026-12-05", "Theatre", 10, 30.00)

	ticket, err := service.Book(context.Background(), BookRequest{
		EventID:  event.Id,
		Quantity: 4,
		Attendee: "Eve",
		Email:    "e@x.com",
	})
	require.NoError(t, err)

	updated, err := testApp.FindRecordById("events", event.Id)
	require.NoError(t, err)
	require.Equal(t, 6, updated.GetInt("available_seats"))

	err = service.Cancel(context.Background(), ticket.ID, event.Id, 4)
	require.NoError(t, err)

	restored, err := testApp.FindRecordById("events", event.Id)
	require.NoError(t, err)
	assert.Equal(t, 10, restored.GetInt("available_seats"))

	_, err = testApp.FindRecordById("tickets", ticket.ID)
	assert.Error(t, err, "cancelled ticket should be gone")
}

func TestInventoryService_Cancel_UsesRecordedQuantity(t *testing.T) {
	testApp, service := setupInventoryTest(t)
	event := testutil.CreateEvent(t, testApp, "Recital", "2027-01-15", "Hall B", 20, 10.00)

	ticket, err := service.Book(context.Background(), BookRequest{
		EventID:  event.Id,
		Quantity: 5,
		Attendee: "Frank",
	})
	require.NoError(t, err)

	// Quantity zero means "not supplied": the ticket record decides.
	err = service.Cancel(context.Background(), ticket.ID, event.Id, 0)
	require.NoError(t, err)

	restored, err := testApp.FindRecordById("events", event.Id)
	require.NoError(t, err)
	assert.Equal(t, 20, restored.GetInt("available_seats"))
}

func TestInventoryService_Cancel_QuantityMismatch(t *testing.T) {
	testApp, service := setupInventoryTest(t)
	event := testutil.CreateEvent(t, testApp, "Opera", "2027-02-10", "Grand", 20, 80.00)

	ticket, err := service.Book(context.Background(), BookRequest{
		EventID:  event.Id,
		Quantity: 4,
		Attendee: "Grace",
	})
	require.NoError(t, err)

	err = service.Cancel(context.Background(), ticket.ID, event.Id, 2)
	assert.ErrorIs(t, err, status.ErrValidation)

	// Mismatch must not desynchronize the seat counter
	unchanged, err := testApp.FindRecordById("events", event.Id)
	require.NoError(t, err)
	assert.Equal(t, 16, unchanged.GetInt("available_seats"))

	_, err = testApp.FindRecordById("tickets", ticket.ID)
	assert.NoError(t, err, "ticket should survive a rejected cancellation")
}

func TestInventoryService_Cancel_WrongEvent(t *testing.T) {
	testApp, service := setupInventoryTest(t)
	eventA := testutil.CreateEvent(t, testApp, "Show A", "2027-03-01", "Stage A", 10, 15.00)
	eventB := testutil.CreateEvent(t, testApp, "Show B", "2027-03-02", "Stage B", 10, 15.00)

	ticket, err := service.Book(context.Background(), BookRequest{
		EventID:  eventA.Id,
		Quantity: 2,
		Attendee: "Heidi",
	})
	require.NoError(t, err)

	err = service.Cancel(context.Background(), ticket.ID, eventB.Id, 2)
	assert.ErrorIs(t, err, status.ErrValidation)
}

func TestInventoryService_Cancel_TicketNotFound(t *testing.T) {
	testApp, service := setupInventoryTest(t)
	event := testutil.CreateEvent(t, testApp, "Ghost", "2027-04-01", "Nowhere", 10, 5.00)

	err := service.Cancel(context.Background(), "missing0000000", event.Id, 1)
	assert.ErrorIs(t, err, status.ErrTicketNotFound)
}

func TestInventoryService_ConcurrentBooking_LastSeat(t *testing.T) {
	testApp, service := setupInventoryTest(t)
	event := testutil.CreateEvent(t, testApp, "Sold Out", "2027-05-01", "Tiny Room", 1, 99.00)

	var wg sync.WaitGroup
	errs := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Book(context.Background(), BookRequest{
				EventID:  event.Id,
				Quantity: 1,
				Attendee: "Racer",
				Email:    "r@x.com",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			// The loser either saw the decremented counter or lost the
			// transaction race; both are acceptable terminal failures.
			if !errors.Is(err, status.ErrInsufficientInventory) && !errors.Is(err, status.ErrTransactionConflict) {
				t.Fatalf("unexpected failure kind: %v", err)
			}
		}
	}
	assert.Equal(t, 1, successes, "exactly one of two concurrent bookings must commit")

	final, err := testApp.FindRecordById("events", event.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, final.GetInt("available_seats"))

	tickets, err := testApp.FindAllRecords("tickets")
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestInventoryService_ConservationInvariant(t *testing.T) {
	testApp, service := setupInventoryTest(t)
	event := testutil.CreateEvent(t, testApp, "Festival", "2027-06-01", "Park", 50, 20.00)

	first, err := service.Book(context.Background(), BookRequest{EventID: event.Id, Quantity: 7, Attendee: "Ivan"})
	require.NoError(t, err)
	_, err = service.Book(context.Background(), BookRequest{EventID: event.Id, Quantity: 5, Attendee: "Judy"})
	require.NoError(t, err)
	_, err = service.Book(context.Background(), BookRequest{EventID: event.Id, Quantity: 3, Attendee: "Ken"})
	require.NoError(t, err)

	require.NoError(t, service.Cancel(context.Background(), first.ID, event.Id, 7))

	final, err := testApp.FindRecordById("events", event.Id)
	require.NoError(t, err)

	tickets, err := testApp.FindAllRecords("tickets")
	require.NoError(t, err)

	booked := 0
	for _, ticket := range tickets {
		booked += ticket.GetInt("quantity")
	}

	// seats - availableSeats == sum of live ticket quantities
	assert.Equal(t, final.GetInt("seats")-final.GetInt("available_seats"), booked)
}
