package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/pocketbase/pocketbase/tests"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketdesk/internal/status"
	"ticketdesk/internal/testutil"
)

func TestCatalogCache_Get_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	cache := NewCatalogCache(nil, db, 5*time.Minute)

	mock.ExpectHGetAll("catalog:event:evt1").SetVal(map[string]string{
		"name":            "Gala Night",
		"date":            "2026-09-12",
		"venue":           "City Hall",
		"seats":           "100",
		"available_seats": "97",
		"price":           "50",
	})

	event, err := cache.Get(context.Background(), "evt1")
	require.NoError(t, err)

	assert.Equal(t, "Gala Night", event.Name)
	assert.Equal(t, 100, event.Seats)
	assert.Equal(t, 97, event.AvailableSeats)
	assert.True(t, event.Price.Equal(decimal.NewFromInt(50)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogCache_Get_MissFallsThroughToStore(t *testing.T) {
	testApp, err := tests.NewTestApp()
	require.NoError(t, err)
	t.Cleanup(testApp.Cleanup)
	testutil.SetupCollections(t, testApp)

	record := testutil.CreateEvent(t, testApp, "Summer Gala", "2026-09-12", "City Hall", 100, 50.00)

	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	cache := NewCatalogCache(testApp, db, 5*time.Minute)
	key := "catalog:event:" + record.Id

	mock.ExpectHGetAll(key).SetVal(map[string]string{})
	mock.ExpectHSet(key,
		"name", "Summer Gala",
		"date", "2026-09-12",
		"venue", "City Hall",
		"seats", 100,
		"available_seats", 100,
		"price", "50",
	).SetVal(6)
	mock.ExpectExpire(key, 5*time.Minute).SetVal(true)

	event, err := cache.Get(context.Background(), record.Id)
	require.NoError(t, err)

	assert.Equal(t, "Summer Gala", event.Name)
	assert.Equal(t, 100, event.AvailableSeats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogCache_Get_UnknownEvent(t *testing.T) {
	testApp, err := tests.NewTestApp()
	require.NoError(t, err)
	t.Cleanup(testApp.Cleanup)
	testutil.SetupCollections(t, testApp)

	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	cache := NewCatalogCache(testApp, db, 5*time.Minute)

	mock.ExpectHGetAll("catalog:event:missing0000000").SetVal(map[string]string{})

	_, err = cache.Get(context.Background(), "missing0000000")
	assert.ErrorIs(t, err, status.ErrEventNotFound)
}

func TestCatalogCache_Invalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()

	cache := NewCatalogCache(nil, db, 5*time.Minute)

	mock.ExpectDel("catalog:event:evt1").SetVal(1)
	cache.Invalidate(context.Background(), "evt1")

	assert.NoError(t, mock.ExpectationsWereMet())
}
