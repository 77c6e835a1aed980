package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"ticketdesk/internal/status"
	"ticketdesk/models"
	"ticketdesk/monitoring"
)

// CatalogCache is a Redis read-through cache of event records, kept fresh
// by record hooks. It serves optimistic pre-checks and rendering only;
// the inventory transactions always re-read the store and never consult
// this cache, so a stale entry can cost a round trip but never a seat.
type CatalogCache struct {
	app   core.App
	redis *redis.Client
	ttl   time.Duration
}

func NewCatalogCache(app core.App, redisClient *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{app: app, redis: redisClient, ttl: ttl}
}

func catalogKey(eventID string) string {
	return fmt.Sprintf("catalog:event:%s", eventID)
}

// Get returns the cached event, falling through to the store on a miss.
func (c *CatalogCache) Get(ctx context.Context, eventID string) (*models.Event, error) {
	vals, err := c.redis.HGetAll(ctx, catalogKey(eventID)).Result()
	if err == nil && len(vals) > 0 {
		if event, parseErr := eventFromHash(eventID, vals); parseErr == nil {
			return event, nil
		}
	}

	record, err := c.app.FindRecordById("events", eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", status.ErrEventNotFound, eventID)
		}
		return nil, err
	}

	event := models.EventFromRecord(record)
	c.put(ctx, event)
	return event, nil
}

// Invalidate drops an event from the cache.
func (c *CatalogCache) Invalidate(ctx context.Context, eventID string) {
	c.redis.Del(ctx, catalogKey(eventID))
}

func (c *CatalogCache) put(ctx context.Context, event *models.Event) {
	key := catalogKey(event.ID)

	c.redis.HSet(ctx, key,
		"name", event.Name,
		"date", event.Date,
		"venue", event.Venue,
		"seats", event.Seats,
		"available_seats", event.AvailableSeats,
		"price", event.Price.String(),
	)
	c.redis.Expire(ctx, key, c.ttl)
}

// Bind registers the subscription callbacks that keep the cache current.
// The hooks fire after the store commit, so the cache never sees state
// from an aborted transaction.
func (c *CatalogCache) Bind(app core.App) {
	app.OnRecordAfterCreateSuccess("events").BindFunc(func(e *core.RecordEvent) error {
		c.put(context.Background(), models.EventFromRecord(e.Record))
		return e.Next()
	})

	app.OnRecordAfterUpdateSuccess("events").BindFunc(func(e *core.RecordEvent) error {
		c.put(context.Background(), models.EventFromRecord(e.Record))
		return e.Next()
	})

	app.OnRecordAfterDeleteSuccess("events").BindFunc(func(e *core.RecordEvent) error {
		c.Invalidate(context.Background(), e.Record.Id)
		monitoring.DropEvent(e.Record.Id)
		return e.Next()
	})
}

func eventFromHash(eventID string, vals map[string]string) (*models.Event, error) {
	seats, err := strconv.Atoi(vals["seats"])
	if err != nil {
		return nil, err
	}
	available, err := strconv.Atoi(vals["available_seats"])
	if err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(vals["price"])
	if err != nil {
		return nil, err
	}

	return &models.Event{
		ID:             eventID,
		Name:           vals["name"],
		Date:           vals["date"],
		Venue:          vals["venue"],
		Seats:          seats,
		AvailableSeats: available,
		Price:          price,
	}, nil
}
