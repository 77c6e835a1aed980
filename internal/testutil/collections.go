// Package testutil provisions the application collections inside a
// throwaway PocketBase test app.
package testutil

import (
	"testing"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

// SetupCollections creates the events, tickets and idcards collections,
// mirroring the migration definitions.
func SetupCollections(t testing.TB, app core.App) {
	t.Helper()

	events := core.NewBaseCollection("events")
	events.Fields.Add(
		&core.TextField{Name: "name", Required: true},
		&core.TextField{Name: "date", Required: true},
		&core.TextField{Name: "venue", Required: true},
		&core.NumberField{Name: "seats", Min: types.Pointer(0.0), OnlyInt: true},
		&core.NumberField{Name: "available_seats", Min: types.Pointer(0.0), OnlyInt: true},
		&core.NumberField{Name: "price", Min: types.Pointer(0.0)},
		&core.AutodateField{Name: "created", OnCreate: true},
		&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
	)
	if err := app.Save(events); err != nil {
		t.Fatalf("failed to create events collection: %v", err)
	}

	tickets := core.NewBaseCollection("tickets")
	tickets.Fields.Add(
		&core.RelationField{Name: "event", CollectionId: events.Id, MaxSelect: 1},
		&core.TextField{Name: "event_name"},
		&core.TextField{Name: "event_date"},
		&core.TextField{Name: "venue"},
		&core.TextField{Name: "attendee", Required: true},
		&core.EmailField{Name: "email"},
		&core.NumberField{Name: "quantity", Min: types.Pointer(1.0), OnlyInt: true},
		&core.NumberField{Name: "unit_price", Min: types.Pointer(0.0)},
		&core.NumberField{Name: "total_price", Min: types.Pointer(0.0)},
		&core.TextField{Name: "reference"},
		&core.AutodateField{Name: "created", OnCreate: true},
		&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
	)
	if err := app.Save(tickets); err != nil {
		t.Fatalf("failed to create tickets collection: %v", err)
	}

	idcards := core.NewBaseCollection("idcards")
	idcards.Fields.Add(
		&core.TextField{Name: "name", Required: true},
		&core.TextField{Name: "role", Required: true},
		&core.RelationField{Name: "event", CollectionId: events.Id, MaxSelect: 1},
		&core.TextField{Name: "event_name"},
		&core.TextField{Name: "contact"},
		&core.AutodateField{Name: "created", OnCreate: true},
		&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
	)
	if err := app.Save(idcards); err != nil {
		t.Fatalf("failed to create idcards collection: %v", err)
	}
}

// CreateEvent inserts an event record with all seats available.
func CreateEvent(t testing.TB, app core.App, name, date, venue string, seats int, price float64) *core.Record {
	t.Helper()

	collection, err := app.FindCollectionByNameOrId("events")
	if err != nil {
		t.Fatalf("events collection missing: %v", err)
	}

	record := core.NewRecord(collection)
	record.Set("name", name)
	record.Set("date", date)
	record.Set("venue", venue)
	record.Set("seats", seats)
	record.Set("available_seats", seats)
	record.Set("price", price)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	return record
}
