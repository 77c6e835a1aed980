package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		events, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("tickets")

		collection.Fields.Add(
			&core.RelationField{
				Name:         "event",
				CollectionId: events.Id,
				MaxSelect:    1,
				// Not required and no cascade: deleting an event clears
				// the reference but keeps the ticket, which carries its
				// own event snapshot.
				CascadeDelete: false,
			},
			&core.TextField{
				Name: "event_name",
			},
			&core.TextField{
				Name: "event_date",
			},
			&core.TextField{
				Name: "venue",
			},
			&core.TextField{
				Name:     "attendee",
				Required: true,
			},
			&core.EmailField{
				Name: "email",
			},
			&core.NumberField{
				Name:    "quantity",
				Min:     types.Pointer(1.0),
				OnlyInt: true,
			},
			&core.NumberField{
				Name: "unit_price",
				Min:  types.Pointer(0.0),
			},
			&core.NumberField{
				Name: "total_price",
				Min:  types.Pointer(0.0),
			},
			&core.TextField{
				Name: "reference",
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
			&core.AutodateField{
				Name:     "updated",
				OnCreate: true,
				OnUpdate: true,
			},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
