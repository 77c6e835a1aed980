package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("events")

		collection.Fields.Add(
			&core.TextField{
				Name:     "name",
				Required: true,
			},
			&core.TextField{
				Name:     "date",
				Required: true,
			},
			&core.TextField{
				Name:     "venue",
				Required: true,
			},
			&core.NumberField{
				Name:    "seats",
				Min:     types.Pointer(0.0),
				OnlyInt: true,
			},
			&core.NumberField{
				Name:    "available_seats",
				Min:     types.Pointer(0.0),
				OnlyInt: true,
			},
			&core.NumberField{
				Name: "price",
				Min:  types.Pointer(0.0),
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
		collection, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
