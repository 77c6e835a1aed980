package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		events, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("idcards")

		collection.Fields.Add(
			&core.TextField{
				Name:     "name",
				Required: true,
			},
			&core.TextField{
				Name:     "role",
				Required: true,
			},
			&core.RelationField{
				Name:          "event",
				CollectionId:  events.Id,
				MaxSelect:     1,
				CascadeDelete: false,
			},
			&core.TextField{
				Name: "event_name",
			},
			&core.TextField{
				Name: "contact",
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
		collection, err := app.FindCollectionByNameOrId("idcards")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
