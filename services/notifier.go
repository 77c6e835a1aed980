package services

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
	pubnub "github.com/pubnub/go"
)

// Notifier broadcasts catalog, ledger and badge changes to the operator
// dashboard channel so connected consoles re-render from fresh state.
type Notifier struct {
	pubnub  *pubnub.PubNub
	channel string
}

func NewNotifier(pn *pubnub.PubNub, channel string) *Notifier {
	return &Notifier{pubnub: pn, channel: channel}
}

// Bind subscribes the notifier to post-commit record changes. The hooks
// only fire for persisted state, so dashboards never observe a write that
// was rolled back.
func (n *Notifier) Bind(app core.App) {
	for _, collection := range []string{"events", "tickets", "idcards"} {
		app.OnRecordAfterCreateSuccess(collection).BindFunc(func(e *core.RecordEvent) error {
			n.publish(e.Record.Collection().Name, "created", e.Record.Id)
			return e.Next()
		})

		app.OnRecordAfterUpdateSuccess(collection).BindFunc(func(e *core.RecordEvent) error {
			n.publish(e.Record.Collection().Name, "updated", e.Record.Id)
			return e.Next()
		})

		app.OnRecordAfterDeleteSuccess(collection).BindFunc(func(e *core.RecordEvent) error {
			n.publish(e.Record.Collection().Name, "deleted", e.Record.Id)
			return e.Next()
		})
	}
}

func (n *Notifier) publish(collection, action, recordID string) {
	if n.pubnub == nil {
		return
	}

	n.pubnub.Publish().
		Channel(n.channel).
		Message(map[string]interface{}{
			"collection": collection,
			"action":     action,
			"id":         recordID,
			"timestamp":  time.Now().Unix(),
		}).
		Execute()
}
