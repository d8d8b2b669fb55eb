// Package events announces ledger changes to other systems.
package events

import (
	"context"
	"encoding/json"
	"time"
)

const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// Event is the message body. Type is "{resource}.{action}", e.g.
// "credit_note.created", and doubles as the routing key.
type Event struct {
	Type      string    `json:"type"`
	Workspace string    `json:"workspace"`
	ID        int64     `json:"id"`
	At        time.Time `json:"at"`
}

func New(resource, action, workspace string, id int64) Event {
	return Event{
		Type:      resource + "." + action,
		Workspace: workspace,
		ID:        id,
		At:        time.Now().UTC(),
	}
}

func (e Event) JSON() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
