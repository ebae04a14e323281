// Package notifier implements the notification preference and dispatch core:
// notification type lookup, per-user settings resolution, settings batch
// application, and notification creation with conditional event fan-out.
package notifier

import (
	"database/sql"
	"time"

	"github.com/socialwire/notifier/events"
)

// Notifier ties the notification store to the event dispatcher. Every public
// operation runs within its own database transaction and raises its events
// only after the transaction has been committed.
type Notifier struct {
	db       *sql.DB
	events   *events.Dispatcher
	renderer Renderer
	now      func() time.Time
}

// Option customizes a Notifier.
type Option func(*Notifier)

// WithRenderer replaces the default description template renderer.
func WithRenderer(renderer Renderer) Option {
	return func(n *Notifier) {
		n.renderer = renderer
	}
}

// New returns a Notifier that reads and writes notification data through the
// given database and raises events on the given dispatcher.
func New(database *sql.DB, dispatcher *events.Dispatcher, options ...Option) *Notifier {
	n := &Notifier{
		db:       database,
		events:   dispatcher,
		renderer: templateRenderer{},
		now:      time.Now,
	}
	for _, option := range options {
		option(n)
	}
	return n
}
