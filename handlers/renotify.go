package handlers

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"

	"github.com/socialwire/notifier/notifier"
)

// Renotify is the message handler for requests to re-raise an existing
// notification. The detail component of the routing key carries the
// notification ID; the body is ignored.
type Renotify struct {
	notifier *notifier.Notifier
}

// NewRenotify returns a new renotify handler.
func NewRenotify(nc *notifier.Notifier) *Renotify {
	return &Renotify{notifier: nc}
}

// HandleMessage handles a single AMQP delivery.
func (h *Renotify) HandleMessage(ctx context.Context, detail string, delivery amqp.Delivery) error {
	if detail == "" {
		return NewUnrecoverableError("missing notification ID in renotify routing key")
	}

	err := h.notifier.RenotifyByID(ctx, detail)
	if errors.Cause(err) == sql.ErrNoRows {
		return NewUnrecoverableError("no notification with ID `%s`", detail)
	}
	if err != nil {
		return NewRecoverableError("unable to renotify `%s`: %s", detail, err.Error())
	}

	return nil
}
