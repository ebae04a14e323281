// Package handlers contains the AMQP message handlers that drive the
// notification core: one handler per routing-key category, each deserializing
// a request body and calling into the notifier.
package handlers

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/socialwire/notifier/notifier"
)

var log = logrus.WithFields(logrus.Fields{"package": "handlers"})

// MessageHandler describes the interface used to handle AMQP messages. The
// detail argument is the final component of the routing key; its meaning
// depends on the handler.
type MessageHandler interface {
	HandleMessage(ctx context.Context, detail string, delivery amqp.Delivery) error
}

// InitMessageHandlers returns a map from routing-key category to message handler.
func InitMessageHandlers(nc *notifier.Notifier) map[string]MessageHandler {
	return map[string]MessageHandler{
		"create":   NewCreate(nc),
		"settings": NewSettings(nc),
		"renotify": NewRenotify(nc),
	}
}
