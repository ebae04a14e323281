// Package handlerset ties the AMQP client to the message handlers: it owns
// the connection, binds the consumer queue, and routes each delivery to the
// handler registered for its routing-key category.
package handlerset

import (
	"context"
	"strings"

	"github.com/cyverse-de/messaging/v9"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/socialwire/notifier/handlers"
)

var log = logrus.WithFields(logrus.Fields{"package": "handlerset"})

// routingKeyPrefix is the first component of every routing key this service
// consumes: notifications.<category>.<detail>.
const routingKeyPrefix = "notifications"

// AMQPSettings represents the settings that we require in order to connect to the AMQP exchange.
type AMQPSettings struct {
	URI          string
	ExchangeName string
	ExchangeType string
	QueueName    string
}

// HandlerSet represents a set of AMQP message handlers.
type HandlerSet struct {
	amqpClient   *messaging.Client
	amqpSettings *AMQPSettings
	handlerFor   map[string]handlers.MessageHandler
}

// New creates a new handler set.
func New(amqpSettings *AMQPSettings, handlerFor map[string]handlers.MessageHandler) (*HandlerSet, error) {
	wrapMsg := "unable to create the message handler set"

	// Create the AMQP client.
	amqpClient, err := messaging.NewClient(amqpSettings.URI, true)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Build and return the handler set.
	handlerSet := HandlerSet{
		amqpClient:   amqpClient,
		amqpSettings: amqpSettings,
		handlerFor:   handlerFor,
	}
	return &handlerSet, nil
}

// Client returns the AMQP client owned by the handler set, so that outgoing
// messages can be published over the same connection.
func (hs *HandlerSet) Client() *messaging.Client {
	return hs.amqpClient
}

// Listen sets up publishing, binds the consumer queue to the notification
// routing keys, and begins consuming. It does not block; deliveries are
// handled on the client's consumer goroutines.
func (hs *HandlerSet) Listen() error {
	wrapMsg := "unable to begin listening for messages"

	err := hs.amqpClient.SetupPublishing(hs.amqpSettings.ExchangeName)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	go hs.amqpClient.Listen()

	hs.amqpClient.AddConsumerMulti(
		hs.amqpSettings.ExchangeName,
		hs.amqpSettings.ExchangeType,
		hs.amqpSettings.QueueName,
		[]string{routingKeyPrefix + ".#"},
		hs.handleMessage,
		1)

	return nil
}

// Close closes a message handler set.
func (hs *HandlerSet) Close() {
	hs.amqpClient.Close()
}

// handleMessage routes a single delivery to the handler registered for its
// routing-key category. Deliveries that fail with a recoverable error are
// requeued; everything else is acknowledged or rejected outright.
func (hs *HandlerSet) handleMessage(ctx context.Context, delivery amqp.Delivery) {
	category, detail := splitRoutingKey(delivery.RoutingKey)

	handler, ok := hs.handlerFor[category]
	if !ok {
		log.WithFields(logrus.Fields{"key": delivery.RoutingKey}).
			Warn("no handler registered for routing key")
		if err := delivery.Reject(false); err != nil {
			log.Error(err)
		}
		return
	}

	err := handler.HandleMessage(ctx, detail, delivery)
	if err != nil {
		log.WithFields(logrus.Fields{"key": delivery.RoutingKey}).Error(err)
		if rejectErr := delivery.Reject(handlers.IsRecoverable(err)); rejectErr != nil {
			log.Error(rejectErr)
		}
		return
	}

	if err := delivery.Ack(false); err != nil {
		log.Error(err)
	}
}

// splitRoutingKey breaks a routing key of the form
// notifications.<category>.<detail> into its category and detail components.
// Missing components come back empty.
func splitRoutingKey(routingKey string) (string, string) {
	parts := strings.SplitN(routingKey, ".", 3)
	if len(parts) < 2 || parts[0] != routingKeyPrefix {
		return "", ""
	}
	if len(parts) < 3 {
		return parts[1], ""
	}
	return parts[1], parts[2]
}
