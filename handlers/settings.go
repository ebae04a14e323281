package handlers

import (
	"context"
	"encoding/json"

	"github.com/streadway/amqp"

	"github.com/socialwire/notifier/notifier"
)

// SettingsRequest represents a deserialized settings form submission: a map
// from notification type name to the submitted boolean. Names that don't
// match the current catalog are tolerated and skipped by the writer.
type SettingsRequest struct {
	User     string          `json:"user"`
	Settings map[string]bool `json:"settings"`
}

// Settings is the message handler for settings update requests.
type Settings struct {
	notifier *notifier.Notifier
}

// NewSettings returns a new settings update handler.
func NewSettings(nc *notifier.Notifier) *Settings {
	return &Settings{notifier: nc}
}

// HandleMessage handles a single AMQP delivery.
func (h *Settings) HandleMessage(ctx context.Context, detail string, delivery amqp.Delivery) error {

	// Parse the message body.
	var request SettingsRequest
	err := json.Unmarshal(delivery.Body, &request)
	if err != nil {
		return NewUnrecoverableError("unable to parse message body: %s", err.Error())
	}
	if request.User == "" {
		return NewUnrecoverableError("missing user in settings request")
	}

	// Apply the batch.
	err = h.notifier.Apply(ctx, request.User, request.Settings)
	if err != nil {
		return NewRecoverableError("unable to apply settings for `%s`: %s", request.User, err.Error())
	}

	return nil
}
