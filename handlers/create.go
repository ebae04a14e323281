package handlers

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/socialwire/notifier/notifier"
)

// CreateRequest represents a deserialized request to create a notification
// for a user. The notification type comes from the routing key, not the body.
type CreateRequest struct {
	User        string                 `json:"user"`
	Description string                 `json:"description"`
	Context     map[string]interface{} `json:"context"`
	Target      *TargetRef             `json:"target"`
}

// TargetRef is the wire form of the opaque reference to the domain object a
// notification is about.
type TargetRef struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

// Create is the message handler for notification creation requests.
type Create struct {
	notifier *notifier.Notifier
}

// NewCreate returns a new notification creation handler.
func NewCreate(nc *notifier.Notifier) *Create {
	return &Create{notifier: nc}
}

// HandleMessage handles a single AMQP delivery. The detail component of the
// routing key names the notification type to create.
func (h *Create) HandleMessage(ctx context.Context, detail string, delivery amqp.Delivery) error {

	// Parse the message body.
	var request CreateRequest
	err := json.Unmarshal(delivery.Body, &request)
	if err != nil {
		return NewUnrecoverableError("unable to parse message body: %s", err.Error())
	}
	if request.User == "" {
		return NewUnrecoverableError("missing user in notification request")
	}

	// Build the creation request for the notifier.
	createRequest := &notifier.CreateRequest{
		User:        request.User,
		Type:        notifier.ByName(detail),
		Description: request.Description,
		Context:     request.Context,
	}
	if request.Target != nil {
		createRequest.Target = notifier.ObjectRef{Kind: request.Target.Kind, ID: request.Target.ID}
	}

	// Create the notification. An unknown notification type indicates a
	// misconfigured publisher, so redelivering the message can't help.
	notification, err := h.notifier.CreateForUser(ctx, createRequest)
	if err != nil {
		switch err.(type) {
		case notifier.NotFoundError, notifier.InvalidArgumentError:
			return NewUnrecoverableError(err.Error())
		default:
			return NewRecoverableError(err.Error())
		}
	}

	log.WithFields(logrus.Fields{"notification": notification.ID, "user": request.User}).
		Info("notification recorded")
	return nil
}
