// Package emailer is the delivery subscriber: it listens for notify and
// renotify events, publishes the outgoing notification message, and fans out
// email requests to the addresses configured on the notification type.
package emailer

import (
	"context"
	"database/sql"

	"github.com/cyverse-de/messaging/v9"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/socialwire/notifier/common"
	"github.com/socialwire/notifier/db"
	"github.com/socialwire/notifier/events"
	"github.com/socialwire/notifier/model"
)

var log = logrus.WithFields(logrus.Fields{"package": "emailer"})

// MessagingClient describes the messaging operations the emailer needs. The
// production implementation is messaging.Client.
type MessagingClient interface {
	PublishNotificationMessage(message *messaging.WrappedNotificationMessage) error
	PublishEmailRequest(request *messaging.EmailRequest) error
}

// Emailer publishes outgoing notification messages and email requests for
// notifications whose user wants to be notified.
type Emailer struct {
	db     *sql.DB
	client MessagingClient
}

// New returns a new Emailer.
func New(database *sql.DB, client MessagingClient) *Emailer {
	return &Emailer{db: database, client: client}
}

// Subscribe registers the emailer on a dispatcher. Notify and renotify events
// both result in delivery; saved events are ignored because they fire whether
// or not the user wants to be notified.
func (e *Emailer) Subscribe(dispatcher *events.Dispatcher) {
	dispatcher.OnNotify(func(notification *model.Notification, created bool) {
		e.Deliver(context.Background(), notification)
	})
	dispatcher.OnRenotify(func(notification *model.Notification) {
		e.Deliver(context.Background(), notification)
	})
}

// Deliver publishes the outgoing message for one notification and, if the
// notification type carries an email address list, one email request per
// address. Delivery runs inline with event dispatch, so failures are logged
// rather than propagated.
func (e *Emailer) Deliver(ctx context.Context, notification *model.Notification) {
	total, err := e.countUnviewed(ctx, notification.User)
	if err != nil {
		log.Error(err)
	}

	// Publish the outgoing notification message.
	err = e.client.PublishNotificationMessage(wrapNotification(notification, total))
	if err != nil {
		log.Error(errors.Wrap(err, "unable to publish the notification message"))
	}

	// Fan out the email requests.
	addresses := common.SplitEmailAddresses(notification.Type.EmailTo)
	if len(addresses) == 0 {
		return
	}
	sent := false
	for _, address := range addresses {
		err = common.ValidateEmailAddress(address)
		if err != nil {
			log.WithFields(logrus.Fields{"address": address}).
				Error(errors.Wrap(err, "skipping invalid email address"))
			continue
		}
		err = e.client.PublishEmailRequest(emailRequest(notification, address))
		if err != nil {
			log.Error(errors.Wrap(err, "unable to publish the email request"))
			continue
		}
		sent = true
	}
	if sent {
		e.markEmailed(ctx, notification)
	}
}

// wrapNotification builds the outgoing wrapped notification message.
func wrapNotification(notification *model.Notification, total int64) *messaging.WrappedNotificationMessage {
	return &messaging.WrappedNotificationMessage{
		Total: total,
		Message: &messaging.NotificationMessage{
			Type:    notification.Type.Name,
			User:    notification.User,
			Subject: notification.Description,
			Email:   notification.Type.EmailTo != "",
			Message: map[string]interface{}{
				"id":        notification.ID,
				"timestamp": common.FormatTimestamp(notification.SentOn),
				"text":      notification.Description,
			},
			Payload: notificationPayload(notification),
		},
	}
}

// emailRequest builds the email request for one recipient address.
func emailRequest(notification *model.Notification, address string) *messaging.EmailRequest {
	templateName := notification.Type.Template
	if templateName == "" {
		templateName = notification.Type.Name
	}
	return &messaging.EmailRequest{
		TemplateName:   templateName,
		Subject:        notification.Description,
		ToAddress:      address,
		TemplateValues: notificationPayload(notification),
	}
}

// notificationPayload builds the payload common to the outgoing message and
// the email requests.
func notificationPayload(notification *model.Notification) map[string]interface{} {
	payload := map[string]interface{}{
		"notification_type": notification.Type.Name,
		"description":       notification.Description,
	}
	if notification.TargetKind != "" {
		payload["target_kind"] = notification.TargetKind
		payload["target_id"] = notification.TargetID
	}
	return payload
}

// countUnviewed counts the user's unviewed notifications for the outgoing
// message total.
func (e *Emailer) countUnviewed(ctx context.Context, user string) (int64, error) {
	wrapMsg := "unable to count unviewed notifications"

	tx, err := e.db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}
	defer func() { _ = tx.Rollback() }()

	return db.CountUnviewedNotifications(ctx, tx, user)
}

// markEmailed records that at least one email request went out for the
// notification.
func (e *Emailer) markEmailed(ctx context.Context, notification *model.Notification) {
	wrapMsg := "unable to mark the notification as emailed"

	tx, err := e.db.Begin()
	if err != nil {
		log.Error(errors.Wrap(err, wrapMsg))
		return
	}
	defer func() { _ = tx.Rollback() }()

	err = db.MarkEmailed(ctx, tx, notification.ID)
	if err != nil {
		log.Error(err)
		return
	}
	err = tx.Commit()
	if err != nil {
		log.Error(errors.Wrap(err, wrapMsg))
		return
	}
	notification.Emailed = true
}
