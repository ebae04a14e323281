package notifier

import (
	"context"

	"github.com/pkg/errors"

	"github.com/socialwire/notifier/db"
	"github.com/socialwire/notifier/model"
)

// CreateRequest describes a notification to be created for a user. Only User
// and Type are required.
type CreateRequest struct {
	User string
	Type TypeRef

	// Target is the optional domain object the notification is about.
	Target Target

	// Description overrides the description derived from the notification
	// type. When it's empty the type's subject (or, failing that, its
	// description) is used, rendered against the target's context.
	Description string

	// Context, when present, replaces the target-derived render context.
	Context map[string]interface{}
}

// CreateForUser creates a notification for a user. The notification is
// persisted with its sent-on timestamp set to the current time and all
// tracking flags cleared. A saved event is always raised afterward; a notify
// event is raised only if the user's effective setting for the type is
// enabled at the time of the call.
func (n *Notifier) CreateForUser(ctx context.Context, req *CreateRequest) (*model.Notification, error) {
	wrapMsg := "unable to create the notification"

	tx, err := n.db.Begin()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer func() { _ = tx.Rollback() }()

	nt, err := n.resolveType(ctx, tx, req.Type)
	if err != nil {
		return nil, err
	}

	description, err := n.buildDescription(req, nt)
	if err != nil {
		return nil, err
	}

	notification := &model.Notification{
		User:        req.User,
		Type:        nt,
		SentOn:      n.now(),
		Description: description,
	}
	if req.Target != nil {
		notification.TargetKind = req.Target.TargetKind()
		notification.TargetID = req.Target.TargetID()
	}

	err = db.SaveNotification(ctx, tx, notification)
	if err != nil {
		return nil, err
	}

	enabled, err := n.valueForUser(ctx, tx, req.User, nt)
	if err != nil {
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	n.events.Saved(notification, true)
	if enabled {
		n.events.Notify(notification, true)
	}
	return notification, nil
}

// Renotify re-raises an existing notification. The user's effective setting
// for the notification's type is re-checked and, if it's enabled, a renotify
// event is raised. Nothing is persisted and no stored fields change.
func (n *Notifier) Renotify(ctx context.Context, notification *model.Notification) error {
	enabled, err := n.ValueForUser(ctx, notification.User, ByType(notification.Type))
	if err != nil {
		return err
	}
	if enabled {
		n.events.Renotify(notification)
	}
	return nil
}

// RenotifyByID loads a stored notification and re-raises it, following the
// same setting check as Renotify.
func (n *Notifier) RenotifyByID(ctx context.Context, id string) error {
	wrapMsg := "unable to renotify"

	tx, err := n.db.Begin()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	defer func() { _ = tx.Rollback() }()

	notification, err := db.GetNotification(ctx, tx, id)
	if err != nil {
		return err
	}

	enabled, err := n.valueForUser(ctx, tx, notification.User, notification.Type)
	if err != nil {
		return err
	}
	if enabled {
		n.events.Renotify(notification)
	}
	return nil
}

// buildDescription computes the description for a new notification. An
// explicitly supplied description is used verbatim. Otherwise the type's
// subject (or description) is treated as a template and, when a target is
// present, rendered against the target's context.
func (n *Notifier) buildDescription(req *CreateRequest, nt *model.NotificationType) (string, error) {
	if req.Description != "" {
		return req.Description, nil
	}

	description := nt.Subject
	if description == "" {
		description = nt.Description
	}
	if req.Target == nil || description == "" {
		return description, nil
	}

	return n.renderer.Render(description, buildRenderContext(req))
}

// buildRenderContext assembles the context mapping a description template is
// rendered against. A comment-like target is replaced by the object the
// comment is about, with the comment itself added under the `comment` key. A
// target that can't produce a usable context of its own falls back to
// `{"obj": target}`.
func buildRenderContext(req *CreateRequest) map[string]interface{} {
	obj := req.Target
	var comment Target
	if c, ok := obj.(Comment); ok {
		comment = obj
		obj = c.CommentTarget()
	}

	context := req.Context
	if context == nil {
		if provider, ok := obj.(ContextProvider); ok {
			context = provider.NotificationContext()
		}
	}
	if context != nil {
		if _, ok := context["obj"]; !ok {
			context["obj"] = obj
		}
	}
	if len(context) == 0 {
		context = map[string]interface{}{"obj": obj}
	}

	if comment != nil {
		if _, ok := context["comment"]; !ok {
			context["comment"] = comment
		}
	}
	return context
}
