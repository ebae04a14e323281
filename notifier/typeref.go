package notifier

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/socialwire/notifier/db"
	"github.com/socialwire/notifier/model"
)

// TypeRef refers to a notification type either by its name or by an
// already-resolved notification type. The zero value refers to nothing and
// fails resolution with an InvalidArgumentError.
type TypeRef struct {
	name     string
	resolved *model.NotificationType
}

// ByName refers to the notification type with the given name. Resolution
// fails with a NotFoundError if no notification type has that name.
func ByName(name string) TypeRef {
	return TypeRef{name: name}
}

// ByType refers to an already-resolved notification type, which resolution
// returns unchanged.
func ByType(notificationType *model.NotificationType) TypeRef {
	return TypeRef{resolved: notificationType}
}

// resolveType resolves a type reference within a transaction. Both the
// settings resolver and the notification creator come through here so that
// lookup and failure semantics are identical everywhere.
func (n *Notifier) resolveType(ctx context.Context, tx *sql.Tx, ref TypeRef) (*model.NotificationType, error) {
	if ref.resolved != nil {
		return ref.resolved, nil
	}
	if ref.name == "" {
		return nil, NewInvalidArgumentError("a notification type name or a notification type is required")
	}

	nt, err := db.GetNotificationType(ctx, tx, ref.name)
	if errors.Cause(err) == sql.ErrNoRows {
		return nil, NewNotFoundError("a notification type with the name `%s` not found", ref.name)
	}
	if err != nil {
		return nil, err
	}
	return nt, nil
}
