package notifier

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/socialwire/notifier/db"
	"github.com/socialwire/notifier/model"
)

// valueForUser computes the effective setting for a (user, type) pair within
// a transaction: the user's explicit setting if one is stored, the type's
// default otherwise. A missing setting row is never an error.
func (n *Notifier) valueForUser(ctx context.Context, tx *sql.Tx, user string, nt *model.NotificationType) (bool, error) {
	value, found, err := db.GetSettingValue(ctx, tx, user, nt.ID)
	if err != nil {
		return false, err
	}
	if !found {
		return nt.Default, nil
	}
	return value, nil
}

// ValueForUser returns the effective boolean setting for a user and a
// notification type. Only an unresolvable type reference fails; a user with
// no explicit setting simply gets the type's default.
func (n *Notifier) ValueForUser(ctx context.Context, user string, ref TypeRef) (bool, error) {
	wrapMsg := "unable to resolve the notification setting"

	tx, err := n.db.Begin()
	if err != nil {
		return false, errors.Wrap(err, wrapMsg)
	}
	defer func() { _ = tx.Rollback() }()

	nt, err := n.resolveType(ctx, tx, ref)
	if err != nil {
		return false, err
	}

	return n.valueForUser(ctx, tx, user, nt)
}

// ForUser returns the effective settings for a user as a map from
// notification type name to boolean, covering the active non-internal types.
// When includeAllTypes is false only the types the user has explicitly set
// are included; when it's true every qualifying type is included, with the
// type default filling in for missing settings.
func (n *Notifier) ForUser(ctx context.Context, user string, includeAllTypes bool) (map[string]bool, error) {
	wrapMsg := "unable to list the notification settings"

	tx, err := n.db.Begin()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer func() { _ = tx.Rollback() }()

	types, err := db.ListActiveExternalTypes(ctx, tx)
	if err != nil {
		return nil, err
	}

	overrides, err := db.ListSettingValues(ctx, tx, user)
	if err != nil {
		return nil, err
	}

	settings := make(map[string]bool)
	for _, nt := range types {
		if value, ok := overrides[nt.ID]; ok {
			settings[nt.Name] = value
		} else if includeAllTypes {
			settings[nt.Name] = nt.Default
		}
	}

	return settings, nil
}

// AllForUser returns the effective settings for a user across every active
// non-internal notification type.
func (n *Notifier) AllForUser(ctx context.Context, user string) (map[string]bool, error) {
	return n.ForUser(ctx, user, true)
}
