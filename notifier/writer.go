package notifier

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/socialwire/notifier/db"
)

// Apply stores a batch of submitted settings for a user, as posted by a
// settings form. Names that don't match any notification type are silently
// skipped, since a form may be stale relative to the current catalog. A row
// is written only when the user has no setting for the type yet or the
// submitted value differs from the stored one. Exactly one settings-changed
// event is raised after the batch, whether or not any rows changed.
func (n *Notifier) Apply(ctx context.Context, user string, submitted map[string]bool) error {
	wrapMsg := "unable to apply the notification settings"

	tx, err := n.db.Begin()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	defer func() { _ = tx.Rollback() }()

	types, err := db.ListNotificationTypes(ctx, tx)
	if err != nil {
		return err
	}
	typeFor := make(map[string]string, len(types))
	for _, nt := range types {
		typeFor[nt.Name] = nt.ID
	}

	overrides, err := db.ListSettingValues(ctx, tx, user)
	if err != nil {
		return err
	}

	// Sort the submitted names so that writes happen in a stable order.
	names := make([]string, 0, len(submitted))
	for name := range submitted {
		names = append(names, name)
	}
	sort.Strings(names)

	userID := ""
	for _, name := range names {
		typeID, known := typeFor[name]
		if !known {
			continue
		}
		stored, exists := overrides[typeID]
		if exists && stored == submitted[name] {
			continue
		}

		// The user row is only needed once a write is actually happening.
		if userID == "" {
			userID, err = db.GetUserID(ctx, tx, user)
			if err != nil {
				return err
			}
		}
		err = db.UpsertSetting(ctx, tx, userID, typeID, submitted[name])
		if err != nil {
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	n.events.SettingsChanged(user)
	return nil
}
