package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"
)

// GetSettingValue looks up a user's explicit setting for one notification
// type. The second return value reports whether an explicit setting exists;
// the distinction between "no row" and "false" is load-bearing, so a missing
// row is not an error here.
func GetSettingValue(ctx context.Context, tx *sql.Tx, user, notificationTypeID string) (bool, bool, error) {
	wrapMsg := fmt.Sprintf("unable to get the notification setting for `%s`", user)

	// Build the query.
	query, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("s.value").
		From("notification_settings s").
		Join("users u ON s.user_id = u.id").
		Where(sq.Eq{"u.username": user}).
		Where(sq.Eq{"s.notification_type_id": notificationTypeID}).
		ToSql()
	if err != nil {
		return false, false, errors.Wrap(err, wrapMsg)
	}

	// Query the database.
	var value bool
	row := tx.QueryRowContext(ctx, query, args...)
	err = row.Scan(&value)
	if err == sql.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, errors.Wrap(err, wrapMsg)
	}

	return value, true, nil
}

// ListSettingValues lists all of a user's explicit notification settings as a
// map from notification type ID to the stored value.
func ListSettingValues(ctx context.Context, tx *sql.Tx, user string) (map[string]bool, error) {
	wrapMsg := fmt.Sprintf("unable to list the notification settings for `%s`", user)

	// Build the query.
	query, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("s.notification_type_id::text", "s.value").
		From("notification_settings s").
		Join("users u ON s.user_id = u.id").
		Where(sq.Eq{"u.username": user}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Query the database.
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer rows.Close()

	// Collect the settings.
	values := make(map[string]bool)
	for rows.Next() {
		var typeID string
		var value bool
		err = rows.Scan(&typeID, &value)
		if err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		values[typeID] = value
	}
	err = rows.Err()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return values, nil
}

// UpsertSetting stores a user's explicit setting for one notification type,
// replacing the stored value if a row already exists for the pair.
func UpsertSetting(ctx context.Context, tx *sql.Tx, userID, notificationTypeID string, value bool) error {
	wrapMsg := "unable to store the notification setting"

	// Build the statement.
	statement, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Insert("notification_settings").
		Columns("user_id", "notification_type_id", "value").
		Values(userID, notificationTypeID, value).
		Suffix("ON CONFLICT (user_id, notification_type_id) DO UPDATE SET value = EXCLUDED.value").
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	// Execute the statement.
	_, err = tx.ExecContext(ctx, statement, args...)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}
