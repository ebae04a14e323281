package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/socialwire/notifier/common"
	"github.com/socialwire/notifier/model"
)

// notificationTypeColumns is the column list used whenever full notification
// type records are loaded.
var notificationTypeColumns = []string{
	"id::text",
	"name",
	"description",
	"default_value",
	"internal",
	"active",
	"category_id::text",
	"coalesce(template, '')",
	"coalesce(subject, '')",
	"coalesce(email_to, '')",
}

// scanNotificationType scans a single notification type from a row produced by
// a query over notificationTypeColumns.
func scanNotificationType(row sq.RowScanner) (*model.NotificationType, error) {
	var nt model.NotificationType
	err := row.Scan(
		&nt.ID,
		&nt.Name,
		&nt.Description,
		&nt.Default,
		&nt.Internal,
		&nt.Active,
		&nt.CategoryID,
		&nt.Template,
		&nt.Subject,
		&nt.EmailTo,
	)
	if err != nil {
		return nil, err
	}
	return &nt, nil
}

// GetNotificationType obtains the notification type with the given name. The
// returned error wraps sql.ErrNoRows if no notification type has that name.
func GetNotificationType(ctx context.Context, tx *sql.Tx, name string) (*model.NotificationType, error) {
	wrapMsg := fmt.Sprintf("unable to get the notification type named `%s`", name)

	// Build the query.
	query, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select(notificationTypeColumns...).
		From("notification_types").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Query the database.
	nt, err := scanNotificationType(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return nt, nil
}

// listNotificationTypes runs a notification type listing with the given extra
// conditions applied, ordered by name.
func listNotificationTypes(ctx context.Context, tx *sql.Tx, conditions ...sq.Sqlizer) ([]*model.NotificationType, error) {
	wrapMsg := "unable to list notification types"

	// Build the query.
	builder := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select(notificationTypeColumns...).
		From("notification_types").
		OrderBy("name")
	for _, condition := range conditions {
		builder = builder.Where(condition)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Query the database.
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	defer rows.Close()

	// Collect the notification types.
	var types []*model.NotificationType
	for rows.Next() {
		nt, err := scanNotificationType(rows)
		if err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		types = append(types, nt)
	}
	err = rows.Err()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return types, nil
}

// ListNotificationTypes lists every notification type in the catalog,
// including inactive and internal ones.
func ListNotificationTypes(ctx context.Context, tx *sql.Tx) ([]*model.NotificationType, error) {
	return listNotificationTypes(ctx, tx)
}

// ListActiveExternalTypes lists the notification types that appear on
// user-facing settings forms: active types that aren't marked internal.
func ListActiveExternalTypes(ctx context.Context, tx *sql.Tx) ([]*model.NotificationType, error) {
	return listNotificationTypes(ctx, tx, sq.Eq{"active": true}, sq.Eq{"internal": false})
}

// AddNotificationType adds a notification type to the catalog, returning the
// ID assigned to it. The email address list is validated before the insert.
func AddNotificationType(ctx context.Context, tx *sql.Tx, nt *model.NotificationType) error {
	wrapMsg := fmt.Sprintf("unable to add the notification type `%s`", nt.Name)

	// Validate the email address list.
	err := common.ValidateEmailAddresses(nt.EmailTo)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	// Optional text columns are stored as NULL when empty.
	nullable := func(value string) interface{} {
		if value == "" {
			return nil
		}
		return value
	}

	// Build the insert statement.
	statement, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Insert("notification_types").
		Columns(
			"name",
			"description",
			"default_value",
			"internal",
			"active",
			"category_id",
			"template",
			"subject",
			"email_to").
		Values(
			nt.Name,
			nt.Description,
			nt.Default,
			nt.Internal,
			nt.Active,
			nt.CategoryID,
			nullable(nt.Template),
			nullable(nt.Subject),
			nullable(nt.EmailTo)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	// Execute the statement, scanning the ID into the notification type.
	row := tx.QueryRowContext(ctx, statement, args...)
	err = row.Scan(&nt.ID)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}
