package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/socialwire/notifier/model"
)

// CountUnviewedNotifications counts the number of notifications for the user
// that haven't been marked as viewed.
func CountUnviewedNotifications(ctx context.Context, tx *sql.Tx, user string) (int64, error) {
	wrapMsg := "unable to count unviewed notifications"
	var total int64

	// Build the statement to count the unviewed notifications.
	statement, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("count(*)").
		From("notifications n").
		Join("users u ON n.user_id = u.id").
		Where(sq.Eq{"u.username": user}).
		Where(sq.Eq{"n.viewed": false}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}

	// Execute the statement.
	err = tx.QueryRowContext(ctx, statement, args...).Scan(&total)
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}

	return total, nil
}

// SaveNotification saves a single notification into the database. The
// notification type must already be resolved; the user is added to the users
// table if this is the first notification for them.
func SaveNotification(ctx context.Context, tx *sql.Tx, notification *model.Notification) error {
	wrapMsg := "unable to save notification"

	// Get the user ID.
	userID, err := GetUserID(ctx, tx, notification.User)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	// The target reference is stored as NULL when the notification has none.
	var targetKind, targetID interface{}
	if notification.TargetKind != "" {
		targetKind = notification.TargetKind
		targetID = notification.TargetID
	}

	// Build the statement to insert the notification.
	statement, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Insert("notifications").
		Columns(
			"notification_type_id",
			"user_id",
			"sent_on",
			"viewed",
			"clicked",
			"emailed",
			"description",
			"target_kind",
			"target_id").
		Values(
			notification.Type.ID,
			userID,
			notification.SentOn,
			notification.Viewed,
			notification.Clicked,
			notification.Emailed,
			notification.Description,
			targetKind,
			targetID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	// Execute the insert statement, scanning the ID into the notification structure.
	row := tx.QueryRowContext(ctx, statement, args...)
	err = row.Scan(&notification.ID)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}

// GetNotification loads a single notification along with its notification
// type. The returned error wraps sql.ErrNoRows if the ID is unknown.
func GetNotification(ctx context.Context, tx *sql.Tx, id string) (*model.Notification, error) {
	wrapMsg := fmt.Sprintf("unable to get the notification with ID `%s`", id)

	// Build the query.
	query, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select(
			"n.id::text",
			"u.username",
			"n.sent_on",
			"n.viewed",
			"n.clicked",
			"n.emailed",
			"coalesce(n.description, '')",
			"coalesce(n.target_kind, '')",
			"coalesce(n.target_id, 0)",
			"t.id::text",
			"t.name",
			"t.description",
			"t.default_value",
			"t.internal",
			"t.active",
			"t.category_id::text",
			"coalesce(t.template, '')",
			"coalesce(t.subject, '')",
			"coalesce(t.email_to, '')").
		From("notifications n").
		Join("users u ON n.user_id = u.id").
		Join("notification_types t ON n.notification_type_id = t.id").
		Where(sq.Eq{"n.id": id}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Query the database.
	var notification model.Notification
	var nt model.NotificationType
	row := tx.QueryRowContext(ctx, query, args...)
	err = row.Scan(
		&notification.ID,
		&notification.User,
		&notification.SentOn,
		&notification.Viewed,
		&notification.Clicked,
		&notification.Emailed,
		&notification.Description,
		&notification.TargetKind,
		&notification.TargetID,
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
		return nil, errors.Wrap(err, wrapMsg)
	}
	notification.Type = &nt

	return &notification, nil
}

// setNotificationFlag sets one of the notification tracking flags, verifying
// that exactly one row was updated.
func setNotificationFlag(ctx context.Context, tx *sql.Tx, id, column string) error {
	wrapMsg := fmt.Sprintf("unable to mark notification `%s` as %s", id, column)

	// Build the update statement.
	statement, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Update("notifications").
		Set(column, true).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	// Execute the update statement and verify that the correct number of rows was affected.
	result, err := tx.ExecContext(ctx, statement, args...)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	if rowsAffected != 1 {
		return fmt.Errorf("%s: unexpected number of rows affected: %d", wrapMsg, rowsAffected)
	}

	return nil
}

// MarkViewed marks a notification as having been viewed by the user.
func MarkViewed(ctx context.Context, tx *sql.Tx, id string) error {
	return setNotificationFlag(ctx, tx, id, "viewed")
}

// MarkClicked marks a notification as having been clicked by the user.
func MarkClicked(ctx context.Context, tx *sql.Tx, id string) error {
	return setNotificationFlag(ctx, tx, id, "clicked")
}

// MarkEmailed marks a notification as having been sent out by email.
func MarkEmailed(ctx context.Context, tx *sql.Tx, id string) error {
	return setNotificationFlag(ctx, tx, id, "emailed")
}
