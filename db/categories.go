package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/socialwire/notifier/model"
)

// AddCategory adds a notification category, returning the ID assigned to it.
// The code is optional and stored as NULL when empty.
func AddCategory(ctx context.Context, tx *sql.Tx, category *model.NotificationCategory) error {
	wrapMsg := fmt.Sprintf("unable to add the notification category `%s`", category.Name)

	var code interface{}
	if category.Code != "" {
		code = category.Code
	}

	// Build the insert statement.
	statement, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Insert("notification_categories").
		Columns("name", "code").
		Values(category.Name, code).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	// Execute the statement, scanning the ID into the category structure.
	row := tx.QueryRowContext(ctx, statement, args...)
	err = row.Scan(&category.ID)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}

// ListCategories lists all of the notification categories, ordered by name.
func ListCategories(ctx context.Context, tx *sql.Tx) ([]model.NotificationCategory, error) {
	wrapMsg := "unable to list the notification categories"

	// Build the query.
	query, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("id::text", "name", "coalesce(code, '')").
		From("notification_categories").
		OrderBy("name").
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

	// Collect the categories.
	var categories []model.NotificationCategory
	for rows.Next() {
		var category model.NotificationCategory
		err = rows.Scan(&category.ID, &category.Name, &category.Code)
		if err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		categories = append(categories, category)
	}
	err = rows.Err()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return categories, nil
}
