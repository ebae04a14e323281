package db

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/socialwire/notifier/model"
)

func TestSaveNotification(t *testing.T) {
	assert := assert.New(t)

	db, mock, err := sqlmock.New()
	ctx := context.Background()
	assert.NoError(err, "unable to open the mock database connection")
	defer db.Close()

	// Set up the expectations: the user already exists, then the insert runs.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM users WHERE username =").
		WithArgs("sarahr").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testUserID))
	notificationID := "46ae63be-7030-4cdd-8eb9-66aa49fcf38b"
	mock.ExpectQuery("INSERT INTO notifications").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(notificationID))
	mock.ExpectCommit()

	// Save the notification.
	notification := &model.Notification{
		User:        "sarahr",
		Type:        testNotificationType(),
		SentOn:      time.Now(),
		Description: "New comment on First Post",
		TargetKind:  "post",
		TargetID:    17,
	}
	tx, err := db.Begin()
	assert.NoError(err, "unable to begin a transaction")
	err = SaveNotification(ctx, tx, notification)
	assert.NoError(err, "unexpected error occurred while saving the notification")
	assert.Equal(notificationID, notification.ID)
	assert.NoError(tx.Commit(), "unable to commit the transaction")

	// Verify that all mock expectations were met.
	err = mock.ExpectationsWereMet()
	assert.NoError(err, "not all mock expectations were met")
}

func TestSaveNotificationNewUser(t *testing.T) {
	assert := assert.New(t)

	db, mock, err := sqlmock.New()
	ctx := context.Background()
	assert.NoError(err, "unable to open the mock database connection")
	defer db.Close()

	// Set up the expectations: the user is added on first reference.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM users WHERE username =").
		WithArgs("ipctest").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("ipctest").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testUserID))
	mock.ExpectQuery("INSERT INTO notifications").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("46ae63be-7030-4cdd-8eb9-66aa49fcf38b"))
	mock.ExpectRollback()

	// Save the notification.
	notification := &model.Notification{
		User:   "ipctest",
		Type:   testNotificationType(),
		SentOn: time.Now(),
	}
	tx, err := db.Begin()
	assert.NoError(err, "unable to begin a transaction")
	err = SaveNotification(ctx, tx, notification)
	assert.NoError(err, "unexpected error occurred while saving the notification")
	_ = tx.Rollback()

	// Verify that all mock expectations were met.
	err = mock.ExpectationsWereMet()
	assert.NoError(err, "not all mock expectations were met")
}

func TestCountUnviewedNotifications(t *testing.T) {
	assert := assert.New(t)

	db, mock, err := sqlmock.New()
	ctx := context.Background()
	assert.NoError(err, "unable to open the mock database connection")
	defer db.Close()

	// Set up the expectations.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM notifications n JOIN users u").
		WithArgs("sarahr", false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectRollback()

	// Count the notifications.
	tx, err := db.Begin()
	assert.NoError(err, "unable to begin a transaction")
	total, err := CountUnviewedNotifications(ctx, tx, "sarahr")
	assert.NoError(err, "unexpected error occurred while counting notifications")
	assert.Equal(int64(42), total)
	_ = tx.Rollback()

	// Verify that all mock expectations were met.
	err = mock.ExpectationsWereMet()
	assert.NoError(err, "not all mock expectations were met")
}

func TestMarkEmailed(t *testing.T) {
	assert := assert.New(t)

	db, mock, err := sqlmock.New()
	ctx := context.Background()
	assert.NoError(err, "unable to open the mock database connection")
	defer db.Close()

	// Set up the expectations.
	mock.ExpectBegin()
	notificationID := "46ae63be-7030-4cdd-8eb9-66aa49fcf38b"
	mock.ExpectExec("UPDATE notifications SET emailed =").
		WithArgs(true, notificationID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Mark the notification.
	tx, err := db.Begin()
	assert.NoError(err, "unable to begin a transaction")
	err = MarkEmailed(ctx, tx, notificationID)
	assert.NoError(err, "unexpected error occurred while marking the notification")
	assert.NoError(tx.Commit(), "unable to commit the transaction")

	// Verify that all mock expectations were met.
	err = mock.ExpectationsWereMet()
	assert.NoError(err, "not all mock expectations were met")
}

func TestMarkViewedMissingNotification(t *testing.T) {
	assert := assert.New(t)

	db, mock, err := sqlmock.New()
	ctx := context.Background()
	assert.NoError(err, "unable to open the mock database connection")
	defer db.Close()

	// Updating a nonexistent notification affects zero rows, which is an error.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE notifications SET viewed =").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Begin()
	assert.NoError(err, "unable to begin a transaction")
	err = MarkViewed(ctx, tx, "46ae63be-7030-4cdd-8eb9-66aa49fcf38b")
	assert.Error(err, "a zero-row update didn't produce an error")
	_ = tx.Rollback()

	// Verify that all mock expectations were met.
	err = mock.ExpectationsWereMet()
	assert.NoError(err, "not all mock expectations were met")
}
