package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"

	"github.com/socialwire/notifier/events"
	"github.com/socialwire/notifier/notifier"
)

// typeColumns is the column list used for mock notification type rows.
var typeColumns = []string{
	"id", "name", "description", "default_value", "internal", "active",
	"category_id", "template", "subject", "email_to",
}

const testUserID = "11f9e1ba-2d3f-4878-ad06-a242bb1d4082"
const testNotificationID = "46ae63be-7030-4cdd-8eb9-66aa49fcf38b"

// newTestCore builds a notifier over a mock database for handler tests.
func newTestCore(t *testing.T) (*notifier.Notifier, sqlmock.Sqlmock, *events.Dispatcher, *sql.DB) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unable to open the mock database connection: %s", err.Error())
	}
	dispatcher := events.NewDispatcher()
	return notifier.New(database, dispatcher), mock, dispatcher, database
}

// welcomeTypeRow returns mock rows holding the welcome notification type.
func welcomeTypeRow() *sqlmock.Rows {
	return sqlmock.NewRows(typeColumns).AddRow(
		"a6a97fd2-74c5-42af-ab22-0549a63d3abd", "welcome", "generic",
		true, false, true, "0ab217cd-81a8-4129-a541-e2c4e0b0a34c",
		"", "Hi there", "",
	)
}

// getCreateRequest returns a map that can be used as the body of a
// notification creation request.
func getCreateRequest() map[string]interface{} {
	return map[string]interface{}{
		"user": "sarahr",
		"target": map[string]interface{}{
			"kind": "post",
			"id":   17,
		},
	}
}

func TestCreateHandler(t *testing.T) {
	assert := assert.New(t)
	core, mock, _, database := newTestCore(t)
	ctx := context.Background()
	defer database.Close()

	// Set up the expectations for the full creation flow.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM notification_types WHERE name =").
		WithArgs("welcome").
		WillReturnRows(welcomeTypeRow())
	mock.ExpectQuery("SELECT id FROM users WHERE username =").
		WithArgs("sarahr").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testUserID))
	mock.ExpectQuery("INSERT INTO notifications").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testNotificationID))
	mock.ExpectQuery("SELECT s.value FROM notification_settings s JOIN users u").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	mock.ExpectCommit()

	// Create the AMQP delivery and pass it to the handler.
	requestBody, err := json.Marshal(getCreateRequest())
	assert.NoError(err, "unable to marshal the notification request")
	delivery := amqp.Delivery{Body: requestBody, RoutingKey: "notifications.create.welcome"}

	handler := NewCreate(core)
	err = handler.HandleMessage(ctx, "welcome", delivery)
	assert.NoError(err, "unexpected error returned by the creation handler")

	assert.NoError(mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestCreateHandlerBadBody(t *testing.T) {
	assert := assert.New(t)
	core, mock, _, database := newTestCore(t)
	ctx := context.Background()
	defer database.Close()

	// A body that isn't valid JSON can never succeed, so the error must be
	// unrecoverable and the database must never be touched.
	delivery := amqp.Delivery{Body: []byte("not json")}

	handler := NewCreate(core)
	err := handler.HandleMessage(ctx, "welcome", delivery)
	assert.Error(err, "a malformed body didn't produce an error")
	assert.False(IsRecoverable(err), "a malformed body produced a recoverable error")

	assert.NoError(mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestCreateHandlerMissingUser(t *testing.T) {
	assert := assert.New(t)
	core, mock, _, database := newTestCore(t)
	ctx := context.Background()
	defer database.Close()

	delivery := amqp.Delivery{Body: []byte("{}")}

	handler := NewCreate(core)
	err := handler.HandleMessage(ctx, "welcome", delivery)
	assert.Error(err, "a request without a user didn't produce an error")
	assert.False(IsRecoverable(err), "a request without a user produced a recoverable error")

	assert.NoError(mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestCreateHandlerUnknownType(t *testing.T) {
	assert := assert.New(t)
	core, mock, _, database := newTestCore(t)
	ctx := context.Background()
	defer database.Close()

	// An unknown notification type indicates a misconfigured publisher;
	// redelivery can't fix it.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM notification_types WHERE name =").
		WithArgs("does_not_exist").
		WillReturnRows(sqlmock.NewRows(typeColumns))
	mock.ExpectRollback()

	requestBody, err := json.Marshal(getCreateRequest())
	assert.NoError(err, "unable to marshal the notification request")
	delivery := amqp.Delivery{Body: requestBody}

	handler := NewCreate(core)
	err = handler.HandleMessage(ctx, "does_not_exist", delivery)
	assert.Error(err, "an unknown notification type didn't produce an error")
	assert.False(IsRecoverable(err), "an unknown notification type produced a recoverable error")

	assert.NoError(mock.ExpectationsWereMet(), "not all mock expectations were met")
}
