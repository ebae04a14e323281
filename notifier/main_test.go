package notifier

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/socialwire/notifier/events"
	"github.com/socialwire/notifier/model"
)

// typeColumns is the column list used for mock notification type rows.
var typeColumns = []string{
	"id", "name", "description", "default_value", "internal", "active",
	"category_id", "template", "subject", "email_to",
}

// addTypeRow appends a mock row for the given notification type.
func addTypeRow(rows *sqlmock.Rows, nt *model.NotificationType) *sqlmock.Rows {
	return rows.AddRow(
		nt.ID, nt.Name, nt.Description, nt.Default, nt.Internal, nt.Active,
		nt.CategoryID, nt.Template, nt.Subject, nt.EmailTo,
	)
}

func welcomeType() *model.NotificationType {
	return &model.NotificationType{
		ID:          "a6a97fd2-74c5-42af-ab22-0549a63d3abd",
		Name:        "welcome",
		Description: "generic",
		Default:     true,
		Active:      true,
		CategoryID:  "0ab217cd-81a8-4129-a541-e2c4e0b0a34c",
		Subject:     "Hi there",
	}
}

// eventRecorder captures everything raised on a dispatcher during a test.
type eventRecorder struct {
	settingsChanged []string
	saved           []*model.Notification
	notified        []*model.Notification
	renotified      []*model.Notification
}

func recordEvents(dispatcher *events.Dispatcher) *eventRecorder {
	recorder := &eventRecorder{}
	dispatcher.OnSettingsChanged(func(user string) {
		recorder.settingsChanged = append(recorder.settingsChanged, user)
	})
	dispatcher.OnSaved(func(n *model.Notification, created bool) {
		recorder.saved = append(recorder.saved, n)
	})
	dispatcher.OnNotify(func(n *model.Notification, created bool) {
		recorder.notified = append(recorder.notified, n)
	})
	dispatcher.OnRenotify(func(n *model.Notification) {
		recorder.renotified = append(recorder.renotified, n)
	})
	return recorder
}

// newTestNotifier builds a Notifier over a mock database along with an event
// recorder subscribed to its dispatcher.
func newTestNotifier(t *testing.T) (*Notifier, sqlmock.Sqlmock, *eventRecorder, *sql.DB) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unable to open the mock database connection: %s", err.Error())
	}
	dispatcher := events.NewDispatcher()
	recorder := recordEvents(dispatcher)
	return New(database, dispatcher), mock, recorder, database
}
