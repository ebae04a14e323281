package model

import "time"

// NotificationCategory is a grouping label for notification types. Categories
// are seeded by administrators and only affect display and filtering.
type NotificationCategory struct {
	ID   string
	Name string
	Code string
}

// NotificationType describes a single kind of notification. The name is the
// stable identifier used by forms and code; the numeric ID is internal to the
// database.
type NotificationType struct {
	ID          string
	Name        string
	Description string
	Default     bool
	Internal    bool
	Active      bool
	CategoryID  string

	// Optional rendering and delivery fields.
	Template string
	Subject  string
	EmailTo  string // comma-separated addresses
}

// Notification represents a single notification that was sent to a user.
// SentOn is assigned once at creation time and never updated; the viewed,
// clicked and emailed flags are flipped later by UI and delivery code.
type Notification struct {
	ID          string
	User        string
	Type        *NotificationType
	SentOn      time.Time
	Viewed      bool
	Clicked     bool
	Emailed     bool
	Description string

	// Opaque reference to the domain object this notification is about.
	// An empty TargetKind means the notification has no target.
	TargetKind string
	TargetID   int64
}
