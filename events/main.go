// Package events provides the in-process event dispatch used to fan
// notification activity out to delivery and UI code. Dispatch is synchronous:
// subscribers run inline with the call that triggers them, in registration
// order, and any error handling is up to the subscriber itself.
package events

import "github.com/socialwire/notifier/model"

// SettingsChangedFunc is called after a user's settings batch has been applied.
type SettingsChangedFunc func(user string)

// SavedFunc is called whenever a notification has been persisted.
type SavedFunc func(notification *model.Notification, created bool)

// NotifyFunc is called after a notification has been persisted for a user
// whose effective setting for its type is enabled.
type NotifyFunc func(notification *model.Notification, created bool)

// RenotifyFunc is called when an existing notification is manually re-raised
// for a user whose effective setting for its type is enabled.
type RenotifyFunc func(notification *model.Notification)

// Dispatcher holds the registered subscribers for the four notification
// events. Registration is expected to happen during service startup, before
// any events are raised.
type Dispatcher struct {
	settingsChanged []SettingsChangedFunc
	saved           []SavedFunc
	notify          []NotifyFunc
	renotify        []RenotifyFunc
}

// NewDispatcher returns a dispatcher with no subscribers.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// OnSettingsChanged registers a subscriber for the settings-changed event.
func (d *Dispatcher) OnSettingsChanged(subscriber SettingsChangedFunc) {
	d.settingsChanged = append(d.settingsChanged, subscriber)
}

// OnSaved registers a subscriber for the saved event.
func (d *Dispatcher) OnSaved(subscriber SavedFunc) {
	d.saved = append(d.saved, subscriber)
}

// OnNotify registers a subscriber for the notify event.
func (d *Dispatcher) OnNotify(subscriber NotifyFunc) {
	d.notify = append(d.notify, subscriber)
}

// OnRenotify registers a subscriber for the renotify event.
func (d *Dispatcher) OnRenotify(subscriber RenotifyFunc) {
	d.renotify = append(d.renotify, subscriber)
}

// SettingsChanged raises the settings-changed event for a user.
func (d *Dispatcher) SettingsChanged(user string) {
	for _, subscriber := range d.settingsChanged {
		subscriber(user)
	}
}

// Saved raises the saved event for a notification.
func (d *Dispatcher) Saved(notification *model.Notification, created bool) {
	for _, subscriber := range d.saved {
		subscriber(notification, created)
	}
}

// Notify raises the notify event for a notification.
func (d *Dispatcher) Notify(notification *model.Notification, created bool) {
	for _, subscriber := range d.notify {
		subscriber(notification, created)
	}
}

// Renotify raises the renotify event for a notification.
func (d *Dispatcher) Renotify(notification *model.Notification) {
	for _, subscriber := range d.renotify {
		subscriber(notification)
	}
}
