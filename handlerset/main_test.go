package handlerset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitRoutingKey(t *testing.T) {
	assert := assert.New(t)

	category, detail := splitRoutingKey("notifications.create.welcome")
	assert.Equal("create", category)
	assert.Equal("welcome", detail)

	category, detail = splitRoutingKey("notifications.settings.update")
	assert.Equal("settings", category)
	assert.Equal("update", detail)

	// The detail component keeps any remaining dots.
	category, detail = splitRoutingKey("notifications.renotify.46ae63be.extra")
	assert.Equal("renotify", category)
	assert.Equal("46ae63be.extra", detail)

	// A missing detail component comes back empty.
	category, detail = splitRoutingKey("notifications.settings")
	assert.Equal("settings", category)
	assert.Equal("", detail)

	// Keys outside our prefix are rejected.
	category, detail = splitRoutingKey("events.notification.update.foo")
	assert.Equal("", category)
	assert.Equal("", detail)

	category, detail = splitRoutingKey("notifications")
	assert.Equal("", category)
	assert.Equal("", detail)
}
