package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/models"
)

func TestMessagingAllowed(t *testing.T) {
	access := MessagingAllowed(nil)
	assert.False(t, access.Allowed)
	assert.Equal(t, "No link between these users.", access.Reason)

	access = MessagingAllowed(&models.CoachLink{Status: "revoked", Messaging: true})
	assert.False(t, access.Allowed)
	assert.Equal(t, "Link has been revoked.", access.Reason)

	access = MessagingAllowed(&models.CoachLink{Status: "active", Messaging: false})
	assert.False(t, access.Allowed)
	assert.Equal(t, "Messaging permission not granted.", access.Reason)

	access = MessagingAllowed(&models.CoachLink{Status: "active", Messaging: true})
	assert.True(t, access.Allowed)
	assert.Empty(t, access.Reason)
}

func TestDiaryAllowed(t *testing.T) {
	access := DiaryAllowed(&models.CoachLink{Status: "active", Messaging: true, Diary: false})
	assert.False(t, access.Allowed)
	assert.Equal(t, "Diary permission not granted.", access.Reason)

	access = DiaryAllowed(&models.CoachLink{Status: "active", Diary: true})
	assert.True(t, access.Allowed)
}

func TestValidScope(t *testing.T) {
	assert.True(t, ValidScope(ScopeDiary))
	assert.True(t, ValidScope(ScopeMessaging))
	assert.False(t, ValidScope("admin"))
	assert.False(t, ValidScope(""))
}

func TestApplyScope(t *testing.T) {
	link := &models.CoachLink{Status: "active", Messaging: true}

	ApplyScope(link, ScopeDiary)
	assert.True(t, link.Diary)
	assert.True(t, link.Messaging)

	link.Messaging = false
	ApplyScope(link, ScopeMessaging)
	assert.True(t, link.Messaging)

	ApplyScope(link, "bogus")
	assert.True(t, link.Diary)
}
