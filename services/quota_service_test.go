package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimitsFor(t *testing.T) {
	free := LimitsFor("free")
	assert.Equal(t, 2, free.MaxClients)
	assert.Equal(t, 10, free.EntriesPerDay)
	assert.Equal(t, 30, free.HistoryDays)

	pro := LimitsFor("pro")
	assert.Equal(t, Unlimited, pro.EntriesPerDay)
	assert.Equal(t, 200, pro.MessagesPerDay)

	elite := LimitsFor("elite")
	assert.Equal(t, Unlimited, elite.MaxClients)
	assert.Equal(t, Unlimited, elite.HistoryDays)

	assert.Equal(t, free, LimitsFor("platinum"), "unknown plan falls back to free")
	assert.Equal(t, free, LimitsFor(""))
}

func TestQuotaDecisionRemaining(t *testing.T) {
	assert.Equal(t, 3, QuotaDecision{Used: 7, Limit: 10}.Remaining())
	assert.Equal(t, 0, QuotaDecision{Used: 10, Limit: 10}.Remaining())
	assert.Equal(t, 0, QuotaDecision{Used: 12, Limit: 10}.Remaining(), "overshoot clamps to zero")
	assert.Equal(t, Unlimited, QuotaDecision{Used: 9999, Limit: Unlimited}.Remaining())
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 8, 30, 17, 42, 9, 120, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), startOfDay(ts))
}
