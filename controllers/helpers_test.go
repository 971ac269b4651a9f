package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidMealType(t *testing.T) {
	for _, mt := range []string{"breakfast", "lunch", "dinner", "snack"} {
		assert.True(t, validMealType(mt), mt)
	}
	assert.False(t, validMealType("brunch"))
	assert.False(t, validMealType(""))
	assert.False(t, validMealType("Breakfast"))
}

func TestDayBounds(t *testing.T) {
	date := time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC)
	start, end := dayBounds(date)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestDayStatus(t *testing.T) {
	assert.Equal(t, DayStatusNormal, dayStatus(800, 2000))
	assert.Equal(t, DayStatusNormal, dayStatus(400, 2000), "boundary stays normal")
	assert.Equal(t, DayStatusTight, dayStatus(399, 2000))
	assert.Equal(t, DayStatusTight, dayStatus(0, 2000))
	assert.Equal(t, DayStatusOver, dayStatus(-1, 2000))
	assert.Equal(t, DayStatusNormal, dayStatus(100, 0), "no calorie target never reads tight")
}

func TestMovingAverage(t *testing.T) {
	values := []float64{80, 82, 84, 86, 88}

	out := movingAverage(values, 3)
	require.Len(t, out, 5)
	assert.InDelta(t, 81, out[0], 1e-9, "edge window shrinks")
	assert.InDelta(t, 82, out[1], 1e-9)
	assert.InDelta(t, 84, out[2], 1e-9)
	assert.InDelta(t, 87, out[4], 1e-9)

	out = movingAverage(values, 99)
	for _, v := range out {
		assert.InDelta(t, 84, v, 1e-9, "oversized window averages everything")
	}
}

func TestSlopePerWeek(t *testing.T) {
	days := []float64{0, 1, 2, 3, 4, 5, 6}
	weights := make([]float64, len(days))
	for i, d := range days {
		weights[i] = 85 - 0.1*d // losing 0.1 kg/day
	}
	assert.InDelta(t, -0.7, slopePerWeek(days, weights), 1e-9)

	assert.Equal(t, 0.0, slopePerWeek([]float64{1}, []float64{80}))
	assert.Equal(t, 0.0, slopePerWeek([]float64{3, 3}, []float64{80, 81}), "same-day points have no slope")
}
