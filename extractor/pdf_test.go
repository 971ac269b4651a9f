package extractor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeighInRow(t *testing.T) {
	cases := []struct {
		name string
		line string
		date time.Time
		kg   float64
	}{
		{"iso date", "2026-03-15 82.4 kg", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), 82.4},
		{"dotted date", "15.03.2026 82.4 kg", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), 82.4},
		{"comma decimal", "15.03.2026 Gewicht 82,4 kg", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), 82.4},
		{"long date", "15 Mar 2026 82.4 kg", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), 82.4},
		{"us long date", "Mar 15, 2026 82.4 kg", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), 82.4},
		{"pounds", "2026-03-15 180 lbs", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), 180 / 2.20462},
		{"uppercase unit", "2026-03-15 82.4 KG", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), 82.4},
		{"surrounding text", "Weigh-in 2026-03-15 morning 82.4 kg fasted", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), 82.4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, ok, candidate := parseWeighInRow(tc.line)
			require.True(t, candidate)
			require.True(t, ok)
			assert.Equal(t, tc.date, w.Date)
			assert.InDelta(t, tc.kg, w.WeightKg, 1e-9)
		})
	}
}

func TestParseWeighInRowRejects(t *testing.T) {
	// No date at all: not even a candidate.
	_, ok, candidate := parseWeighInRow("Average weight 81.2 kg")
	assert.False(t, ok)
	assert.False(t, candidate)

	// Date but no weight: candidate, counted as skipped.
	_, ok, candidate = parseWeighInRow("2026-03-15 rest day")
	assert.False(t, ok)
	assert.True(t, candidate)

	// Implausible readings.
	for _, line := range []string{
		"2026-03-15 12.5 kg",
		"2026-03-15 500 kg",
		"2026-03-15 10 lbs",
	} {
		_, ok, candidate := parseWeighInRow(line)
		assert.False(t, ok, line)
		assert.True(t, candidate, line)
	}
}

func TestDedupeByDate(t *testing.T) {
	d1 := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	out := dedupeByDate([]WeighIn{
		{Date: d1, WeightKg: 83.0},
		{Date: d2, WeightKg: 82.6},
		{Date: d1, WeightKg: 82.9},
	})

	require.Len(t, out, 2)
	assert.Equal(t, d1, out[0].Date)
	assert.Equal(t, 82.9, out[0].WeightKg, "last reading for a date wins")
	assert.Equal(t, d2, out[1].Date)

	assert.Empty(t, dedupeByDate(nil))
}
