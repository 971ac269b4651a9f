package nutrition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func scaledSnapshot() *Snapshot {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Snapshot{ScaledAt: &at}
}

func TestInferPortionGrams_ExplicitPortionWins(t *testing.T) {
	// Everything else is present too; rule 1 must still win
	in := PortionInput{
		Snapshot:         &Snapshot{PortionGrams: fp(250)},
		ServingSizeGrams: fp(50),
		QuantityValue:    fp(2),
		PerHundredGrams:  &MacroRef{Calories: fp(200)},
		StoredCalories:   fp(100),
	}

	res := InferPortionGrams(in)
	require.NotNil(t, res.Grams)
	assert.Equal(t, 250.0, *res.Grams)
	assert.Equal(t, SourcePortionGrams, res.Source)
	assert.Equal(t, ConfidenceHigh, res.Confidence)
}

func TestInferPortionGrams_UnscaledSnapshotDefaultsTo100(t *testing.T) {
	// ScaledAt absent means the snapshot is still on the 100g basis, and
	// this outranks serving-size and macro-ratio evidence
	in := PortionInput{
		Snapshot:         &Snapshot{},
		ServingSizeGrams: fp(50),
		QuantityValue:    fp(2),
		PerHundredGrams:  &MacroRef{Calories: fp(200)},
		StoredCalories:   fp(100),
	}

	res := InferPortionGrams(in)
	require.NotNil(t, res.Grams)
	assert.Equal(t, 100.0, *res.Grams)
	assert.Equal(t, SourceDefault100g, res.Source)
	assert.Equal(t, ConfidenceHigh, res.Confidence)
}

func TestInferPortionGrams_ZeroScaledAtTreatedAsUnscaled(t *testing.T) {
	var zero time.Time
	in := PortionInput{Snapshot: &Snapshot{ScaledAt: &zero}}

	res := InferPortionGrams(in)
	require.NotNil(t, res.Grams)
	assert.Equal(t, 100.0, *res.Grams)
	assert.Equal(t, SourceDefault100g, res.Source)
}

func TestInferPortionGrams_NonPositivePortionFallsThrough(t *testing.T) {
	in := PortionInput{Snapshot: &Snapshot{PortionGrams: fp(0)}}

	res := InferPortionGrams(in)
	assert.Equal(t, SourceDefault100g, res.Source)
}

func TestInferPortionGrams_ServingSizeTimesQuantity(t *testing.T) {
	in := PortionInput{
		Snapshot:         scaledSnapshot(),
		ServingSizeGrams: fp(50),
		QuantityValue:    fp(2),
	}

	res := InferPortionGrams(in)
	require.NotNil(t, res.Grams)
	assert.Equal(t, 100.0, *res.Grams)
	assert.Equal(t, SourceServingSize, res.Source)
	assert.Equal(t, ConfidenceMedium, res.Confidence)
}

func TestInferPortionGrams_QuantityDefaultsToOne(t *testing.T) {
	for name, qty := range map[string]*float64{
		"absent":   nil,
		"zero":     fp(0),
		"negative": fp(-3),
	} {
		t.Run(name, func(t *testing.T) {
			in := PortionInput{
				Snapshot:         scaledSnapshot(),
				ServingSizeGrams: fp(40),
				QuantityValue:    qty,
			}

			res := InferPortionGrams(in)
			require.NotNil(t, res.Grams)
			assert.Equal(t, 40.0, *res.Grams)
			assert.Equal(t, SourceServingSize, res.Source)
		})
	}
}

func TestInferPortionGrams_MacroRatio(t *testing.T) {
	in := PortionInput{
		Snapshot:        scaledSnapshot(),
		PerHundredGrams: &MacroRef{Calories: fp(200)},
		StoredCalories:  fp(100),
	}

	res := InferPortionGrams(in)
	require.NotNil(t, res.Grams)
	assert.Equal(t, 50.0, *res.Grams)
	assert.Equal(t, SourceMacroRatio, res.Source)
	assert.Equal(t, ConfidenceMedium, res.Confidence)
}

func TestInferPortionGrams_MacroRatioWithoutSnapshot(t *testing.T) {
	in := PortionInput{
		PerHundredGrams: &MacroRef{Calories: fp(400)},
		StoredCalories:  fp(100),
	}

	res := InferPortionGrams(in)
	require.NotNil(t, res.Grams)
	assert.Equal(t, 25.0, *res.Grams)
	assert.Equal(t, SourceMacroRatio, res.Source)
}

func TestInferPortionGrams_MacroRatioRejectsNonPositiveReference(t *testing.T) {
	for name, cal := range map[string]*float64{
		"zero":     fp(0),
		"negative": fp(-10),
		"absent":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			in := PortionInput{
				Snapshot:        scaledSnapshot(),
				PerHundredGrams: &MacroRef{Calories: cal},
				StoredCalories:  fp(100),
			}

			res := InferPortionGrams(in)
			assert.Nil(t, res.Grams)
			assert.Equal(t, SourceNone, res.Source)
			assert.Equal(t, ConfidenceNone, res.Confidence)
		})
	}
}

func TestInferPortionGrams_MacroRatioSanityBound(t *testing.T) {
	// 100000 / 0.001 * 100 is far beyond any physical portion
	in := PortionInput{
		Snapshot:        scaledSnapshot(),
		PerHundredGrams: &MacroRef{Calories: fp(0.001)},
		StoredCalories:  fp(100000),
	}

	res := InferPortionGrams(in)
	assert.Nil(t, res.Grams)
	assert.Equal(t, SourceNone, res.Source)
	assert.Equal(t, ConfidenceNone, res.Confidence)
}

func TestInferPortionGrams_MacroRatioBoundIsExclusive(t *testing.T) {
	// Exactly 10000 grams must be rejected
	in := PortionInput{
		Snapshot:        scaledSnapshot(),
		PerHundredGrams: &MacroRef{Calories: fp(1)},
		StoredCalories:  fp(100),
	}

	res := InferPortionGrams(in)
	assert.Equal(t, SourceNone, res.Source)

	// Just under the bound passes
	in.StoredCalories = fp(99.99)
	res = InferPortionGrams(in)
	require.NotNil(t, res.Grams)
	assert.Equal(t, SourceMacroRatio, res.Source)
	assert.Less(t, *res.Grams, MaxPlausibleGrams)
}

func TestInferPortionGrams_NoEvidence(t *testing.T) {
	res := InferPortionGrams(PortionInput{})
	assert.Nil(t, res.Grams)
	assert.Equal(t, SourceNone, res.Source)
	assert.Equal(t, ConfidenceNone, res.Confidence)
}

func TestInferPortionGrams_Deterministic(t *testing.T) {
	in := PortionInput{
		Snapshot:         scaledSnapshot(),
		ServingSizeGrams: fp(33),
		QuantityValue:    fp(3),
	}

	first := InferPortionGrams(in)
	second := InferPortionGrams(in)
	require.NotNil(t, first.Grams)
	require.NotNil(t, second.Grams)
	assert.Equal(t, *first.Grams, *second.Grams)
	assert.Equal(t, first.Source, second.Source)
	assert.Equal(t, first.Confidence, second.Confidence)
}

func TestInferPortionGrams_ResultAlwaysPlausible(t *testing.T) {
	inputs := []PortionInput{
		{Snapshot: &Snapshot{PortionGrams: fp(9999)}},
		{Snapshot: &Snapshot{}},
		{Snapshot: scaledSnapshot(), ServingSizeGrams: fp(120), QuantityValue: fp(4)},
		{Snapshot: scaledSnapshot(), PerHundredGrams: &MacroRef{Calories: fp(250)}, StoredCalories: fp(610)},
	}
	for _, in := range inputs {
		res := InferPortionGrams(in)
		if res.Grams != nil {
			assert.Greater(t, *res.Grams, 0.0)
			assert.Less(t, *res.Grams, MaxPlausibleGrams)
		}
	}
}
