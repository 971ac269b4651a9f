// Package nutrition holds the pure nutrient math used by the entry endpoints
// and the rescale worker: portion-size inference, snapshot scaling, and the
// display grouping/formatting helpers. No I/O, no globals.
package nutrition

import (
	"math"
	"time"
)

// PortionSource records which inference rule produced a portion estimate.
type PortionSource string

const (
	SourcePortionGrams PortionSource = "portionGrams"
	SourceServingSize  PortionSource = "servingSizeGrams"
	SourceMacroRatio   PortionSource = "macroRatio"
	SourceDefault100g  PortionSource = "default100g"
	SourceNone         PortionSource = "none"
)

// Confidence labels how much trust downstream display code should place in an
// inferred portion. The UI branches on this label, so the mapping from rule to
// confidence is a hard contract, not a tuning knob.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// MaxPlausibleGrams bounds derived portion estimates. Anything at or above
// this is treated as corrupt reference data rather than food.
const MaxPlausibleGrams = 10000.0

// NutrientValue is a single nutrient amount inside a snapshot. IDs are USDA
// FoodData Central nutrient numbers. A nil Value means the source never
// reported the nutrient.
type NutrientValue struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Unit  string   `json:"unit"`
	Value *float64 `json:"value"`
}

// Snapshot is the immutable nutrient record captured when a food entry was
// logged or last rescaled. ScaledAt is set only by the rescale worker; its
// absence means the values are still on the catalog's per-100g basis.
type Snapshot struct {
	Nutrients    []NutrientValue `json:"nutrients"`
	PortionGrams *float64        `json:"portion_grams,omitempty"`
	ScaledAt     *time.Time      `json:"scaled_at,omitempty"`
}

// MacroRef carries per-100g reference macros from the food catalog.
type MacroRef struct {
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
}

// PortionInput is everything known about a logged entry at display time.
type PortionInput struct {
	Snapshot         *Snapshot
	ServingSizeGrams *float64
	QuantityValue    *float64
	PerHundredGrams  *MacroRef
	StoredCalories   *float64
}

// PortionResult is the estimate plus its provenance. Grams is nil when no
// rule could fire.
type PortionResult struct {
	Grams      *float64      `json:"grams"`
	Source     PortionSource `json:"source"`
	Confidence Confidence    `json:"confidence"`
}

// InferPortionGrams estimates how many grams a logged entry physically
// represents. Pure and total: malformed input degrades to a weaker rule
// instead of failing. Rules are strict precedence, first match wins:
//
//  1. an explicit recorded portion on the snapshot is authoritative
//  2. a snapshot that was never rescaled is still on the 100g catalog basis
//  3. catalog serving size times logged quantity
//  4. back-calculation from the stored calories against the per-100g reference
//  5. unknown
//
// Rule 2 stays at high confidence while 3 and 4 are medium: "never adjusted
// away from the 100g convention" outranks derived arithmetic here.
func InferPortionGrams(in PortionInput) PortionResult {
	if in.Snapshot != nil && in.Snapshot.PortionGrams != nil && *in.Snapshot.PortionGrams > 0 {
		g := *in.Snapshot.PortionGrams
		return PortionResult{Grams: &g, Source: SourcePortionGrams, Confidence: ConfidenceHigh}
	}

	if in.Snapshot != nil && (in.Snapshot.ScaledAt == nil || in.Snapshot.ScaledAt.IsZero()) {
		g := 100.0
		return PortionResult{Grams: &g, Source: SourceDefault100g, Confidence: ConfidenceHigh}
	}

	if in.ServingSizeGrams != nil && *in.ServingSizeGrams > 0 {
		qty := 1.0
		if in.QuantityValue != nil && *in.QuantityValue > 0 {
			qty = *in.QuantityValue
		}
		g := *in.ServingSizeGrams * qty
		return PortionResult{Grams: &g, Source: SourceServingSize, Confidence: ConfidenceMedium}
	}

	if in.PerHundredGrams != nil && in.PerHundredGrams.Calories != nil && *in.PerHundredGrams.Calories > 0 &&
		in.StoredCalories != nil && *in.StoredCalories > 0 {
		g := *in.StoredCalories / *in.PerHundredGrams.Calories * 100
		if !math.IsNaN(g) && !math.IsInf(g, 0) && g > 0 && g < MaxPlausibleGrams {
			return PortionResult{Grams: &g, Source: SourceMacroRatio, Confidence: ConfidenceMedium}
		}
	}

	return PortionResult{Grams: nil, Source: SourceNone, Confidence: ConfidenceNone}
}
