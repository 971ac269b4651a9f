package nutrition

import "time"

// ScaleSnapshot proportionally rescales a per-100g-basis snapshot to the given
// portion, stamping PortionGrams and ScaledAt. Nil nutrient values stay nil.
// The input snapshot is not mutated.
func ScaleSnapshot(snap Snapshot, grams float64, at time.Time) Snapshot {
	factor := grams / 100.0

	scaled := Snapshot{
		Nutrients:    make([]NutrientValue, len(snap.Nutrients)),
		PortionGrams: &grams,
		ScaledAt:     &at,
	}
	for i, n := range snap.Nutrients {
		out := NutrientValue{ID: n.ID, Name: n.Name, Unit: n.Unit}
		if n.Value != nil {
			v := *n.Value * factor
			out.Value = &v
		}
		scaled.Nutrients[i] = out
	}
	return scaled
}

// SnapshotValue returns the value a snapshot records for a nutrient ID, or
// nil when the nutrient is absent or has no value.
func SnapshotValue(snap *Snapshot, id int) *float64 {
	if snap == nil {
		return nil
	}
	for _, n := range snap.Nutrients {
		if n.ID == id && n.Value != nil {
			v := *n.Value
			return &v
		}
	}
	return nil
}

// SnapshotCalories returns the energy value recorded in a snapshot, or nil
// when the snapshot carries no energy nutrient.
func SnapshotCalories(snap *Snapshot) *float64 {
	return SnapshotValue(snap, NutrientIDEnergy)
}
