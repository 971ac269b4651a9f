package services

import (
	"github.com/CesDelPino/Fitness-app-2.0-sub006/models"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/nutrition"
)

// PortionInputForEntry collects the portion-inference evidence for a logged
// entry: its snapshot, the linked catalog item's serving size and per-100g
// macros, and the calorie value as stored. Shared by the display endpoint and
// the rescale worker so both infer from identical input.
func PortionInputForEntry(entry *models.FoodEntry, snap *nutrition.Snapshot) nutrition.PortionInput {
	input := nutrition.PortionInput{Snapshot: snap}

	qty := entry.Quantity
	input.QuantityValue = &qty

	if entry.Calories > 0 {
		cal := entry.Calories
		input.StoredCalories = &cal
	}

	if entry.FoodItem != nil {
		input.ServingSizeGrams = entry.FoodItem.ServingSizeGrams
		ref := nutrition.MacroRef{}
		if entry.FoodItem.Calories > 0 {
			c := entry.FoodItem.Calories
			ref.Calories = &c
		}
		if entry.FoodItem.Protein > 0 {
			p := entry.FoodItem.Protein
			ref.Protein = &p
		}
		if entry.FoodItem.Carbs > 0 {
			c := entry.FoodItem.Carbs
			ref.Carbs = &c
		}
		if entry.FoodItem.Fat > 0 {
			f := entry.FoodItem.Fat
			ref.Fat = &f
		}
		input.PerHundredGrams = &ref
	}

	return input
}

// ApplySnapshotMacros recomputes an entry's stored macro columns from a
// scaled snapshot. Macros absent from the snapshot keep their stored value.
func ApplySnapshotMacros(entry *models.FoodEntry, snap *nutrition.Snapshot) {
	if v := nutrition.SnapshotValue(snap, nutrition.NutrientIDEnergy); v != nil {
		entry.Calories = *v
	}
	if v := nutrition.SnapshotValue(snap, nutrition.NutrientIDProtein); v != nil {
		entry.Protein = *v
	}
	if v := nutrition.SnapshotValue(snap, nutrition.NutrientIDCarbohydrate); v != nil {
		entry.Carbs = *v
	}
	if v := nutrition.SnapshotValue(snap, nutrition.NutrientIDTotalFat); v != nil {
		entry.Fat = *v
	}
	if v := nutrition.SnapshotValue(snap, nutrition.NutrientIDFiber); v != nil {
		entry.Fiber = *v
	}
}

// SnapshotFromPer100g builds the nutrient snapshot captured at logging time
// from a catalog item's per-100g macros. ScaledAt stays nil: the values are
// still on the 100g basis until the rescale worker adjusts them.
func SnapshotFromPer100g(item *models.FoodItem) *nutrition.Snapshot {
	if item == nil {
		return nil
	}
	snap := &nutrition.Snapshot{}
	add := func(id int, name, unit string, value float64) {
		v := value
		snap.Nutrients = append(snap.Nutrients, nutrition.NutrientValue{
			ID: id, Name: name, Unit: unit, Value: &v,
		})
	}
	add(nutrition.NutrientIDEnergy, "Energy", "kcal", item.Calories)
	add(nutrition.NutrientIDProtein, "Protein", "g", item.Protein)
	add(nutrition.NutrientIDCarbohydrate, "Carbohydrate", "g", item.Carbs)
	add(nutrition.NutrientIDTotalFat, "Total Fat", "g", item.Fat)
	add(nutrition.NutrientIDFiber, "Fiber", "g", item.Fiber)
	return snap
}
