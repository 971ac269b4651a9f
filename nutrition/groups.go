package nutrition

// USDA FoodData Central nutrient numbers for the nutrients the app displays.
const (
	NutrientIDEnergy       = 1008
	NutrientIDProtein      = 1003
	NutrientIDCarbohydrate = 1005
	NutrientIDTotalFat     = 1004

	NutrientIDFiber       = 1079
	NutrientIDSugars      = 2000
	NutrientIDAddedSugars = 1235

	NutrientIDVitaminA   = 1106
	NutrientIDVitaminC   = 1162
	NutrientIDVitaminD   = 1114
	NutrientIDVitaminE   = 1109
	NutrientIDVitaminK   = 1185
	NutrientIDThiamin    = 1165
	NutrientIDRiboflavin = 1166
	NutrientIDNiacin     = 1167
	NutrientIDVitaminB6  = 1175
	NutrientIDFolate     = 1177
	NutrientIDVitaminB12 = 1178

	NutrientIDCalcium    = 1087
	NutrientIDIron       = 1089
	NutrientIDMagnesium  = 1090
	NutrientIDPhosphorus = 1091
	NutrientIDPotassium  = 1092
	NutrientIDSodium     = 1093
	NutrientIDZinc       = 1095
	NutrientIDSelenium   = 1103

	NutrientIDSaturatedFat       = 1258
	NutrientIDMonounsaturatedFat = 1292
	NutrientIDPolyunsaturatedFat = 1293
	NutrientIDTransFat           = 1257
	NutrientIDCholesterol        = 1253
)

// Section is a display bucket of nutrients in canonical order.
type Section struct {
	Key       string          `json:"key"`
	Title     string          `json:"title"`
	Nutrients []NutrientValue `json:"nutrients"`
}

// sectionDef fixes both the bucket membership and the in-bucket order.
type sectionDef struct {
	key   string
	title string
	ids   []int
}

var sectionDefs = []sectionDef{
	{"macros", "Macronutrients", []int{
		NutrientIDEnergy, NutrientIDProtein, NutrientIDCarbohydrate, NutrientIDTotalFat,
	}},
	{"fiber_sugars", "Fiber & Sugars", []int{
		NutrientIDFiber, NutrientIDSugars, NutrientIDAddedSugars,
	}},
	{"vitamins", "Vitamins", []int{
		NutrientIDVitaminA, NutrientIDVitaminC, NutrientIDVitaminD, NutrientIDVitaminE,
		NutrientIDVitaminK, NutrientIDThiamin, NutrientIDRiboflavin, NutrientIDNiacin,
		NutrientIDVitaminB6, NutrientIDFolate, NutrientIDVitaminB12,
	}},
	{"minerals", "Minerals", []int{
		NutrientIDCalcium, NutrientIDIron, NutrientIDMagnesium, NutrientIDPhosphorus,
		NutrientIDPotassium, NutrientIDSodium, NutrientIDZinc, NutrientIDSelenium,
	}},
	{"fats", "Fats", []int{
		NutrientIDSaturatedFat, NutrientIDMonounsaturatedFat, NutrientIDPolyunsaturatedFat,
		NutrientIDTransFat, NutrientIDCholesterol,
	}},
}

// GroupNutrients re-buckets a flat nutrient list into the fixed display
// sections. Order within a section follows the canonical ID order, not input
// order. Nutrients with IDs outside every table are dropped; empty sections
// are omitted. When an ID appears more than once the first occurrence wins.
func GroupNutrients(nutrients []NutrientValue) []Section {
	byID := make(map[int]NutrientValue, len(nutrients))
	for _, n := range nutrients {
		if _, seen := byID[n.ID]; !seen {
			byID[n.ID] = n
		}
	}

	var sections []Section
	for _, def := range sectionDefs {
		var members []NutrientValue
		for _, id := range def.ids {
			if n, ok := byID[id]; ok {
				members = append(members, n)
			}
		}
		if len(members) == 0 {
			continue
		}
		sections = append(sections, Section{Key: def.key, Title: def.title, Nutrients: members})
	}
	return sections
}
