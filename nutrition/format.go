package nutrition

import (
	"fmt"
	"math"
	"strings"
)

// FormatAmount renders a nutrient value with magnitude-dependent precision:
// the placeholder for missing values, a literal "0" for exact zero, whole
// numbers at or above 100 and for energy units, one decimal between 1 and
// 100, two decimals below 1.
func FormatAmount(value *float64, unit, placeholder string) string {
	if value == nil {
		return placeholder
	}
	v := *value
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	switch {
	case isEnergyUnit(unit) || abs >= 100:
		return fmt.Sprintf("%.0f", v)
	case abs >= 1:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func isEnergyUnit(unit string) bool {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "kcal", "kj", "cal":
		return true
	}
	return false
}
