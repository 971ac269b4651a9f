package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name        string
		value       *float64
		unit        string
		placeholder string
		want        string
	}{
		{"missing value", nil, "g", "–", "–"},
		{"exact zero", fp(0), "g", "–", "0"},
		{"energy is whole", fp(23.6), "kcal", "–", "24"},
		{"kilojoules are whole", fp(98.4), "kJ", "–", "98"},
		{"large is whole", fp(152.7), "mg", "–", "153"},
		{"boundary 100 is whole", fp(100), "g", "–", "100"},
		{"mid range one decimal", fp(12.34), "g", "–", "12.3"},
		{"boundary 1 one decimal", fp(1), "g", "–", "1.0"},
		{"small two decimals", fp(0.456), "g", "–", "0.46"},
		{"tiny two decimals", fp(0.004), "mg", "–", "0.00"},
		{"negative large", fp(-250.2), "g", "–", "-250"},
		{"custom placeholder", nil, "g", "n/a", "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.value, tt.unit, tt.placeholder))
		})
	}
}
