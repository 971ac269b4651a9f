package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weeklyQuestions = `[
    {"key": "mood", "label": "How was your week?", "type": "text", "required": true},
    {"key": "weight", "label": "Current weight (kg)", "type": "number"},
    {"key": "energy", "label": "Energy level", "type": "scale", "min": 1, "max": 10, "required": true}
]`

func TestParseQuestions(t *testing.T) {
	questions, err := ParseQuestions(weeklyQuestions)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "mood", questions[0].Key)
	assert.True(t, questions[2].Required)
	assert.Equal(t, 1.0, *questions[2].Min)
}

func TestParseQuestionsRejectsBadTemplates(t *testing.T) {
	cases := map[string]string{
		"not an array":    `{"key": "mood"}`,
		"empty array":     `[]`,
		"missing key":     `[{"label": "Mood?", "type": "text"}]`,
		"duplicate key":   `[{"key": "mood", "type": "text"}, {"key": "mood", "type": "number"}]`,
		"unknown type":    `[{"key": "mood", "type": "dropdown"}]`,
		"scale no bounds": `[{"key": "energy", "type": "scale"}]`,
		"scale min>=max":  `[{"key": "energy", "type": "scale", "min": 5, "max": 5}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseQuestions(raw)
			assert.Error(t, err)
		})
	}
}

func TestValidateAnswers(t *testing.T) {
	questions, err := ParseQuestions(weeklyQuestions)
	require.NoError(t, err)

	err = ValidateAnswers(questions, map[string]interface{}{
		"mood":   "pretty good",
		"energy": 7.0,
	})
	assert.NoError(t, err, "optional number may be omitted")

	err = ValidateAnswers(questions, map[string]interface{}{"energy": 7.0})
	assert.Error(t, err, "required text missing")

	err = ValidateAnswers(questions, map[string]interface{}{
		"mood": "fine", "energy": 5.0, "sleep": 8.0,
	})
	assert.Error(t, err, "unknown key rejected")

	err = ValidateAnswers(questions, map[string]interface{}{
		"mood": "fine", "energy": "seven",
	})
	assert.Error(t, err, "scale answer must be numeric")

	err = ValidateAnswers(questions, map[string]interface{}{
		"mood": "fine", "energy": 11.0,
	})
	assert.Error(t, err, "scale answer above max")

	err = ValidateAnswers(questions, map[string]interface{}{
		"mood": "fine", "weight": "82kg", "energy": 5.0,
	})
	assert.Error(t, err, "number answer must be numeric")
}
