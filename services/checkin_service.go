package services

import (
	"encoding/json"
	"fmt"
)

// Question is one item of a check-in template questionnaire.
type Question struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Type     string   `json:"type"` // text, number, scale
	Required bool     `json:"required"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}

// ParseQuestions decodes and validates a template's questions JSON: keys must
// be unique and non-empty, types recognized, and scale questions need a
// min < max range.
func ParseQuestions(raw string) ([]Question, error) {
	var questions []Question
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("questions must be a JSON array: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("template needs at least one question")
	}

	seen := make(map[string]bool, len(questions))
	for i, q := range questions {
		if q.Key == "" {
			return nil, fmt.Errorf("question %d: key is required", i)
		}
		if seen[q.Key] {
			return nil, fmt.Errorf("duplicate question key %q", q.Key)
		}
		seen[q.Key] = true

		switch q.Type {
		case "text", "number":
		case "scale":
			if q.Min == nil || q.Max == nil {
				return nil, fmt.Errorf("question %q: scale needs min and max", q.Key)
			}
			if *q.Min >= *q.Max {
				return nil, fmt.Errorf("question %q: scale min must be below max", q.Key)
			}
		default:
			return nil, fmt.Errorf("question %q: unknown type %q", q.Key, q.Type)
		}
	}
	return questions, nil
}

// ValidateAnswers checks a submission's answers against the template's
// questions: required answers present, numeric answers numeric, scale answers
// within bounds. Answers for unknown keys are rejected.
func ValidateAnswers(questions []Question, answers map[string]interface{}) error {
	byKey := make(map[string]Question, len(questions))
	for _, q := range questions {
		byKey[q.Key] = q
	}

	for key := range answers {
		if _, ok := byKey[key]; !ok {
			return fmt.Errorf("answer for unknown question %q", key)
		}
	}

	for _, q := range questions {
		val, present := answers[q.Key]
		if !present || val == nil {
			if q.Required {
				return fmt.Errorf("question %q: answer is required", q.Key)
			}
			continue
		}

		switch q.Type {
		case "text":
			if _, ok := val.(string); !ok {
				return fmt.Errorf("question %q: expected a text answer", q.Key)
			}
		case "number":
			if _, ok := val.(float64); !ok {
				return fmt.Errorf("question %q: expected a numeric answer", q.Key)
			}
		case "scale":
			n, ok := val.(float64)
			if !ok {
				return fmt.Errorf("question %q: expected a numeric answer", q.Key)
			}
			if n < *q.Min || n > *q.Max {
				return fmt.Errorf("question %q: answer %.1f outside scale %g-%g", q.Key, n, *q.Min, *q.Max)
			}
		}
	}
	return nil
}
