package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CoerceFeedbackValue folds the many shapes feedback arrives in (numbers,
// "up"/"down" strings, booleans, {value}/{rating} wrappers) into a ternary
// vote: 1, 0, or -1. Unrecognized input counts as neutral.
func CoerceFeedbackValue(value interface{}) int {
	switch v := value.(type) {
	case float64:
		return signOf(v)
	case int:
		return signOf(float64(v))
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return signOf(f)
		}
		return 0
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(v))
		switch trimmed {
		case "", "neutral":
			return 0
		case "up", "thumbs_up", "like":
			return 1
		case "down", "thumbs_down", "dislike":
			return -1
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return signOf(f)
		}
		return 0
	case bool:
		if v {
			return 1
		}
		return 0
	case map[string]interface{}:
		if inner, ok := v["value"]; ok {
			return CoerceFeedbackValue(inner)
		}
		if inner, ok := v["rating"]; ok {
			return CoerceFeedbackValue(inner)
		}
	}
	return 0
}

// NormalizeFeedback coerces every member's vote. Nil input stays nil.
func NormalizeFeedback(feedback map[string]interface{}) map[string]int {
	if feedback == nil {
		return nil
	}
	normalized := make(map[string]int, len(feedback))
	for member, value := range feedback {
		normalized[member] = CoerceFeedbackValue(value)
	}
	return normalized
}

func signOf(v float64) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}
