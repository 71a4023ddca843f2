package model

import (
	"encoding/json"
	"testing"
)

func TestCoerceFeedbackValue(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  int
	}{
		{"positive number", 2.0, 1},
		{"negative number", -0.5, -1},
		{"zero", 0.0, 0},
		{"int", 1, 1},
		{"json number", json.Number("-3"), -1},
		{"up string", "up", 1},
		{"thumbs down", "thumbs_down", -1},
		{"like", "Like", 1},
		{"neutral string", "neutral", 0},
		{"numeric string", "-2", -1},
		{"empty string", "", 0},
		{"garbage string", "meh", 0},
		{"true", true, 1},
		{"false", false, 0},
		{"value wrapper", map[string]interface{}{"value": "down"}, -1},
		{"rating wrapper", map[string]interface{}{"rating": 5.0}, 1},
		{"unknown wrapper", map[string]interface{}{"other": 1.0}, 0},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceFeedbackValue(tt.input); got != tt.want {
				t.Errorf("CoerceFeedbackValue(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeFeedback(t *testing.T) {
	if NormalizeFeedback(nil) != nil {
		t.Error("nil input should stay nil")
	}
	got := NormalizeFeedback(map[string]interface{}{
		"mom": "up",
		"dad": false,
		"kid": -1.0,
	})
	want := map[string]int{"mom": 1, "dad": 0, "kid": -1}
	for member, value := range want {
		if got[member] != value {
			t.Errorf("%s = %d, want %d", member, got[member], value)
		}
	}
}
