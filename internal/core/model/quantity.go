package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Quantity is a number-or-string JSON value. Ingredient quantities arrive as
// numbers from structured imports and as free text ("2~3", "a pinch") from
// scraped or hand-typed recipes; both shapes round-trip unchanged.
type Quantity struct {
	Num   float64
	Str   string
	IsNum bool
}

// NumberQuantity wraps a numeric quantity.
func NumberQuantity(v float64) Quantity {
	return Quantity{Num: v, IsNum: true}
}

// StringQuantity wraps a free-text quantity.
func StringQuantity(s string) Quantity {
	return Quantity{Str: s}
}

// Float returns the numeric value. For text quantities it attempts a parse;
// ok is false when the text is empty or non-numeric.
func (q Quantity) Float() (float64, bool) {
	if q.IsNum {
		return q.Num, true
	}
	trimmed := strings.TrimSpace(q.Str)
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsEmpty reports whether the quantity carries no value at all.
func (q Quantity) IsEmpty() bool {
	return !q.IsNum && q.Str == ""
}

func (q Quantity) String() string {
	if q.IsNum {
		return strconv.FormatFloat(q.Num, 'f', -1, 64)
	}
	return q.Str
}

// MarshalJSON emits a JSON number for numeric quantities and a JSON string
// otherwise.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if q.IsNum {
		return json.Marshal(q.Num)
	}
	return json.Marshal(q.Str)
}

// UnmarshalJSON accepts a number, a string, or null.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*q = Quantity{}
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity{Str: s}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*q = Quantity{Num: v, IsNum: true}
	return nil
}
