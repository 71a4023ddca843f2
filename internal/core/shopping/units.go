// Package shopping builds the aggregated weekly shopping list from the meal
// plan and layers the user's saved edits on top of it.
package shopping

import (
	"math"
	"strings"

	"meal-planner/internal/core/model"
)

// unitAliases folds the unit spellings seen in imported recipes (English
// long/short forms plus Korean) onto canonical short units.
var unitAliases = map[string]string{
	"g":       "g",
	"gram":    "g",
	"grams":   "g",
	"gramme":  "g",
	"grammes": "g",

	"kg":        "kg",
	"kilogram":  "kg",
	"kilograms": "kg",
	"킬로그램":      "kg",

	"ml":          "ml",
	"milliliter":  "ml",
	"milliliters": "ml",
	"밀리리터":        "ml",

	"l":      "l",
	"liter":  "l",
	"liters": "l",
	"리터":     "l",

	"tbsp":        "tbsp",
	"tablespoon":  "tbsp",
	"tablespoons": "tbsp",
	"큰술":          "tbsp",
	"스푼":          "tbsp",
	"t":           "tbsp",

	"tsp":       "tsp",
	"teaspoon":  "tsp",
	"teaspoons": "tsp",
	"작은술":       "tsp",

	"count":  "count",
	"piece":  "count",
	"pieces": "count",
	"pcs":    "count",
	"ea":     "count",
}

// NormalizeUnit maps a raw unit onto its canonical spelling. Unknown units
// pass through lowercased and trimmed.
func NormalizeUnit(unit string) string {
	cleaned := strings.ToLower(strings.TrimSpace(unit))
	if canonical, ok := unitAliases[cleaned]; ok {
		return canonical
	}
	return cleaned
}

// NormalizeQuantityUnit converts a quantity to the base unit of its family:
// kg to g, l to ml, tsp to tbsp. Other units pass through with the canonical
// spelling.
func NormalizeQuantityUnit(quantity float64, unit string) (float64, string) {
	normalized := NormalizeUnit(unit)
	switch normalized {
	case "kg":
		return quantity * 1000, "g"
	case "l":
		return quantity * 1000, "ml"
	case "tsp":
		return quantity / 3, "tbsp"
	}
	return quantity, normalized
}

// UnitGroup classifies a normalized unit into a measurement family. Units of
// different families cannot be merged into one total.
func UnitGroup(unit string) string {
	switch unit {
	case "g":
		return "weight"
	case "ml":
		return "volume"
	case "tbsp":
		return "spoon"
	case "count", "":
		return "count"
	}
	return unit
}

// RoundQuantity rounds a numeric quantity to two decimal places. Free-text
// quantities pass through unchanged.
func RoundQuantity(q model.Quantity) model.Quantity {
	if !q.IsNum {
		return q
	}
	return model.NumberQuantity(math.Round(q.Num*100) / 100)
}

// ItemKey builds the aggregation key for an ingredient. The language tag
// keeps per-language lists independent.
func ItemKey(name, unit, lang string) string {
	if lang != "" {
		return lang + "|" + name + "|" + unit
	}
	return name + "|" + unit
}
