package prefill

import (
	"strconv"
	"strings"

	"meal-planner/internal/core/model"
)

// FormatIngredients renders ingredients as editable "name,quantity,unit"
// lines.
func FormatIngredients(items []model.Ingredient) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, strings.TrimSpace(item.Name+","+item.Quantity.String()+","+item.Unit))
	}
	return strings.Join(lines, "\n")
}

// ParseIngredients parses "name,quantity,unit" lines back into ingredients.
// Quantities parse as numbers when possible, else stay text.
func ParseIngredients(value string) []model.Ingredient {
	if strings.TrimSpace(value) == "" {
		return []model.Ingredient{}
	}
	var items []model.Ingredient
	for _, line := range strings.Split(value, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 3)
		for len(parts) < 3 {
			parts = append(parts, "")
		}
		name := strings.TrimSpace(parts[0])
		qtyText := strings.TrimSpace(parts[1])
		unit := strings.TrimSpace(parts[2])

		quantity := model.StringQuantity(qtyText)
		if qtyText != "" {
			if num, err := strconv.ParseFloat(qtyText, 64); err == nil {
				quantity = model.NumberQuantity(num)
			}
		}
		items = append(items, model.Ingredient{Name: name, Quantity: quantity, Unit: unit})
	}
	return items
}

// FormatInstructions joins instruction steps into editable text.
func FormatInstructions(items []string) string {
	return strings.Join(items, "\n")
}

// ParseInstructions splits editable text back into steps.
func ParseInstructions(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	var items []string
	for _, line := range strings.Split(value, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
