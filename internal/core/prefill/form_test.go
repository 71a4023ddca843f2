package prefill

import (
	"testing"

	"meal-planner/internal/core/model"
)

func TestParseIngredients(t *testing.T) {
	items := ParseIngredients("rice,200,g\n\negg,2,\nsalt,to taste,")
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	if items[0].Name != "rice" || !items[0].Quantity.IsNum || items[0].Quantity.Num != 200 || items[0].Unit != "g" {
		t.Errorf("rice = %+v", items[0])
	}
	if items[1].Name != "egg" || items[1].Quantity.Num != 2 || items[1].Unit != "" {
		t.Errorf("egg = %+v", items[1])
	}
	if items[2].Quantity.IsNum || items[2].Quantity.Str != "to taste" {
		t.Errorf("salt quantity should stay text: %+v", items[2].Quantity)
	}
}

func TestParseIngredientsPartialLines(t *testing.T) {
	items := ParseIngredients("just-a-name")
	if len(items) != 1 {
		t.Fatalf("items = %d", len(items))
	}
	if items[0].Name != "just-a-name" || !items[0].Quantity.IsEmpty() || items[0].Unit != "" {
		t.Errorf("item = %+v", items[0])
	}
	if got := ParseIngredients("   "); len(got) != 0 {
		t.Errorf("blank input should parse to empty, got %v", got)
	}
}

func TestFormatIngredientsRoundTrip(t *testing.T) {
	original := []model.Ingredient{
		{Name: "rice", Quantity: model.NumberQuantity(200), Unit: "g"},
		{Name: "salt", Quantity: model.StringQuantity("to taste"), Unit: ""},
	}
	text := FormatIngredients(original)
	parsed := ParseIngredients(text)
	if len(parsed) != len(original) {
		t.Fatalf("round trip lost lines: %d != %d", len(parsed), len(original))
	}
	for i := range original {
		if parsed[i].Name != original[i].Name || parsed[i].Unit != original[i].Unit {
			t.Errorf("line %d: %+v != %+v", i, parsed[i], original[i])
		}
	}
	if parsed[0].Quantity.Num != 200 {
		t.Errorf("numeric quantity lost: %+v", parsed[0].Quantity)
	}
}

func TestParseInstructions(t *testing.T) {
	steps := ParseInstructions("Wash the rice.\n\n  Cook it.  \n")
	if len(steps) != 2 || steps[0] != "Wash the rice." || steps[1] != "Cook it." {
		t.Errorf("steps = %v", steps)
	}
	if got := ParseInstructions(""); len(got) != 0 {
		t.Errorf("empty input should parse to empty, got %v", got)
	}
}

func TestFormatInstructions(t *testing.T) {
	if got := FormatInstructions([]string{"a", "b"}); got != "a\nb" {
		t.Errorf("FormatInstructions = %q", got)
	}
}
