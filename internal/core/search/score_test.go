package search

import (
	"testing"

	"meal-planner/internal/core/model"
)

func TestScoreTitleQueryMatch(t *testing.T) {
	tests := []struct {
		name  string
		title string
		query string
		host  string
		want  int
	}{
		{"empty title", "", "stew", "", 0},
		{"empty query", "Beef Stew", "", "", 0},
		// Full substring (+5) plus both tokens (+2).
		{"full match", "Easy Beef Stew Recipe", "beef stew", "", 7},
		// One token only.
		{"partial match", "Chicken Stew", "beef stew", "", 1},
		// Host boost stacks on top.
		{"boosted host", "Easy Beef Stew", "beef stew", "allrecipes.com", 9},
		{"unknown host no boost", "Easy Beef Stew", "beef stew", "example.com", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreTitleQueryMatch(tt.title, tt.query, tt.host); got != tt.want {
				t.Errorf("ScoreTitleQueryMatch = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSourceBoost(t *testing.T) {
	if got := SourceBoost("allrecipes.com"); got != 2 {
		t.Errorf("allrecipes boost = %d", got)
	}
	if got := SourceBoost("youtube.com"); got != 1 {
		t.Errorf("youtube boost = %d", got)
	}
	if got := SourceBoost("random.example"); got != 0 {
		t.Errorf("unlisted boost = %d", got)
	}
}

func TestScoreRecipeMatch(t *testing.T) {
	recipe := &model.Recipe{
		Name:         "Kimchi Fried Rice",
		NameOriginal: "김치볶음밥",
		Notes:        "spicy weeknight favorite",
		MealTypes:    []string{"dinner"},
	}

	// Full name hit (+6) plus tokens "fried" (+3) and "rice" (+3).
	if got := ScoreRecipeMatch("fried rice", recipe); got != 6+3+3 {
		t.Errorf("name match = %d", got)
	}
	// Tokens hit the name without a full substring match.
	if got := ScoreRecipeMatch("kimchi rice", recipe); got != 3+3 {
		t.Errorf("token match = %d", got)
	}
	// Original-name hit.
	if got := ScoreRecipeMatch("김치볶음밥", recipe); got != 6+3 {
		t.Errorf("original name match = %d", got)
	}
	// Notes and meal types add one each.
	if got := ScoreRecipeMatch("spicy dinner", recipe); got != 2 {
		t.Errorf("notes/meal-type match = %d", got)
	}
	if got := ScoreRecipeMatch("", recipe); got != 0 {
		t.Errorf("empty query = %d", got)
	}
}
