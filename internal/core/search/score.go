// Package search finds recipe candidates: YouTube Data API queries, an
// optional external search endpoint, and the relevance scoring shared by
// both import search and the recommendation pipeline.
package search

import (
	"strings"

	"meal-planner/internal/core/model"
)

// sourceBoost nudges well-structured recipe sites above generic hits.
var sourceBoost = map[string]int{
	"allrecipes.com":  2,
	"bbcgoodfood.com": 2,
	"seriouseats.com": 2,
	"foodnetwork.com": 1,
	"thekitchn.com":   1,
	"youtube.com":     1,
	"youtu.be":        1,
}

// SourceBoost returns the ranking bonus for a host, 0 when unlisted.
func SourceBoost(host string) int {
	return sourceBoost[host]
}

// ScoreTitleQueryMatch rates how well a result title matches the query:
// +5 for a full substring match, +1 per matching token, plus the host boost.
func ScoreTitleQueryMatch(title, query, host string) int {
	normalizedTitle := strings.ToLower(title)
	normalizedQuery := strings.ToLower(query)
	if normalizedTitle == "" || normalizedQuery == "" {
		return 0
	}
	score := 0
	if strings.Contains(normalizedTitle, normalizedQuery) {
		score += 5
	}
	for _, token := range strings.Split(normalizedQuery, " ") {
		if token != "" && strings.Contains(normalizedTitle, token) {
			score++
		}
	}
	score += SourceBoost(host)
	return score
}

// ScoreRecipeMatch rates a library recipe against a free-text query: +6 for
// a full substring hit on either name, +3 per token in a name, +1 per token
// in notes or meal types.
func ScoreRecipeMatch(query string, recipe *model.Recipe) int {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return 0
	}
	tokens := strings.Fields(normalized)
	name := strings.ToLower(recipe.Name)
	original := strings.ToLower(recipe.NameOriginal)
	notes := strings.ToLower(recipe.Notes)
	mealTypes := strings.ToLower(strings.Join(recipe.MealTypes, " "))

	score := 0
	if (name != "" && strings.Contains(name, normalized)) ||
		(original != "" && strings.Contains(original, normalized)) {
		score += 6
	}
	for _, token := range tokens {
		if strings.Contains(name, token) {
			score += 3
		}
		if original != "" && strings.Contains(original, token) {
			score += 3
		}
		if notes != "" && strings.Contains(notes, token) {
			score++
		}
		if mealTypes != "" && strings.Contains(mealTypes, token) {
			score++
		}
	}
	return score
}
