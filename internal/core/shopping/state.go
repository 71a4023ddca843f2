package shopping

import (
	"sort"

	"meal-planner/internal/core/model"
	"meal-planner/internal/pkg/common"
)

// ItemWithDefaults is a state-backed item merged with its weekly aggregate
// line: the user's edits win, the aggregate's values stay visible as
// defaults.
type ItemWithDefaults struct {
	Name            string         `json:"name"`
	Unit            string         `json:"unit"`
	Quantity        model.Quantity `json:"quantity"`
	RecipesCount    int            `json:"recipes_count"`
	RecipeIDs       []string       `json:"recipe_ids"`
	Key             string         `json:"key"`
	DefaultQuantity model.Quantity `json:"default_quantity"`
	DefaultUnit     string         `json:"default_unit"`
}

// Overview is the full shopping view for one week and language.
type Overview struct {
	WeeklyList    []Item             `json:"weekly_list"`
	ShoppingItems []ItemWithDefaults `json:"shopping_items"`
	Lang          string             `json:"lang"`
}

// SyncState prunes stale entries from the saved state against the current
// weekly aggregate. An entry survives when it belongs to another language,
// is manual, or still matches a weekly item (by language-scoped or legacy
// key). An empty aggregate leaves the state untouched. The changed flag
// tells the caller whether persisting is needed.
func SyncState(state model.ShoppingState, weeklyItems []Item, language string) (model.ShoppingState, bool) {
	if len(weeklyItems) == 0 {
		return state, false
	}

	validKeys := make(map[string]bool, len(weeklyItems)*2)
	for _, item := range weeklyItems {
		validKeys[ItemKey(item.Name, item.Unit, language)] = true
		validKeys[ItemKey(item.Name, item.Unit, "")] = true
	}

	updated := model.ShoppingState{}
	for key, value := range state {
		switch {
		case language != "" && value.Lang != "" && value.Lang != language:
			updated[key] = value
		case value.Manual:
			updated[key] = value
		case validKeys[key]:
			updated[key] = value
		}
	}

	return updated, len(updated) != len(state)
}

// BuildOverview merges the weekly aggregate with the saved state. Weekly
// items the user has adopted into the state move to shopping_items with
// their aggregate values exposed as defaults; manual entries appear with no
// defaults; everything else stays in weekly_list.
func BuildOverview(weeklyItems []Item, state model.ShoppingState, lang string) Overview {
	weeklyByKey := make(map[string]Item, len(weeklyItems))
	for _, item := range weeklyItems {
		weeklyByKey[item.Key] = item
	}
	// Older state entries were keyed without the language tag.
	langPrefix := lang + "|"
	for _, item := range weeklyItems {
		if len(item.Key) > len(langPrefix) && item.Key[:len(langPrefix)] == langPrefix {
			legacyKey := ItemKey(item.Name, item.Unit, "")
			if _, ok := weeklyByKey[legacyKey]; !ok {
				weeklyByKey[legacyKey] = item
			}
		}
	}

	keys := make([]string, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	shoppingItems := make([]ItemWithDefaults, 0, len(keys))
	for _, key := range keys {
		stored := state[key]
		if weekly, ok := weeklyByKey[key]; ok {
			merged := ItemWithDefaults{
				Name:            common.FirstNonEmpty(stored.Name, weekly.Name),
				Unit:            common.FirstNonEmpty(stored.Unit, weekly.Unit),
				Quantity:        stored.Quantity,
				RecipesCount:    weekly.RecipesCount,
				RecipeIDs:       weekly.RecipeIDs,
				Key:             key,
				DefaultQuantity: weekly.Quantity,
				DefaultUnit:     weekly.Unit,
			}
			if merged.Quantity.IsEmpty() {
				merged.Quantity = weekly.Quantity
			}
			shoppingItems = append(shoppingItems, merged)
		} else if stored.Manual {
			shoppingItems = append(shoppingItems, ItemWithDefaults{
				Name:      stored.Name,
				Unit:      stored.Unit,
				Quantity:  stored.Quantity,
				RecipeIDs: []string{},
				Key:       key,
			})
		}
	}

	weeklyList := make([]Item, 0, len(weeklyItems))
	for _, item := range weeklyItems {
		if _, adopted := state[item.Key]; !adopted {
			weeklyList = append(weeklyList, item)
		}
	}

	return Overview{WeeklyList: weeklyList, ShoppingItems: shoppingItems, Lang: lang}
}
