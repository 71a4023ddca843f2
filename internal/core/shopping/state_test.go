package shopping

import (
	"testing"

	"meal-planner/internal/core/model"
)

func TestSyncState(t *testing.T) {
	weekly := []Item{
		{Name: "rice", Unit: "g", Quantity: model.NumberQuantity(400), Key: "en|rice|g"},
	}

	t.Run("stale non-manual entries pruned", func(t *testing.T) {
		state := model.ShoppingState{
			"en|rice|g":  {Name: "rice", Unit: "g", Lang: "en"},
			"en|bread|g": {Name: "bread", Unit: "g", Lang: "en"},
		}
		synced, changed := SyncState(state, weekly, "en")
		if !changed {
			t.Error("expected changed = true")
		}
		if _, ok := synced["en|rice|g"]; !ok {
			t.Error("matching entry should survive")
		}
		if _, ok := synced["en|bread|g"]; ok {
			t.Error("stale entry should be pruned")
		}
	})

	t.Run("manual entries survive", func(t *testing.T) {
		state := model.ShoppingState{
			"manual:abc": {Name: "snacks", Manual: true, Lang: "en"},
		}
		synced, changed := SyncState(state, weekly, "en")
		if changed {
			t.Error("nothing should have been pruned")
		}
		if _, ok := synced["manual:abc"]; !ok {
			t.Error("manual entry should survive")
		}
	})

	t.Run("other-language entries survive", func(t *testing.T) {
		state := model.ShoppingState{
			"original|쌀|g": {Name: "쌀", Unit: "g", Lang: "original"},
		}
		synced, _ := SyncState(state, weekly, "en")
		if _, ok := synced["original|쌀|g"]; !ok {
			t.Error("entry for another language should survive")
		}
	})

	t.Run("legacy key matches", func(t *testing.T) {
		state := model.ShoppingState{
			"rice|g": {Name: "rice", Unit: "g"},
		}
		synced, changed := SyncState(state, weekly, "en")
		if changed {
			t.Error("legacy-keyed entry should still match")
		}
		if _, ok := synced["rice|g"]; !ok {
			t.Error("legacy-keyed entry should survive")
		}
	})

	t.Run("empty aggregate leaves state untouched", func(t *testing.T) {
		state := model.ShoppingState{
			"en|anything|g": {Name: "anything", Unit: "g", Lang: "en"},
		}
		synced, changed := SyncState(state, nil, "en")
		if changed || len(synced) != 1 {
			t.Error("an empty week must not wipe the saved state")
		}
	})
}

func TestBuildOverview(t *testing.T) {
	weekly := []Item{
		{Name: "rice", Unit: "g", Quantity: model.NumberQuantity(400), RecipesCount: 2, RecipeIDs: []string{"a", "b"}, Key: "en|rice|g"},
		{Name: "egg", Unit: "count", Quantity: model.NumberQuantity(4), RecipesCount: 1, RecipeIDs: []string{"a"}, Key: "en|egg|count"},
	}

	t.Run("adopted item carries defaults and override", func(t *testing.T) {
		state := model.ShoppingState{
			"en|rice|g": {Name: "rice", Unit: "g", Quantity: model.NumberQuantity(500), Lang: "en"},
		}
		overview := BuildOverview(weekly, state, "en")

		if len(overview.ShoppingItems) != 1 {
			t.Fatalf("shopping_items = %d, want 1", len(overview.ShoppingItems))
		}
		item := overview.ShoppingItems[0]
		if !item.Quantity.IsNum || item.Quantity.Num != 500 {
			t.Errorf("quantity = %+v, want user override 500", item.Quantity)
		}
		if !item.DefaultQuantity.IsNum || item.DefaultQuantity.Num != 400 {
			t.Errorf("default_quantity = %+v, want aggregate 400", item.DefaultQuantity)
		}
		if item.RecipesCount != 2 {
			t.Errorf("recipes_count = %d, want 2", item.RecipesCount)
		}

		// The adopted item leaves weekly_list; the other stays.
		if len(overview.WeeklyList) != 1 || overview.WeeklyList[0].Name != "egg" {
			t.Errorf("weekly_list = %+v", overview.WeeklyList)
		}
	})

	t.Run("empty override falls back to aggregate quantity", func(t *testing.T) {
		state := model.ShoppingState{
			"en|rice|g": {Name: "rice", Unit: "g", Lang: "en"},
		}
		overview := BuildOverview(weekly, state, "en")
		item := overview.ShoppingItems[0]
		if !item.Quantity.IsNum || item.Quantity.Num != 400 {
			t.Errorf("quantity = %+v, want aggregate 400", item.Quantity)
		}
	})

	t.Run("manual entries appear without defaults", func(t *testing.T) {
		state := model.ShoppingState{
			"manual:xyz": {Name: "snacks", Unit: "count", Quantity: model.NumberQuantity(2), Manual: true, Lang: "en"},
		}
		overview := BuildOverview(weekly, state, "en")
		if len(overview.ShoppingItems) != 1 {
			t.Fatalf("shopping_items = %d, want 1", len(overview.ShoppingItems))
		}
		item := overview.ShoppingItems[0]
		if item.Name != "snacks" || !item.DefaultQuantity.IsEmpty() {
			t.Errorf("manual item = %+v", item)
		}
	})

	t.Run("non-manual orphan entries hidden", func(t *testing.T) {
		state := model.ShoppingState{
			"en|ghost|g": {Name: "ghost", Unit: "g", Lang: "en"},
		}
		overview := BuildOverview(weekly, state, "en")
		if len(overview.ShoppingItems) != 0 {
			t.Errorf("orphan entry should be hidden, got %+v", overview.ShoppingItems)
		}
	})

	t.Run("legacy state key matches weekly item", func(t *testing.T) {
		state := model.ShoppingState{
			"rice|g": {Name: "rice", Unit: "g", Quantity: model.NumberQuantity(450)},
		}
		overview := BuildOverview(weekly, state, "en")
		if len(overview.ShoppingItems) != 1 {
			t.Fatalf("shopping_items = %d, want 1", len(overview.ShoppingItems))
		}
		if overview.ShoppingItems[0].DefaultQuantity.Num != 400 {
			t.Errorf("legacy-keyed entry should merge with the weekly item")
		}
	})
}
