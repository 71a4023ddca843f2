package shopping

import (
	"testing"

	"meal-planner/internal/core/model"
	"meal-planner/internal/pkg/common"
)

func planWithMeals(startDate string, meals map[string]map[string]*model.Meal) *model.WeeklyPlan {
	plan := &model.WeeklyPlan{StartDate: startDate}
	for i := 0; i < 7; i++ {
		date := common.AddDays(startDate, i)
		day := model.EmptyDailyPlan(date)
		for slot, meal := range meals[date] {
			day.Meals[slot] = meal
		}
		plan.Days = append(plan.Days, day)
	}
	return plan
}

func itemByName(items []Item, name string) *Item {
	for i := range items {
		if items[i].Name == name {
			return &items[i]
		}
	}
	return nil
}

func TestComputeWeeklyListScalesToFamilySize(t *testing.T) {
	recipes := map[string]*model.Recipe{
		"rice-bowl": {
			RecipeID: "rice-bowl",
			Name:     "Rice Bowl",
			Servings: model.NumberQuantity(2),
			Ingredients: []model.Ingredient{
				{Name: "rice", Quantity: model.NumberQuantity(200), Unit: "g"},
				{Name: "egg", Quantity: model.NumberQuantity(1), Unit: "count"},
			},
		},
	}
	plan := planWithMeals("2026-08-31", map[string]map[string]*model.Meal{
		"2026-08-31": {"dinner": {RecipeID: "rice-bowl"}},
		"2026-09-02": {"lunch": {RecipeID: "rice-bowl"}},
	})

	items := ComputeWeeklyList(plan, recipes, model.AppConfig{FamilySize: 4}, "en")

	rice := itemByName(items, "rice")
	if rice == nil {
		t.Fatal("rice missing from aggregate")
	}
	// 200g for 2 servings, scaled to 4 people, two meals.
	if !rice.Quantity.IsNum || rice.Quantity.Num != 800 {
		t.Errorf("rice quantity = %+v, want 800", rice.Quantity)
	}
	if rice.Unit != "g" {
		t.Errorf("rice unit = %q", rice.Unit)
	}
	if rice.RecipesCount != 1 || len(rice.RecipeIDs) != 1 || rice.RecipeIDs[0] != "rice-bowl" {
		t.Errorf("rice recipes = %d %v", rice.RecipesCount, rice.RecipeIDs)
	}
	if rice.Key != "en|rice|g" {
		t.Errorf("rice key = %q", rice.Key)
	}

	egg := itemByName(items, "egg")
	if egg == nil || !egg.Quantity.IsNum || egg.Quantity.Num != 4 {
		t.Errorf("egg = %+v, want quantity 4", egg)
	}
}

func TestComputeWeeklyListMergesUnitFamilies(t *testing.T) {
	recipes := map[string]*model.Recipe{
		"bread": {
			RecipeID: "bread",
			Servings: model.NumberQuantity(4),
			Ingredients: []model.Ingredient{
				{Name: "flour", Quantity: model.NumberQuantity(500), Unit: "g"},
			},
		},
		"cake": {
			RecipeID: "cake",
			Servings: model.NumberQuantity(4),
			Ingredients: []model.Ingredient{
				{Name: "flour", Quantity: model.NumberQuantity(1), Unit: "kg"},
			},
		},
	}
	plan := planWithMeals("2026-08-31", map[string]map[string]*model.Meal{
		"2026-08-31": {"breakfast": {RecipeID: "bread"}, "dinner": {RecipeID: "cake"}},
	})

	items := ComputeWeeklyList(plan, recipes, model.AppConfig{FamilySize: 4}, "en")

	flour := itemByName(items, "flour")
	if flour == nil {
		t.Fatal("flour missing")
	}
	if !flour.Quantity.IsNum || flour.Quantity.Num != 1500 {
		t.Errorf("flour quantity = %+v, want 1500 (kg folded into g)", flour.Quantity)
	}
	if flour.Unit != "g" {
		t.Errorf("flour unit = %q", flour.Unit)
	}
	if flour.RecipesCount != 2 {
		t.Errorf("flour recipes_count = %d, want 2", flour.RecipesCount)
	}
}

func TestComputeWeeklyListKeepsUnitFamiliesSeparate(t *testing.T) {
	recipes := map[string]*model.Recipe{
		"a": {
			RecipeID: "a",
			Servings: model.NumberQuantity(4),
			Ingredients: []model.Ingredient{
				{Name: "garlic", Quantity: model.NumberQuantity(20), Unit: "g"},
			},
		},
		"b": {
			RecipeID: "b",
			Servings: model.NumberQuantity(4),
			Ingredients: []model.Ingredient{
				{Name: "garlic", Quantity: model.NumberQuantity(3), Unit: "count"},
			},
		},
	}
	plan := planWithMeals("2026-08-31", map[string]map[string]*model.Meal{
		"2026-08-31": {"lunch": {RecipeID: "a"}, "dinner": {RecipeID: "b"}},
	})

	items := ComputeWeeklyList(plan, recipes, model.AppConfig{FamilySize: 4}, "en")

	var garlicEntries []Item
	for _, item := range items {
		if item.Name == "garlic" {
			garlicEntries = append(garlicEntries, item)
		}
	}
	if len(garlicEntries) != 2 {
		t.Fatalf("garlic entries = %d, want 2 separate unit families", len(garlicEntries))
	}
	for _, entry := range garlicEntries {
		if entry.Unit == "mixed" {
			t.Errorf("distinct keys should keep their own units, got %q", entry.Unit)
		}
	}
}

func TestComputeWeeklyListLegacySnapshot(t *testing.T) {
	// A meal whose recipe no longer exists falls back to its denormalized
	// ingredient snapshot, unscaled.
	plan := planWithMeals("2026-08-31", map[string]map[string]*model.Meal{
		"2026-08-31": {"dinner": {
			RecipeID: "gone",
			Ingredients: []model.Ingredient{
				{Name: "tofu", Quantity: model.NumberQuantity(1), Unit: "count"},
			},
		}},
	})

	items := ComputeWeeklyList(plan, map[string]*model.Recipe{}, model.AppConfig{FamilySize: 4}, "en")
	tofu := itemByName(items, "tofu")
	if tofu == nil || !tofu.Quantity.IsNum || tofu.Quantity.Num != 1 {
		t.Errorf("tofu = %+v, want unscaled quantity 1", tofu)
	}
}

func TestComputeWeeklyListOriginalLanguage(t *testing.T) {
	recipes := map[string]*model.Recipe{
		"stew": {
			RecipeID: "stew",
			Servings: model.NumberQuantity(4),
			Ingredients: []model.Ingredient{
				{Name: "tofu", Quantity: model.NumberQuantity(1), Unit: "count"},
			},
			IngredientsOriginal: []model.Ingredient{
				{Name: "두부", Quantity: model.NumberQuantity(1), Unit: "count"},
			},
		},
	}
	plan := planWithMeals("2026-08-31", map[string]map[string]*model.Meal{
		"2026-08-31": {"dinner": {RecipeID: "stew"}},
	})

	items := ComputeWeeklyList(plan, recipes, model.AppConfig{FamilySize: 4}, LanguageOriginal)
	if itemByName(items, "두부") == nil {
		t.Error("original-language list should use ingredients_original")
	}
	if itemByName(items, "tofu") != nil {
		t.Error("english variant should not leak into the original-language list")
	}
}

func TestComputeWeeklyListSkipsNamelessIngredients(t *testing.T) {
	recipes := map[string]*model.Recipe{
		"stew": {
			RecipeID: "stew",
			Servings: model.NumberQuantity(4),
			Ingredients: []model.Ingredient{
				{Name: "", Quantity: model.NumberQuantity(5), Unit: "g"},
				{Name: "salt", Quantity: model.StringQuantity("to taste")},
			},
		},
	}
	plan := planWithMeals("2026-08-31", map[string]map[string]*model.Meal{
		"2026-08-31": {"dinner": {RecipeID: "stew"}},
	})

	items := ComputeWeeklyList(plan, recipes, model.AppConfig{FamilySize: 4}, "en")
	if len(items) != 1 {
		t.Fatalf("items = %d, want only the named ingredient", len(items))
	}
	// Non-numeric quantities aggregate as zero rather than dropping the item.
	if !items[0].Quantity.IsNum || items[0].Quantity.Num != 0 {
		t.Errorf("salt quantity = %+v", items[0].Quantity)
	}
}
