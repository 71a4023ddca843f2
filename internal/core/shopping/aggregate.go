package shopping

import (
	"sort"

	"meal-planner/internal/core/model"
)

// LanguageOriginal selects the source-language ingredient variant.
const LanguageOriginal = model.LanguageOriginal

// Item is one aggregated line of the weekly shopping list.
type Item struct {
	Name         string         `json:"name"`
	Unit         string         `json:"unit"`
	Quantity     model.Quantity `json:"quantity"`
	RecipesCount int            `json:"recipes_count"`
	RecipeIDs    []string       `json:"recipe_ids"`
	Key          string         `json:"key"`
}

type accumulator struct {
	displayName string
	quantity    float64
	unit        string
	groups      map[string]bool
	recipes     map[string]bool
}

// ingredientsFor picks the language-appropriate ingredient list, falling back
// to the other variant when the preferred one is empty.
func ingredientsFor(recipe *model.Recipe, language string) []model.Ingredient {
	if language == LanguageOriginal {
		if len(recipe.IngredientsOriginal) > 0 {
			return recipe.IngredientsOriginal
		}
		return recipe.Ingredients
	}
	if len(recipe.Ingredients) > 0 {
		return recipe.Ingredients
	}
	return recipe.IngredientsOriginal
}

// ComputeWeeklyList aggregates every planned meal's ingredients into one
// deduplicated list, scaling each recipe from its own servings to the
// family size. Same-name items whose units land in different measurement
// families are kept but flagged with the unit "mixed".
func ComputeWeeklyList(plan *model.WeeklyPlan, recipes map[string]*model.Recipe, cfg model.AppConfig, language string) []Item {
	target := cfg.TargetServings()
	items := map[string]*accumulator{}

	for _, day := range plan.Days {
		for _, slot := range model.MealTypeKeys {
			meal := day.Meals[slot]
			if meal == nil || meal.RecipeID == "" {
				continue
			}
			recipe := recipes[meal.RecipeID]

			var ingredients []model.Ingredient
			scale := 1.0
			if recipe != nil {
				ingredients = ingredientsFor(recipe, language)
				if servings, ok := recipe.Servings.Float(); ok && servings > 0 {
					scale = target / servings
				}
			} else {
				// Legacy meals carry a denormalized ingredient snapshot.
				ingredients = meal.Ingredients
			}

			for _, ing := range ingredients {
				name := ing.Name
				if name == "" {
					continue
				}
				qty, ok := ing.Quantity.Float()
				if !ok {
					qty = 0
				}
				qty *= scale

				normQty, normUnit := NormalizeQuantityUnit(qty, ing.Unit)
				key := ItemKey(name, normUnit, language)

				acc := items[key]
				if acc == nil {
					acc = &accumulator{
						displayName: name,
						unit:        normUnit,
						groups:      map[string]bool{},
						recipes:     map[string]bool{},
					}
					items[key] = acc
				}
				acc.quantity += normQty
				acc.groups[UnitGroup(normUnit)] = true
				acc.recipes[meal.RecipeID] = true
			}
		}
	}

	keys := make([]string, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]Item, 0, len(keys))
	for _, key := range keys {
		acc := items[key]
		unit := acc.unit
		if len(acc.groups) > 1 {
			unit = "mixed"
		}
		recipeIDs := make([]string, 0, len(acc.recipes))
		for id := range acc.recipes {
			recipeIDs = append(recipeIDs, id)
		}
		sort.Strings(recipeIDs)
		result = append(result, Item{
			Name:         acc.displayName,
			Unit:         unit,
			Quantity:     RoundQuantity(model.NumberQuantity(acc.quantity)),
			RecipesCount: len(recipeIDs),
			RecipeIDs:    recipeIDs,
			Key:          key,
		})
	}
	return result
}
