// Package plan manages weekly meal plans: synthesis from per-day records,
// auto-generation under repeat limits, and slot-level mutations.
package plan

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"time"

	"meal-planner/internal/core/model"
	"meal-planner/internal/core/store"
	"meal-planner/internal/pkg/common"
)

// Service owns plan reads and mutations.
type Service struct {
	store store.Store
	rng   *rand.Rand
}

// NewService creates a plan service with its own RNG. Tests can reseed via
// NewServiceWithRand.
func NewService(st store.Store) *Service {
	return NewServiceWithRand(st, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewServiceWithRand creates a plan service with a caller-supplied RNG.
func NewServiceWithRand(st store.Store, rng *rand.Rand) *Service {
	return &Service{store: st, rng: rng}
}

// InitializePlan builds an empty seven-day plan starting at startDate.
func InitializePlan(startDate string) *model.WeeklyPlan {
	days := make([]model.DailyPlan, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, model.EmptyDailyPlan(common.AddDays(startDate, i)))
	}
	return &model.WeeklyPlan{StartDate: startDate, Days: days}
}

// WeeklyPlanForDate synthesizes the week starting at startDate from the
// stored per-day records. Days without a record come back with all slots
// empty.
func (s *Service) WeeklyPlanForDate(ctx context.Context, startDate string) (*model.WeeklyPlan, error) {
	plan := InitializePlan(startDate)
	for i := range plan.Days {
		stored, err := s.store.DailyPlan(ctx, plan.Days[i].Date)
		if errors.Is(err, store.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if stored.Meals == nil {
			stored.Meals = model.EmptyDailyPlan(stored.Date).Meals
		}
		plan.Days[i] = *stored
	}
	return plan, nil
}

// PlanDates returns every date that has a stored daily plan, sorted.
func (s *Service) PlanDates(ctx context.Context) ([]string, error) {
	plans, err := s.store.ListDailyPlans(ctx)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(plans))
	for _, p := range plans {
		dates = append(dates, p.Date)
	}
	sort.Strings(dates)
	return dates, nil
}

// mealTypesForRecipe folds the legacy single meal_type field into the list.
func mealTypesForRecipe(recipe *model.Recipe) []string {
	if len(recipe.MealTypes) == 0 && recipe.MealType != "" {
		return []string{recipe.MealType}
	}
	return recipe.MealTypes
}

// bucketRecipes groups recipes by plan slot. A "flexible" tag makes the
// recipe eligible for every slot.
func bucketRecipes(recipes []*model.Recipe) map[string][]*model.Recipe {
	byMeal := map[string][]*model.Recipe{}
	for _, slot := range model.MealTypeKeys {
		byMeal[slot] = nil
	}
	for _, recipe := range recipes {
		for _, mealType := range mealTypesForRecipe(recipe) {
			key := strings.ToLower(mealType)
			if key == "flexible" {
				for _, slot := range model.MealTypeKeys {
					byMeal[slot] = append(byMeal[slot], recipe)
				}
				continue
			}
			if _, ok := byMeal[key]; ok {
				byMeal[key] = append(byMeal[key], recipe)
			}
		}
	}
	return byMeal
}

// AutoGenerate fills every unlocked slot of the week. Locked meals keep
// their spot and count against the per-week repeat limit; a recipe is never
// scheduled twice on the same day. Slots with no eligible recipe are
// cleared.
func (s *Service) AutoGenerate(ctx context.Context, plan *model.WeeklyPlan, startDate string) (*model.WeeklyPlan, error) {
	cfg, err := s.store.AppConfig(ctx)
	if err != nil {
		return nil, err
	}
	recipes, err := s.store.Recipes(ctx)
	if err != nil {
		return nil, err
	}
	maxRepeat := cfg.RepeatLimit()

	if startDate != "" && plan.StartDate != startDate {
		plan = InitializePlan(startDate)
	}

	byMeal := bucketRecipes(recipes)

	usage := map[string]int{}
	for _, day := range plan.Days {
		for _, slot := range model.MealTypeKeys {
			entry := day.Meals[slot]
			if entry != nil && entry.Locked && entry.RecipeID != "" {
				usage[entry.RecipeID]++
			}
		}
	}

	for i := range plan.Days {
		day := &plan.Days[i]
		usedIDs := map[string]bool{}
		for _, slot := range model.MealTypeKeys {
			entry := day.Meals[slot]
			if entry != nil && entry.Locked {
				if entry.RecipeID != "" {
					usedIDs[entry.RecipeID] = true
				}
				continue
			}
			var available []*model.Recipe
			for _, recipe := range byMeal[slot] {
				if usage[recipe.RecipeID] < maxRepeat && !usedIDs[recipe.RecipeID] {
					available = append(available, recipe)
				}
			}
			if len(available) == 0 {
				day.Meals[slot] = nil
				continue
			}
			choice := available[s.rng.Intn(len(available))]
			usage[choice.RecipeID]++
			usedIDs[choice.RecipeID] = true
			day.Meals[slot] = &model.Meal{RecipeID: choice.RecipeID}
		}
	}

	for i := range plan.Days {
		if err := s.store.SaveDailyPlan(ctx, &plan.Days[i]); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// AssignMeal puts a recipe into one slot. Assigning a recipe already used
// elsewhere on the same day is a silent no-op.
func (s *Service) AssignMeal(ctx context.Context, plan *model.WeeklyPlan, date, meal string, recipe *model.Recipe) (*model.WeeklyPlan, error) {
	for i := range plan.Days {
		day := &plan.Days[i]
		if day.Date != date {
			continue
		}
		for _, entry := range day.Meals {
			if entry != nil && entry.RecipeID == recipe.RecipeID {
				return plan, nil
			}
		}
		day.Meals[meal] = &model.Meal{RecipeID: recipe.RecipeID}
		if err := s.store.SaveDailyPlan(ctx, day); err != nil {
			return nil, err
		}
		break
	}
	return plan, nil
}

// ToggleLock flips the locked flag on one slot.
func (s *Service) ToggleLock(ctx context.Context, plan *model.WeeklyPlan, date, meal string) (*model.WeeklyPlan, error) {
	return s.mutateDay(ctx, plan, date, func(day *model.DailyPlan) {
		if entry := day.Meals[meal]; entry != nil {
			entry.Locked = !entry.Locked
		}
	})
}

// ToggleComplete flips the completed flag on one slot.
func (s *Service) ToggleComplete(ctx context.Context, plan *model.WeeklyPlan, date, meal string) (*model.WeeklyPlan, error) {
	return s.mutateDay(ctx, plan, date, func(day *model.DailyPlan) {
		if entry := day.Meals[meal]; entry != nil {
			entry.Completed = !entry.Completed
		}
	})
}

// ClearMeal empties one slot.
func (s *Service) ClearMeal(ctx context.Context, plan *model.WeeklyPlan, date, meal string) (*model.WeeklyPlan, error) {
	return s.mutateDay(ctx, plan, date, func(day *model.DailyPlan) {
		day.Meals[meal] = nil
	})
}

// LockAll sets the locked flag on every assigned slot of the week.
func (s *Service) LockAll(ctx context.Context, plan *model.WeeklyPlan, locked bool) (*model.WeeklyPlan, error) {
	for i := range plan.Days {
		for _, slot := range model.MealTypeKeys {
			if entry := plan.Days[i].Meals[slot]; entry != nil {
				entry.Locked = locked
			}
		}
	}
	for i := range plan.Days {
		if err := s.store.SaveDailyPlan(ctx, &plan.Days[i]); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func (s *Service) mutateDay(ctx context.Context, plan *model.WeeklyPlan, date string, fn func(day *model.DailyPlan)) (*model.WeeklyPlan, error) {
	for i := range plan.Days {
		day := &plan.Days[i]
		if day.Date != date {
			continue
		}
		fn(day)
		if err := s.store.SaveDailyPlan(ctx, day); err != nil {
			return nil, err
		}
	}
	return plan, nil
}
