package plan

import (
	"context"
	"math/rand"
	"testing"

	"meal-planner/internal/core/model"
	"meal-planner/internal/core/store/file"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := file.New(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewServiceWithRand(st, rand.New(rand.NewSource(1)))
}

func addRecipe(t *testing.T, s *Service, recipe *model.Recipe) {
	t.Helper()
	recipe.Normalize()
	if err := s.store.AddRecipe(context.Background(), recipe); err != nil {
		t.Fatalf("add recipe: %v", err)
	}
}

func TestInitializePlan(t *testing.T) {
	plan := InitializePlan("2026-08-31")
	if len(plan.Days) != 7 {
		t.Fatalf("days = %d, want 7", len(plan.Days))
	}
	if plan.Days[0].Date != "2026-08-31" || plan.Days[6].Date != "2026-09-06" {
		t.Errorf("date range = %s..%s", plan.Days[0].Date, plan.Days[6].Date)
	}
	for _, day := range plan.Days {
		for _, slot := range model.MealTypeKeys {
			if day.Meals[slot] != nil {
				t.Errorf("%s/%s should start empty", day.Date, slot)
			}
		}
	}
}

func TestWeeklyPlanForDateSynthesis(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	stored := model.EmptyDailyPlan("2026-09-02")
	stored.Meals["dinner"] = &model.Meal{RecipeID: "stew"}
	if err := s.store.SaveDailyPlan(ctx, &stored); err != nil {
		t.Fatal(err)
	}

	plan, err := s.WeeklyPlanForDate(ctx, "2026-08-31")
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Days) != 7 {
		t.Fatalf("days = %d", len(plan.Days))
	}
	if meal := plan.Days[2].Meals["dinner"]; meal == nil || meal.RecipeID != "stew" {
		t.Errorf("stored day not merged: %+v", plan.Days[2].Meals["dinner"])
	}
	if plan.Days[0].Meals["breakfast"] != nil {
		t.Error("unstored days should synthesize empty")
	}
}

func TestPlanDates(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	for _, date := range []string{"2026-09-02", "2026-08-31"} {
		day := model.EmptyDailyPlan(date)
		if err := s.store.SaveDailyPlan(ctx, &day); err != nil {
			t.Fatal(err)
		}
	}
	dates, err := s.PlanDates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 2 || dates[0] != "2026-08-31" || dates[1] != "2026-09-02" {
		t.Errorf("dates = %v", dates)
	}
}

func TestAutoGenerateHonorsRepeatLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	// Only one breakfast-eligible recipe: with the default limit of 2 it can
	// appear on at most two days.
	addRecipe(t, s, &model.Recipe{Name: "Pancakes", MealTypes: []string{"breakfast"}})

	plan, err := s.AutoGenerate(ctx, InitializePlan("2026-08-31"), "")
	if err != nil {
		t.Fatal(err)
	}

	filled := 0
	for _, day := range plan.Days {
		if meal := day.Meals["breakfast"]; meal != nil {
			if meal.RecipeID != "pancakes" {
				t.Errorf("unexpected recipe %q", meal.RecipeID)
			}
			filled++
		}
		if day.Meals["lunch"] != nil || day.Meals["dinner"] != nil {
			t.Error("slots without eligible recipes should stay empty")
		}
	}
	if filled != 2 {
		t.Errorf("breakfast slots filled = %d, want 2", filled)
	}
}

func TestAutoGenerateKeepsLockedMeals(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	addRecipe(t, s, &model.Recipe{Name: "Pancakes", MealTypes: []string{"breakfast"}})
	addRecipe(t, s, &model.Recipe{Name: "Stew", MealTypes: []string{"dinner"}})

	plan := InitializePlan("2026-08-31")
	plan.Days[0].Meals["dinner"] = &model.Meal{RecipeID: "custom-dish", Locked: true}

	result, err := s.AutoGenerate(ctx, plan, "")
	if err != nil {
		t.Fatal(err)
	}
	if meal := result.Days[0].Meals["dinner"]; meal == nil || meal.RecipeID != "custom-dish" || !meal.Locked {
		t.Errorf("locked meal was not preserved: %+v", meal)
	}
}

func TestAutoGenerateFlexibleRecipesFillAllSlots(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	cfg := model.DefaultAppConfig()
	cfg.MaxRepeatPerWeek = 21
	if err := s.store.SaveAppConfig(ctx, cfg); err != nil {
		t.Fatal(err)
	}
	addRecipe(t, s, &model.Recipe{Name: "Fried Rice", MealTypes: []string{"flexible"}})

	plan, err := s.AutoGenerate(ctx, InitializePlan("2026-08-31"), "")
	if err != nil {
		t.Fatal(err)
	}

	// One flexible recipe, no same-day duplicates: exactly one slot per day.
	for _, day := range plan.Days {
		assigned := 0
		for _, slot := range model.MealTypeKeys {
			if day.Meals[slot] != nil {
				assigned++
			}
		}
		if assigned != 1 {
			t.Errorf("%s assigned = %d, want 1 (no same-day repeats)", day.Date, assigned)
		}
	}
}

func TestAutoGenerateRestartsOnNewStartDate(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	addRecipe(t, s, &model.Recipe{Name: "Pancakes", MealTypes: []string{"breakfast"}})

	plan, err := s.AutoGenerate(ctx, InitializePlan("2026-08-31"), "2026-09-07")
	if err != nil {
		t.Fatal(err)
	}
	if plan.StartDate != "2026-09-07" {
		t.Errorf("start_date = %q, want the requested week", plan.StartDate)
	}
}

func TestAssignMeal(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	recipe := &model.Recipe{Name: "Stew"}
	recipe.Normalize()

	plan := InitializePlan("2026-08-31")
	plan, err := s.AssignMeal(ctx, plan, "2026-09-01", "dinner", recipe)
	if err != nil {
		t.Fatal(err)
	}
	if meal := plan.Days[1].Meals["dinner"]; meal == nil || meal.RecipeID != "stew" {
		t.Fatalf("assign failed: %+v", plan.Days[1].Meals["dinner"])
	}

	// Same recipe elsewhere on the same day is a silent no-op.
	plan, err = s.AssignMeal(ctx, plan, "2026-09-01", "lunch", recipe)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Days[1].Meals["lunch"] != nil {
		t.Error("duplicate same-day assignment should be a no-op")
	}

	// The mutation persisted.
	stored, err := s.store.DailyPlan(ctx, "2026-09-01")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Meals["dinner"] == nil || stored.Meals["dinner"].RecipeID != "stew" {
		t.Error("assignment was not persisted")
	}
}

func TestSlotToggles(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	plan := InitializePlan("2026-08-31")
	plan.Days[0].Meals["dinner"] = &model.Meal{RecipeID: "stew"}

	plan, err := s.ToggleLock(ctx, plan, "2026-08-31", "dinner")
	if err != nil {
		t.Fatal(err)
	}
	if !plan.Days[0].Meals["dinner"].Locked {
		t.Error("lock toggle failed")
	}

	plan, err = s.ToggleComplete(ctx, plan, "2026-08-31", "dinner")
	if err != nil {
		t.Fatal(err)
	}
	if !plan.Days[0].Meals["dinner"].Completed {
		t.Error("complete toggle failed")
	}

	plan, err = s.ClearMeal(ctx, plan, "2026-08-31", "dinner")
	if err != nil {
		t.Fatal(err)
	}
	if plan.Days[0].Meals["dinner"] != nil {
		t.Error("clear failed")
	}
}

func TestLockAll(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	plan := InitializePlan("2026-08-31")
	plan.Days[0].Meals["dinner"] = &model.Meal{RecipeID: "a"}
	plan.Days[3].Meals["lunch"] = &model.Meal{RecipeID: "b"}

	plan, err := s.LockAll(ctx, plan, true)
	if err != nil {
		t.Fatal(err)
	}
	if !plan.Days[0].Meals["dinner"].Locked || !plan.Days[3].Meals["lunch"].Locked {
		t.Error("LockAll(true) missed a slot")
	}

	plan, err = s.LockAll(ctx, plan, false)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Days[0].Meals["dinner"].Locked {
		t.Error("LockAll(false) failed")
	}
}
