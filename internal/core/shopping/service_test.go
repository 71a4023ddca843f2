package shopping

import (
	"context"
	"strings"
	"testing"
	"time"

	"meal-planner/internal/core/model"
	"meal-planner/internal/core/store/file"
	"meal-planner/internal/pkg/common"
)

type stubPlans struct {
	plan *model.WeeklyPlan
}

func (s *stubPlans) WeeklyPlanForDate(ctx context.Context, startDate string) (*model.WeeklyPlan, error) {
	if s.plan != nil {
		return s.plan, nil
	}
	plan := &model.WeeklyPlan{StartDate: startDate}
	for i := 0; i < 7; i++ {
		plan.Days = append(plan.Days, model.EmptyDailyPlan(common.AddDays(startDate, i)))
	}
	return plan, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := file.New(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService(st, &stubPlans{})
}

func TestApplyActions(t *testing.T) {
	ctx := context.Background()

	t.Run("add and remove", func(t *testing.T) {
		svc := newTestService(t)
		err := svc.Apply(ctx, ActionRequest{
			Action:   ActionAdd,
			Key:      "en|rice|g",
			Name:     "rice",
			Unit:     "g",
			Quantity: model.NumberQuantity(400),
		})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		state, err := svc.store.ShoppingState(ctx)
		if err != nil {
			t.Fatal(err)
		}
		entry, ok := state["en|rice|g"]
		if !ok || entry.Lang != "en" || entry.Manual {
			t.Fatalf("state entry = %+v", entry)
		}

		if err := svc.Apply(ctx, ActionRequest{Action: ActionRemove, Key: "en|rice|g"}); err != nil {
			t.Fatalf("remove: %v", err)
		}
		state, _ = svc.store.ShoppingState(ctx)
		if _, ok := state["en|rice|g"]; ok {
			t.Error("entry should be removed")
		}
	})

	t.Run("add requires key and name", func(t *testing.T) {
		svc := newTestService(t)
		err := svc.Apply(ctx, ActionRequest{Action: ActionAdd, Key: "k"})
		if !common.IsValidationError(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("update changes only the quantity", func(t *testing.T) {
		svc := newTestService(t)
		if err := svc.Apply(ctx, ActionRequest{
			Action: ActionAdd, Key: "en|rice|g", Name: "rice", Unit: "g",
			Quantity: model.NumberQuantity(400),
		}); err != nil {
			t.Fatal(err)
		}
		if err := svc.Apply(ctx, ActionRequest{
			Action: ActionUpdate, Key: "en|rice|g",
			Quantity: model.NumberQuantity(650),
		}); err != nil {
			t.Fatal(err)
		}
		state, _ := svc.store.ShoppingState(ctx)
		if state["en|rice|g"].Quantity.Num != 650 {
			t.Errorf("quantity = %+v, want 650", state["en|rice|g"].Quantity)
		}
		if state["en|rice|g"].Name != "rice" {
			t.Error("update must not clear the name")
		}
	})

	t.Run("add-manual generates a key", func(t *testing.T) {
		svc := newTestService(t)
		if err := svc.Apply(ctx, ActionRequest{
			Action: ActionAddManual, Name: "snacks", Lang: "en",
		}); err != nil {
			t.Fatal(err)
		}
		state, _ := svc.store.ShoppingState(ctx)
		if len(state) != 1 {
			t.Fatalf("state size = %d", len(state))
		}
		for key, entry := range state {
			if !strings.HasPrefix(key, "manual:") {
				t.Errorf("manual key = %q", key)
			}
			if !entry.Manual {
				t.Error("entry should be flagged manual")
			}
		}
	})

	t.Run("unknown action rejected", func(t *testing.T) {
		svc := newTestService(t)
		if err := svc.Apply(ctx, ActionRequest{Action: "explode"}); !common.IsValidationError(err) {
			t.Error("expected validation error for unknown action")
		}
	})
}

func TestBuyListLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }

	list := &model.BuyList{
		ID:        "week-2026-08-31",
		WeekStart: "2026-08-31",
		WeekEnd:   "2026-09-06",
		Status:    model.BuyListOpen,
		Lang:      "en",
	}
	if err := svc.SaveBuyList(ctx, list); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := svc.SaveBuyList(ctx, &model.BuyList{ID: "x"}); !common.IsValidationError(err) {
		t.Error("expected validation error for missing week bounds")
	}

	got, err := svc.BuyList(ctx, "week-2026-08-31")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.WeekEnd != "2026-09-06" {
		t.Errorf("week_end = %q", got.WeekEnd)
	}

	if _, err := svc.BuyList(ctx, "missing"); !common.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	synced, err := svc.SyncBuyList(ctx, "week-2026-08-31")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if synced.SavedAt != "2026-08-31T12:00:00Z" {
		t.Errorf("saved_at = %q", synced.SavedAt)
	}

	// Locked lists refuse to resync.
	got.Status = model.BuyListLocked
	if err := svc.UpdateBuyList(ctx, got.ID, got); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SyncBuyList(ctx, got.ID); !common.IsValidationError(err) {
		t.Errorf("expected locked-list validation error, got %v", err)
	}

	if err := svc.DeleteBuyList(ctx, got.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteBuyList(ctx, got.ID); !common.IsNotFound(err) {
		t.Errorf("expected not found on double delete, got %v", err)
	}
}
