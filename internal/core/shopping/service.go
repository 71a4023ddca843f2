package shopping

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"meal-planner/internal/core/model"
	"meal-planner/internal/core/store"
	"meal-planner/internal/pkg/common"
)

// PlanProvider supplies the weekly plan the aggregate is computed from.
type PlanProvider interface {
	WeeklyPlanForDate(ctx context.Context, startDate string) (*model.WeeklyPlan, error)
}

// Service owns the shopping list: weekly aggregation, the saved-state
// overlay, and buy-list snapshots.
type Service struct {
	store store.Store
	plans PlanProvider
	now   func() time.Time
}

// NewService creates a shopping service.
func NewService(st store.Store, plans PlanProvider) *Service {
	return &Service{store: st, plans: plans, now: time.Now}
}

// WeeklyItems computes the aggregated list for the week containing
// startDate.
func (s *Service) WeeklyItems(ctx context.Context, startDate, language string) ([]Item, error) {
	plan, err := s.plans.WeeklyPlanForDate(ctx, startDate)
	if err != nil {
		return nil, err
	}
	recipes, err := s.store.Recipes(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Recipe, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.RecipeID] = recipe
	}
	cfg, err := s.store.AppConfig(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeWeeklyList(plan, byID, cfg, language), nil
}

// Overview computes the weekly aggregate, reconciles the saved state
// against it (persisting only when something was pruned), and returns the
// merged view.
func (s *Service) Overview(ctx context.Context, startDate, lang string) (*Overview, error) {
	weeklyItems, err := s.WeeklyItems(ctx, startDate, lang)
	if err != nil {
		return nil, err
	}
	state, err := s.store.ShoppingState(ctx)
	if err != nil {
		return nil, err
	}
	synced, changed := SyncState(state, weeklyItems, lang)
	if changed {
		if err := s.store.SaveShoppingState(ctx, synced); err != nil {
			return nil, err
		}
	}
	overview := BuildOverview(weeklyItems, synced, lang)
	return &overview, nil
}

// Shopping actions.
const (
	ActionAdd       = "add"
	ActionRemove    = "remove"
	ActionUpdate    = "update"
	ActionAddManual = "add-manual"
)

// ActionRequest is one mutation of the shopping state.
type ActionRequest struct {
	Action   string         `json:"action"`
	Lang     string         `json:"lang"`
	Key      string         `json:"key"`
	Name     string         `json:"name"`
	Unit     string         `json:"unit"`
	Quantity model.Quantity `json:"quantity"`
}

// Apply mutates the saved state per the requested action and persists it.
// Invalid requests come back as validation errors.
func (s *Service) Apply(ctx context.Context, req ActionRequest) error {
	lang := req.Lang
	if lang == "" {
		lang = "en"
	}
	state, err := s.store.ShoppingState(ctx)
	if err != nil {
		return err
	}

	switch req.Action {
	case ActionAdd:
		if req.Key == "" || req.Name == "" {
			return common.NewValidationError("Missing item fields.")
		}
		state[req.Key] = model.ShoppingStateItem{
			Name:     req.Name,
			Unit:     req.Unit,
			Quantity: req.Quantity,
			Manual:   false,
			Lang:     lang,
		}
	case ActionRemove:
		if req.Key != "" {
			delete(state, req.Key)
		}
	case ActionUpdate:
		if entry, ok := state[req.Key]; req.Key != "" && ok {
			if !req.Quantity.IsEmpty() {
				entry.Quantity = req.Quantity
			}
			state[req.Key] = entry
		}
	case ActionAddManual:
		if req.Name == "" {
			return common.NewValidationError("Missing item name.")
		}
		key := "manual:" + strings.ReplaceAll(uuid.NewString(), "-", "")
		state[key] = model.ShoppingStateItem{
			Name:     req.Name,
			Unit:     req.Unit,
			Quantity: req.Quantity,
			Manual:   true,
			Lang:     lang,
		}
	default:
		return common.NewValidationError("Unknown action.")
	}

	return s.store.SaveShoppingState(ctx, state)
}
