// Package recipe manages the recipe library: CRUD, feedback, local search,
// and web import search.
package recipe

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"meal-planner/internal/core/model"
	"meal-planner/internal/core/plan"
	"meal-planner/internal/core/search"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/core/store"
	"meal-planner/internal/pkg/common"
)

// Service owns recipe reads and mutations. Updates ripple into the plan and
// shopping layers to keep derived data consistent.
type Service struct {
	store    store.Store
	plans    *plan.Service
	shopping *shopping.Service
	now      func() time.Time
}

// NewService creates a recipe service.
func NewService(st store.Store, plans *plan.Service, shoppingSvc *shopping.Service) *Service {
	return &Service{store: st, plans: plans, shopping: shoppingSvc, now: time.Now}
}

// Detail is a recipe enriched with its import-source metadata.
type Detail struct {
	*model.Recipe
	SourceTitle string `json:"source_title,omitempty"`
}

// enrich backfills source_url and thumbnail_url from the recipe source
// record and the YouTube thumbnail convention.
func (s *Service) enrich(ctx context.Context, recipe *model.Recipe) *Detail {
	detail := &Detail{Recipe: recipe}
	source, err := s.store.RecipeSource(ctx, recipe.RecipeID)
	if err == nil {
		if recipe.SourceURL == "" {
			recipe.SourceURL = source.SourceURL
		}
		if recipe.ThumbnailURL == "" {
			recipe.ThumbnailURL = source.ThumbnailURL
		}
		detail.SourceTitle = source.Title
	}
	if recipe.ThumbnailURL == "" && recipe.SourceURL != "" {
		recipe.ThumbnailURL = common.YouTubeThumbnail(recipe.SourceURL)
	}
	return detail
}

// List returns the library sorted by name, with thumbnails backfilled from
// import sources.
func (s *Service) List(ctx context.Context) ([]*Detail, error) {
	recipes, err := s.store.Recipes(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recipes, func(i, j int) bool {
		return recipes[i].Name < recipes[j].Name
	})
	details := make([]*Detail, 0, len(recipes))
	for _, recipe := range recipes {
		recipe.Normalize()
		details = append(details, s.enrich(ctx, recipe))
	}
	return details, nil
}

// Get returns one recipe with its source metadata.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	recipe, err := s.store.RecipeByID(ctx, id)
	if errors.Is(err, store.ErrNotExist) {
		return nil, common.NewNotFound("Recipe not found.")
	}
	if err != nil {
		return nil, err
	}
	recipe.Normalize()
	return s.enrich(ctx, recipe), nil
}

// Create validates and stores a new recipe. The id must not collide with an
// existing one.
func (s *Service) Create(ctx context.Context, recipe *model.Recipe) error {
	if recipe.RecipeID == "" || recipe.Name == "" {
		return common.NewValidationError("Missing recipe_id or name.")
	}
	if _, err := s.store.RecipeByID(ctx, recipe.RecipeID); err == nil {
		return common.NewError(common.ErrCodeConflict, "Recipe ID already exists.", http.StatusConflict, nil)
	} else if !errors.Is(err, store.ErrNotExist) {
		return err
	}
	recipe.Normalize()
	return s.store.AddRecipe(ctx, recipe)
}

// Update replaces a recipe and reconciles derived data: plan entries
// referencing it are renormalized to bare references, and the current
// week's shopping state is re-synced for both languages.
func (s *Service) Update(ctx context.Context, id string, recipe *model.Recipe) error {
	if _, err := s.store.RecipeByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotExist) {
			return common.NewNotFound("Recipe not found.")
		}
		return err
	}
	recipe.RecipeID = id
	recipe.Normalize()
	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		return err
	}

	if err := s.normalizePlanEntries(ctx, id); err != nil {
		return err
	}
	return s.resyncShopping(ctx)
}

// normalizePlanEntries strips stale denormalized snapshots from plan meals
// referencing the updated recipe.
func (s *Service) normalizePlanEntries(ctx context.Context, recipeID string) error {
	days, err := s.store.ListDailyPlans(ctx)
	if err != nil {
		return err
	}
	for _, day := range days {
		updated := false
		for slot, meal := range day.Meals {
			if meal != nil && meal.RecipeID == recipeID {
				day.Meals[slot] = &model.Meal{
					RecipeID:  recipeID,
					Locked:    meal.Locked,
					Completed: meal.Completed,
				}
				updated = true
			}
		}
		if updated {
			if err := s.store.SaveDailyPlan(ctx, day); err != nil {
				return err
			}
		}
	}
	return nil
}

// resyncShopping re-runs state reconciliation for the current week in both
// ingredient languages.
func (s *Service) resyncShopping(ctx context.Context) error {
	days, err := s.store.ListDailyPlans(ctx)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		return nil
	}
	today := common.FormatDate(s.now())
	for _, lang := range []string{"en", shopping.LanguageOriginal} {
		weeklyItems, err := s.shopping.WeeklyItems(ctx, today, lang)
		if err != nil {
			return err
		}
		state, err := s.store.ShoppingState(ctx)
		if err != nil {
			return err
		}
		if synced, changed := shopping.SyncState(state, weeklyItems, lang); changed {
			if err := s.store.SaveShoppingState(ctx, synced); err != nil {
				return err
			}
		}
	}
	return nil
}

// UpdateFeedback coerces and stores one family feedback map, returning the
// updated recipe.
func (s *Service) UpdateFeedback(ctx context.Context, id string, feedback map[string]interface{}) (*model.Recipe, error) {
	recipe, err := s.store.RecipeByID(ctx, id)
	if errors.Is(err, store.ErrNotExist) {
		return nil, common.NewNotFound("Recipe not found.")
	}
	if err != nil {
		return nil, err
	}
	recipe.FamilyFeedback = model.NormalizeFeedback(feedback)
	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// LocalResult is one hit from the in-library search.
type LocalResult struct {
	RecipeID     string `json:"recipe_id"`
	Name         string `json:"name"`
	NameOriginal string `json:"name_original,omitempty"`
	SourceURL    string `json:"source_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// LocalSearch scores the library against a free-text query. An empty query
// returns no results; the limit is clamped to 1..10.
func (s *Service) LocalSearch(ctx context.Context, query string, limit int) ([]LocalResult, error) {
	if query == "" {
		return []LocalResult{}, nil
	}
	if limit < 1 {
		limit = 8
	}
	if limit > 10 {
		limit = 10
	}

	recipes, err := s.store.Recipes(ctx)
	if err != nil {
		return nil, err
	}

	type scored struct {
		recipe *model.Recipe
		score  int
	}
	var matches []scored
	for _, recipe := range recipes {
		recipe.Normalize()
		if score := search.ScoreRecipeMatch(query, recipe); score > 0 {
			matches = append(matches, scored{recipe: recipe, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]LocalResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, LocalResult{
			RecipeID:     match.recipe.RecipeID,
			Name:         match.recipe.Name,
			NameOriginal: match.recipe.NameOriginal,
			SourceURL:    match.recipe.SourceURL,
			ThumbnailURL: match.recipe.ThumbnailURL,
		})
	}
	return results, nil
}
