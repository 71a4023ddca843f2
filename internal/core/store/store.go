// Package store defines the persistence port the planning services depend
// on, with file and sqlite implementations in subpackages.
package store

import (
	"context"

	"meal-planner/internal/core/model"
)

// Store is the persistence boundary. Implementations must be safe for
// concurrent use.
type Store interface {
	// Recipe library.
	Recipes(ctx context.Context) ([]*model.Recipe, error)
	RecipeByID(ctx context.Context, id string) (*model.Recipe, error)
	RecipeBySourceURL(ctx context.Context, sourceURL string) (*model.Recipe, error)
	AddRecipe(ctx context.Context, recipe *model.Recipe) error
	UpdateRecipe(ctx context.Context, recipe *model.Recipe) error
	RecipeSource(ctx context.Context, recipeID string) (*model.RecipeSource, error)
	SaveRecipeSource(ctx context.Context, source *model.RecipeSource) error

	// Daily plans, keyed by calendar date.
	DailyPlan(ctx context.Context, date string) (*model.DailyPlan, error)
	SaveDailyPlan(ctx context.Context, plan *model.DailyPlan) error
	ListDailyPlans(ctx context.Context) ([]*model.DailyPlan, error)

	// Buy lists.
	BuyLists(ctx context.Context) ([]*model.BuyList, error)
	BuyList(ctx context.Context, id string) (*model.BuyList, error)
	SaveBuyList(ctx context.Context, list *model.BuyList) error
	DeleteBuyList(ctx context.Context, id string) error

	// Singletons.
	AppConfig(ctx context.Context) (model.AppConfig, error)
	SaveAppConfig(ctx context.Context, cfg model.AppConfig) error
	ShoppingState(ctx context.Context) (model.ShoppingState, error)
	SaveShoppingState(ctx context.Context, state model.ShoppingState) error
	Recommendations(ctx context.Context) (*model.RecommendationStore, error)
	SaveRecommendations(ctx context.Context, runs *model.RecommendationStore) error

	// Close releases backend resources.
	Close() error
}

// ErrNotExist is returned by lookup methods when the entity is absent. It is
// a sentinel distinct from transport-level errors so services can map it to
// 404s.
var ErrNotExist = errNotExist{}

type errNotExist struct{}

func (errNotExist) Error() string { return "store: entity does not exist" }
