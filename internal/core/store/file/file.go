// Package file persists the planner's entities as JSON documents under a
// data directory, one file per entity.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"meal-planner/internal/core/model"
	"meal-planner/internal/core/store"
)

const (
	recipesDir       = "recipes"
	dailyPlansDir    = "daily_plans"
	buyListsDir      = "buy_lists"
	recipeSourcesDir = "recipe_sources"

	configFile         = "config.json"
	shoppingStateFile  = "shopping_list.json"
	recommendationFile = "daily_recommendations.json"
)

// Store keeps every entity as a JSON file under root. A single RWMutex
// serializes writers; reads share the lock.
type Store struct {
	mu   sync.RWMutex
	root string
}

// New opens (creating if needed) a file store rooted at dir.
func New(dir string) (*Store, error) {
	for _, sub := range []string{recipesDir, dailyPlansDir, buyListsDir, recipeSourcesDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return &Store{root: dir}, nil
}

func (s *Store) Close() error { return nil }

// writeJSON writes atomically via a temp file in the same directory.
func (s *Store) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func (s *Store) readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return store.ErrNotExist
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// sanitizeName keeps ids usable as file names.
func sanitizeName(id string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", ":", "_")
	return replacer.Replace(id)
}

func (s *Store) entityPath(dir, id string) string {
	return filepath.Join(s.root, dir, sanitizeName(id)+".json")
}

func (s *Store) listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, dir))
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(s.root, dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Store) Recipes(ctx context.Context) ([]*model.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths, err := s.listDir(recipesDir)
	if err != nil {
		return nil, err
	}
	recipes := make([]*model.Recipe, 0, len(paths))
	for _, path := range paths {
		var recipe model.Recipe
		if err := s.readJSON(path, &recipe); err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		recipes = append(recipes, &recipe)
	}
	return recipes, nil
}

func (s *Store) RecipeByID(ctx context.Context, id string) (*model.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var recipe model.Recipe
	if err := s.readJSON(s.entityPath(recipesDir, id), &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *Store) RecipeBySourceURL(ctx context.Context, sourceURL string) (*model.Recipe, error) {
	if sourceURL == "" {
		return nil, store.ErrNotExist
	}
	recipes, err := s.Recipes(ctx)
	if err != nil {
		return nil, err
	}
	for _, recipe := range recipes {
		if recipe.SourceURL == sourceURL {
			return recipe, nil
		}
	}
	return nil, store.ErrNotExist
}

func (s *Store) AddRecipe(ctx context.Context, recipe *model.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(s.entityPath(recipesDir, recipe.RecipeID), recipe)
}

func (s *Store) UpdateRecipe(ctx context.Context, recipe *model.Recipe) error {
	return s.AddRecipe(ctx, recipe)
}

func (s *Store) RecipeSource(ctx context.Context, recipeID string) (*model.RecipeSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var source model.RecipeSource
	if err := s.readJSON(s.entityPath(recipeSourcesDir, recipeID), &source); err != nil {
		return nil, err
	}
	return &source, nil
}

func (s *Store) SaveRecipeSource(ctx context.Context, source *model.RecipeSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(s.entityPath(recipeSourcesDir, source.RecipeID), source)
}

func (s *Store) DailyPlan(ctx context.Context, date string) (*model.DailyPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var plan model.DailyPlan
	if err := s.readJSON(s.entityPath(dailyPlansDir, date), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *Store) SaveDailyPlan(ctx context.Context, plan *model.DailyPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(s.entityPath(dailyPlansDir, plan.Date), plan)
}

func (s *Store) ListDailyPlans(ctx context.Context) ([]*model.DailyPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths, err := s.listDir(dailyPlansDir)
	if err != nil {
		return nil, err
	}
	plans := make([]*model.DailyPlan, 0, len(paths))
	for _, path := range paths {
		var plan model.DailyPlan
		if err := s.readJSON(path, &plan); err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		plans = append(plans, &plan)
	}
	return plans, nil
}

func (s *Store) BuyLists(ctx context.Context) ([]*model.BuyList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths, err := s.listDir(buyListsDir)
	if err != nil {
		return nil, err
	}
	lists := make([]*model.BuyList, 0, len(paths))
	for _, path := range paths {
		var list model.BuyList
		if err := s.readJSON(path, &list); err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		lists = append(lists, &list)
	}
	return lists, nil
}

func (s *Store) BuyList(ctx context.Context, id string) (*model.BuyList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list model.BuyList
	if err := s.readJSON(s.entityPath(buyListsDir, id), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *Store) SaveBuyList(ctx context.Context, list *model.BuyList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(s.entityPath(buyListsDir, list.ID), list)
}

func (s *Store) DeleteBuyList(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.entityPath(buyListsDir, id))
	if errors.Is(err, fs.ErrNotExist) {
		return store.ErrNotExist
	}
	return err
}

func (s *Store) AppConfig(ctx context.Context) (model.AppConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := model.DefaultAppConfig()
	err := s.readJSON(filepath.Join(s.root, configFile), &cfg)
	if errors.Is(err, store.ErrNotExist) {
		return model.DefaultAppConfig(), nil
	}
	if err != nil {
		return model.AppConfig{}, err
	}
	return cfg, nil
}

func (s *Store) SaveAppConfig(ctx context.Context, cfg model.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(filepath.Join(s.root, configFile), cfg)
}

func (s *Store) ShoppingState(ctx context.Context) (model.ShoppingState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := model.ShoppingState{}
	err := s.readJSON(filepath.Join(s.root, shoppingStateFile), &state)
	if errors.Is(err, store.ErrNotExist) {
		return model.ShoppingState{}, nil
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (s *Store) SaveShoppingState(ctx context.Context, state model.ShoppingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(filepath.Join(s.root, shoppingStateFile), state)
}

func (s *Store) Recommendations(ctx context.Context) (*model.RecommendationStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := &model.RecommendationStore{}
	err := s.readJSON(filepath.Join(s.root, recommendationFile), runs)
	if errors.Is(err, store.ErrNotExist) {
		return &model.RecommendationStore{Runs: []*model.RecommendationRun{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if runs.Runs == nil {
		runs.Runs = []*model.RecommendationRun{}
	}
	return runs, nil
}

func (s *Store) SaveRecommendations(ctx context.Context, runs *model.RecommendationStore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(filepath.Join(s.root, recommendationFile), runs)
}
