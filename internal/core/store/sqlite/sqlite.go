// Package sqlite persists the planner's entities in a single SQLite file.
// Entities are stored as JSON payloads keyed by their natural ids, so the
// document shapes stay identical to the file backend.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"meal-planner/internal/core/model"
	"meal-planner/internal/core/store"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS recipes (
	recipe_id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL DEFAULT '',
	payload TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_recipes_source_url ON recipes(source_url);
CREATE TABLE IF NOT EXISTS recipe_sources (
	recipe_id TEXT PRIMARY KEY,
	payload TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS daily_plans (
	date TEXT PRIMARY KEY,
	payload TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS buy_lists (
	id TEXT PRIMARY KEY,
	saved_at TEXT NOT NULL DEFAULT '',
	payload TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS singletons (
	key TEXT PRIMARY KEY,
	payload TEXT NOT NULL
)`

// Singleton keys.
const (
	keyAppConfig       = "app_config"
	keyShoppingState   = "shopping_state"
	keyRecommendations = "recommendations"
)

// Store wraps a SQLite connection.
type Store struct {
	db *sql.DB
}

// Open opens the database file and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// initSchema runs the embedded schema statements.
func initSchema(db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

func scanPayload(row *sql.Row, v interface{}) error {
	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotExist
		}
		return err
	}
	return json.Unmarshal([]byte(payload), v)
}

func (s *Store) Recipes(ctx context.Context) ([]*model.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM recipes ORDER BY recipe_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var recipes []*model.Recipe
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var recipe model.Recipe
		if err := json.Unmarshal([]byte(payload), &recipe); err != nil {
			return nil, err
		}
		recipes = append(recipes, &recipe)
	}
	return recipes, rows.Err()
}

func (s *Store) RecipeByID(ctx context.Context, id string) (*model.Recipe, error) {
	var recipe model.Recipe
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM recipes WHERE recipe_id = ?`, id)
	if err := scanPayload(row, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *Store) RecipeBySourceURL(ctx context.Context, sourceURL string) (*model.Recipe, error) {
	if sourceURL == "" {
		return nil, store.ErrNotExist
	}
	var recipe model.Recipe
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM recipes WHERE source_url = ? ORDER BY recipe_id LIMIT 1`, sourceURL)
	if err := scanPayload(row, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *Store) upsertRecipe(ctx context.Context, recipe *model.Recipe) error {
	payload, err := json.Marshal(recipe)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO recipes (recipe_id, name, source_url, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(recipe_id) DO UPDATE SET
			name = excluded.name,
			source_url = excluded.source_url,
			payload = excluded.payload,
			updated_at = datetime('now')`,
		recipe.RecipeID, recipe.Name, recipe.SourceURL, string(payload))
	return err
}

func (s *Store) AddRecipe(ctx context.Context, recipe *model.Recipe) error {
	return s.upsertRecipe(ctx, recipe)
}

func (s *Store) UpdateRecipe(ctx context.Context, recipe *model.Recipe) error {
	return s.upsertRecipe(ctx, recipe)
}

func (s *Store) RecipeSource(ctx context.Context, recipeID string) (*model.RecipeSource, error) {
	var source model.RecipeSource
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM recipe_sources WHERE recipe_id = ?`, recipeID)
	if err := scanPayload(row, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

func (s *Store) SaveRecipeSource(ctx context.Context, source *model.RecipeSource) error {
	payload, err := json.Marshal(source)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO recipe_sources (recipe_id, payload) VALUES (?, ?)
		ON CONFLICT(recipe_id) DO UPDATE SET payload = excluded.payload`,
		source.RecipeID, string(payload))
	return err
}

func (s *Store) DailyPlan(ctx context.Context, date string) (*model.DailyPlan, error) {
	var plan model.DailyPlan
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM daily_plans WHERE date = ?`, date)
	if err := scanPayload(row, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *Store) SaveDailyPlan(ctx context.Context, plan *model.DailyPlan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO daily_plans (date, payload) VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET payload = excluded.payload`,
		plan.Date, string(payload))
	return err
}

func (s *Store) ListDailyPlans(ctx context.Context) ([]*model.DailyPlan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM daily_plans ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var plans []*model.DailyPlan
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var plan model.DailyPlan
		if err := json.Unmarshal([]byte(payload), &plan); err != nil {
			return nil, err
		}
		plans = append(plans, &plan)
	}
	return plans, rows.Err()
}

func (s *Store) BuyLists(ctx context.Context) ([]*model.BuyList, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM buy_lists ORDER BY saved_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lists []*model.BuyList
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var list model.BuyList
		if err := json.Unmarshal([]byte(payload), &list); err != nil {
			return nil, err
		}
		lists = append(lists, &list)
	}
	return lists, rows.Err()
}

func (s *Store) BuyList(ctx context.Context, id string) (*model.BuyList, error) {
	var list model.BuyList
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM buy_lists WHERE id = ?`, id)
	if err := scanPayload(row, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *Store) SaveBuyList(ctx context.Context, list *model.BuyList) error {
	payload, err := json.Marshal(list)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO buy_lists (id, saved_at, payload) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at, payload = excluded.payload`,
		list.ID, list.SavedAt, string(payload))
	return err
}

func (s *Store) DeleteBuyList(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM buy_lists WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotExist
	}
	return nil
}

func (s *Store) singleton(ctx context.Context, key string, v interface{}) error {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM singletons WHERE key = ?`, key)
	return scanPayload(row, v)
}

func (s *Store) saveSingleton(ctx context.Context, key string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO singletons (key, payload) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`,
		key, string(payload))
	return err
}

func (s *Store) AppConfig(ctx context.Context) (model.AppConfig, error) {
	cfg := model.DefaultAppConfig()
	err := s.singleton(ctx, keyAppConfig, &cfg)
	if errors.Is(err, store.ErrNotExist) {
		return model.DefaultAppConfig(), nil
	}
	if err != nil {
		return model.AppConfig{}, err
	}
	return cfg, nil
}

func (s *Store) SaveAppConfig(ctx context.Context, cfg model.AppConfig) error {
	return s.saveSingleton(ctx, keyAppConfig, cfg)
}

func (s *Store) ShoppingState(ctx context.Context) (model.ShoppingState, error) {
	state := model.ShoppingState{}
	err := s.singleton(ctx, keyShoppingState, &state)
	if errors.Is(err, store.ErrNotExist) {
		return model.ShoppingState{}, nil
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (s *Store) SaveShoppingState(ctx context.Context, state model.ShoppingState) error {
	return s.saveSingleton(ctx, keyShoppingState, state)
}

func (s *Store) Recommendations(ctx context.Context) (*model.RecommendationStore, error) {
	runs := &model.RecommendationStore{}
	err := s.singleton(ctx, keyRecommendations, runs)
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
	return s.saveSingleton(ctx, keyRecommendations, runs)
}
