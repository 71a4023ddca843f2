package model

import "meal-planner/internal/pkg/common"

// LanguageOriginal selects the source-language variant of bilingual fields;
// any other language value selects the English one.
const LanguageOriginal = "original"

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name     string   `json:"name"`
	Quantity Quantity `json:"quantity"`
	Unit     string   `json:"unit"`
}

// Recipe is the library entry for one dish. The *_original fields carry the
// source-language variant alongside the English one.
type Recipe struct {
	RecipeID             string         `json:"recipe_id"`
	Name                 string         `json:"name"`
	NameOriginal         string         `json:"name_original,omitempty"`
	MealTypes            []string       `json:"meal_types"`
	MealType             string         `json:"meal_type,omitempty"` // legacy single-type field
	Servings             Quantity       `json:"servings,omitempty"`
	SourceURL            string         `json:"source_url,omitempty"`
	ThumbnailURL         string         `json:"thumbnail_url,omitempty"`
	Notes                string         `json:"notes,omitempty"`
	FamilyFeedback       map[string]int `json:"family_feedback,omitempty"`
	Ingredients          []Ingredient   `json:"ingredients"`
	IngredientsOriginal  []Ingredient   `json:"ingredients_original"`
	Instructions         []string       `json:"instructions"`
	InstructionsOriginal []string       `json:"instructions_original"`
}

// Normalize backfills the recipe id and folds the legacy meal_type field into
// meal_types.
func (r *Recipe) Normalize() {
	if r.RecipeID == "" {
		r.RecipeID = common.Slugify(r.Name)
	}
	if len(r.MealTypes) == 0 && r.MealType != "" {
		r.MealTypes = []string{r.MealType}
	}
	if r.MealTypes == nil {
		r.MealTypes = []string{}
	}
	if r.ThumbnailURL == "" && r.SourceURL != "" {
		r.ThumbnailURL = common.YouTubeThumbnail(r.SourceURL)
	}
}

// FeedbackScore sums the family's ternary votes.
func (r *Recipe) FeedbackScore() int {
	total := 0
	for _, v := range r.FamilyFeedback {
		total += v
	}
	return total
}

// Meal is one slot in a day's plan; nil means the slot is empty. Legacy
// entries may carry a denormalized name/ingredients snapshot alongside the
// recipe reference.
type Meal struct {
	RecipeID    string       `json:"recipe_id,omitempty"`
	Name        string       `json:"name,omitempty"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
	SourceURL   string       `json:"source_url,omitempty"`
	MealTypes   []string     `json:"meal_types,omitempty"`
	Completed   bool         `json:"completed"`
	Locked      bool         `json:"locked"`
}

// MealTypeKeys are the plan slots, in display order.
var MealTypeKeys = []string{"breakfast", "lunch", "dinner"}

// DailyPlan is the persisted unit of planning: one calendar date with its
// meal slots.
type DailyPlan struct {
	Date  string           `json:"date"`
	Meals map[string]*Meal `json:"meals"`
}

// EmptyDailyPlan returns a day with all slots empty.
func EmptyDailyPlan(date string) DailyPlan {
	meals := make(map[string]*Meal, len(MealTypeKeys))
	for _, key := range MealTypeKeys {
		meals[key] = nil
	}
	return DailyPlan{Date: date, Meals: meals}
}

// WeeklyPlan is a derived view: seven consecutive days synthesized on read.
type WeeklyPlan struct {
	StartDate string      `json:"start_date"`
	Days      []DailyPlan `json:"days"`
}

// ShoppingStateItem is one user-controlled entry in the shopping overlay.
type ShoppingStateItem struct {
	Name     string   `json:"name"`
	Unit     string   `json:"unit"`
	Quantity Quantity `json:"quantity"`
	Manual   bool     `json:"manual,omitempty"`
	Lang     string   `json:"lang,omitempty"`
}

// ShoppingState maps item keys to user edits layered over the weekly
// aggregate. Keys are "{lang}|{name}|{unit}", legacy "{name}|{unit}", or
// "manual:<id>".
type ShoppingState map[string]ShoppingStateItem

// BuyListItem is one line of a saved buy list.
type BuyListItem struct {
	Name     string   `json:"name"`
	Unit     string   `json:"unit"`
	Quantity Quantity `json:"quantity"`
	Key      string   `json:"key,omitempty"`
}

// Buy list statuses.
const (
	BuyListOpen   = "open"
	BuyListLocked = "locked"
)

// BuyList is a saved snapshot of a week's shopping list.
type BuyList struct {
	ID        string        `json:"id"`
	WeekStart string        `json:"week_start"`
	WeekEnd   string        `json:"week_end"`
	SavedAt   string        `json:"saved_at"`
	Status    string        `json:"status"`
	Lang      string        `json:"lang"`
	Items     []BuyListItem `json:"items"`
}

// RecipeSource is the raw capture a recipe was imported from.
type RecipeSource struct {
	RecipeID     string `json:"recipe_id"`
	Source       string `json:"source"`
	SourceURL    string `json:"source_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Title        string `json:"title,omitempty"`
	TopComment   string `json:"top_comment,omitempty"`
	Description  string `json:"description,omitempty"`
}

// AppConfig is the process-wide planning configuration singleton.
type AppConfig struct {
	FamilySize          int      `json:"family_size"`
	MaxRepeatPerWeek    int      `json:"max_repeat_per_week"`
	FamilyMembers       []string `json:"family_members,omitempty"`
	DailyRecoEnabled    *bool    `json:"daily_reco_enabled,omitempty"`
	DailyRecoCandidates int      `json:"daily_reco_candidates,omitempty"`
	DailyRecoNewRatio   *float64 `json:"daily_reco_new_ratio,omitempty"`
	DailyRecoExpireDays int      `json:"daily_reco_expire_days,omitempty"`
	DailyRecoMaxChips   int      `json:"daily_reco_max_chips,omitempty"`
}

// DefaultAppConfig returns the configuration used before any settings are
// saved.
func DefaultAppConfig() AppConfig {
	return AppConfig{FamilySize: 4, MaxRepeatPerWeek: 2}
}

// TargetServings is the servings basis for shopping-list scaling.
func (c AppConfig) TargetServings() float64 {
	if c.FamilySize <= 0 {
		return 4
	}
	return float64(c.FamilySize)
}

// RepeatLimit is the per-week cap on scheduling the same recipe.
func (c AppConfig) RepeatLimit() int {
	if c.MaxRepeatPerWeek <= 0 {
		return 2
	}
	return c.MaxRepeatPerWeek
}

// RecoEnabled reports whether daily recommendations are on. Only an explicit
// false disables them.
func (c AppConfig) RecoEnabled() bool {
	return c.DailyRecoEnabled == nil || *c.DailyRecoEnabled
}

// RecoCandidates is the total candidate budget per run.
func (c AppConfig) RecoCandidates() int {
	if c.DailyRecoCandidates < 1 {
		return 6
	}
	return c.DailyRecoCandidates
}

// RecoNewRatio is the fraction of the budget reserved for new ideas,
// clamped to [0, 1].
func (c AppConfig) RecoNewRatio() float64 {
	if c.DailyRecoNewRatio == nil {
		return 0.5
	}
	ratio := *c.DailyRecoNewRatio
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// RecoExpireDays is the calendar-date retention window for runs.
func (c AppConfig) RecoExpireDays() int {
	if c.DailyRecoExpireDays < 1 {
		return 7
	}
	return c.DailyRecoExpireDays
}

// RecoMaxChips is the cap on retained runs.
func (c AppConfig) RecoMaxChips() int {
	if c.DailyRecoMaxChips < 1 {
		return 3
	}
	return c.DailyRecoMaxChips
}
