// Package prefill extracts a structured recipe draft from a YouTube video:
// metadata and comments from the Data API, linked-page text, and a Gemini
// extraction pass, with a TTL cache keyed by video id.
package prefill

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"meal-planner/internal/core/ai"
	"meal-planner/internal/core/cache"
	"meal-planner/internal/core/model"
	"meal-planner/internal/core/scrape"
	"meal-planner/internal/core/search"
	"meal-planner/internal/pkg/common"
)

// defaultModels is the fallback chain tried in order.
var defaultModels = []string{"gemini-2.5-flash-lite", "gemini-2.5-flash", "gemini-3-flash"}

// Request is the prefill invocation payload.
type Request struct {
	SourceURL    string `json:"source_url"`
	Force        bool   `json:"force"`
	Model        string `json:"model,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// Prefill is the extracted draft, shaped for the recipe form: ingredient
// and instruction lists rendered as editable text blocks.
type Prefill struct {
	Name                     string         `json:"name"`
	NameOriginal             string         `json:"name_original"`
	MealTypes                []string       `json:"meal_types"`
	Servings                 model.Quantity `json:"servings,omitempty"`
	SourceURL                string         `json:"source_url"`
	ThumbnailURL             string         `json:"thumbnail_url,omitempty"`
	IngredientsText          string         `json:"ingredients_text"`
	IngredientsOriginalText  string         `json:"ingredients_original_text"`
	InstructionsText         string         `json:"instructions_text"`
	InstructionsOriginalText string         `json:"instructions_original_text"`
}

// Response wraps a prefill with cache provenance.
type Response struct {
	Prefill *Prefill `json:"prefill"`
	Cached  bool     `json:"cached"`
	Model   string   `json:"model,omitempty"`
}

// Service runs the prefill pipeline.
type Service struct {
	youtube   *search.YouTubeClient
	generator ai.TextGenerator
	scraper   *scrape.Scraper
	cache     cache.Store
	hasGemini bool
}

// NewService creates a prefill service. A nil generator marks Gemini as
// unconfigured.
func NewService(youtube *search.YouTubeClient, generator ai.TextGenerator, scraper *scrape.Scraper, cacheStore cache.Store) *Service {
	return &Service{
		youtube:   youtube,
		generator: generator,
		scraper:   scraper,
		cache:     cacheStore,
		hasGemini: generator != nil,
	}
}

type cachedPrefill struct {
	Prefill *Prefill `json:"prefill"`
	Model   string   `json:"model,omitempty"`
}

// parsedRecipe is the JSON shape the extraction prompt asks for.
type parsedRecipe struct {
	Name                 string             `json:"name"`
	NameOriginal         string             `json:"name_original"`
	MealTypes            []string           `json:"meal_types"`
	Servings             model.Quantity     `json:"servings"`
	Ingredients          []model.Ingredient `json:"ingredients"`
	IngredientsOriginal  []model.Ingredient `json:"ingredients_original"`
	Instructions         []string           `json:"instructions"`
	InstructionsOriginal []string           `json:"instructions_original"`
}

// Run extracts a recipe draft for a YouTube URL, serving from cache unless
// forced.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	if req.SourceURL == "" {
		return nil, common.NewValidationError("Missing source_url.")
	}
	videoID := common.YouTubeID(req.SourceURL)
	if videoID == "" {
		return nil, common.NewValidationError("Only YouTube URLs are supported right now.")
	}

	cacheKey := videoID
	if !req.Force && s.cache != nil {
		if raw, ok := s.cache.Get(ctx, cacheKey); ok {
			var entry cachedPrefill
			if err := common.ParseJSON(raw, &entry); err == nil && entry.Prefill != nil {
				return &Response{Prefill: entry.Prefill, Cached: true, Model: entry.Model}, nil
			}
		}
	}

	if !s.youtube.Configured() || !s.hasGemini {
		return nil, common.NewError(common.ErrCodeInternalError,
			"Missing YOUTUBE_API_KEY or GEMINI_API_KEY.", http.StatusInternalServerError, nil)
	}

	details, err := s.youtube.VideoDetails(ctx, videoID)
	if err != nil {
		return nil, err
	}

	linkedURL := common.ExtractFirstURL(details.Description)
	if linkedURL == "" {
		linkedURL = common.ExtractFirstURL(common.FirstNonEmpty(details.CommentWithLink, details.TopComment))
	}
	linkedText := ""
	if linkedURL != "" {
		linkedText = s.scraper.LinkedText(ctx, linkedURL)
	}

	prompt := buildRecipePrompt(promptInput{
		Title:       details.Title,
		Description: details.Description,
		TopComment:  details.TopComment,
		LinkedURL:   linkedURL,
		LinkedText:  linkedText,
	})

	models := defaultModels
	if req.Model != "" {
		models = []string{req.Model}
	}

	var text, usedModel string
	var lastErr error
	for _, modelName := range models {
		usedModel = modelName
		start := time.Now()
		text, lastErr = s.generator.GenerateText(ctx, modelName, prompt, ai.GenerationOptions{
			Temperature: 0.2,
			TopP:        0.9,
		})
		if lastErr == nil {
			break
		}
		common.LogWarn("Prefill model failed, trying next",
			zap.String("model", modelName),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(lastErr),
		)
	}
	if lastErr != nil {
		return nil, lastErr
	}

	var parsed parsedRecipe
	if !common.ExtractJSON(text, &parsed) {
		return nil, common.NewUpstream("Unable to parse Gemini response.", nil)
	}

	mealTypes := make([]string, 0, len(parsed.MealTypes))
	for _, mealType := range parsed.MealTypes {
		if mealType != "" {
			mealTypes = append(mealTypes, mealType)
		}
	}
	if len(mealTypes) == 0 {
		mealTypes = []string{"Flexible"}
	}

	ingredientsOriginal := parsed.IngredientsOriginal
	if len(ingredientsOriginal) == 0 {
		ingredientsOriginal = parsed.Ingredients
	}
	instructionsOriginal := parsed.InstructionsOriginal
	if len(instructionsOriginal) == 0 {
		instructionsOriginal = parsed.Instructions
	}

	result := &Prefill{
		Name:                     common.FirstNonEmpty(parsed.Name, details.Title),
		NameOriginal:             common.FirstNonEmpty(parsed.NameOriginal, details.Title),
		MealTypes:                mealTypes,
		Servings:                 parsed.Servings,
		SourceURL:                req.SourceURL,
		ThumbnailURL:             common.FirstNonEmpty(details.Thumbnail, req.ThumbnailURL),
		IngredientsText:          FormatIngredients(parsed.Ingredients),
		IngredientsOriginalText:  FormatIngredients(ingredientsOriginal),
		InstructionsText:         FormatInstructions(parsed.Instructions),
		InstructionsOriginalText: FormatInstructions(instructionsOriginal),
	}

	if s.cache != nil {
		if raw, err := json.Marshal(cachedPrefill{Prefill: result, Model: usedModel}); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(raw)); err != nil {
				common.LogWarn("Failed to cache prefill", zap.Error(err))
			}
		}
	}

	return &Response{Prefill: result, Cached: false, Model: usedModel}, nil
}
