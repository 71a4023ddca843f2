package reco

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"meal-planner/internal/core/model"
	"meal-planner/internal/core/prefill"
	"meal-planner/internal/core/store"
	"meal-planner/internal/pkg/common"
)

// AcceptRequest is the accept-candidate payload. Assign defaults to true and
// then requires a target date and meal slot.
type AcceptRequest struct {
	RunID       string
	CandidateID string `json:"candidate_id"`
	TargetDate  string `json:"target_date"`
	Meal        string `json:"meal"`
	Assign      *bool  `json:"assign"`
	StartDate   string `json:"start_date"`
}

// AutofillResult records the outcome of the accept-time auto-fill attempt.
type AutofillResult struct {
	Attempted bool   `json:"attempted"`
	OK        bool   `json:"ok"`
	Model     string `json:"model,omitempty"`
	Cached    bool   `json:"cached,omitempty"`
	Error     string `json:"error,omitempty"`
}

// AcceptResponse reports the resolved recipe, the mutated run, and the plan
// when the candidate was assigned.
type AcceptResponse struct {
	OK       bool                     `json:"ok"`
	RecipeID string                   `json:"recipe_id"`
	Plan     *model.WeeklyPlan        `json:"plan,omitempty"`
	Run      *model.RecommendationRun `json:"run"`
	Autofill AutofillResult           `json:"autofill"`
}

// MutationResponse reports a discard or delete outcome.
type MutationResponse struct {
	OK   bool                       `json:"ok"`
	Run  *model.RecommendationRun   `json:"run,omitempty"`
	Runs []*model.RecommendationRun `json:"runs,omitempty"`
}

// Accept resolves a candidate to a recipe (reusing one by source URL or
// creating a placeholder), backfills missing fields via the prefill pipeline,
// and optionally assigns the recipe into the weekly plan.
func (s *Service) Accept(ctx context.Context, req AcceptRequest) (*AcceptResponse, error) {
	assign := req.Assign == nil || *req.Assign
	if req.CandidateID == "" || (assign && (req.TargetDate == "" || req.Meal == "")) {
		return nil, common.NewValidationError("Missing payload fields.")
	}

	recStore, err := s.store.Recommendations(ctx)
	if err != nil {
		return nil, err
	}
	run := recStore.RunByID(req.RunID)
	if run == nil {
		return nil, common.NewNotFound("Run not found.")
	}
	candidate := run.Candidate(req.CandidateID)
	if candidate == nil {
		return nil, common.NewNotFound("Candidate not found.")
	}
	if candidate.Status != model.CandidateNew {
		return nil, common.NewError(common.ErrCodeConflict,
			"Candidate is already accepted or discarded.", http.StatusConflict, nil)
	}

	recipe, err := s.resolveRecipe(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, common.NewNotFound("Recipe not found for this recommendation.")
	}

	candidate.RecipeID = recipe.RecipeID
	candidate.Status = model.CandidateAccepted
	if assign {
		candidate.AssignmentStatus = model.AssignmentAssigned
	} else {
		candidate.AssignmentStatus = model.AssignmentAdded
	}

	autofill := s.autofillRecipe(ctx, recipe)
	switch {
	case !autofill.Attempted:
		candidate.AutofillStatus = model.AutofillSkipped
	case autofill.OK:
		candidate.AutofillStatus = model.AutofillSuccess
	default:
		candidate.AutofillStatus = model.AutofillFailed
	}
	candidate.AutofillModel = autofill.Model
	candidate.AutofillCached = autofill.Cached
	if !autofill.OK {
		candidate.AutofillError = autofill.Error
	}

	if err := s.store.SaveRecommendations(ctx, recStore); err != nil {
		return nil, common.NewPersistence(err)
	}

	resp := &AcceptResponse{OK: true, RecipeID: recipe.RecipeID, Run: run, Autofill: autofill}
	if !assign {
		return resp, nil
	}

	weekPlan, err := s.plans.WeeklyPlanForDate(ctx, common.FirstNonEmpty(req.StartDate, req.TargetDate))
	if err != nil {
		return nil, err
	}
	updated, err := s.plans.AssignMeal(ctx, weekPlan, req.TargetDate, req.Meal, recipe)
	if err != nil {
		return nil, err
	}
	resp.Plan = updated
	return resp, nil
}

// resolveRecipe finds the candidate's backing recipe, falling back to a
// source-URL lookup and then to a placeholder recipe the auto-fill can flesh
// out. Returns nil when nothing can be resolved.
func (s *Service) resolveRecipe(ctx context.Context, candidate *model.Candidate) (*model.Recipe, error) {
	recipeID := candidate.RecipeID
	if recipeID == "" && candidate.SourceURL != "" {
		existing, err := s.store.RecipeBySourceURL(ctx, candidate.SourceURL)
		if err != nil && !errors.Is(err, store.ErrNotExist) {
			return nil, err
		}
		if existing != nil {
			recipeID = existing.RecipeID
		}
	}

	if recipeID != "" {
		recipe, err := s.store.RecipeByID(ctx, recipeID)
		if err == nil {
			return recipe, nil
		}
		if !errors.Is(err, store.ErrNotExist) {
			return nil, err
		}
	}

	if candidate.SourceURL == "" {
		return nil, nil
	}
	recipe := &model.Recipe{
		RecipeID:     strings.ReplaceAll(uuid.NewString(), "-", ""),
		Name:         candidate.Title,
		MealTypes:    candidate.MealTypes,
		SourceURL:    candidate.SourceURL,
		Ingredients:  []model.Ingredient{},
		Instructions: []string{},
	}
	recipe.Normalize()
	if err := s.store.AddRecipe(ctx, recipe); err != nil {
		return nil, common.NewPersistence(err)
	}
	return recipe, nil
}

// autofillRecipe runs the prefill pipeline against the recipe's source URL
// and patches only the fields still empty. Failures are recorded, never
// fatal.
func (s *Service) autofillRecipe(ctx context.Context, recipe *model.Recipe) AutofillResult {
	if recipe.SourceURL == "" {
		return AutofillResult{Error: "Missing source URL."}
	}
	resp, err := s.prefill.Run(ctx, prefill.Request{SourceURL: recipe.SourceURL})
	if err != nil {
		return AutofillResult{Attempted: true, Error: messageOr(err, "Auto-fill failed.")}
	}
	result := AutofillResult{Attempted: true, Model: resp.Model, Cached: resp.Cached}
	draft := resp.Prefill
	if draft == nil {
		result.Error = "Auto-fill returned no data."
		return result
	}

	if recipe.NameOriginal == "" && draft.NameOriginal != "" {
		recipe.NameOriginal = draft.NameOriginal
	}
	if len(recipe.MealTypes) == 0 && len(draft.MealTypes) > 0 {
		recipe.MealTypes = draft.MealTypes
	}
	if recipe.Servings.IsEmpty() && !draft.Servings.IsEmpty() {
		recipe.Servings = draft.Servings
	}
	if len(recipe.Ingredients) == 0 && draft.IngredientsText != "" {
		recipe.Ingredients = prefill.ParseIngredients(draft.IngredientsText)
	}
	if len(recipe.IngredientsOriginal) == 0 && draft.IngredientsOriginalText != "" {
		recipe.IngredientsOriginal = prefill.ParseIngredients(draft.IngredientsOriginalText)
	}
	if len(recipe.Instructions) == 0 && draft.InstructionsText != "" {
		recipe.Instructions = prefill.ParseInstructions(draft.InstructionsText)
	}
	if len(recipe.InstructionsOriginal) == 0 && draft.InstructionsOriginalText != "" {
		recipe.InstructionsOriginal = prefill.ParseInstructions(draft.InstructionsOriginalText)
	}
	if recipe.ThumbnailURL == "" && draft.ThumbnailURL != "" {
		recipe.ThumbnailURL = draft.ThumbnailURL
	}

	recipe.Normalize()
	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		common.LogWarn("Auto-fill patch failed to persist",
			zap.String("recipe_id", recipe.RecipeID),
			zap.Error(err),
		)
		result.Error = "Auto-fill failed."
		return result
	}
	result.OK = true
	return result
}

// Discard marks a candidate discarded. The candidate stays in the run so the
// UI can show what was passed over.
func (s *Service) Discard(ctx context.Context, runID, candidateID string) (*MutationResponse, error) {
	if candidateID == "" {
		return nil, common.NewValidationError("Missing candidate_id.")
	}
	recStore, err := s.store.Recommendations(ctx)
	if err != nil {
		return nil, err
	}
	run := recStore.RunByID(runID)
	if run == nil {
		return nil, common.NewNotFound("Run not found.")
	}
	candidate := run.Candidate(candidateID)
	if candidate == nil {
		return nil, common.NewNotFound("Candidate not found.")
	}
	if candidate.Status == model.CandidateAccepted {
		return nil, common.NewError(common.ErrCodeConflict,
			"Candidate is already accepted.", http.StatusConflict, nil)
	}
	if candidate.Status != model.CandidateDiscarded {
		candidate.Status = model.CandidateDiscarded
		if err := s.store.SaveRecommendations(ctx, recStore); err != nil {
			return nil, common.NewPersistence(err)
		}
	}
	return &MutationResponse{OK: true, Run: run}, nil
}

// Delete removes a run entirely.
func (s *Service) Delete(ctx context.Context, runID string) (*MutationResponse, error) {
	recStore, err := s.store.Recommendations(ctx)
	if err != nil {
		return nil, err
	}
	kept := make([]*model.RecommendationRun, 0, len(recStore.Runs))
	for _, run := range recStore.Runs {
		if run.ID != runID {
			kept = append(kept, run)
		}
	}
	if len(kept) == len(recStore.Runs) {
		return nil, common.NewNotFound("Run not found.")
	}
	recStore.Runs = kept
	if err := s.store.SaveRecommendations(ctx, recStore); err != nil {
		return nil, common.NewPersistence(err)
	}
	return &MutationResponse{OK: true, Runs: kept}, nil
}

// messageOr extracts the user-facing message from an error, with a fallback
// for unexpected failures.
func messageOr(err error, fallback string) string {
	if common.IsValidationError(err) {
		return err.Error()
	}
	var ce *common.CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
