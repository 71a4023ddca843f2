package reco

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"meal-planner/internal/core/model"
	"meal-planner/internal/pkg/common"
)

func seedRun(t *testing.T, env *testEnv, run *model.RecommendationRun) {
	t.Helper()
	recs, err := env.store.Recommendations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	recs.Runs = append(recs.Runs, run)
	if err := env.store.SaveRecommendations(context.Background(), recs); err != nil {
		t.Fatal(err)
	}
}

func boolPtr(v bool) *bool { return &v }

func TestAcceptValidation(t *testing.T) {
	env := newTestEnv(t, nil, "")
	ctx := context.Background()

	_, err := env.service.Accept(ctx, AcceptRequest{RunID: "r"})
	if !common.IsValidationError(err) {
		t.Errorf("missing candidate_id: %v", err)
	}

	// Assigning (the default) requires a target slot.
	_, err = env.service.Accept(ctx, AcceptRequest{RunID: "r", CandidateID: "c"})
	if !common.IsValidationError(err) {
		t.Errorf("missing target slot: %v", err)
	}
}

func TestAcceptNotFound(t *testing.T) {
	env := newTestEnv(t, nil, "")
	ctx := context.Background()

	_, err := env.service.Accept(ctx, AcceptRequest{
		RunID: "missing", CandidateID: "c", Assign: boolPtr(false),
	})
	if !common.IsNotFound(err) {
		t.Errorf("unknown run: %v", err)
	}

	seedRun(t, env, &model.RecommendationRun{ID: "r1", Date: "2026-08-31"})
	_, err = env.service.Accept(ctx, AcceptRequest{
		RunID: "r1", CandidateID: "missing", Assign: boolPtr(false),
	})
	if !common.IsNotFound(err) {
		t.Errorf("unknown candidate: %v", err)
	}
}

func TestAcceptLocalCandidate(t *testing.T) {
	env := newTestEnv(t, nil, "")
	ctx := context.Background()
	env.addRecipe(t, &model.Recipe{Name: "Kimchi Stew"})

	seedRun(t, env, &model.RecommendationRun{
		ID: "r1", Date: "2026-08-31",
		Candidates: []*model.Candidate{{
			ID: "c1", RunID: "r1",
			Source:   model.CandidateSourceLocal,
			Title:    "Kimchi Stew",
			RecipeID: "kimchi-stew",
			Status:   model.CandidateNew,
		}},
	})

	resp, err := env.service.Accept(ctx, AcceptRequest{
		RunID: "r1", CandidateID: "c1", Assign: boolPtr(false),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.OK || resp.RecipeID != "kimchi-stew" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Plan != nil {
		t.Error("assign=false should not touch the plan")
	}
	// No source URL, so auto-fill never runs.
	if resp.Autofill.Attempted {
		t.Errorf("autofill = %+v", resp.Autofill)
	}

	recs, _ := env.store.Recommendations(ctx)
	candidate := recs.RunByID("r1").Candidate("c1")
	if candidate.Status != model.CandidateAccepted {
		t.Errorf("status = %q", candidate.Status)
	}
	if candidate.AssignmentStatus != model.AssignmentAdded {
		t.Errorf("assignment_status = %q", candidate.AssignmentStatus)
	}
	if candidate.AutofillStatus != model.AutofillSkipped {
		t.Errorf("autofill_status = %q", candidate.AutofillStatus)
	}
}

func TestAcceptAssignsToPlan(t *testing.T) {
	env := newTestEnv(t, nil, "")
	ctx := context.Background()
	env.addRecipe(t, &model.Recipe{Name: "Kimchi Stew"})

	seedRun(t, env, &model.RecommendationRun{
		ID: "r1", Date: "2026-08-31",
		Candidates: []*model.Candidate{{
			ID: "c1", RunID: "r1", Title: "Kimchi Stew",
			RecipeID: "kimchi-stew", Status: model.CandidateNew,
		}},
	})

	resp, err := env.service.Accept(ctx, AcceptRequest{
		RunID: "r1", CandidateID: "c1",
		TargetDate: "2026-09-01", Meal: "dinner", StartDate: "2026-08-31",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Plan == nil {
		t.Fatal("assign should return the mutated plan")
	}
	if resp.Plan.StartDate != "2026-08-31" {
		t.Errorf("plan start = %q", resp.Plan.StartDate)
	}
	meal := resp.Plan.Days[1].Meals["dinner"]
	if meal == nil || meal.RecipeID != "kimchi-stew" {
		t.Errorf("slot = %+v", meal)
	}

	recs, _ := env.store.Recommendations(ctx)
	if got := recs.RunByID("r1").Candidate("c1").AssignmentStatus; got != model.AssignmentAssigned {
		t.Errorf("assignment_status = %q", got)
	}
}

func TestAcceptCreatesPlaceholderRecipe(t *testing.T) {
	env := newTestEnv(t, nil, "")
	ctx := context.Background()

	seedRun(t, env, &model.RecommendationRun{
		ID: "r1", Date: "2026-08-31",
		Candidates: []*model.Candidate{{
			ID: "c1", RunID: "r1",
			Source:    model.CandidateSourceYouTube,
			Title:     "Best Bibimbap Recipe",
			SourceURL: "https://youtu.be/vid9",
			MealTypes: []string{"dinner"},
			Status:    model.CandidateNew,
		}},
	})

	resp, err := env.service.Accept(ctx, AcceptRequest{
		RunID: "r1", CandidateID: "c1", Assign: boolPtr(false),
	})
	if err != nil {
		t.Fatal(err)
	}

	recipe, err := env.store.RecipeBySourceURL(ctx, "https://youtu.be/vid9")
	if err != nil {
		t.Fatalf("placeholder not created: %v", err)
	}
	if recipe.RecipeID != resp.RecipeID {
		t.Errorf("recipe id mismatch: %q vs %q", recipe.RecipeID, resp.RecipeID)
	}
	if recipe.Name != "Best Bibimbap Recipe" {
		t.Errorf("name = %q", recipe.Name)
	}
	if recipe.ThumbnailURL != "https://i.ytimg.com/vi/vid9/maxresdefault.jpg" {
		t.Errorf("thumbnail = %q", recipe.ThumbnailURL)
	}
	if recipe.Ingredients == nil || recipe.Instructions == nil {
		t.Error("placeholder lists should be initialized")
	}

	// The test env has no API keys, so auto-fill is attempted and fails.
	if !resp.Autofill.Attempted || resp.Autofill.OK {
		t.Errorf("autofill = %+v", resp.Autofill)
	}
	if resp.Autofill.Error != "Missing YOUTUBE_API_KEY or GEMINI_API_KEY." {
		t.Errorf("autofill error = %q", resp.Autofill.Error)
	}
	recs, _ := env.store.Recommendations(ctx)
	if got := recs.RunByID("r1").Candidate("c1").AutofillStatus; got != model.AutofillFailed {
		t.Errorf("autofill_status = %q", got)
	}
}

func TestAcceptUnresolvableCandidate(t *testing.T) {
	env := newTestEnv(t, nil, "")
	ctx := context.Background()

	// No recipe id and no source URL: nothing to resolve.
	seedRun(t, env, &model.RecommendationRun{
		ID: "r1", Date: "2026-08-31",
		Candidates: []*model.Candidate{{
			ID: "c1", RunID: "r1", Title: "Mystery Dish", Status: model.CandidateNew,
		}},
	})

	_, err := env.service.Accept(ctx, AcceptRequest{
		RunID: "r1", CandidateID: "c1", Assign: boolPtr(false),
	})
	if !common.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestAcceptIsTerminal(t *testing.T) {
	env := newTestEnv(t, nil, "")
	ctx := context.Background()
	env.addRecipe(t, &model.Recipe{Name: "Kimchi Stew"})

	seedRun(t, env, &model.RecommendationRun{
		ID: "r1", Date: "2026-08-31",
		Candidates: []*model.Candidate{{
			ID: "c1", RunID: "r1", RecipeID: "kimchi-stew", Status: model.CandidateNew,
		}},
	})

	if _, err := env.service.Accept(ctx, AcceptRequest{
		RunID: "r1", CandidateID: "c1", Assign: boolPtr(false),
	}); err != nil {
		t.Fatal(err)
	}

	_, err := env.service.Accept(ctx, AcceptRequest{
		RunID: "r1", CandidateID: "c1", Assign: boolPtr(false),
	})
	var ce *common.CustomError
	if !errors.As(err, &ce) || ce.Status != http.StatusConflict {
		t.Errorf("second accept = %v, want conflict", err)
	}
}

func TestDiscard(t *testing.T) {
	env := newTestEnv(t, nil, "")
	ctx := context.Background()

	seedRun(t, env, &model.RecommendationRun{
		ID: "r1", Date: "2026-08-31",
		Candidates: []*model.Candidate{
			{ID: "c1", RunID: "r1", Status: model.CandidateNew},
			{ID: "c2", RunID: "r1", Status: model.CandidateAccepted},
		},
	})

	if _, err := env.service.Discard(ctx, "r1", ""); !common.IsValidationError(err) {
		t.Errorf("missing candidate_id: %v", err)
	}
	if _, err := env.service.Discard(ctx, "missing", "c1"); !common.IsNotFound(err) {
		t.Errorf("unknown run: %v", err)
	}

	resp, err := env.service.Discard(ctx, "r1", "c1")
	if err != nil {
		t.Fatal(err)
	}
	if !resp.OK || resp.Run == nil {
		t.Errorf("response = %+v", resp)
	}
	// The candidate stays in the run, marked discarded.
	recs, _ := env.store.Recommendations(ctx)
	if got := recs.RunByID("r1").Candidate("c1").Status; got != model.CandidateDiscarded {
		t.Errorf("status = %q", got)
	}

	// Re-discarding is a no-op, not an error.
	if _, err := env.service.Discard(ctx, "r1", "c1"); err != nil {
		t.Errorf("re-discard: %v", err)
	}

	// An accepted candidate refuses to be discarded.
	_, err = env.service.Discard(ctx, "r1", "c2")
	var ce *common.CustomError
	if !errors.As(err, &ce) || ce.Status != http.StatusConflict {
		t.Errorf("discard accepted = %v, want conflict", err)
	}
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t, nil, "")
	ctx := context.Background()

	seedRun(t, env, &model.RecommendationRun{ID: "r1", Date: "2026-08-30"})
	seedRun(t, env, &model.RecommendationRun{ID: "r2", Date: "2026-08-31"})

	resp, err := env.service.Delete(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if !resp.OK || len(resp.Runs) != 1 || resp.Runs[0].ID != "r2" {
		t.Errorf("response = %+v", resp)
	}

	if _, err := env.service.Delete(ctx, "r1"); !common.IsNotFound(err) {
		t.Errorf("double delete = %v", err)
	}
}

func TestResolveRecipePrefersSourceLookup(t *testing.T) {
	env := newTestEnv(t, nil, "")
	ctx := context.Background()
	env.addRecipe(t, &model.Recipe{Name: "Known Video Dish", SourceURL: "https://youtu.be/known"})

	recipe, err := env.service.resolveRecipe(ctx, &model.Candidate{
		Title:     "Some Title",
		SourceURL: "https://youtu.be/known",
	})
	if err != nil {
		t.Fatal(err)
	}
	if recipe == nil || recipe.RecipeID != "known-video-dish" {
		t.Errorf("resolved = %+v, want the existing recipe", recipe)
	}
}

func TestMessageOr(t *testing.T) {
	if got := messageOr(common.NewValidationError("Bad input."), "fallback"); got != "Bad input." {
		t.Errorf("validation message = %q", got)
	}
	if got := messageOr(common.NewNotFound("Gone."), "fallback"); got != "Gone." {
		t.Errorf("custom message = %q", got)
	}
	if got := messageOr(errors.New("boom"), "fallback"); got != "fallback" {
		t.Errorf("fallback = %q", got)
	}
}
