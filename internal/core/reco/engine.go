// Package reco generates daily dish recommendations: local picks scored from
// family feedback and plan history, plus new ideas sourced from Gemini and
// resolved to YouTube videos. Runs persist after every stage so a polling
// client can watch progress.
package reco

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"meal-planner/internal/core/ai"
	"meal-planner/internal/core/model"
	"meal-planner/internal/core/plan"
	"meal-planner/internal/core/prefill"
	"meal-planner/internal/core/search"
	"meal-planner/internal/core/store"
	"meal-planner/internal/pkg/common"
)

const ideaModel = "gemini-2.5-flash"

// Service runs and mutates daily recommendation runs.
type Service struct {
	store      store.Store
	plans      *plan.Service
	youtube    *search.YouTubeClient
	generator  ai.TextGenerator
	prefill    *prefill.Service
	now        func() time.Time
	searchFunc func(ctx context.Context, query string, limit int) ([]search.Result, error)
}

// NewService creates a recommendation service. A nil generator marks the idea
// model as unconfigured.
func NewService(st store.Store, plans *plan.Service, youtube *search.YouTubeClient, generator ai.TextGenerator, prefillSvc *prefill.Service) *Service {
	s := &Service{
		store:     st,
		plans:     plans,
		youtube:   youtube,
		generator: generator,
		prefill:   prefillSvc,
		now:       time.Now,
	}
	s.searchFunc = func(ctx context.Context, query string, limit int) ([]search.Result, error) {
		return s.youtube.Search(ctx, query, limit, false)
	}
	return s
}

// RunRequest is the POST /recommendations/daily/run payload.
type RunRequest struct {
	Force    bool   `json:"force"`
	Date     string `json:"date"`
	Language string `json:"language"`
	RunID    string `json:"run_id"`
}

// RunResponse wraps a run with its cache provenance.
type RunResponse struct {
	Run    *model.RecommendationRun `json:"run"`
	Reused bool                     `json:"reused,omitempty"`
}

// Runs returns all retained runs, newest first.
func (s *Service) Runs(ctx context.Context) ([]*model.RecommendationRun, error) {
	recStore, err := s.store.Recommendations(ctx)
	if err != nil {
		return nil, err
	}
	runs := append([]*model.RecommendationRun{}, recStore.Runs...)
	sort.SliceStable(runs, func(a, b int) bool {
		return runs[a].CreatedAt > runs[b].CreatedAt
	})
	return runs, nil
}

// Run generates recommendations for a date. An existing run for the same date
// is returned as-is unless forced.
func (s *Service) Run(ctx context.Context, req RunRequest) (*RunResponse, error) {
	cfg, err := s.store.AppConfig(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.RecoEnabled() {
		return nil, common.NewValidationError("Daily recommendations are disabled in config.")
	}

	targetDate := req.Date
	if targetDate == "" {
		targetDate = common.FormatDate(s.now())
	}
	language := "en"
	if req.Language == model.LanguageOriginal {
		language = model.LanguageOriginal
	}

	recStore, err := s.store.Recommendations(ctx)
	if err != nil {
		return nil, err
	}
	if existing := recStore.RunForDate(targetDate); existing != nil && !req.Force {
		return &RunResponse{Run: existing, Reused: true}, nil
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	run := &model.RecommendationRun{
		ID:          runID,
		Date:        targetDate,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
		Status:      model.RunStatusRunning,
		Stage:       model.StageCollect,
		StageDetail: &model.StageDetail{},
		Language:    language,
		Candidates:  []*model.Candidate{},
	}

	commit := func() {
		s.commitRun(ctx, recStore, run, cfg)
	}
	commit()

	if err := s.generate(ctx, run, cfg, commit); err != nil {
		run.Status = model.RunStatusError
		run.Reason = errorReason(err)
		run.Candidates = []*model.Candidate{}
		run.Stage = model.StageFinalize
		commit()
	}

	if run.Status == model.RunStatusRunning {
		run.Status = model.RunStatusLocalOnly
	}
	commit()
	return &RunResponse{Run: run}, nil
}

// commitRun persists the run, applying retention: drop runs whose date is
// older than the expiry window, keep the newest runs up to the chip cap, one
// run per date.
func (s *Service) commitRun(ctx context.Context, recStore *model.RecommendationStore, run *model.RecommendationRun, cfg model.AppConfig) {
	cutoff := s.now().AddDate(0, 0, -cfg.RecoExpireDays())
	next := []*model.RecommendationRun{run}
	for _, entry := range recStore.Runs {
		if entry.Date != run.Date {
			next = append(next, entry)
		}
	}
	kept := next[:0]
	for _, entry := range next {
		entryDate, err := common.ParseDate(entry.Date)
		if err != nil || entryDate.Before(cutoff) {
			continue
		}
		kept = append(kept, entry)
	}
	sort.SliceStable(kept, func(a, b int) bool {
		return kept[a].CreatedAt > kept[b].CreatedAt
	})
	if max := cfg.RecoMaxChips(); len(kept) > max {
		kept = kept[:max]
	}
	recStore.Runs = kept
	if err := s.store.SaveRecommendations(ctx, recStore); err != nil {
		common.LogWarn("Failed to persist recommendation run",
			zap.String("run_id", run.ID),
			zap.Error(err),
		)
	}
}

type scoredRecipe struct {
	recipe *model.Recipe
	score  float64
	reason string
}

func (s *Service) generate(ctx context.Context, run *model.RecommendationRun, cfg model.AppConfig, commit func()) error {
	recipes, err := s.store.Recipes(ctx)
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		run.Status = model.RunStatusError
		run.Reason = "No recipes available yet."
		run.Stage = model.StageFinalize
		commit()
		return nil
	}

	plans, err := s.store.ListDailyPlans(ctx)
	if err != nil {
		return err
	}
	lastUsed := buildLastUsedMap(plans)

	total := cfg.RecoCandidates()
	newCount := int(math.Round(float64(total) * cfg.RecoNewRatio()))
	localCount := total - newCount
	if localCount < 1 {
		localCount = 1
	}

	run.Stage = model.StageLocal
	commit()

	scored := scoreRecipes(recipes, lastUsed, run.Date, run.Language)
	if localCount > len(scored) {
		localCount = len(scored)
	}
	candidates := make([]*model.Candidate, 0, localCount)
	for idx, item := range scored[:localCount] {
		title := item.recipe.Name
		if run.Language == model.LanguageOriginal {
			title = common.FirstNonEmpty(item.recipe.NameOriginal, item.recipe.Name)
		}
		candidates = append(candidates, &model.Candidate{
			ID:           uuid.NewString(),
			RunID:        run.ID,
			Source:       model.CandidateSourceLocal,
			Title:        common.SanitizeTitle(title),
			RecipeID:     item.recipe.RecipeID,
			IsExisting:   true,
			ThumbnailURL: item.recipe.ThumbnailURL,
			MealTypes:    item.recipe.MealTypes,
			Reason:       item.reason,
			Score:        item.score,
			Rank:         idx + 1,
			Status:       model.CandidateNew,
		})
	}

	var newCandidates []*model.Candidate
	switch {
	case newCount > 0 && s.generator == nil:
		run.Status = model.RunStatusLocalOnly
		run.Reason = "Gemini API not configured. Using local-only picks."
		run.Stage = model.StageFinalize
		commit()
	case newCount > 0 && !s.youtube.Configured():
		run.Status = model.RunStatusLocalOnly
		run.Reason = "YouTube API not configured. Using local-only picks."
		run.Stage = model.StageFinalize
		commit()
	case newCount > 0:
		run.Stage = model.StageGemini
		commit()

		liked := make([]string, 0, 8)
		for _, item := range scored {
			if item.score > 0 && item.recipe.Name != "" {
				liked = append(liked, item.recipe.Name)
				if len(liked) == 8 {
					break
				}
			}
		}
		prompt := buildIdeaPrompt(newCount, liked, run.Language)
		run.Model = ideaModel

		text, err := s.generator.GenerateText(ctx, ideaModel, prompt, ai.GenerationOptions{
			Temperature: 0.3,
			TopP:        0.9,
		})
		if err != nil {
			run.Status = model.RunStatusLocalOnly
			run.Reason = "Gemini request failed. Using local-only picks."
			run.Stage = model.StageFinalize
			commit()
			break
		}

		ideas := parseIdeas(text)
		if len(ideas) > newCount {
			ideas = ideas[:newCount]
		}
		run.Stage = model.StageYouTube
		run.StageDetail = &model.StageDetail{YouTubeTotal: len(ideas)}
		commit()
		newCandidates = s.searchIdeas(ctx, run, ideas, len(candidates), commit)
	}

	run.Candidates = append(candidates, newCandidates...)
	run.Stage = model.StageFinalize
	run.StageDetail = nil
	if len(newCandidates) > 0 {
		run.Status = model.RunStatusOK
		run.Reason = "Recommendations include new ideas."
	} else if newCount > 0 && run.Status != model.RunStatusError {
		run.Status = model.RunStatusLocalOnly
		run.Reason = "No new candidates found. Using local-only picks."
	}
	commit()
	return nil
}

// searchIdeas resolves each idea to its best-matching video. A failed search
// skips that idea; partial results are kept.
func (s *Service) searchIdeas(ctx context.Context, run *model.RecommendationRun, ideas []model.GeminiIdea, rankOffset int, commit func()) []*model.Candidate {
	var results []*model.Candidate
	for idx, idea := range ideas {
		run.StageDetail = &model.StageDetail{
			YouTubeTotal: len(ideas),
			YouTubeDone:  idx,
			CurrentIdea:  idea.Title,
		}
		commit()

		found, err := s.searchFunc(ctx, idea.Title, 4)
		if err != nil {
			common.LogWarn("Idea video search failed",
				zap.String("idea", idea.Title),
				zap.Error(err),
			)
			continue
		}
		sort.SliceStable(found, func(a, b int) bool {
			return scoreIdeaMatch(found[a].Title, idea) > scoreIdeaMatch(found[b].Title, idea)
		})
		if len(found) == 0 {
			continue
		}
		pick := found[0]

		existing, err := s.store.RecipeBySourceURL(ctx, pick.URL)
		if err != nil && !errors.Is(err, store.ErrNotExist) {
			continue
		}
		if existing != nil {
			run.Stats.ExistingCount++
		}

		candidate := &model.Candidate{
			ID:           uuid.NewString(),
			RunID:        run.ID,
			Source:       model.CandidateSourceYouTube,
			Title:        common.SanitizeTitle(pick.Title),
			SourceURL:    pick.URL,
			IsExisting:   existing != nil,
			ThumbnailURL: common.YouTubeThumbnail(pick.URL),
			MealTypes:    idea.MealTypes,
			Reason:       common.FirstNonEmpty(idea.Reason, "New idea from recommendations."),
			Score:        float64(scoreIdeaMatch(pick.Title, idea)),
			Rank:         rankOffset + len(results) + 1,
			Status:       model.CandidateNew,
		}
		if existing != nil {
			candidate.RecipeID = existing.RecipeID
		}
		results = append(results, candidate)

		run.StageDetail = &model.StageDetail{
			YouTubeTotal: len(ideas),
			YouTubeDone:  idx + 1,
			CurrentIdea:  idea.Title,
		}
		commit()
	}
	return results
}

// buildLastUsedMap maps each recipe id to the latest plan date it appears on.
func buildLastUsedMap(plans []*model.DailyPlan) map[string]string {
	lastUsed := make(map[string]string)
	for _, day := range plans {
		for _, meal := range day.Meals {
			if meal == nil || meal.RecipeID == "" {
				continue
			}
			if current, ok := lastUsed[meal.RecipeID]; !ok || day.Date > current {
				lastUsed[meal.RecipeID] = day.Date
			}
		}
	}
	return lastUsed
}

// scoreRecipes ranks the library for local picks: family feedback weighted
// double, plus a recency bonus that saturates after a week unused.
func scoreRecipes(recipes []*model.Recipe, lastUsed map[string]string, targetDate, language string) []scoredRecipe {
	today, todayErr := common.ParseDate(targetDate)
	scored := make([]scoredRecipe, 0, len(recipes))
	for _, recipe := range recipes {
		feedbackScore := recipe.FeedbackScore()
		daysSince := 999
		if used, ok := lastUsed[recipe.RecipeID]; ok && todayErr == nil {
			if usedDate, err := common.ParseDate(used); err == nil {
				daysSince = int(math.Floor(today.Sub(usedDate).Hours() / 24))
			}
		}
		recency := math.Min(float64(daysSince)/7, 1)
		scored = append(scored, scoredRecipe{
			recipe: recipe,
			score:  float64(feedbackScore)*2 + recency,
			reason: localReason(feedbackScore, daysSince, language),
		})
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].score > scored[b].score
	})
	return scored
}

func localReason(feedbackScore, daysSince int, language string) string {
	korean := language == model.LanguageOriginal
	switch {
	case feedbackScore > 0 && daysSince > 7:
		if korean {
			return "가족 반응이 좋았고 최근에 만들지 않았어요."
		}
		return "Family liked it and it hasn't been cooked recently."
	case feedbackScore > 0:
		if korean {
			return "가족 반응이 좋았던 메뉴예요."
		}
		return "Family liked it recently."
	case daysSince > 7:
		if korean {
			return "최근에 만들지 않아 새로운 느낌이에요."
		}
		return "Not cooked recently; good for variety."
	default:
		if korean {
			return "다른 메뉴로 변화를 줬어요."
		}
		return "Suggested for variety."
	}
}

// scoreIdeaMatch ranks a video title against the idea: lexical title match
// plus one point per keyword substring.
func scoreIdeaMatch(title string, idea model.GeminiIdea) int {
	score := search.ScoreTitleQueryMatch(title, idea.Title, "")
	normalized := strings.ToLower(title)
	for _, word := range idea.Keywords {
		token := strings.ToLower(word)
		if token != "" && strings.Contains(normalized, token) {
			score++
		}
	}
	return score
}

// errorReason extracts a user-facing message from a pipeline failure.
func errorReason(err error) string {
	return messageOr(err, "Unable to generate recommendations.")
}
