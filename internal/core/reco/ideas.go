package reco

import (
	"fmt"
	"strings"

	"meal-planner/internal/core/model"
	"meal-planner/internal/pkg/common"
)

// buildIdeaPrompt renders the new-idea prompt in the run's language, seeding
// the model with up to ten recently liked dishes.
func buildIdeaPrompt(count int, liked []string, language string) string {
	if len(liked) > 10 {
		liked = liked[:10]
	}
	likedList := strings.Join(liked, ", ")
	korean := language == model.LanguageOriginal

	var lines []string
	if korean {
		lines = []string{
			"당신은 가족 식단 추천 도우미입니다.",
			fmt.Sprintf("%d개의 새로운 요리 아이디어를 추천해 주세요.", count),
			"제목은 짧고 유튜브 검색에 적합해야 합니다.",
			"출력은 JSON만 반환하세요.",
		}
	} else {
		lines = []string{
			"You are a meal planning assistant.",
			fmt.Sprintf("Suggest %d new recipe ideas for a family with two kids.", count),
			"Keep titles short and YouTube-search friendly.",
			"Return JSON ONLY with this shape:",
		}
	}
	lines = append(lines, `{"ideas":[{"title":"...","meal_types":["breakfast"],"keywords":["..."] ,"reason":"..."}]}`)
	if likedList != "" {
		if korean {
			lines = append(lines, "가족이 좋아했던 메뉴: "+likedList)
		} else {
			lines = append(lines, "Family liked: "+likedList)
		}
	}
	return strings.Join(lines, "\n")
}

// parseIdeas leniently parses the idea model's reply, keeping only entries
// with a non-empty title.
func parseIdeas(raw string) []model.GeminiIdea {
	var payload struct {
		Ideas []model.GeminiIdea `json:"ideas"`
	}
	if !common.ExtractJSON(raw, &payload) {
		return nil
	}
	ideas := make([]model.GeminiIdea, 0, len(payload.Ideas))
	for _, idea := range payload.Ideas {
		idea.Title = strings.TrimSpace(idea.Title)
		if idea.Title == "" {
			continue
		}
		if idea.MealTypes == nil {
			idea.MealTypes = []string{}
		}
		if idea.Keywords == nil {
			idea.Keywords = []string{}
		}
		ideas = append(ideas, idea)
	}
	return ideas
}
