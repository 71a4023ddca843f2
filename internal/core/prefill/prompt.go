package prefill

import "strings"

// promptInput is the video material the extraction prompt is built from.
type promptInput struct {
	Title       string
	Description string
	TopComment  string
	LinkedURL   string
	LinkedText  string
}

// buildRecipePrompt renders the extraction prompt. The model must answer
// with a single JSON object carrying both English and Korean variants.
func buildRecipePrompt(in promptInput) string {
	linkedLine := "If a linked recipe page is provided, prioritize its ingredients/instructions."
	if in.LinkedURL != "" {
		linkedLine = "If a linked recipe page is provided, prioritize its ingredients/instructions: " + in.LinkedURL
	}
	lines := []string{
		"You are extracting a recipe from a YouTube video.",
		"Use the description or top comment if they contain ingredients/instructions.",
		linkedLine,
		"Ignore sponsorships, promos, and unrelated chatter.",
		"Return ONLY valid JSON with keys:",
		"name, name_original, meal_types, servings, ingredients, ingredients_original, instructions, instructions_original.",
		"- name is English; name_original is Korean.",
		"- Keep name and name_original concise (<= 80 characters). Drop hashtags or extra promo text.",
		"- meal_types is an array (e.g. breakfast, lunch, dinner, snack). Always infer at least one meal type from the recipe and context even if it is not explicitly stated.",
		"- servings is a number if possible.",
		"- ingredients/ingredients_original are arrays of {name, quantity, unit}.",
		"- instructions/instructions_original are arrays of strings.",
		"- Always provide both English and Korean. If translation is unclear, repeat the original text in both fields.",
		"- Quantities should be numeric when possible, else 0.",
		"",
		"Title:\n" + in.Title,
		"",
		"Top comment:\n" + in.TopComment,
		"",
		"Description:\n" + in.Description,
	}
	if in.LinkedText != "" {
		lines = append(lines, "", "Linked page text:\n"+in.LinkedText)
	}
	return strings.Join(lines, "\n")
}
