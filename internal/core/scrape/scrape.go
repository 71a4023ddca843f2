// Package scrape pulls structured recipe data out of web pages: JSON-LD
// Recipe objects for the import search, and readable page text for the
// prefill prompt.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"meal-planner/internal/core/model"
	"meal-planner/internal/pkg/common"
)

const (
	linkedTextTimeout = 6 * time.Second
	linkedTextLimit   = 4000
)

// Candidate is one importable recipe found on a page or video.
type Candidate struct {
	Title        string         `json:"title"`
	SourceURL    string         `json:"source_url"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty"`
	Servings     model.Quantity `json:"servings,omitempty"`
	Ingredients  []string       `json:"ingredients"`
	Instructions []string       `json:"instructions"`
	SourceHost   string         `json:"source_host,omitempty"`
}

// Scraper fetches and parses recipe pages.
type Scraper struct {
	client *http.Client
}

// New creates a scraper with a shared HTTP client.
func New() *Scraper {
	return &Scraper{client: &http.Client{Timeout: 15 * time.Second}}
}

// FetchRecipeCandidate resolves a search hit into an importable candidate.
// YouTube URLs come back as bare video candidates; other pages are scraped
// for a JSON-LD Recipe object. Returns nil when the page carries none.
func (s *Scraper) FetchRecipeCandidate(ctx context.Context, pageURL, fallbackTitle string) (*Candidate, error) {
	if videoID := common.YouTubeID(pageURL); videoID != "" {
		return &Candidate{
			Title:        fallbackTitle,
			SourceURL:    pageURL,
			ThumbnailURL: "https://i.ytimg.com/vi/" + videoID + "/maxresdefault.jpg",
			Ingredients:  []string{},
			Instructions: []string{},
			SourceHost:   common.HostFromURL(pageURL),
		}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, common.NewUpstream("recipe page fetch failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse recipe page: %w", err)
	}

	recipe := pickRecipeObject(extractJSONLD(doc))
	if recipe == nil {
		return nil, nil
	}

	title := stringField(recipe, "name")
	if title == "" {
		title = fallbackTitle
	}
	ingredients := normalizeIngredients(firstPresent(recipe, "recipeIngredient", "ingredients"))
	return &Candidate{
		Title:        title,
		SourceURL:    pageURL,
		ThumbnailURL: normalizeImage(recipe["image"]),
		Servings:     normalizeServings(recipe["recipeYield"]),
		Ingredients:  ingredients,
		Instructions: normalizeInstructions(recipe["recipeInstructions"]),
		SourceHost:   common.HostFromURL(pageURL),
	}, nil
}

// LinkedText fetches a page linked from a video description and reduces it
// to readable text for the extraction prompt, capped at a prompt-friendly
// length.
func (s *Scraper) LinkedText(ctx context.Context, pageURL string) string {
	ctx, cancel := context.WithTimeout(ctx, linkedTextTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	parsedURL, _ := url.Parse(pageURL)
	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(article.TextContent), " ")
	if len(text) > linkedTextLimit {
		text = text[:linkedTextLimit]
	}
	return text
}

// extractJSONLD collects every parsable ld+json block on the page.
func extractJSONLD(doc *goquery.Document) []interface{} {
	var blocks []interface{}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}
		var block interface{}
		if err := common.ParseJSON(raw, &block); err != nil {
			return
		}
		blocks = append(blocks, block)
	})
	return blocks
}

// pickRecipeObject finds the first object typed Recipe, descending into
// arrays and @graph containers.
func pickRecipeObject(blocks []interface{}) map[string]interface{} {
	var flat []interface{}
	for _, block := range blocks {
		if arr, ok := block.([]interface{}); ok {
			flat = append(flat, arr...)
		} else {
			flat = append(flat, block)
		}
	}
	for _, item := range flat {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if graph, ok := obj["@graph"].([]interface{}); ok {
			if found := pickRecipeObject(graph); found != nil {
				return found
			}
		}
		if isRecipeType(obj["@type"]) {
			return obj
		}
	}
	return nil
}

func isRecipeType(value interface{}) bool {
	switch t := value.(type) {
	case string:
		return t == "Recipe"
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

func stringField(obj map[string]interface{}, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

func firstPresent(obj map[string]interface{}, keys ...string) interface{} {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func normalizeInstructions(value interface{}) []string {
	switch v := value.(type) {
	case string:
		return splitLines(v)
	case []interface{}:
		var out []string
		for _, item := range v {
			switch step := item.(type) {
			case string:
				if trimmed := strings.TrimSpace(step); trimmed != "" {
					out = append(out, trimmed)
				}
			case map[string]interface{}:
				if text, ok := step["text"].(string); ok && text != "" {
					out = append(out, text)
				}
			}
		}
		return out
	}
	return []string{}
}

func normalizeIngredients(value interface{}) []string {
	switch v := value.(type) {
	case []interface{}:
		var out []string
		for _, item := range v {
			text := strings.TrimSpace(fmt.Sprintf("%v", item))
			if text != "" {
				out = append(out, text)
			}
		}
		return out
	case string:
		return splitLines(v)
	}
	return []string{}
}

func normalizeImage(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []interface{}:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	case map[string]interface{}:
		if s, ok := v["url"].(string); ok {
			return s
		}
	}
	return ""
}

// normalizeServings keeps recipeYield as a number when it is one, else as
// its text form.
func normalizeServings(value interface{}) model.Quantity {
	switch v := value.(type) {
	case nil:
		return model.Quantity{}
	case float64:
		return model.NumberQuantity(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return model.NumberQuantity(f)
		}
		return model.StringQuantity(v.String())
	case string:
		return model.StringQuantity(v)
	case []interface{}:
		if len(v) > 0 {
			return normalizeServings(v[0])
		}
	}
	return model.Quantity{}
}

func splitLines(value string) []string {
	var out []string
	for _, line := range strings.Split(value, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
