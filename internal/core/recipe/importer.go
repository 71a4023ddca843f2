package recipe

import (
	"context"
	"sort"

	"meal-planner/internal/core/scrape"
	"meal-planner/internal/core/search"
	"meal-planner/internal/pkg/common"
)

// Importer finds importable recipe candidates on the web, preferring the
// configured search endpoint and falling back to YouTube.
type Importer struct {
	youtube *search.YouTubeClient
	mcp     *search.MCPClient
	scraper *scrape.Scraper
}

// NewImporter creates an importer.
func NewImporter(youtube *search.YouTubeClient, mcp *search.MCPClient, scraper *scrape.Scraper) *Importer {
	return &Importer{youtube: youtube, mcp: mcp, scraper: scraper}
}

// ImportSearchRequest is the POST /recipes/search payload.
type ImportSearchRequest struct {
	Query         string `json:"query"`
	Limit         int    `json:"limit"`
	Source        string `json:"source"`
	IncludeShorts *bool  `json:"include_shorts"`
}

// ImportSearchResponse carries ranked candidates plus user-facing notices.
type ImportSearchResponse struct {
	Candidates []*scrape.Candidate `json:"candidates"`
	Notice     string              `json:"notice"`
	Hint       string              `json:"hint,omitempty"`
}

// Search runs the web search and scrapes each hit into a candidate, ranked
// by title relevance with a boost for known recipe sites.
func (i *Importer) Search(ctx context.Context, req ImportSearchRequest) (*ImportSearchResponse, error) {
	if req.Query == "" {
		return nil, common.NewValidationError("Missing query.")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 6
	}
	source := req.Source
	if source == "" {
		source = "all"
	}
	includeShorts := req.IncludeShorts == nil || *req.IncludeShorts

	var results []search.Result
	var notice string
	var err error
	if source == "youtube" {
		results, err = i.youtube.Search(ctx, req.Query, limit, includeShorts)
		if err != nil {
			return nil, err
		}
		notice = "Using YouTube search results."
	} else {
		results, err = i.mcp.Search(ctx, req.Query, limit, source)
		if err != nil {
			if !i.youtube.Configured() {
				return nil, err
			}
			results, err = i.youtube.Search(ctx, req.Query, limit, includeShorts)
			if err != nil {
				return nil, err
			}
			notice = "MCP search unavailable. Using YouTube search instead."
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}

	candidates := make([]*scrape.Candidate, 0, len(results))
	for _, result := range results {
		candidate, err := i.scraper.FetchRecipeCandidate(ctx, result.URL, result.Title)
		if err != nil {
			return nil, err
		}
		if candidate != nil {
			candidates = append(candidates, candidate)
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		scoreA := search.ScoreTitleQueryMatch(candidates[a].Title, req.Query, common.HostFromURL(candidates[a].SourceURL))
		scoreB := search.ScoreTitleQueryMatch(candidates[b].Title, req.Query, common.HostFromURL(candidates[b].SourceURL))
		return scoreA > scoreB
	})

	resp := &ImportSearchResponse{Candidates: candidates}
	if notice != "" {
		resp.Notice = notice
	} else {
		resp.Notice = "Powered by MCP search. If no structured recipe data is found, try a different source."
	}
	if len(candidates) == 0 {
		resp.Hint = "No structured recipe data found. Try a different recipe name or open a YouTube result and paste the recipe manually."
	}
	return resp, nil
}
