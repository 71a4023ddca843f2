package search

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"

	"meal-planner/internal/pkg/common"
)

// MCPClient talks to an optional external web-search endpoint. When no
// endpoint is configured, callers fall back to YouTube search.
type MCPClient struct {
	client   *resty.Client
	endpoint string
}

// NewMCPClient builds a client for the given endpoint; an empty endpoint
// produces an unconfigured client.
func NewMCPClient(endpoint string) *MCPClient {
	return &MCPClient{client: resty.New(), endpoint: endpoint}
}

// Configured reports whether an endpoint is set.
func (c *MCPClient) Configured() bool { return c.endpoint != "" }

// Search posts the query to the endpoint and normalizes the reply, which
// may carry its hits under results, items, or data.
func (c *MCPClient) Search(ctx context.Context, query string, limit int, source string) ([]Result, error) {
	if c.endpoint == "" {
		return nil, common.NewUpstream("MCP_WEB_SEARCH_URL is not configured.", nil)
	}

	var payload struct {
		Results []rawResult `json:"results"`
		Items   []rawResult `json:"items"`
		Data    []rawResult `json:"data"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"query": query, "limit": limit, "source": source}).
		SetResult(&payload).
		Post(c.endpoint)
	if err != nil {
		return nil, common.NewUpstream("Search failed.", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.NewUpstream("Search failed.", nil)
	}

	raw := payload.Results
	if len(raw) == 0 {
		raw = payload.Items
	}
	if len(raw) == 0 {
		raw = payload.Data
	}

	results := make([]Result, 0, len(raw))
	for _, item := range raw {
		url := common.FirstNonEmpty(item.URL, item.Link)
		if url == "" {
			continue
		}
		results = append(results, Result{
			Title:   common.FirstNonEmpty(item.Title, item.Name, url),
			URL:     url,
			Snippet: common.FirstNonEmpty(item.Snippet, item.Description),
		})
	}
	return results, nil
}

type rawResult struct {
	Title       string `json:"title"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	Description string `json:"description"`
}
