package search

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

// Result is one hit from a video or web search.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// VideoDetails is the metadata the prefill pipeline mines for recipe text.
type VideoDetails struct {
	Title           string
	Description     string
	Thumbnail       string
	TopComment      string
	CommentWithLink string
}

var urlInText = regexp.MustCompile(`(?i)https?://`)

// YouTubeClient queries the YouTube Data API v3.
type YouTubeClient struct {
	client *resty.Client
	apiKey string
}

// NewYouTubeClient builds a client; apiKey may be empty, in which case every
// call fails with a configuration error.
func NewYouTubeClient(cfg config.YouTubeConfig) *YouTubeClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := resty.New().
		SetBaseURL("https://www.googleapis.com/youtube/v3").
		SetTimeout(timeout)
	return &YouTubeClient{client: client, apiKey: cfg.APIKey}
}

// Configured reports whether an API key is present.
func (c *YouTubeClient) Configured() bool { return c.apiKey != "" }

// Search runs a tuned video search: cooking-intent boost terms plus
// negative terms that push out mukbang/review content, in the query's own
// language.
func (c *YouTubeClient) Search(ctx context.Context, query string, limit int, includeShorts bool) ([]Result, error) {
	if c.apiKey == "" {
		return nil, common.NewUpstream("YOUTUBE_API_KEY is not configured.", nil)
	}

	hasHangul := common.HasHangul(query)
	intentBoost := "recipe cooking how to make step by step"
	negativeTerms := "-mukbang -asmr -review -intro -ad"
	if hasHangul {
		intentBoost = "레시피 요리 만드는법 만들기"
		negativeTerms = "-먹방 -asmr -리뷰 -소개 -광고"
	}
	shortsTerm := ""
	if !includeShorts {
		shortsTerm = "-shorts"
	}
	tunedQuery := strings.TrimSpace(strings.Join([]string{query, intentBoost, negativeTerms, shortsTerm}, " "))

	var payload struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"snippet"`
		} `json:"items"`
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":            "snippet",
			"type":            "video",
			"maxResults":      strconv.Itoa(limit),
			"q":               tunedQuery,
			"key":             c.apiKey,
			"videoEmbeddable": "true",
		}).
		SetResult(&payload).
		Get("/search")
	common.LogUpstreamCall("youtube_search", time.Since(start), err, "")
	if err != nil {
		return nil, common.NewUpstream("YouTube search failed.", err)
	}
	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("YouTube search returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("query", query),
		)
		return nil, common.NewUpstream("YouTube search failed.", fmt.Errorf("status %d", resp.StatusCode()))
	}

	results := make([]Result, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.ID.VideoID == "" {
			continue
		}
		results = append(results, Result{
			Title:   item.Snippet.Title,
			URL:     "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			Snippet: item.Snippet.Description,
		})
	}
	return results, nil
}

// VideoDetails fetches a video's snippet plus its most relevant comments.
// A failed comment fetch is tolerated; the metadata still comes back.
func (c *YouTubeClient) VideoDetails(ctx context.Context, videoID string) (*VideoDetails, error) {
	if c.apiKey == "" {
		return nil, common.NewUpstream("YOUTUBE_API_KEY is not configured.", nil)
	}

	var detailsPayload struct {
		Items []struct {
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				Thumbnails  map[string]struct {
					URL string `json:"url"`
				} `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part": "snippet",
			"id":   videoID,
			"key":  c.apiKey,
		}).
		SetResult(&detailsPayload).
		Get("/videos")
	if err != nil {
		return nil, common.NewUpstream("YouTube metadata fetch failed.", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.NewUpstream("YouTube metadata fetch failed.", fmt.Errorf("status %d", resp.StatusCode()))
	}

	details := &VideoDetails{}
	if len(detailsPayload.Items) > 0 {
		snippet := detailsPayload.Items[0].Snippet
		details.Title = snippet.Title
		details.Description = snippet.Description
		for _, size := range []string{"maxres", "high", "medium", "default"} {
			if thumb, ok := snippet.Thumbnails[size]; ok && thumb.URL != "" {
				details.Thumbnail = thumb.URL
				break
			}
		}
	}

	var commentPayload struct {
		Items []struct {
			Snippet struct {
				TopLevelComment struct {
					Snippet struct {
						TextOriginal string `json:"textOriginal"`
						TextDisplay  string `json:"textDisplay"`
					} `json:"snippet"`
				} `json:"topLevelComment"`
			} `json:"snippet"`
		} `json:"items"`
	}

	commentResp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":       "snippet",
			"videoId":    videoID,
			"order":      "relevance",
			"maxResults": "5",
			"key":        c.apiKey,
		}).
		SetResult(&commentPayload).
		Get("/commentThreads")
	if err == nil && commentResp.StatusCode() == http.StatusOK {
		for i, item := range commentPayload.Items {
			text := item.Snippet.TopLevelComment.Snippet.TextOriginal
			if text == "" {
				text = item.Snippet.TopLevelComment.Snippet.TextDisplay
			}
			if i == 0 {
				details.TopComment = text
			}
			if text != "" && urlInText.MatchString(text) {
				details.CommentWithLink = text
				break
			}
		}
	}

	return details, nil
}
