package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/pitchfinder/core"
	"github.com/poiesic/pitchfinder/retry"
)

const (
	// DefaultTavilyURL is the Tavily API base URL.
	DefaultTavilyURL = "https://api.tavily.com"

	// SourceTavily labels hits returned by Tavily.
	SourceTavily = "tavily"

	defaultHitScore = 0.5
	searchDepth     = "advanced"
)

// Request is a provider search request.
type Request struct {
	Query             string   `json:"query"`
	SearchDepth       string   `json:"search_depth"`
	MaxResults        int      `json:"max_results"`
	IncludeDomains    []string `json:"include_domains,omitempty"`
	IncludeAnswer     bool     `json:"include_answer"`
	IncludeRawContent bool     `json:"include_raw_content"`
}

// Provider runs one web search.
type Provider interface {
	Search(ctx context.Context, req Request) ([]core.RawHit, error)
}

type tavilyResult struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Content       string   `json:"content"`
	Score         *float64 `json:"score"`
	PublishedDate string   `json:"published_date"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

// TavilyClient is a Provider backed by the Tavily search API.
type TavilyClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ Provider = (*TavilyClient)(nil)

// TavilyOption configures a TavilyClient.
type TavilyOption func(*TavilyClient)

// WithBaseURL points the client at another endpoint.
func WithBaseURL(u string) TavilyOption {
	return func(c *TavilyClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) TavilyOption {
	return func(c *TavilyClient) {
		if client != nil {
			c.client = client
		}
	}
}

// NewTavilyClient creates a Tavily client.
func NewTavilyClient(apiKey string, opts ...TavilyOption) (*TavilyClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	c := &TavilyClient{
		baseURL: DefaultTavilyURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second, Transport: tr},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search posts req to /search. Client errors other than 429 are marked
// permanent so callers do not retry them.
func (c *TavilyClient) Search(ctx context.Context, req Request) ([]core.RawHit, error) {
	if req.SearchDepth == "" {
		req.SearchDepth = searchDepth
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("tavily: %w: %d %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(msg)))
		if resp.StatusCode/100 == 4 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}

	var data tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("tavily: decoding response: %w", err)
	}

	hits := make([]core.RawHit, 0, len(data.Results))
	for _, r := range data.Results {
		score := defaultHitScore
		if r.Score != nil {
			score = *r.Score
		}
		hits = append(hits, core.RawHit{
			Title:       r.Title,
			Snippet:     r.Content,
			URL:         r.URL,
			Source:      SourceTavily,
			PublishDate: parsePublished(r.PublishedDate),
			Score:       score,
		})
	}
	return hits, nil
}

var publishedLayouts = []string{
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02",
}

func parsePublished(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
