package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sandevgo/wizzybot/pkg/log"
	"github.com/sandevgo/wizzybot/pkg/retry"
)

const (
	kindWeb  = "search"
	kindNews = "news"

	defaultTimeout = 30 * time.Second
)

// ErrDisabled is returned when no Serper API key is configured.
var ErrDisabled = errors.New("serper search is not configured")

type Config struct {
	BaseURL string
	APIKey  string
	Results int
	Country string
}

// Client talks to the Serper Google Search API.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	results int
	country string
	retrier *retry.Retrier
}

func New(cfg Config) *Client {
	return &Client{
		client:  &http.Client{Timeout: defaultTimeout},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		results: cfg.Results,
		country: cfg.Country,
		retrier: retry.NewRetrier(retry.NewProviderConfig()),
	}
}

// WebSearch runs a regular Google search and returns organic results
// plus the knowledge graph panel when Serper includes one.
func (c *Client) WebSearch(ctx context.Context, query string) (*Response, error) {
	return c.search(ctx, kindWeb, query)
}

// NewsSearch runs a Google News search.
func (c *Client) NewsSearch(ctx context.Context, query string) (*Response, error) {
	return c.search(ctx, kindNews, query)
}

func (c *Client) search(ctx context.Context, kind, query string) (*Response, error) {
	if c.apiKey == "" {
		return nil, ErrDisabled
	}

	var raw searchResponse
	err := c.retrier.Do(ctx, func() error {
		var opErr error
		raw, opErr = c.searchOnce(ctx, kind, query)
		return opErr
	})
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("kind", kind).Str("query", query).Msg("Serper search failed")
		return nil, err
	}

	resp := &Response{Query: query}
	switch kind {
	case kindNews:
		resp.Results = collectResults(raw.News)
	default:
		resp.Results = collectResults(raw.Organic)
		if kg := raw.KnowledgeGraph; kg != nil {
			resp.Knowledge = &Knowledge{
				Title:       kg.Title,
				Type:        kg.Type,
				Description: kg.Description,
				Attributes:  kg.Attributes,
			}
		}
	}
	return resp, nil
}

func (c *Client) searchOnce(ctx context.Context, kind, query string) (searchResponse, error) {
	payload := searchRequest{
		Query:   query,
		Num:     c.results,
		Country: c.country,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return searchResponse{}, retry.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return searchResponse{}, retry.Permanent(err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(req)
	if err != nil {
		return searchResponse{}, fmt.Errorf("serper request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP %d: %s", httpResp.StatusCode, statusMessage(httpResp.StatusCode))
		if isPermanentStatus(httpResp.StatusCode) {
			return searchResponse{}, retry.Permanent(err)
		}
		return searchResponse{}, err
	}

	var raw searchResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&raw); err != nil {
		return searchResponse{}, retry.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return raw, nil
}

func collectResults(items []resultItem) []Result {
	results := make([]Result, 0, len(items))
	for _, item := range items {
		results = append(results, Result{
			Title:    item.Title,
			Snippet:  item.Snippet,
			Link:     item.Link,
			Position: item.Position,
			Date:     item.Date,
			ImageURL: item.ImageURL,
		})
	}
	return results
}

// statusMessage maps Serper status codes to messages fit for chat replies.
func statusMessage(code int) string {
	switch code {
	case http.StatusUnauthorized:
		return "Invalid API key. Please check your Serper API key."
	case http.StatusForbidden:
		return "Access forbidden. Please check your API permissions."
	case http.StatusTooManyRequests:
		return "Rate limit exceeded. Please wait and try again."
	case http.StatusInternalServerError:
		return "Serper API server error. Please try again later."
	case http.StatusServiceUnavailable:
		return "Serper API service unavailable. Please try again later."
	default:
		return "Unknown error occurred"
	}
}

func isPermanentStatus(code int) bool {
	return code >= 400 && code < 500 && code != http.StatusTooManyRequests
}
