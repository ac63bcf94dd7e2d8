package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "go-jobfinder-automation/internal/errors"
	"go-jobfinder-automation/internal/scraper"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://serpapi.com/search"
	httpTimeout    = 30 * time.Second
	engine         = "google_jobs"
)

// Client calls the SerpApi google_jobs engine.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimit caps requests per second. Zero or less means unlimited.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string {
	return "SerpApi"
}

// Search fetches one page. Network failures, 5xx and 429 responses, and
// undecodable bodies come back as errors so the caller can retry them.
// Other responses carrying an "error" field are returned as data.
func (c *Client) Search(ctx context.Context, req scraper.Request) (*scraper.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	params := url.Values{}
	params.Set("engine", engine)
	params.Set("q", req.Query)
	params.Set("api_key", c.apiKey)
	if req.Location != "" {
		params.Set("location", req.Location)
	}
	if req.GoogleDomain != "" {
		params.Set("google_domain", req.GoogleDomain)
	}
	if req.GL != "" {
		params.Set("gl", req.GL)
	}
	if req.HL != "" {
		params.Set("hl", req.HL)
	}
	if req.NextPageToken != "" {
		params.Set("next_page_token", req.NextPageToken)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.Transient("http GET", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Transient("read body", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return nil, apperrors.Transient(fmt.Sprintf("serpapi returned %d", resp.StatusCode), nil)
	}

	var out scraper.Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, apperrors.Transient("json unmarshal", err)
	}

	if resp.StatusCode != http.StatusOK && out.Error == "" {
		out.Error = fmt.Sprintf("serpapi returned %d", resp.StatusCode)
	}
	return &out, nil
}
