// Package openalex is a rate-limited client for the OpenAlex REST API,
// covering author search and cursor-paginated retrieval of works.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the OpenAlex API base URL.
	BaseURL = "https://api.openalex.org"

	// DefaultTimeout is the per-request HTTP deadline. A request that
	// exceeds it fails outright; there is no retry.
	DefaultTimeout = 30 * time.Second

	// requestInterval is the mandatory pause between requests, per the
	// OpenAlex polite-pool guidance.
	requestInterval = 120 * time.Millisecond

	// DefaultCandidateLimit is the result count for author searches.
	DefaultCandidateLimit = 5

	// DefaultPageSize is the page size for works pagination.
	DefaultPageSize = 200

	// firstCursor starts a cursor-paginated listing.
	firstCursor = "*"
)

// Client is a rate-limited HTTP client for the OpenAlex API. The mailto
// contact is attached to every request so OpenAlex routes calls through
// its polite pool.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMailto sets the polite-pool contact address.
func WithMailto(mailto string) ClientOption {
	return func(c *Client) {
		c.mailto = mailto
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a new OpenAlex API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(requestInterval), 1),
		baseURL:    BaseURL,
	}

	// Check for a contact address in the environment
	if mailto := os.Getenv("OPENALEX_MAILTO"); mailto != "" {
		c.mailto = mailto
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs one paced GET request and decodes the JSON response into v.
func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	if c.mailto != "" {
		query.Set("mailto", c.mailto)
	}

	reqURL := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Path:       path,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrInvalidResponse, path, err)
	}
	return nil
}

// SearchAuthors returns candidate author identities matching a name, in
// the API's own relevance order.
func (c *Client) SearchAuthors(ctx context.Context, name string, perPage int) ([]AuthorCandidate, error) {
	if perPage <= 0 {
		perPage = DefaultCandidateLimit
	}

	query := url.Values{}
	query.Set("search", name)
	query.Set("per-page", fmt.Sprintf("%d", perPage))

	var resp authorsResponse
	if err := c.get(ctx, "/authors", query, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// WorksPager iterates the works authored by one identity, one page at a
// time, driven by the cursor token returned with each page.
type WorksPager struct {
	client   *Client
	authorID string
	perPage  int
	cursor   string
	done     bool
}

// WorksByAuthor starts a paginated listing of works authored by the
// given identity.
func (c *Client) WorksByAuthor(authorID string, perPage int) *WorksPager {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	return &WorksPager{
		client:   c,
		authorID: CanonicalID(authorID),
		perPage:  perPage,
		cursor:   firstCursor,
	}
}

// More reports whether another page may be available.
func (p *WorksPager) More() bool {
	return !p.done
}

// Next fetches the next page of works. The pager is exhausted when the
// API returns no continuation cursor.
func (p *WorksPager) Next(ctx context.Context) ([]Work, error) {
	if p.done {
		return nil, nil
	}

	query := url.Values{}
	query.Set("filter", "authorships.author.id:"+p.authorID)
	query.Set("per-page", fmt.Sprintf("%d", p.perPage))
	query.Set("cursor", p.cursor)

	var resp worksResponse
	if err := p.client.get(ctx, "/works", query, &resp); err != nil {
		return nil, err
	}

	p.cursor = resp.Meta.NextCursor
	if p.cursor == "" {
		p.done = true
	}
	return resp.Results, nil
}
