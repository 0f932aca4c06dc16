package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrResourceUnavailable is returned for any non-2xx response and for
// transport failures. Callers treat it as terminal for the fetch.
var ErrResourceUnavailable = errors.New("resource unavailable")

// Fetcher defines the catalog operations the views depend on.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	ListPage(ctx context.Context, category Category, page int) (Page, error)
	GetByID(ctx context.Context, category Category, id int) (Record, error)
	GetByURL(ctx context.Context, rawURL string) (Record, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

const (
	DefaultAPIBase   = "https://rickandmortyapi.com/api"
	defaultUserAgent = "rickview/0.1"
	defaultTimeout   = 10 * time.Second
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithRateLimit paces outgoing requests to rps per second with a burst of the
// same size. Zero or negative disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := max(int(rps), 1)
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient builds a Client for the API rooted at apiBase.
func NewClient(apiBase string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListPage retrieves one page of a category listing. Pages start at 1.
func (c *Client) ListPage(ctx context.Context, category Category, page int) (Page, error) {
	if c == nil {
		return Page{}, fmt.Errorf("client is nil")
	}
	if page < 1 {
		return Page{}, fmt.Errorf("page %d out of range", page)
	}
	u := c.endpoint(string(category))
	u.RawQuery = url.Values{"page": {strconv.Itoa(page)}}.Encode()

	switch category {
	case CategoryCharacter:
		return listPage[Character](ctx, c, u, page)
	case CategoryLocation:
		return listPage[Location](ctx, c, u, page)
	case CategoryEpisode:
		return listPage[Episode](ctx, c, u, page)
	default:
		return Page{}, fmt.Errorf("unknown category %q", category)
	}
}

// GetByID retrieves a single record.
func (c *Client) GetByID(ctx context.Context, category Category, id int) (Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return nil, fmt.Errorf("invalid %s id %d", category, id)
	}
	return c.getRecord(ctx, category, c.endpoint(string(category), strconv.Itoa(id)))
}

// GetByURL follows a cross-reference URL embedded in another record. Relative
// URLs resolve against the API root; absolute URLs must point below that root
// on the same host.
func (c *Client) GetByURL(ctx context.Context, rawURL string) (Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	category, _, err := ParseReference(rawURL)
	if err != nil {
		return nil, err
	}
	ref, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse reference %q: %w", rawURL, err)
	}
	// The root needs a trailing slash or resolution drops its last segment.
	root := *c.baseURL
	root.Path = strings.TrimSuffix(root.Path, "/") + "/"
	u := root.ResolveReference(ref)
	if !strings.EqualFold(u.Host, root.Host) || !strings.HasPrefix(u.Path, root.Path) {
		return nil, fmt.Errorf("reference %q is outside %s", rawURL, c.baseURL)
	}
	return c.getRecord(ctx, category, u)
}

func (c *Client) getRecord(ctx context.Context, category Category, u *url.URL) (Record, error) {
	switch category {
	case CategoryCharacter:
		return getOne[Character](ctx, c, u)
	case CategoryLocation:
		return getOne[Location](ctx, c, u)
	case CategoryEpisode:
		return getOne[Episode](ctx, c, u)
	default:
		return nil, fmt.Errorf("unknown category %q", category)
	}
}

func listPage[T Record](ctx context.Context, c *Client, u *url.URL, number int) (Page, error) {
	var payload listResponse[T]
	if err := c.get(ctx, u, &payload); err != nil {
		return Page{}, err
	}
	return payload.page(number), nil
}

func getOne[T Record](ctx context.Context, c *Client, u *url.URL) (Record, error) {
	var payload T
	if err := c.get(ctx, u, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) endpoint(segments ...string) *url.URL {
	u := *c.baseURL
	u.Path = path.Join(append([]string{"/", c.baseURL.Path}, segments...)...)
	return &u
}

func (c *Client) get(ctx context.Context, u *url.URL, dest any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("wait for request slot: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: execute request: %w", ErrResourceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned status %d", ErrResourceUnavailable, u.RequestURI(), resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = DefaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("api_base %q has no host", apiBase)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
