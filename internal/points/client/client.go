// Package client fetches single leaderboard pages from the StreamElements points API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rshade/pointsexport/internal/points"
)

// DefaultTimeout bounds a single page request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client issues one GET per page. It never retries and never caches.
type Client struct {
	// HTTPClient is the underlying transport. Tests replace it with an httptest client.
	HTTPClient *http.Client

	baseURL   string
	channelID string
	mode      points.Mode
	timeout   time.Duration
	limiter   *rate.Limiter
	logger    zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides points.DefaultBaseURL.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithTimeout bounds each request. Zero or negative disables the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit spaces requests to at most rps per second. Zero disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithHTTPClient replaces the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the leaderboard of channelID in mode.
func New(channelID string, mode points.Mode, opts ...Option) *Client {
	c := &Client{
		HTTPClient: &http.Client{},
		baseURL:    points.DefaultBaseURL,
		channelID:  channelID,
		mode:       mode,
		timeout:    DefaultTimeout,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the request URL for the page at offset. A nil offset omits the parameter.
func (c *Client) URL(offset *uint64) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(points.PageSize))
	if offset != nil {
		q.Set("offset", strconv.FormatUint(*offset, 10))
	}
	return fmt.Sprintf("%s/points/%s/%s?%s",
		c.baseURL, url.PathEscape(c.channelID), c.mode, q.Encode())
}

// FetchPage retrieves and decodes the page at offset.
// Transport failures and non-2xx responses are KindNetwork; bad bodies are KindDecode.
func (c *Client) FetchPage(ctx context.Context, offset *uint64) (*points.Page, error) {
	op := "fetch first page"
	if offset != nil {
		op = fmt.Sprintf("fetch page offset=%d", *offset)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, points.NewError(points.KindNetwork, op, err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.URL(offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, points.NewError(points.KindNetwork, op, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, points.NewError(points.KindNetwork, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, points.NewError(points.KindNetwork, op,
			fmt.Errorf("GET %s: HTTP %d", target, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, points.NewError(points.KindNetwork, op, fmt.Errorf("reading body: %w", err))
	}

	page, err := DecodePage(body)
	if err != nil {
		return nil, points.NewError(points.KindDecode, op, err)
	}

	c.logger.Debug().
		Str("url", target).
		Int("status", resp.StatusCode).
		Uint64("total", page.Total).
		Int("users", len(page.Users)).
		Dur("elapsed", time.Since(start)).
		Msg("received leaderboard page")

	return page, nil
}

// wirePage mirrors the response body. Pointers distinguish absent fields from zero values.
type wirePage struct {
	Total *uint64     `json:"_total"`
	Users *[]wireUser `json:"users"`
}

type wireUser struct {
	Username *string `json:"username"`
	Points   *uint64 `json:"points"`
}

// DecodePage parses a leaderboard response body. Fields other than _total and users are ignored.
func DecodePage(body []byte) (*points.Page, error) {
	var w wirePage
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("parsing leaderboard JSON: %w", err)
	}
	if w.Total == nil {
		return nil, errors.New(`missing required field "_total"`)
	}
	if w.Users == nil {
		return nil, errors.New(`missing required field "users"`)
	}

	page := &points.Page{
		Total: *w.Total,
		Users: make([]points.User, 0, len(*w.Users)),
	}
	for i, u := range *w.Users {
		if u.Username == nil {
			return nil, fmt.Errorf(`user %d: missing required field "username"`, i)
		}
		if u.Points == nil {
			return nil, fmt.Errorf(`user %d: missing required field "points"`, i)
		}
		page.Users = append(page.Users, points.User{Username: *u.Username, Points: *u.Points})
	}
	return page, nil
}
