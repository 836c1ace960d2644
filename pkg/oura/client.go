// Package oura provides a client for the Oura v2 REST API.
package oura

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultBaseURL is the Oura API root.
	DefaultBaseURL = "https://api.ouraring.com/v2"

	// defaultWindow is the lookback applied when a date range is
	// omitted: yesterday through now.
	defaultWindow = 24 * time.Hour

	// workoutWindow is the wider lookback for workout queries.
	workoutWindow = 7 * 24 * time.Hour

	// maxErrorBody caps how much of a failed response body is
	// retained on an APIError.
	maxErrorBody = 4 * 1024
)

// DateRange bounds a data query to [Start, End] calendar dates.
// The zero value requests the category's default window, resolved at
// call time. The two bounds are always resolved together: if either is
// zero, both are replaced.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// isZero reports whether the range should be defaulted.
func (r DateRange) isZero() bool {
	return r.Start.IsZero() || r.End.IsZero()
}

// resolve substitutes the default window when either bound is missing.
func (r DateRange) resolve(lookback time.Duration, now time.Time) DateRange {
	if r.isZero() {
		return DateRange{Start: now.Add(-lookback), End: now}
	}
	return r
}

// query renders the range as start_date/end_date calendar-date
// parameters. Time-of-day is never sent.
func (r DateRange) query() url.Values {
	v := url.Values{}
	v.Set("start_date", r.Start.Format(time.DateOnly))
	v.Set("end_date", r.End.Format(time.DateOnly))
	return v
}

// Config holds optional client settings.
type Config struct {
	// BaseURL overrides the API root, primarily for tests.
	BaseURL string

	// HTTPClient overrides the transport. Defaults to a client with
	// Timeout applied.
	HTTPClient *http.Client

	// Timeout bounds each request. Zero means no bound.
	Timeout time.Duration
}

// Client issues authenticated requests to the Oura API. It holds the
// bearer token for one session's lifetime; the token is never persisted
// elsewhere. Each fetch performs exactly one outbound HTTP call with no
// retries and no caching, and classifies any non-2xx response into an
// *APIError before body parsing.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	// now is stubbed in tests to pin default windows.
	now func() time.Time
}

// NewClient creates a client bound to the given bearer token.
func NewClient(token string, cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// GetDailyActivity fetches daily activity summaries.
func (c *Client) GetDailyActivity(ctx context.Context, r DateRange) (*ListResponse, error) {
	return c.getCollection(ctx, "/usercollection/daily_activity", r, defaultWindow)
}

// GetDailyReadiness fetches daily readiness summaries.
func (c *Client) GetDailyReadiness(ctx context.Context, r DateRange) (*ListResponse, error) {
	return c.getCollection(ctx, "/usercollection/daily_readiness", r, defaultWindow)
}

// GetDailySleep fetches daily sleep summaries.
func (c *Client) GetDailySleep(ctx context.Context, r DateRange) (*ListResponse, error) {
	return c.getCollection(ctx, "/usercollection/daily_sleep", r, defaultWindow)
}

// GetHeartRate fetches heart rate series data.
func (c *Client) GetHeartRate(ctx context.Context, r DateRange) (*ListResponse, error) {
	return c.getCollection(ctx, "/usercollection/heartrate", r, defaultWindow)
}

// GetDailyStress fetches daily stress summaries.
func (c *Client) GetDailyStress(ctx context.Context, r DateRange) (*ListResponse, error) {
	return c.getCollection(ctx, "/usercollection/daily_stress", r, defaultWindow)
}

// GetWorkouts fetches workout records. The default window is seven days
// rather than one, since workouts are sparser than daily summaries.
func (c *Client) GetWorkouts(ctx context.Context, r DateRange) (*ListResponse, error) {
	return c.getCollection(ctx, "/usercollection/workout", r, workoutWindow)
}

// GetDailySpO2 fetches daily blood oxygen summaries.
func (c *Client) GetDailySpO2(ctx context.Context, r DateRange) (*ListResponse, error) {
	return c.getCollection(ctx, "/usercollection/daily_spo2", r, defaultWindow)
}

// GetPersonalInfo fetches the authenticated user's profile. The
// endpoint takes no query parameters; it doubles as the token liveness
// check during authentication.
func (c *Client) GetPersonalInfo(ctx context.Context) (*PersonalInfo, error) {
	var info PersonalInfo
	if err := c.get(ctx, "/usercollection/personal_info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// getCollection resolves the date range and fetches one page of records.
func (c *Client) getCollection(ctx context.Context, path string, r DateRange, lookback time.Duration) (*ListResponse, error) {
	r = r.resolve(lookback, c.now())

	var out ListResponse
	if err := c.get(ctx, path, r.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// get performs a single GET against the API and decodes the JSON body
// into out. Non-2xx responses abort before decoding and surface as
// *APIError.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return classifyStatus(resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
