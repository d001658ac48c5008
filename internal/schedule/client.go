// Package schedule fetches, normalizes and caches a club's NHL season
// schedule and answers "what is next" questions about it.
package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const requestTimeout = 10 * time.Second

// Fetcher retrieves raw schedule records for a team and season.
type Fetcher interface {
	Fetch(ctx context.Context, team, season string) ([]RawGame, error)
}

// Client talks to the NHL web API, optionally through a pass-through proxy
// that takes the escaped target URL as a suffix.
type Client struct {
	baseURL    string
	proxy      string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a Client. A nil logger discards output.
func NewClient(baseURL, proxy string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		proxy:      proxy,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

// URL returns the request URL for a team and season code.
func (c *Client) URL(team, season string) string {
	target := fmt.Sprintf("%s/club-schedule-season/%s/%s", c.baseURL, url.PathEscape(team), url.PathEscape(season))
	if c.proxy == "" {
		return target
	}
	return c.proxy + url.QueryEscape(target)
}

// Fetch implements Fetcher.
func (c *Client) Fetch(ctx context.Context, team, season string) ([]RawGame, error) {
	u := c.URL(team, season)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("schedule: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("schedule: fetch: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug("schedule response",
		zap.String("url", u),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512)) //nolint:mnd // error excerpt
		return nil, fmt.Errorf("schedule: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Games []RawGame `json:"games"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("schedule: decode: %w", err)
	}
	return payload.Games, nil
}

// SeasonCode returns the NHL season code for now, e.g. "20252026". Seasons
// roll over in July.
func SeasonCode(now time.Time) string {
	start := now.Year()
	if now.Month() < time.July {
		start--
	}
	return strconv.Itoa(start) + strconv.Itoa(start+1)
}
