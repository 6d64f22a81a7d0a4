// Package wayback harvests historical problem statistics from the Wayback
// Machine: it enumerates captures of the problem page through the CDX index,
// replays each capture, and runs the extraction fallback chain on it.
package wayback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JakeFAU/leetstats/internal/tracker"
)

const monthLayout = "200601"

// Window is an inclusive YYYYMM range for the CDX query.
type Window struct {
	From string
	To   string
}

// NewWindow spans from the month lookback months before now through now's
// month.
func NewWindow(now time.Time, lookbackMonths int) Window {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{
		From: first.AddDate(0, -lookbackMonths, 0).Format(monthLayout),
		To:   first.Format(monthLayout),
	}
}

// ClientConfig describes the archive endpoints.
type ClientConfig struct {
	BaseURL   string
	TargetURL string
	UserAgent string
}

// Client talks to the CDX index and the playback service.
type Client struct {
	fetcher tracker.Fetcher
	cfg     ClientConfig
}

// NewClient wraps a fetcher with archive URL construction.
func NewClient(fetcher tracker.Fetcher, cfg ClientConfig) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{fetcher: fetcher, cfg: cfg}
}

// IndexURL builds the CDX query for captures of the target with status 200.
func (c *Client) IndexURL(window Window) string {
	q := url.Values{}
	q.Set("url", c.cfg.TargetURL)
	q.Set("output", "json")
	q.Set("from", window.From)
	q.Set("to", window.To)
	q.Set("filter", "statuscode:200")
	return c.cfg.BaseURL + "/cdx/search/cdx?" + q.Encode()
}

// PageURL is the playback URL of an archived page.
func (c *Client) PageURL(snapshotID, target string) string {
	return fmt.Sprintf("%s/web/%s/%s", c.cfg.BaseURL, snapshotID, target)
}

// RawURL is the playback URL serving the original bytes without archive
// rewriting ("id_" mode), used for API replays.
func (c *Client) RawURL(snapshotID, target string) string {
	return fmt.Sprintf("%s/web/%sid_/%s", c.cfg.BaseURL, snapshotID, target)
}

// Snapshots lists capture timestamps in index order. Row 0 of the CDX
// response is a header and is skipped.
func (c *Client) Snapshots(ctx context.Context, window Window) ([]string, error) {
	indexURL := c.IndexURL(window)
	resp, err := c.Get(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("query archive index: %w", err)
	}
	ids, err := parseIndex(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse archive index %s: %w", indexURL, err)
	}
	return ids, nil
}

// Get fetches rawURL with the configured user agent.
func (c *Client) Get(ctx context.Context, rawURL string) (tracker.FetchResponse, error) {
	headers := http.Header{}
	if c.cfg.UserAgent != "" {
		headers.Set("User-Agent", c.cfg.UserAgent)
	}
	return c.fetcher.Fetch(ctx, tracker.FetchRequest{URL: rawURL, Headers: headers})
}

func parseIndex(body []byte) ([]string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []string{}, nil
	}
	var rows [][]string
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return []string{}, nil
	}
	ids := make([]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 2 {
			return nil, fmt.Errorf("row %d has %d columns", i+1, len(row))
		}
		ids = append(ids, row[1])
	}
	return ids, nil
}
