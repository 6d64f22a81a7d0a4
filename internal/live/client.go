// Package live reads current problem statistics from the LeetCode GraphQL
// endpoint and folds them into the record store.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrQuestionMissing reports a response without data.question.
var ErrQuestionMissing = errors.New("question missing from response")

const questionStatsQuery = `
query questionStats($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    questionId
    title
    titleSlug
    stats
  }
}
`

// ClientConfig describes the GraphQL endpoint.
type ClientConfig struct {
	BaseURL   string
	Path      string
	UserAgent string
	Timeout   time.Duration
}

// Client posts the questionStats query.
type Client struct {
	http *resty.Client
	cfg  ClientConfig
}

// Question is the decoded data.question object.
type Question struct {
	QuestionID string        `json:"questionId"`
	Title      string        `json:"title"`
	TitleSlug  string        `json:"titleSlug"`
	Stats      QuestionStats `json:"-"`
}

// QuestionStats is the decoded content of the question's stats string.
type QuestionStats struct {
	TotalAcceptedRaw   int64           `json:"totalAcceptedRaw"`
	TotalSubmissionRaw int64           `json:"totalSubmissionRaw"`
	AcRate             json.RawMessage `json:"acRate"`
}

// AcRateText returns acRate as text, unquoting it when it is a JSON string.
func (s QuestionStats) AcRateText() string {
	var text string
	if err := json.Unmarshal(s.AcRate, &text); err == nil {
		return text
	}
	return strings.TrimSpace(string(s.AcRate))
}

type graphqlRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		Question *struct {
			QuestionID string `json:"questionId"`
			Title      string `json:"title"`
			TitleSlug  string `json:"titleSlug"`
			Stats      string `json:"stats"`
		} `json:"question"`
	} `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

// NewClient builds a Client on a fresh resty client. A nil httpClient uses
// resty's default transport.
func NewClient(cfg ClientConfig, httpClient *http.Client) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Path == "" {
		cfg.Path = "/graphql"
	}
	var rc *resty.Client
	if httpClient != nil {
		rc = resty.NewWithClient(httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(cfg.BaseURL)
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	return &Client{http: rc, cfg: cfg}
}

// Endpoint is the absolute GraphQL URL.
func (c *Client) Endpoint() string {
	return c.cfg.BaseURL + c.cfg.Path
}

// Question fetches the question identified by slug and decodes its stats.
func (c *Client) Question(ctx context.Context, slug string) (Question, error) {
	body := graphqlRequest{
		OperationName: "questionStats",
		Query:         questionStatsQuery,
		Variables:     map[string]any{"titleSlug": slug},
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Referer", fmt.Sprintf("%s/problems/%s/", c.cfg.BaseURL, slug)).
		SetHeader("Origin", c.cfg.BaseURL).
		SetBody(body)
	if c.cfg.UserAgent != "" {
		req.SetHeader("User-Agent", c.cfg.UserAgent)
	}

	res, err := req.Post(c.cfg.Path)
	if err != nil {
		return Question{}, fmt.Errorf("post %s: %w", c.Endpoint(), err)
	}
	if res.StatusCode() != http.StatusOK {
		return Question{}, fmt.Errorf("post %s: status %d", c.Endpoint(), res.StatusCode())
	}
	var out graphqlResponse
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return Question{}, fmt.Errorf("decode response: %w", err)
	}
	if hasErrors(out.Errors) {
		return Question{}, fmt.Errorf("graphql errors: %s", out.Errors)
	}
	q := out.Data.Question
	if q == nil {
		return Question{}, ErrQuestionMissing
	}

	var stats QuestionStats
	if err := json.Unmarshal([]byte(q.Stats), &stats); err != nil {
		return Question{}, fmt.Errorf("decode stats: %w", err)
	}
	return Question{
		QuestionID: q.QuestionID,
		Title:      q.Title,
		TitleSlug:  q.TitleSlug,
		Stats:      stats,
	}, nil
}

func hasErrors(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed != "null" && trimmed != "[]"
}
