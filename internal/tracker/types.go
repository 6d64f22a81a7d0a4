// Package tracker defines the record model shared by the archive harvester
// and the live fetcher, plus the pure merge helpers that maintain the store.
package tracker

import "time"

// Source tags identify which extraction path produced a record.
const (
	SourceWaybackHTML = "wayback-html"
	SourceWaybackAPI  = "wayback-api"
)

// StatRecord is one observation of a problem's statistics.
type StatRecord struct {
	Date            string    `json:"date"`
	TotalAccepted   int64     `json:"totalAccepted"`
	TotalSubmission int64     `json:"totalSubmission"`
	AcRate          float64   `json:"acRate"`
	Timestamp       time.Time `json:"timestamp"`
	Source          string    `json:"source,omitempty"`
}

// QuestionInfo is the static identity of the tracked problem.
type QuestionInfo struct {
	QuestionID string `json:"questionId"`
	Title      string `json:"title"`
	TitleSlug  string `json:"titleSlug"`
}

// HistoricalData is the full content of the persisted store.
type HistoricalData struct {
	QuestionInfo *QuestionInfo `json:"questionInfo"`
	LastUpdated  *time.Time    `json:"lastUpdated"`
	Records      []StatRecord  `json:"records"`
}

// Stats is the normalized tuple produced by an extraction strategy.
// AcRate is nil when the source did not carry a usable rate.
type Stats struct {
	Accepted   int64
	Submission int64
	AcRate     *float64
	Source     string
}

// Problem identifies the tracked problem when matching archived datasets.
type Problem struct {
	ID    string `mapstructure:"id"`
	Title string `mapstructure:"title"`
	Slug  string `mapstructure:"slug"`
}

// QuestionInfo converts the problem identity into store metadata.
func (p Problem) QuestionInfo() QuestionInfo {
	return QuestionInfo{
		QuestionID: p.ID,
		Title:      p.Title,
		TitleSlug:  p.Slug,
	}
}
