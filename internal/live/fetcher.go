package live

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/leetstats/internal/metrics"
	"github.com/JakeFAU/leetstats/internal/tracker"
)

// Fetcher appends or replaces today's record from the live endpoint.
type Fetcher struct {
	client *Client
	repo   tracker.Repository
	clock  tracker.Clock
	slug   string
	logger *zap.Logger
}

// NewFetcher wires the live pipeline for the problem identified by slug.
func NewFetcher(client *Client, repo tracker.Repository, clock tracker.Clock, slug string, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: client, repo: repo, clock: clock, slug: slug, logger: logger}
}

// Run performs one fetch-build-upsert-save cycle. Any failure aborts the run
// and leaves the store untouched.
func (f *Fetcher) Run(ctx context.Context) (tracker.HistoricalData, error) {
	f.logger.Info("fetching live stats", zap.String("slug", f.slug), zap.String("endpoint", f.client.Endpoint()))

	question, err := f.client.Question(ctx, f.slug)
	if err != nil {
		metrics.ObserveLiveFetch("error")
		return tracker.HistoricalData{}, fmt.Errorf("fetch question %s: %w", f.slug, err)
	}
	metrics.ObserveLiveFetch("ok")

	record, err := buildRecord(question.Stats, f.clock.Now())
	if err != nil {
		return tracker.HistoricalData{}, err
	}
	f.logger.Debug("raw stats",
		zap.Int64("total_accepted_raw", question.Stats.TotalAcceptedRaw),
		zap.Int64("total_submission_raw", question.Stats.TotalSubmissionRaw),
		zap.String("ac_rate", question.Stats.AcRateText()),
	)

	prior, err := f.repo.Load(ctx)
	if err != nil {
		return tracker.HistoricalData{}, fmt.Errorf("load store: %w", err)
	}
	if containsDate(prior, record.Date) {
		f.logger.Info("updating existing record", zap.String("date", record.Date))
	} else {
		f.logger.Info("adding new record", zap.String("date", record.Date))
	}

	info := tracker.QuestionInfo{
		QuestionID: question.QuestionID,
		Title:      question.Title,
		TitleSlug:  question.TitleSlug,
	}
	data := tracker.Upsert(prior, record, info, f.clock.Now())
	if err := f.repo.Save(ctx, data); err != nil {
		return tracker.HistoricalData{}, fmt.Errorf("save store: %w", err)
	}
	metrics.ObserveStoreWrite("fetch", len(data.Records), *data.LastUpdated)

	f.logger.Info("stats updated",
		zap.String("date", record.Date),
		zap.Int64("total_accepted", record.TotalAccepted),
		zap.Int64("total_submission", record.TotalSubmission),
		zap.String("ac_rate", question.Stats.AcRateText()),
		zap.Int("total_records", len(data.Records)),
	)
	return data, nil
}

// buildRecord dates the record by now's calendar day in now's location.
func buildRecord(stats QuestionStats, now time.Time) (tracker.StatRecord, error) {
	raw := stats.AcRateText()
	rate, ok := tracker.ParseFloatPrefix(raw)
	if !ok {
		return tracker.StatRecord{}, fmt.Errorf("parse acRate %q: not a number", raw)
	}
	return tracker.StatRecord{
		Date:            now.Format(tracker.DateLayout),
		TotalAccepted:   stats.TotalAcceptedRaw,
		TotalSubmission: stats.TotalSubmissionRaw,
		AcRate:          rate,
		Timestamp:       now.UTC(),
	}, nil
}

func containsDate(data tracker.HistoricalData, date string) bool {
	return slices.Contains(data.Dates(), date)
}
