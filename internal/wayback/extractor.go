package wayback

import (
	"bytes"
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/JakeFAU/leetstats/internal/extract"
	"github.com/JakeFAU/leetstats/internal/metrics"
	"github.com/JakeFAU/leetstats/internal/tracker"
)

// Extractor turns one snapshot into a record using the fallback chain:
// direct HTML fields, escaped stats JSON, then archived API replays.
type Extractor struct {
	client       *Client
	problem      tracker.Problem
	pageURL      string
	apiEndpoints []string
	strategies   []extract.Strategy
	clock        tracker.Clock
	logger       *zap.Logger
}

// ExtractorConfig names the archived resources consulted per snapshot.
type ExtractorConfig struct {
	Problem      tracker.Problem
	PageURL      string
	APIEndpoints []string
}

// NewExtractor builds an Extractor using extract.HTMLStrategies.
func NewExtractor(client *Client, cfg ExtractorConfig, clock tracker.Clock, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		client:       client,
		problem:      cfg.Problem,
		pageURL:      cfg.PageURL,
		apiEndpoints: cfg.APIEndpoints,
		strategies:   extract.HTMLStrategies,
		clock:        clock,
		logger:       logger,
	}
}

// Extract returns the record for snapshotID, or false when no strategy
// produced one. Failures are logged, never returned.
func (e *Extractor) Extract(ctx context.Context, snapshotID string) (tracker.StatRecord, bool) {
	pageURL := e.client.PageURL(snapshotID, e.pageURL)
	log := e.logger.With(zap.String("timestamp", snapshotID), zap.String("url", pageURL))

	body, ok := e.page(ctx, pageURL, log)
	if !ok {
		metrics.ObserveSnapshot(metrics.OutcomeMissed, "")
		return tracker.StatRecord{}, false
	}

	stats, ok := extract.FirstMatch(body, e.strategies...)
	if !ok {
		stats, ok = e.fromArchivedAPI(ctx, snapshotID, log)
	}
	if !ok {
		log.Debug("no match found",
			zap.Bool("accepted_key_found", bytes.Contains(body, []byte("totalAcceptedRaw"))),
			zap.Bool("submission_key_found", bytes.Contains(body, []byte("totalSubmissionRaw"))),
		)
		metrics.ObserveSnapshot(metrics.OutcomeMissed, "")
		return tracker.StatRecord{}, false
	}

	record, err := tracker.BuildRecord(snapshotID, stats, e.clock.Now())
	if err != nil {
		log.Debug("unusable snapshot identifier", zap.Error(err))
		metrics.ObserveSnapshot(metrics.OutcomeMissed, stats.Source)
		return tracker.StatRecord{}, false
	}
	metrics.ObserveSnapshot(metrics.OutcomeExtracted, record.Source)
	return record, true
}

// Problem reports the problem whose statistics are extracted.
func (e *Extractor) Problem() tracker.Problem {
	return e.problem
}

// page fetches the archived page. An error status still yields the body so
// the strategies and API replays run; only transport failures skip the
// snapshot.
func (e *Extractor) page(ctx context.Context, pageURL string, log *zap.Logger) ([]byte, bool) {
	resp, err := e.client.Get(ctx, pageURL)
	if err == nil {
		return resp.Body, true
	}
	var statusErr *tracker.StatusError
	if errors.As(err, &statusErr) {
		log.Debug("archived page returned error status", zap.Int("status", statusErr.StatusCode))
		return statusErr.Body, true
	}
	log.Debug("error fetching archived page", zap.Error(err))
	return nil, false
}

func (e *Extractor) fromArchivedAPI(ctx context.Context, snapshotID string, log *zap.Logger) (tracker.Stats, bool) {
	for _, endpoint := range e.apiEndpoints {
		apiURL := e.client.RawURL(snapshotID, endpoint)
		resp, err := e.client.Get(ctx, apiURL)
		if err != nil {
			log.Debug("error fetching archived api", zap.String("api_url", apiURL), zap.Error(err))
			continue
		}
		if stats, ok := extract.ArchivedAPI(resp.Body, e.problem); ok {
			return stats, true
		}
	}
	return tracker.Stats{}, false
}
