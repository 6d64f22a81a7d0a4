package wayback

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/leetstats/internal/metrics"
	"github.com/JakeFAU/leetstats/internal/tracker"
)

// DefaultDelay is the pause between snapshots.
const DefaultDelay = 2 * time.Second

// summaryCount is how many records from each end are logged after a run.
const summaryCount = 3

// HarvesterConfig tunes the harvest loop.
type HarvesterConfig struct {
	LookbackMonths int
	// Delay is applied after every snapshot, hit or miss. Zero disables it.
	Delay time.Duration
}

// HarvestResult summarizes one run.
type HarvestResult struct {
	Snapshots int
	Data      tracker.HistoricalData
}

// Harvester rebuilds the store from archived snapshots, one at a time.
type Harvester struct {
	client    *Client
	extractor *Extractor
	repo      tracker.Repository
	clock     tracker.Clock
	pauser    pauser
	cfg       HarvesterConfig
	logger    *zap.Logger
}

// NewHarvester wires the harvest pipeline.
func NewHarvester(
	client *Client,
	extractor *Extractor,
	repo tracker.Repository,
	clock tracker.Clock,
	cfg HarvesterConfig,
	logger *zap.Logger,
) *Harvester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harvester{
		client:    client,
		extractor: extractor,
		repo:      repo,
		clock:     clock,
		pauser:    timerPauser{},
		cfg:       cfg,
		logger:    logger,
	}
}

// Run enumerates snapshots, extracts each sequentially, and overwrites the
// store with the records collected in this run. Enumeration and save
// failures abort; per-snapshot failures do not.
func (h *Harvester) Run(ctx context.Context) (HarvestResult, error) {
	window := NewWindow(h.clock.Now(), h.cfg.LookbackMonths)
	h.logger.Info("fetching archive timestamps", zap.String("from", window.From), zap.String("to", window.To))

	snapshots, err := h.client.Snapshots(ctx, window)
	if err != nil {
		return HarvestResult{}, err
	}
	h.logger.Info("found archives", zap.Int("count", len(snapshots)))

	records := make([]tracker.StatRecord, 0, len(snapshots))
	for i, id := range snapshots {
		if err := ctx.Err(); err != nil {
			return HarvestResult{}, fmt.Errorf("harvest interrupted: %w", err)
		}
		log := h.logger.With(zap.Int("index", i+1), zap.Int("total", len(snapshots)), zap.String("snapshot", id))

		if record, ok := h.extractor.Extract(ctx, id); ok {
			records = append(records, record)
			log.Info("snapshot extracted",
				zap.String("date", record.Date),
				zap.Int64("total_accepted", record.TotalAccepted),
				zap.String("source", record.Source),
			)
		} else {
			log.Info("snapshot has no data")
		}

		h.pauser.Pause(ctx, h.cfg.Delay)
	}
	h.logger.Info("collected records", zap.Int("count", len(records)))

	data := tracker.Rebuild(records, h.extractor.Problem().QuestionInfo(), h.clock.Now())
	if err := h.repo.Save(ctx, data); err != nil {
		return HarvestResult{}, fmt.Errorf("save store: %w", err)
	}
	metrics.ObserveStoreWrite("harvest", len(data.Records), *data.LastUpdated)
	h.logSummary(data.Records)

	return HarvestResult{Snapshots: len(snapshots), Data: data}, nil
}

func (h *Harvester) logSummary(records []tracker.StatRecord) {
	h.logger.Info("saved records", zap.Int("count", len(records)))
	head := records[:min(summaryCount, len(records))]
	tail := records[max(0, len(records)-summaryCount):]
	for _, r := range head {
		h.logger.Info("first", zap.String("date", r.Date), zap.Int64("total_accepted", r.TotalAccepted))
	}
	for _, r := range tail {
		h.logger.Info("last", zap.String("date", r.Date), zap.Int64("total_accepted", r.TotalAccepted))
	}
}
