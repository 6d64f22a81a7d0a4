package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/JakeFAU/leetstats/internal/tracker"
)

// Writer accepts full store writes.
type Writer interface {
	Save(ctx context.Context, data tracker.HistoricalData) error
}

// Mirrored reads from a primary repository and fans writes out to replicas.
type Mirrored struct {
	primary  tracker.Repository
	replicas []Writer
}

// NewMirrored wraps primary; nil replicas are skipped.
func NewMirrored(primary tracker.Repository, replicas ...Writer) *Mirrored {
	kept := make([]Writer, 0, len(replicas))
	for _, r := range replicas {
		if r != nil {
			kept = append(kept, r)
		}
	}
	return &Mirrored{primary: primary, replicas: kept}
}

// Load reads the primary.
func (m *Mirrored) Load(ctx context.Context) (tracker.HistoricalData, error) {
	return m.primary.Load(ctx)
}

// Save writes the primary first; replica failures are joined and returned
// after every replica has been attempted.
func (m *Mirrored) Save(ctx context.Context, data tracker.HistoricalData) error {
	if err := m.primary.Save(ctx, data); err != nil {
		return err
	}
	var errs []error
	for i, r := range m.replicas {
		if err := r.Save(ctx, data); err != nil {
			errs = append(errs, fmt.Errorf("replica %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
