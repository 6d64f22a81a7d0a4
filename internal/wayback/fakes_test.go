package wayback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/JakeFAU/leetstats/internal/tracker"
)

type fakeFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
	calls  []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{bodies: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeFetcher) Fetch(_ context.Context, req tracker.FetchRequest) (tracker.FetchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req.URL)
	if err, ok := f.errs[req.URL]; ok {
		return tracker.FetchResponse{}, err
	}
	body, ok := f.bodies[req.URL]
	if !ok {
		return tracker.FetchResponse{}, fmt.Errorf("status 404: %w", errors.New("Not Found"))
	}
	return tracker.FetchResponse{URL: req.URL, StatusCode: 200, Body: []byte(body)}, nil
}

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time {
	return c.now
}

type memoryRepo struct {
	saved   []tracker.HistoricalData
	saveErr error
}

func (r *memoryRepo) Load(context.Context) (tracker.HistoricalData, error) {
	panic("full rebuild must not read prior state")
}

func (r *memoryRepo) Save(_ context.Context, data tracker.HistoricalData) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, data)
	return nil
}

type countingPauser struct {
	delays []time.Duration
}

func (p *countingPauser) Pause(_ context.Context, delay time.Duration) {
	p.delays = append(p.delays, delay)
}
