package tracker

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Fetcher performs a single HTTP GET and returns the body plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

// Repository loads and persists the store document.
type Repository interface {
	Load(ctx context.Context) (HistoricalData, error)
	Save(ctx context.Context, data HistoricalData) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// FetchRequest captures everything needed to fetch a URL.
type FetchRequest struct {
	URL     string
	Headers http.Header
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// StatusError reports a non-2xx response. Body keeps whatever the server
// sent so callers may still inspect it.
type StatusError struct {
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}
