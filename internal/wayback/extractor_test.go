package wayback

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	collyfetcher "github.com/JakeFAU/leetstats/internal/fetcher/colly"
	"github.com/JakeFAU/leetstats/internal/tracker"
)

const (
	testBase   = "https://archive.test"
	testPage   = "https://leetcode.com/problems/two-sum/"
	testAlgos  = "https://leetcode.com/api/problems/algorithms/"
	testAll    = "https://leetcode.com/api/problems/all/"
	snapshotID = "20240115120000"
)

var twoSum = tracker.Problem{ID: "1", Title: "Two Sum", Slug: "two-sum"}

func newTestExtractor(fetcher *fakeFetcher) (*Extractor, *Client) {
	client := NewClient(fetcher, ClientConfig{BaseURL: testBase, TargetURL: "leetcode.com/problems/two-sum"})
	extractor := NewExtractor(client, ExtractorConfig{
		Problem:      twoSum,
		PageURL:      testPage,
		APIEndpoints: []string{testAlgos, testAll},
	}, fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}, zap.NewNop())
	return extractor, client
}

func TestExtractDirectHTML(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	extractor, client := newTestExtractor(fetcher)
	fetcher.bodies[client.PageURL(snapshotID, testPage)] = `<script>{"totalAcceptedRaw": 4000, "totalSubmissionRaw": 8000}</script>`

	record, ok := extractor.Extract(context.Background(), snapshotID)
	require.True(t, ok)
	assert.Equal(t, "2024-01-15", record.Date)
	assert.Equal(t, int64(4000), record.TotalAccepted)
	assert.Equal(t, int64(8000), record.TotalSubmission)
	assert.InDelta(t, 50.0, record.AcRate, 1e-9)
	assert.Equal(t, tracker.SourceWaybackHTML, record.Source)
	assert.Len(t, fetcher.calls, 1, "api replays must not be fetched after an html hit")
}

func TestExtractEscapedStatsFallback(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	extractor, client := newTestExtractor(fetcher)
	fetcher.bodies[client.PageURL(snapshotID, testPage)] = `{"stats":"{\"totalAcceptedRaw\": \"30\", \"totalSubmissionRaw\": \"40\", \"acRate\": \"75.0%\"}"}`

	record, ok := extractor.Extract(context.Background(), snapshotID)
	require.True(t, ok)
	assert.Equal(t, int64(30), record.TotalAccepted)
	assert.Equal(t, int64(40), record.TotalSubmission)
	assert.InDelta(t, 75.0, record.AcRate, 1e-9)
	assert.Equal(t, tracker.SourceWaybackHTML, record.Source)
}

func TestExtractArchivedAPIFallback(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	extractor, client := newTestExtractor(fetcher)
	fetcher.bodies[client.PageURL(snapshotID, testPage)] = `<html>client-rendered shell</html>`
	fetcher.errs[client.RawURL(snapshotID, testAlgos)] = errors.New("connection reset")
	fetcher.bodies[client.RawURL(snapshotID, testAll)] = `{"stat_status_pairs":[{"stat":{"question_id":1,"question__title_slug":"two-sum","total_acs":2,"total_submitted":3}}]}`

	record, ok := extractor.Extract(context.Background(), snapshotID)
	require.True(t, ok)
	assert.Equal(t, tracker.SourceWaybackAPI, record.Source)
	assert.Equal(t, int64(2), record.TotalAccepted)
	assert.Equal(t, int64(3), record.TotalSubmission)
	assert.InDelta(t, 66.67, record.AcRate, 1e-9)
	assert.Equal(t, []string{
		client.PageURL(snapshotID, testPage),
		client.RawURL(snapshotID, testAlgos),
		client.RawURL(snapshotID, testAll),
	}, fetcher.calls)
}

func TestExtractFirstAPIEndpointWins(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	extractor, client := newTestExtractor(fetcher)
	fetcher.bodies[client.PageURL(snapshotID, testPage)] = `<html></html>`
	fetcher.bodies[client.RawURL(snapshotID, testAlgos)] = `{"stat_status_pairs":[{"stat":{"question__title":"Two Sum","total_acs":5,"total_submitted":10}}]}`
	fetcher.bodies[client.RawURL(snapshotID, testAll)] = `{"stat_status_pairs":[{"stat":{"question__title":"Two Sum","total_acs":6,"total_submitted":10}}]}`

	record, ok := extractor.Extract(context.Background(), snapshotID)
	require.True(t, ok)
	assert.Equal(t, int64(5), record.TotalAccepted)
	assert.Len(t, fetcher.calls, 2)
}

func TestExtractNoStrategySucceeds(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	extractor, client := newTestExtractor(fetcher)
	fetcher.bodies[client.PageURL(snapshotID, testPage)] = `<html>nothing</html>`
	fetcher.bodies[client.RawURL(snapshotID, testAlgos)] = `{"stat_status_pairs":[]}`

	_, ok := extractor.Extract(context.Background(), snapshotID)
	assert.False(t, ok)
	assert.Len(t, fetcher.calls, 3)
}

func TestExtractPageFetchFailure(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	extractor, _ := newTestExtractor(fetcher)

	_, ok := extractor.Extract(context.Background(), snapshotID)
	assert.False(t, ok)
	assert.Len(t, fetcher.calls, 1, "a failed page fetch skips the api replays")
}

func TestExtractBadSnapshotID(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	extractor, client := newTestExtractor(fetcher)
	fetcher.bodies[client.PageURL("2024", testPage)] = `"totalAcceptedRaw": 1, "totalSubmissionRaw": 2`

	_, ok := extractor.Extract(context.Background(), "2024")
	assert.False(t, ok)
}

func TestExtractErrorStatusPageFallsBackToAPI(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	extractor, client := newTestExtractor(fetcher)
	fetcher.errs[client.PageURL(snapshotID, testPage)] = &tracker.StatusError{
		StatusCode: http.StatusServiceUnavailable,
		Body:       []byte(`<html>temporarily unavailable</html>`),
	}
	fetcher.bodies[client.RawURL(snapshotID, testAlgos)] = `{"stat_status_pairs":[{"stat":{"question__title_slug":"two-sum","total_acs":200,"total_submitted":500}}]}`

	record, ok := extractor.Extract(context.Background(), snapshotID)
	require.True(t, ok)
	assert.Equal(t, tracker.SourceWaybackAPI, record.Source)
	assert.Equal(t, int64(200), record.TotalAccepted)
	assert.Equal(t, int64(500), record.TotalSubmission)
}

func TestExtractErrorStatusPageBodyIsScanned(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	extractor, client := newTestExtractor(fetcher)
	fetcher.errs[client.PageURL(snapshotID, testPage)] = &tracker.StatusError{
		StatusCode: http.StatusNotFound,
		Body:       []byte(`"totalAcceptedRaw": 7, "totalSubmissionRaw": 14`),
	}

	record, ok := extractor.Extract(context.Background(), snapshotID)
	require.True(t, ok)
	assert.Equal(t, tracker.SourceWaybackHTML, record.Source)
	assert.Equal(t, int64(7), record.TotalAccepted)
	assert.Len(t, fetcher.calls, 1)
}

func TestExtractUnavailablePageWithCollyFetcher(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/web/"+snapshotID+"/"):
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`<html>busy</html>`))
		case strings.HasPrefix(r.URL.Path, "/web/"+snapshotID+"id_/") && strings.HasSuffix(r.URL.Path, "/api/problems/all/"):
			_, _ = w.Write([]byte(`{"stat_status_pairs":[{"stat":{"question__title_slug":"two-sum","total_acs":200,"total_submitted":500}}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(collyfetcher.New(collyfetcher.Config{Timeout: 5 * time.Second}), ClientConfig{BaseURL: srv.URL})
	extractor := NewExtractor(client, ExtractorConfig{
		Problem:      twoSum,
		PageURL:      testPage,
		APIEndpoints: []string{testAlgos, testAll},
	}, fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}, zap.NewNop())

	record, ok := extractor.Extract(context.Background(), snapshotID)
	require.True(t, ok)
	assert.Equal(t, tracker.SourceWaybackAPI, record.Source)
	assert.Equal(t, int64(200), record.TotalAccepted)
	assert.Equal(t, int64(500), record.TotalSubmission)
	assert.InDelta(t, 40.0, record.AcRate, 1e-9)
}
