package tracker

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twoSum = QuestionInfo{QuestionID: "1", Title: "Two Sum", TitleSlug: "two-sum"}

func rec(date string, accepted int64) StatRecord {
	return StatRecord{Date: date, TotalAccepted: accepted, TotalSubmission: accepted * 2, AcRate: 50}
}

func TestUpsertInsertsInDateOrder(t *testing.T) {
	t.Parallel()

	prior := HistoricalData{Records: []StatRecord{rec("2024-01-01", 1), rec("2024-05-01", 5)}}
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	got := Upsert(prior, rec("2024-03-01", 3), twoSum, now)

	assert.Equal(t, []string{"2024-01-01", "2024-03-01", "2024-05-01"}, got.Dates())
	require.NotNil(t, got.LastUpdated)
	assert.True(t, got.LastUpdated.Equal(now))
	require.NotNil(t, got.QuestionInfo)
	assert.Equal(t, twoSum, *got.QuestionInfo)
	assert.Len(t, prior.Records, 2, "prior must not be mutated")
}

func TestUpsertReplacesSameDate(t *testing.T) {
	t.Parallel()

	prior := HistoricalData{Records: []StatRecord{rec("2024-01-01", 1), rec("2024-05-01", 5)}}
	replacement := rec("2024-05-01", 9)

	got := Upsert(prior, replacement, twoSum, time.Now())

	require.Len(t, got.Records, 2)
	if diff := cmp.Diff(replacement, got.Records[1]); diff != "" {
		t.Fatalf("replaced record mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int64(5), prior.Records[1].TotalAccepted)
}

func TestUpsertIntoEmptyStore(t *testing.T) {
	t.Parallel()

	got := Upsert(HistoricalData{}, rec("2024-05-01", 5), twoSum, time.Now())
	assert.Equal(t, []string{"2024-05-01"}, got.Dates())
}

func TestRebuildSortsAndKeepsEveryRecord(t *testing.T) {
	t.Parallel()

	records := []StatRecord{rec("2024-06-01", 6), rec("2024-02-01", 2), rec("2024-02-01", 3), rec("2024-04-01", 4)}
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	got := Rebuild(records, twoSum, now)

	require.Len(t, got.Records, len(records))
	assert.Equal(t, []string{"2024-02-01", "2024-02-01", "2024-04-01", "2024-06-01"}, got.Dates())
	assert.Equal(t, int64(2), got.Records[0].TotalAccepted, "stable order for equal dates")
	assert.Equal(t, int64(3), got.Records[1].TotalAccepted)
	assert.Equal(t, "2024-06-01", records[0].Date, "input must not be reordered")
	require.NotNil(t, got.LastUpdated)
	assert.True(t, got.LastUpdated.Equal(now))
}

func TestRebuildEmpty(t *testing.T) {
	t.Parallel()

	got := Rebuild(nil, twoSum, time.Now())
	assert.NotNil(t, got.Records)
	assert.Empty(t, got.Records)
}
