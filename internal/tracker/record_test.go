package tracker

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAcRate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		accepted   int64
		submission int64
		want       float64
	}{
		{"zero submission", 10, 0, 0},
		{"half", 1, 2, 50},
		{"two decimals", 1, 3, 33.33},
		{"rounds up", 2, 3, 66.67},
		{"all accepted", 7, 7, 100},
		{"none accepted", 0, 9, 0},
		{"large counts", 15_234_567, 29_876_543, 50.99},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tc.want, ComputeAcRate(tc.accepted, tc.submission), 1e-9)
		})
	}
}

func TestComputeAcRateBounds(t *testing.T) {
	t.Parallel()

	for submission := int64(1); submission <= 50; submission++ {
		for accepted := int64(0); accepted <= submission; accepted++ {
			got := ComputeAcRate(accepted, submission)
			require.GreaterOrEqual(t, got, 0.0)
			require.LessOrEqual(t, got, 100.0)
			scaled := got * 100
			require.InDelta(t, math.Round(scaled), scaled, 1e-6, "%d/%d has more than two decimals", accepted, submission)
		}
	}
}

func TestSnapshotDate(t *testing.T) {
	t.Parallel()

	got, err := SnapshotDate("202401151200")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", got)

	got, err = SnapshotDate("20231231")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", got)

	for _, bad := range []string{"", "2024011", "20241345000000", "abcdefgh1234"} {
		_, err := SnapshotDate(bad)
		assert.True(t, errors.Is(err, ErrInvalidSnapshot), "expected ErrInvalidSnapshot for %q", bad)
	}
}

func TestBuildRecord(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 2, 3, 4, 5, 6, 0, time.FixedZone("x", 3600))

	t.Run("computes rate when missing", func(t *testing.T) {
		t.Parallel()
		rec, err := BuildRecord("20240115120000", Stats{Accepted: 1, Submission: 3, Source: SourceWaybackAPI}, now)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-15", rec.Date)
		assert.Equal(t, int64(1), rec.TotalAccepted)
		assert.Equal(t, int64(3), rec.TotalSubmission)
		assert.InDelta(t, 33.33, rec.AcRate, 1e-9)
		assert.Equal(t, SourceWaybackAPI, rec.Source)
		assert.Equal(t, time.UTC, rec.Timestamp.Location())
		assert.True(t, rec.Timestamp.Equal(now))
	})

	t.Run("keeps supplied rate", func(t *testing.T) {
		t.Parallel()
		rate := 49.1
		rec, err := BuildRecord("20240115", Stats{Accepted: 1, Submission: 3, AcRate: &rate, Source: SourceWaybackHTML}, now)
		require.NoError(t, err)
		assert.InDelta(t, 49.1, rec.AcRate, 1e-9)
	})

	t.Run("rejects bad snapshot", func(t *testing.T) {
		t.Parallel()
		_, err := BuildRecord("2024", Stats{}, now)
		assert.ErrorIs(t, err, ErrInvalidSnapshot)
	})
}

func TestParseFloatPrefix(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"49.5", 49.5, true},
		{"49.5%", 49.5, true},
		{" 12", 12, true},
		{"4.9.1", 4.9, true},
		{".5", 0.5, true},
		{"1e2", 100, true},
		{"", 0, false},
		{"%", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range testCases {
		got, ok := ParseFloatPrefix(tc.in)
		assert.Equal(t, tc.wantOK, ok, "input %q", tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, "input %q", tc.in)
	}
}

func TestParseAcRate(t *testing.T) {
	t.Parallel()

	got := ParseAcRate("55.27%")
	require.NotNil(t, got)
	assert.InDelta(t, 55.27, *got, 1e-9)

	assert.Nil(t, ParseAcRate("n/a"))
	assert.Nil(t, ParseAcRate(""))
}
