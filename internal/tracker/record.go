package tracker

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSnapshot is returned when a snapshot identifier does not start
// with a YYYYMMDD date.
var ErrInvalidSnapshot = errors.New("invalid snapshot identifier")

// DateLayout is the layout of StatRecord.Date.
const DateLayout = "2006-01-02"

var floatPrefix = regexp.MustCompile(`^\s*[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

// ComputeAcRate returns accepted/submission as a percentage rounded to two
// decimals. A zero submission count yields 0.
func ComputeAcRate(accepted, submission int64) float64 {
	if submission == 0 {
		return 0
	}
	return math.Round(float64(accepted)/float64(submission)*10000) / 100
}

// SnapshotDate maps a snapshot identifier such as "202401151200" to
// "2024-01-15".
func SnapshotDate(snapshotID string) (string, error) {
	if len(snapshotID) < 8 {
		return "", fmt.Errorf("%w: %q", ErrInvalidSnapshot, snapshotID)
	}
	day, err := time.Parse("20060102", snapshotID[:8])
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidSnapshot, snapshotID)
	}
	return day.Format(DateLayout), nil
}

// BuildRecord converts extracted stats into a StatRecord dated by the
// snapshot it came from.
func BuildRecord(snapshotID string, stats Stats, now time.Time) (StatRecord, error) {
	date, err := SnapshotDate(snapshotID)
	if err != nil {
		return StatRecord{}, err
	}
	rate := ComputeAcRate(stats.Accepted, stats.Submission)
	if stats.AcRate != nil {
		rate = *stats.AcRate
	}
	return StatRecord{
		Date:            date,
		TotalAccepted:   stats.Accepted,
		TotalSubmission: stats.Submission,
		AcRate:          rate,
		Timestamp:       now.UTC(),
		Source:          stats.Source,
	}, nil
}

// ParseFloatPrefix parses the leading decimal number of s and ignores any
// trailing text, so "49.5%" yields 49.5.
func ParseFloatPrefix(s string) (float64, bool) {
	match := floatPrefix.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(match), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ParseAcRate strips a percent sign and parses the remaining number.
func ParseAcRate(raw string) *float64 {
	v, ok := ParseFloatPrefix(strings.Replace(raw, "%", "", 1))
	if !ok {
		return nil
	}
	return &v
}
