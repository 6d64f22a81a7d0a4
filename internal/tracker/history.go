package tracker

import (
	"slices"
	"strings"
	"time"
)

// Rebuild constructs a fresh store from the records of one harvest run.
func Rebuild(records []StatRecord, info QuestionInfo, now time.Time) HistoricalData {
	out := make([]StatRecord, len(records))
	copy(out, records)
	sortByDate(out)
	updated := now.UTC()
	return HistoricalData{
		QuestionInfo: &info,
		LastUpdated:  &updated,
		Records:      out,
	}
}

// Upsert replaces the record sharing record.Date or appends it, then re-sorts
// and refreshes the metadata. prior is left untouched.
func Upsert(prior HistoricalData, record StatRecord, info QuestionInfo, now time.Time) HistoricalData {
	out := make([]StatRecord, 0, len(prior.Records)+1)
	out = append(out, prior.Records...)

	idx := slices.IndexFunc(out, func(r StatRecord) bool { return r.Date == record.Date })
	if idx >= 0 {
		out[idx] = record
	} else {
		out = append(out, record)
	}
	sortByDate(out)

	updated := now.UTC()
	return HistoricalData{
		QuestionInfo: &info,
		LastUpdated:  &updated,
		Records:      out,
	}
}

// Dates lists record dates in store order.
func (h HistoricalData) Dates() []string {
	dates := make([]string, 0, len(h.Records))
	for _, r := range h.Records {
		dates = append(dates, r.Date)
	}
	return dates
}

func sortByDate(records []StatRecord) {
	slices.SortStableFunc(records, func(a, b StatRecord) int {
		return strings.Compare(a.Date, b.Date)
	})
}
