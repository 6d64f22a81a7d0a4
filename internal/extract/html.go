package extract

import (
	"encoding/json"
	"regexp"

	"github.com/JakeFAU/leetstats/internal/tracker"
)

// Strategy turns a raw archived page into stats, reporting false on a miss.
type Strategy func(html []byte) (tracker.Stats, bool)

// HTMLStrategies is the ordered fallback chain applied to archived pages.
var HTMLStrategies = []Strategy{DirectFields, EscapedStats}

var (
	acceptedPattern   = regexp.MustCompile(`totalAcceptedRaw\\?["\s:]+(\d+)`)
	submissionPattern = regexp.MustCompile(`totalSubmissionRaw\\?["\s:]+(\d+)`)
	acRatePattern     = regexp.MustCompile(`acRate\\?["\s:]+([0-9.]+)%?`)
	statsPattern      = regexp.MustCompile(`"stats"\s*:\s*"((?:\\.|[^"])*)"`)
)

// FirstMatch applies strategies in order and returns the first hit.
func FirstMatch(html []byte, strategies ...Strategy) (tracker.Stats, bool) {
	for _, strategy := range strategies {
		if stats, ok := strategy(html); ok {
			return stats, true
		}
	}
	return tracker.Stats{}, false
}

// DirectFields scans inline script text for the raw accepted and submission
// counters.
func DirectFields(html []byte) (tracker.Stats, bool) {
	accepted := acceptedPattern.FindSubmatch(html)
	submission := submissionPattern.FindSubmatch(html)
	if accepted == nil || submission == nil {
		return tracker.Stats{}, false
	}
	acceptedN, ok := parseIntPrefix(string(accepted[1]))
	if !ok {
		return tracker.Stats{}, false
	}
	submissionN, ok := parseIntPrefix(string(submission[1]))
	if !ok {
		return tracker.Stats{}, false
	}

	stats := tracker.Stats{
		Accepted:   acceptedN,
		Submission: submissionN,
		Source:     tracker.SourceWaybackHTML,
	}
	if rate := acRatePattern.FindSubmatch(html); rate != nil {
		stats.AcRate = tracker.ParseAcRate(string(rate[1]))
	}
	return stats, true
}

// EscapedStats handles pages that embed the counters as an escaped JSON
// string: "stats":"{\"totalAcceptedRaw\": ...}".
func EscapedStats(html []byte) (tracker.Stats, bool) {
	match := statsPattern.FindSubmatch(html)
	if match == nil {
		return tracker.Stats{}, false
	}

	var inner string
	literal := make([]byte, 0, len(match[1])+2)
	literal = append(literal, '"')
	literal = append(literal, match[1]...)
	literal = append(literal, '"')
	if err := json.Unmarshal(literal, &inner); err != nil {
		return tracker.Stats{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(inner), &fields); err != nil {
		return tracker.Stats{}, false
	}

	acceptedRaw, submissionRaw := fields["totalAcceptedRaw"], fields["totalSubmissionRaw"]
	if !truthy(acceptedRaw) || !truthy(submissionRaw) {
		return tracker.Stats{}, false
	}
	accepted, ok := parseInt(acceptedRaw)
	if !ok {
		return tracker.Stats{}, false
	}
	submission, ok := parseInt(submissionRaw)
	if !ok {
		return tracker.Stats{}, false
	}

	stats := tracker.Stats{
		Accepted:   accepted,
		Submission: submission,
		Source:     tracker.SourceWaybackHTML,
	}
	if raw, present := fields["acRate"]; present && !isNull(raw) {
		stats.AcRate = tracker.ParseAcRate(scalarString(raw))
	}
	return stats, true
}
