package extract

import (
	"encoding/json"

	"github.com/JakeFAU/leetstats/internal/tracker"
)

var (
	acceptedKeys   = []string{"total_acs", "totalAccepted", "totalAcceptedRaw", "total_accepted"}
	submissionKeys = []string{"total_submitted", "totalSubmission", "totalSubmissionRaw", "total_submission"}
)

type problemList struct {
	StatStatusPairs json.RawMessage `json:"stat_status_pairs"`
	CamelPairs      json.RawMessage `json:"statStatusPairs"`
}

type statusPair struct {
	Stat map[string]json.RawMessage `json:"stat"`
}

// ArchivedAPI parses an archived problem-list response and returns the
// counters of the entry matching problem.
func ArchivedAPI(body []byte, problem tracker.Problem) (tracker.Stats, bool) {
	var list problemList
	if err := json.Unmarshal(body, &list); err != nil {
		return tracker.Stats{}, false
	}
	raw := list.StatStatusPairs
	if isNull(raw) {
		raw = list.CamelPairs
	}
	var pairs []statusPair
	if isNull(raw) || json.Unmarshal(raw, &pairs) != nil {
		return tracker.Stats{}, false
	}

	for _, pair := range pairs {
		if pair.Stat == nil || !matches(pair.Stat, problem) {
			continue
		}
		accepted, ok := parseInt(firstPresent(pair.Stat, acceptedKeys))
		if !ok {
			return tracker.Stats{}, false
		}
		submission, ok := parseInt(firstPresent(pair.Stat, submissionKeys))
		if !ok {
			return tracker.Stats{}, false
		}
		return tracker.Stats{
			Accepted:   accepted,
			Submission: submission,
			Source:     tracker.SourceWaybackAPI,
		}, true
	}
	return tracker.Stats{}, false
}

func matches(stat map[string]json.RawMessage, problem tracker.Problem) bool {
	if problem.Slug != "" && scalarString(stat["question__title_slug"]) == problem.Slug {
		return true
	}
	if problem.Title != "" && scalarString(stat["question__title"]) == problem.Title {
		return true
	}
	if problem.ID == "" {
		return false
	}
	return scalarString(stat["question_id"]) == problem.ID ||
		scalarString(stat["frontend_question_id"]) == problem.ID
}

// firstPresent returns the first key whose value is neither missing nor null.
func firstPresent(stat map[string]json.RawMessage, keys []string) json.RawMessage {
	for _, key := range keys {
		if raw, ok := stat[key]; ok && !isNull(raw) {
			return raw
		}
	}
	return nil
}
