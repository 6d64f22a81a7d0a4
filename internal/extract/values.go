package extract

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var intPrefix = regexp.MustCompile(`^\s*[-+]?\d+`)

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// scalarString renders a JSON scalar the way it would be compared as text:
// strings are unquoted, numbers and booleans keep their literal form.
func scalarString(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(bytes.TrimSpace(raw))
}

// truthy reports whether raw is present and not null, false, 0, or "".
func truthy(raw json.RawMessage) bool {
	if isNull(raw) {
		return false
	}
	switch trimmed := string(bytes.TrimSpace(raw)); trimmed {
	case "false", `""`:
		return false
	default:
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			return n != 0
		}
		return true
	}
}

// parseInt reads an integer from a JSON number or from the leading digits of
// a JSON string.
func parseInt(raw json.RawMessage) (int64, bool) {
	if isNull(raw) {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		f, err := n.Float64()
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return int64(math.Trunc(f)), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	return parseIntPrefix(s)
}

func parseIntPrefix(s string) (int64, bool) {
	match := intPrefix.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(match), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
