// Package store persists the record store document. File is the primary
// backend; GCSMirror optionally publishes a copy of every write.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/JakeFAU/leetstats/internal/tracker"
)

// ContentType is the media type of the encoded store.
const ContentType = "application/json"

// Encode renders the store as two-space indented JSON.
func Encode(data tracker.HistoricalData) ([]byte, error) {
	if data.Records == nil {
		data.Records = []tracker.StatRecord{}
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode store: %w", err)
	}
	return out, nil
}

// Decode parses a store document. Blank input yields an empty store.
func Decode(raw []byte) (tracker.HistoricalData, error) {
	var data tracker.HistoricalData
	if len(bytes.TrimSpace(raw)) == 0 {
		data.Records = []tracker.StatRecord{}
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return tracker.HistoricalData{}, fmt.Errorf("decode store: %w", err)
	}
	if data.Records == nil {
		data.Records = []tracker.StatRecord{}
	}
	return data, nil
}
