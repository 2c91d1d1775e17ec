package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// naiveLayouts are the zone-less forms the backend writes for UTC datetimes,
// e.g. "2025-01-01T10:00:00.123000". Fractional seconds are accepted by
// time.Parse without being named in the layout.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp is a backend datetime. It decodes RFC 3339 with or without a
// zone offset (zone-less values are UTC) and null, and encodes the
// zone-less UTC form the backend emits.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	layout := "2006-01-02T15:04:05"
	if t.Nanosecond() != 0 {
		layout = "2006-01-02T15:04:05.000000"
	}
	return json.Marshal(t.UTC().Format(layout))
}

// ParseTimestamp parses s as Timestamp.UnmarshalJSON would. An empty string
// is the zero Timestamp.
func ParseTimestamp(s string) (Timestamp, error) {
	if s == "" {
		return Timestamp{}, nil
	}
	if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{Time: v}, nil
	}
	for _, layout := range naiveLayouts {
		if v, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{Time: v}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("timestamp: cannot parse %q", s)
}
