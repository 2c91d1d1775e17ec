package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"naive with micros", `"2025-01-01T10:00:00.123000"`, time.Date(2025, 1, 1, 10, 0, 0, 123000000, time.UTC)},
		{"naive seconds", `"2025-01-01T10:00:00"`, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"naive space separated", `"2025-01-01 10:00:00"`, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"rfc3339 utc", `"2025-01-01T10:00:00Z"`, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"rfc3339 offset", `"2025-01-01T12:00:00+02:00"`, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"null", `null`, time.Time{}},
		{"empty", `""`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}

	var ts Timestamp
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	require.Error(t, json.Unmarshal([]byte(`12`), &ts))
}

func TestTimestamp_MarshalJSONIsZoneless(t *testing.T) {
	b, err := json.Marshal(Timestamp{Time: time.Date(2025, 1, 1, 12, 0, 0, 123000000, time.FixedZone("x", 2*3600))})
	require.NoError(t, err)
	assert.JSONEq(t, `"2025-01-01T10:00:00.123000"`, string(b))

	b, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestUser_DecodesNaiveCreatedAt(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","name":"A","email":"a@b.com","created_at":"2025-01-01T10:00:00.123000"}`), &u))
	assert.True(t, time.Date(2025, 1, 1, 10, 0, 0, 123000000, time.UTC).Equal(u.CreatedAt.Time))

	var p Project
	require.NoError(t, json.Unmarshal([]byte(`{"id":"7","project_name":"x","created_at":"2025-01-01T10:00:00"}`), &p))
	assert.Equal(t, 2025, p.CreatedAt.Year())

	var d Documentation
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"project_name":"x","created_at":null}`), &d))
	assert.True(t, d.CreatedAt.IsZero())
}
