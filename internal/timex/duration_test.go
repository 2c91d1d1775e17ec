package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"3s"`), &d))
	assert.Equal(t, 3*time.Second, d.Duration)

	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, time.Second, d.Duration)

	err := json.Unmarshal([]byte(`"soon"`), &d)
	require.ErrorIs(t, err, ErrInvalidDuration)

	err = json.Unmarshal([]byte(`true`), &d)
	require.ErrorIs(t, err, ErrInvalidDuration)
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	var cfg struct {
		Timeout Duration `yaml:"timeout"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("timeout: 1m30s\n"), &cfg))
	assert.Equal(t, 90*time.Second, cfg.Timeout.Duration)

	require.NoError(t, yaml.Unmarshal([]byte("timeout: 500\n"), &cfg))
	assert.Equal(t, 500*time.Nanosecond, cfg.Timeout.Duration)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 2 * time.Minute})
	require.NoError(t, err)
	assert.Equal(t, `"2m0s"`, string(b))
}
