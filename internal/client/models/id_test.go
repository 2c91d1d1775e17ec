package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
	}{
		{"integer", `42`, "42"},
		{"string", `"65f1c0"`, "65f1c0"},
		{"null", `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id ID
	require.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

func TestUser_DecodesNumericAndStringIDs(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"A","email":"a@b.com"}`), &u))
	assert.Equal(t, User{ID: "1", Name: "A", Email: "a@b.com"}, u)
}

func TestHealth_DecodesBackendShape(t *testing.T) {
	var h Health
	require.NoError(t, json.Unmarshal([]byte(`{"score":45,"grade":"D","issues":["no tests"]}`), &h))
	assert.Equal(t, Health{Score: 45, Grade: "D", Issues: []string{"no tests"}}, h)
}
