package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_Valid(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: minimal
description: one step
flow:
  - op: place_order
    args: {}
    expect: NOT_LOGGED_IN
assertions:
  - type: order_count
    count: 0
`))
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Flow, 1)
	assert.Equal(t, "NOT_LOGGED_IN", s.Flow[0].Expect)
	assert.Empty(t, s.Setup)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nflow: [{op: logout, args: {}}]\nassertions: [{type: order_count}]",
			wantErr: "name is required",
		},
		{
			name:    "empty flow",
			yaml:    "name: n\ndescription: d\nflow: []\nassertions: [{type: order_count}]",
			wantErr: "flow list is required",
		},
		{
			name:    "unknown op",
			yaml:    "name: n\ndescription: d\nflow: [{op: teleport, args: {}}]\nassertions: [{type: order_count}]",
			wantErr: `unknown op "teleport"`,
		},
		{
			name:    "missing args",
			yaml:    "name: n\ndescription: d\nflow: [{op: logout}]\nassertions: [{type: order_count}]",
			wantErr: "args is required",
		},
		{
			name:    "unknown field",
			yaml:    "name: n\ndescription: d\nflow: [{op: logout, args: {}}]\nassertion: []",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "unknown collection",
			yaml:    "name: n\ndescription: d\nflow: [{op: logout, args: {}}]\nassertions: [{type: collection_count, collection: carts}]",
			wantErr: `unknown collection "carts"`,
		},
		{
			name:    "notification without message",
			yaml:    "name: n\ndescription: d\nflow: [{op: logout, args: {}}]\nassertions: [{type: notification_contains}]",
			wantErr: "message is required",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\nflow: [{op: logout, args: {}}]\nassertions: [{type: vibes}]",
			wantErr: `unknown assertion type "vibes"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_Testdata(t *testing.T) {
	entries, err := os.ReadDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		t.Run(e.Name(), func(t *testing.T) {
			_, err := LoadScenario(filepath.Join("testdata/scenarios", e.Name()))
			require.NoError(t, err)
		})
	}
}
