package lancer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStatTable_UnmarshalYAML(t *testing.T) {
	testCases := []struct {
		name     string
		doc      string
		expected StatTable
		wantErr  bool
	}{
		{
			name:     "three rows",
			doc:      "[{hp: 10}, {hp: 12}, {hp: 14}]",
			expected: StatTable{{"hp": 10}, {"hp": 12}, {"hp": 14}},
		},
		{
			name:     "short table",
			doc:      "[{hp: 10, armor: 1}]",
			expected: StatTable{{"hp": 10, "armor": 1}},
		},
		{
			name:    "too many rows",
			doc:     "[{hp: 1}, {hp: 2}, {hp: 3}, {hp: 4}]",
			wantErr: true,
		},
		{
			name:    "not a sequence",
			doc:     "hp: 10",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var table StatTable
			err := yaml.Unmarshal([]byte(tc.doc), &table)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, table)
		})
	}
}

func TestStatTable_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name     string
		doc      string
		expected StatTable
		wantErr  bool
	}{
		{
			name:     "three rows",
			doc:      `[{"hp": 10}, {"hp": 12}, {"hp": 14}]`,
			expected: StatTable{{"hp": 10}, {"hp": 12}, {"hp": 14}},
		},
		{
			name:     "short table",
			doc:      `[{"hp": 10, "armor": 1}]`,
			expected: StatTable{{"hp": 10, "armor": 1}},
		},
		{
			name:    "too many rows",
			doc:     `[{"hp": 1}, {"hp": 2}, {"hp": 3}, {"hp": 4}]`,
			wantErr: true,
		},
		{
			name:    "not an array",
			doc:     `{"hp": 10}`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var table StatTable
			err := json.Unmarshal([]byte(tc.doc), &table)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, table)
		})
	}
}

func TestStatTable_FormatsAgreeOnRowLimit(t *testing.T) {
	entryJSON := `{"lid": "npc_class_x", "type": "npc_class", "base_stats": [{"hp": 1}, {"hp": 2}, {"hp": 3}, {"hp": 4}]}`
	entryYAML := "lid: npc_class_x\ntype: npc_class\nbase_stats: [{hp: 1}, {hp: 2}, {hp: 3}, {hp: 4}]\n"

	var fromJSON, fromYAML LibraryEntry
	jsonErr := json.Unmarshal([]byte(entryJSON), &fromJSON)
	yamlErr := yaml.Unmarshal([]byte(entryYAML), &fromYAML)

	require.Error(t, jsonErr)
	require.Error(t, yamlErr)
	assert.Contains(t, jsonErr.Error(), "stat table has 4 rows")
	assert.Contains(t, yamlErr.Error(), "stat table has 4 rows")
}

func TestStatTable_Row(t *testing.T) {
	table := StatTable{{"hp": 10}, {"hp": 12}, {"hp": 14}}

	assert.Equal(t, float64(10), table.Row(0)["hp"])
	assert.Equal(t, float64(12), table.Row(2)["hp"])
	assert.Equal(t, float64(14), table.Row(7)["hp"])
}

func TestStatTable_Clone(t *testing.T) {
	table := StatTable{{"hp": 10}, nil, {"hp": 14}}
	c := table.Clone()
	c[0]["hp"] = 1

	assert.Equal(t, float64(10), table[0]["hp"])
	assert.Nil(t, c[1])
}
