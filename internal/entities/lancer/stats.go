package lancer

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// StatRow maps an internal stat name (hp, evasion, agi...) to its value
type StatRow map[string]float64

// StatTable holds one StatRow per tier; index 0 is tier 1
type StatTable [MaxTier]StatRow

// Clone returns an independent copy of the row
func (r StatRow) Clone() StatRow {
	if r == nil {
		return nil
	}
	out := make(StatRow, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy of the table
func (t StatTable) Clone() StatTable {
	var out StatTable
	for i, row := range t {
		out[i] = row.Clone()
	}
	return out
}

// Row returns the row for a tier in 1..3, clamping out of range tiers
func (t StatTable) Row(tier int) StatRow {
	if tier < MinTier {
		tier = MinTier
	}
	if tier > MaxTier {
		tier = MaxTier
	}
	return t[tier-1]
}

// UnmarshalYAML accepts a sequence of up to three rows
func (t *StatTable) UnmarshalYAML(value *yaml.Node) error {
	var rows []StatRow
	if err := value.Decode(&rows); err != nil {
		return err
	}
	return t.setRows(rows)
}

// UnmarshalJSON accepts an array of up to three rows
func (t *StatTable) UnmarshalJSON(data []byte) error {
	var rows []StatRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	return t.setRows(rows)
}

func (t *StatTable) setRows(rows []StatRow) error {
	if len(rows) > MaxTier {
		return fmt.Errorf("stat table has %d rows, at most %d allowed", len(rows), MaxTier)
	}
	*t = StatTable{}
	copy(t[:], rows)
	return nil
}
