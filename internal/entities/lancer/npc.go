package lancer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NpcRecord is an NPC as exported by Comp/Con. Everything in it is untrusted.
type NpcRecord struct {
	ID            string         `json:"id,omitempty"`
	Name          string         `json:"name"`
	Class         string         `json:"class"`
	Tier          any            `json:"tier,omitempty"`
	Templates     []string       `json:"templates,omitempty"`
	Items         []NpcItem      `json:"items,omitempty"`
	Stats         map[string]any `json:"stats,omitempty"`
	Tag           string         `json:"tag,omitempty"`
	Subtitle      string         `json:"subtitle,omitempty"`
	Campaign      string         `json:"campaign,omitempty"`
	Labels        []string       `json:"labels,omitempty"`
	Note          string         `json:"note,omitempty"`
	Side          string         `json:"side,omitempty"`
	CloudPortrait string         `json:"cloud_portrait,omitempty"`
	LocalImage    string         `json:"localImage,omitempty"`
}

// NpcItem is one feature reference on a record, with optional per-instance overrides
type NpcItem struct {
	ItemID      string `json:"itemID"`
	FlavorName  string `json:"flavorName,omitempty"`
	Description string `json:"description,omitempty"`
	Tier        any    `json:"tier,omitempty"`
	Destroyed   *bool  `json:"destroyed,omitempty"`
	Uses        *int   `json:"uses,omitempty"`
}

// UnmarshalJSON reads the list fields leniently: a single string becomes a
// one element list and non string members are dropped.
func (r *NpcRecord) UnmarshalJSON(data []byte) error {
	type Fields NpcRecord
	aux := struct {
		*Fields
		Templates any `json:"templates"`
		Labels    any `json:"labels"`
	}{Fields: (*Fields)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Templates = stringList(aux.Templates)
	r.Labels = stringList(aux.Labels)
	return nil
}

// UnmarshalJSON reads the overrides leniently. An unreadable uses or destroyed
// value is dropped so the rest of the item still applies.
func (i *NpcItem) UnmarshalJSON(data []byte) error {
	type Fields NpcItem
	aux := struct {
		*Fields
		Destroyed any `json:"destroyed"`
		Uses      any `json:"uses"`
	}{Fields: (*Fields)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	i.Destroyed = looseBool(aux.Destroyed)
	i.Uses = looseCount(aux.Uses)
	return nil
}

func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func looseBool(v any) *bool {
	switch t := v.(type) {
	case bool:
		return &t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return nil
		}
		return &b
	default:
		return nil
	}
}

// looseCount truncates numbers and numeric strings to a non negative count
func looseCount(v any) *int {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || f < 0 {
		return nil
	}
	n := math.MaxInt32
	if f < math.MaxInt32 {
		n = int(math.Trunc(f))
	}
	return &n
}

// DecodeNpcRecord parses a raw JSON record
func DecodeNpcRecord(raw []byte) (*NpcRecord, error) {
	var record NpcRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode npc record: %w", err)
	}
	return &record, nil
}

// SplitRecords returns the records of an export: either one JSON object or
// an array of objects
func SplitRecords(data []byte) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var records []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
			return nil, fmt.Errorf("decode npc records: %w", err)
		}
		return records, nil
	}
	if !json.Valid([]byte(trimmed)) {
		return nil, fmt.Errorf("decode npc records: invalid JSON")
	}
	return []json.RawMessage{json.RawMessage(trimmed)}, nil
}

// IsCustomTier reports whether the record carries the custom tier sentinel
func (r *NpcRecord) IsCustomTier() bool {
	s, ok := r.Tier.(string)
	return ok && s == TierCustom
}

// Portrait returns the image a newly created actor should use
func (r *NpcRecord) Portrait(fallback string) string {
	switch {
	case r.CloudPortrait != "":
		return r.CloudPortrait
	case r.LocalImage != "":
		return r.LocalImage
	default:
		return fallback
	}
}

// NumericStats returns the stat overrides that are plain numbers.
// Non numeric values (Comp/Con also stores size lists there) are dropped.
func (r *NpcRecord) NumericStats() map[string]float64 {
	out := make(map[string]float64, len(r.Stats))
	for key, value := range r.Stats {
		switch v := value.(type) {
		case float64:
			out[key] = v
		case int:
			out[key] = float64(v)
		case json.Number:
			if f, err := v.Float64(); err == nil {
				out[key] = f
			}
		}
	}
	return out
}

// HasTier reports whether the item declares its own tier
func (i NpcItem) HasTier() bool {
	return i.Tier != nil
}

// TierEquals reports whether the declared tier is exactly the given tier.
// A numeric string never equals a number, so "2" differs from tier 2.
func (i NpcItem) TierEquals(tier int) bool {
	switch v := i.Tier.(type) {
	case float64:
		return v == float64(tier)
	case int:
		return v == tier
	default:
		return false
	}
}

// TierLabel renders the declared tier for reports
func (i NpcItem) TierLabel() string {
	switch v := i.Tier.(type) {
	case float64:
		if v == math.Trunc(v) {
			return fmt.Sprintf("%d", int(v))
		}
		return fmt.Sprintf("%g", v)
	case string:
		return strings.TrimSpace(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
