package lancer

// LibraryEntry is a read-only definition from an installed compendium.
// Callers never mutate an entry; Clone before attaching it to an actor.
type LibraryEntry struct {
	ID        string         `json:"_id" yaml:"_id"`
	LID       string         `json:"lid" yaml:"lid"`
	Type      ItemType       `json:"type" yaml:"type"`
	Name      string         `json:"name" yaml:"name"`
	BaseStats *StatTable     `json:"base_stats,omitempty" yaml:"base_stats,omitempty"`
	System    map[string]any `json:"system,omitempty" yaml:"system,omitempty"`
}

// Clone returns a deep copy of the entry
func (e *LibraryEntry) Clone() *LibraryEntry {
	if e == nil {
		return nil
	}
	out := *e
	if e.BaseStats != nil {
		stats := e.BaseStats.Clone()
		out.BaseStats = &stats
	}
	out.System = cloneMap(e.System)
	return &out
}

// Partition is one compendium: a named group of entries of a document kind.
// Only partitions of kind "Item" hold class, template and feature definitions.
type Partition struct {
	Name         string         `json:"name" yaml:"name"`
	DocumentType string         `json:"document_type" yaml:"document_type"`
	Entries      []LibraryEntry `json:"entries" yaml:"entries"`
}

// DocumentTypeItem is the partition kind scanned by lookups
const DocumentTypeItem = "Item"

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
