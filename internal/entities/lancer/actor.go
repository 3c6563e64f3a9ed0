package lancer

import "strings"

// Counter is a current/maximum pair (hp, heat, uses...)
type Counter struct {
	Value int `json:"value"`
	Max   int `json:"max"`
}

// ActorSystem is the attribute record of an NPC actor
type ActorSystem struct {
	LID       string   `json:"lid"`
	Tier      int      `json:"tier"`
	Tag       string   `json:"tag"`
	Subtitle  string   `json:"subtitle"`
	Campaign  string   `json:"campaign"`
	Labels    []string `json:"labels"`
	Note      string   `json:"note"`
	Side      string   `json:"side"`
	HP        Counter  `json:"hp"`
	Heat      Counter  `json:"heat"`
	Structure Counter  `json:"structure"`
	Stress    Counter  `json:"stress"`
	// Stats holds the flat derived statistics (armor, evasion, agi...)
	Stats StatRow `json:"stats"`
}

// Item is a library definition copied onto an actor, plus instance overrides
type Item struct {
	ID                string         `json:"_id"`
	LID               string         `json:"lid"`
	Type              ItemType       `json:"type"`
	Name              string         `json:"name"`
	BaseStats         *StatTable     `json:"base_stats,omitempty"`
	System            map[string]any `json:"system,omitempty"`
	CustomName        string         `json:"custom_name,omitempty"`
	CustomDescription string         `json:"custom_description,omitempty"`
	Tier              int            `json:"tier,omitempty"`
	Destroyed         bool           `json:"destroyed,omitempty"`
	Uses              *Counter       `json:"uses,omitempty"`
}

// NewItem copies a library entry into a fresh, unsaved item
func NewItem(entry *LibraryEntry) Item {
	c := entry.Clone()
	return Item{
		LID:       c.LID,
		Type:      c.Type,
		Name:      c.Name,
		BaseStats: c.BaseStats,
		System:    c.System,
	}
}

// Clone returns a deep copy of the item
func (i Item) Clone() Item {
	out := i
	if i.BaseStats != nil {
		stats := i.BaseStats.Clone()
		out.BaseStats = &stats
	}
	out.System = cloneMap(i.System)
	if i.Uses != nil {
		uses := *i.Uses
		out.Uses = &uses
	}
	return out
}

// ItemPatch is a partial update of an embedded item; nil fields are untouched
type ItemPatch struct {
	ItemID            string
	Name              *string
	CustomName        *string
	CustomDescription *string
	Destroyed         *bool
	Uses              *Counter
	BaseStats         *StatTable
}

// Apply writes the set fields of the patch onto the item
func (p ItemPatch) Apply(item *Item) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.CustomName != nil {
		item.CustomName = *p.CustomName
	}
	if p.CustomDescription != nil {
		item.CustomDescription = *p.CustomDescription
	}
	if p.Destroyed != nil {
		item.Destroyed = *p.Destroyed
	}
	if p.Uses != nil {
		uses := *p.Uses
		item.Uses = &uses
	}
	if p.BaseStats != nil {
		stats := p.BaseStats.Clone()
		item.BaseStats = &stats
	}
}

// Actor is a persisted NPC. Img and PrototypeToken belong to the user and are
// never rewritten by an import update.
type Actor struct {
	ID             string         `json:"_id"`
	Type           string         `json:"type"`
	Name           string         `json:"name"`
	Img            string         `json:"img"`
	PrototypeToken map[string]any `json:"prototype_token,omitempty"`
	System         ActorSystem    `json:"system"`
	Items          []Item         `json:"items"`
	// Sequence is the store's creation order, used to break lid ties
	Sequence  int64 `json:"sequence"`
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Clone returns a deep copy of the actor
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}
	out := *a
	out.PrototypeToken = cloneMap(a.PrototypeToken)
	out.System.Labels = append([]string(nil), a.System.Labels...)
	out.System.Stats = a.System.Stats.Clone()
	out.Items = make([]Item, len(a.Items))
	for i, item := range a.Items {
		out.Items[i] = item.Clone()
	}
	return &out
}

// ItemsOfType returns the embedded items of the given type, in attach order
func (a *Actor) ItemsOfType(t ItemType) []Item {
	var out []Item
	for _, item := range a.Items {
		if item.Type == t {
			out = append(out, item)
		}
	}
	return out
}

// FindItem returns the first embedded item with the lid and type
func (a *Actor) FindItem(lid string, t ItemType) (Item, bool) {
	for _, item := range a.Items {
		if item.LID == lid && item.Type == t {
			return item, true
		}
	}
	return Item{}, false
}

// CustomClassName marks a class name as customized. The marker is appended
// once; a name that already carries it is returned unchanged.
func CustomClassName(name string) string {
	if strings.Contains(name, CustomClassMarker) {
		return name
	}
	return name + " " + CustomClassMarker
}
