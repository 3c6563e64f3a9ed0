package testutils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
)

// Library lids used by the fixtures
const (
	WarbotClassLID    = "npc_class_warbot"
	AssaultClassLID   = "npc_class_assault"
	EliteTemplateLID  = "npc_template_elite"
	GruntTemplateLID  = "npc_template_grunt"
	HullPlatingLID    = "npcf_hull_plating"
	AutocannonLID     = "npcf_autocannon"
	SmokeLauncherLID  = "npcf_smoke_launcher"
	RepairDroneLID    = "npcf_repair_drone"
	TargetingLaserLID = "npcf_targeting_laser"
)

// FeatureLIDs lists the five fixture features in library order
var FeatureLIDs = []string{
	HullPlatingLID,
	AutocannonLID,
	SmokeLauncherLID,
	RepairDroneLID,
	TargetingLaserLID,
}

// WarbotStats is the class table from the end-to-end scaling example
func WarbotStats() lancer.StatTable {
	return lancer.StatTable{
		{"hp": 10},
		{"hp": 12},
		{"hp": 14},
	}
}

// AssaultStats is a fuller class table
func AssaultStats() lancer.StatTable {
	return lancer.StatTable{
		{"activations": 1, "armor": 1, "hp": 10, "evasion": 8, "edef": 8, "heatcap": 8, "speed": 4, "sensor": 10, "save": 10, "hull": 1, "agi": 0, "sys": 0, "eng": 0, "size": 1, "structure": 1, "stress": 1},
		{"activations": 1, "armor": 2, "hp": 12, "evasion": 8, "edef": 8, "heatcap": 10, "speed": 4, "sensor": 10, "save": 12, "hull": 2, "agi": 1, "sys": 1, "eng": 1, "size": 1, "structure": 1, "stress": 1},
		{"activations": 1, "armor": 3, "hp": 15, "evasion": 8, "edef": 8, "heatcap": 12, "speed": 4, "sensor": 10, "save": 14, "hull": 3, "agi": 2, "sys": 2, "eng": 2, "size": 1, "structure": 1, "stress": 1},
	}
}

// CorePartition is an Item partition holding the fixture classes, templates and features
func CorePartition() *lancer.Partition {
	warbot := WarbotStats()
	assault := AssaultStats()

	p := &lancer.Partition{
		Name:         "lancer.npc-core",
		DocumentType: lancer.DocumentTypeItem,
		Entries: []lancer.LibraryEntry{
			{ID: "cls-warbot", LID: WarbotClassLID, Type: lancer.ItemTypeClass, Name: "Warbot", BaseStats: &warbot},
			{ID: "cls-assault", LID: AssaultClassLID, Type: lancer.ItemTypeClass, Name: "Assault", BaseStats: &assault},
			{ID: "tpl-elite", LID: EliteTemplateLID, Type: lancer.ItemTypeTemplate, Name: "Elite"},
			{ID: "tpl-grunt", LID: GruntTemplateLID, Type: lancer.ItemTypeTemplate, Name: "Grunt"},
		},
	}
	for i, lid := range FeatureLIDs {
		p.Entries = append(p.Entries, lancer.LibraryEntry{
			ID:     "feat-" + string(rune('a'+i)),
			LID:    lid,
			Type:   lancer.ItemTypeFeature,
			Name:   featureNames[i],
			System: map[string]any{"origin": map[string]any{"name": "core"}},
		})
	}
	return p
}

var featureNames = []string{"Hull Plating", "Autocannon", "Smoke Launcher", "Repair Drone", "Targeting Laser"}

// ActorPartition is a non-Item partition; lookups must skip it
func ActorPartition() *lancer.Partition {
	return &lancer.Partition{
		Name:         "lancer.npc-actors",
		DocumentType: "Actor",
		Entries: []lancer.LibraryEntry{
			{ID: "act-warbot", LID: WarbotClassLID, Type: lancer.ItemTypeClass, Name: "Shadow Warbot"},
		},
	}
}

// WarbotRecord is the custom tier record from the end-to-end scaling example
func WarbotRecord() *lancer.NpcRecord {
	return &lancer.NpcRecord{
		ID:    "cc-warbot-1",
		Name:  "Warbot",
		Class: WarbotClassLID,
		Tier:  lancer.TierCustom,
		Stats: map[string]any{"hp": float64(20)},
		Items: []lancer.NpcItem{},
	}
}

// AssaultRecord is a tier 2 record using every fixture feature
func AssaultRecord() *lancer.NpcRecord {
	items := make([]lancer.NpcItem, len(FeatureLIDs))
	for i, lid := range FeatureLIDs {
		items[i] = lancer.NpcItem{ItemID: lid}
	}
	return &lancer.NpcRecord{
		ID:        "cc-assault-1",
		Name:      "Breaker",
		Class:     AssaultClassLID,
		Tier:      float64(2),
		Templates: []string{EliteTemplateLID},
		Items:     items,
		Tag:       "Mech",
		Labels:    []string{"front"},
	}
}

// MustJSON encodes v or fails the test
func MustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
