package rules

import (
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/engine"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
)

// CustomizeFeatures matches record items to attached features by lid and
// builds the overrides to persist.
//
// Each record item claims the first unclaimed feature with its lid, so a
// feature taken twice gets both sets of overrides. Fields are applied only when
// present. A declared tier that differs from recordTier is reported, never
// applied.
func CustomizeFeatures(features []lancer.Item, items []lancer.NpcItem, recordTier int) ([]lancer.ItemPatch, []engine.TierDiscrepancy) {
	var (
		patches       []lancer.ItemPatch
		discrepancies []engine.TierDiscrepancy
	)
	claimed := make(map[int]bool, len(features))

	for _, item := range items {
		idx := -1
		for i, feature := range features {
			if !claimed[i] && feature.Type == lancer.ItemTypeFeature && feature.LID == item.ItemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		claimed[idx] = true
		feature := features[idx]

		patch := lancer.ItemPatch{ItemID: feature.ID}
		changed := false

		if item.FlavorName != "" {
			name := item.FlavorName
			patch.Name = &name
			patch.CustomName = &name
			changed = true
		}
		if item.Description != "" {
			description := item.Description
			patch.CustomDescription = &description
			changed = true
		}
		if item.Destroyed != nil {
			destroyed := *item.Destroyed
			patch.Destroyed = &destroyed
			changed = true
		}
		if item.Uses != nil {
			patch.Uses = &lancer.Counter{Value: *item.Uses, Max: *item.Uses}
			changed = true
		}

		if item.HasTier() && !item.TierEquals(recordTier) {
			name := item.FlavorName
			if name == "" {
				name = feature.Name
			}
			discrepancies = append(discrepancies, engine.TierDiscrepancy{
				Name: name,
				Tier: item.TierLabel(),
			})
		}

		if changed {
			patches = append(patches, patch)
		}
	}

	return patches, discrepancies
}
