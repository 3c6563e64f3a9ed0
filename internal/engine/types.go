package engine

import (
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
)

// ScaleStatsInput contains the class table and the record's custom stats
type ScaleStatsInput struct {
	BaseStats lancer.StatTable
	// Overrides is keyed by Comp/Con stat names (evade, agility...)
	Overrides map[string]float64
	Policy    lancer.ScalingPolicy
}

// ScaleStatsOutput contains the recomputed table
type ScaleStatsOutput struct {
	BaseStats lancer.StatTable
	// Overridden lists the internal stat names that received a custom value
	Overridden []string
}

// CustomizeFeaturesInput contains the attached features and the record items
type CustomizeFeaturesInput struct {
	Features   []lancer.Item
	Items      []lancer.NpcItem
	RecordTier int
}

// CustomizeFeaturesOutput contains the patches to persist and the tier mismatches
type CustomizeFeaturesOutput struct {
	Patches           []lancer.ItemPatch
	TierDiscrepancies []TierDiscrepancy
}

// TierDiscrepancy is a feature whose declared tier differs from the record tier.
// The tier is reported and never applied.
type TierDiscrepancy struct {
	Name string `json:"name"`
	Tier string `json:"tier"`
}

// DeriveStatsInput contains the class copy on the actor, nil when none was resolved
type DeriveStatsInput struct {
	Class *lancer.Item
	Tier  int
}

// DeriveStatsOutput contains the maxima and flat stats for the actor
type DeriveStatsOutput struct {
	HPMax        int
	HeatCap      int
	StructureMax int
	StressMax    int
	Stats        lancer.StatRow
}
