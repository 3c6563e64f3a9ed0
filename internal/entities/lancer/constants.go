// Package lancer holds the domain types for Lancer NPC records, library
// definitions and the local actors built from them.
package lancer

// ItemType identifies the kind of a library definition or embedded item
type ItemType string

// Item types
const (
	ItemTypeClass    ItemType = "npc_class"
	ItemTypeTemplate ItemType = "npc_template"
	ItemTypeFeature  ItemType = "npc_feature"
)

// String returns the string representation of the item type
func (t ItemType) String() string {
	return string(t)
}

// ActorTypeNPC is the only actor type the importer produces
const ActorTypeNPC = "npc"

// Record defaults
const (
	DefaultPortrait = "icons/svg/mystery-man.svg"
	DefaultSide     = "Enemy"

	// TierCustom is the tier sentinel for records that override the stat table
	TierCustom = "custom"

	// CustomClassMarker is appended to a class name once its stats were customized
	CustomClassMarker = "CUSTOM"
)

// Tier bounds
const (
	MinTier = 1
	MaxTier = 3
)

// ScalingPolicy decides how a single custom value spreads across the three tiers
type ScalingPolicy string

// Scaling policies
const (
	// ScalingScaled keeps the per-tier increments of the original class table
	ScalingScaled ScalingPolicy = "scaled"
	// ScalingFlat uses the custom value unchanged for every tier
	ScalingFlat ScalingPolicy = "flat"
)

// String returns the string representation of the policy
func (p ScalingPolicy) String() string {
	return string(p)
}
