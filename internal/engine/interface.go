// Package engine defines the Lancer NPC rules used while merging an import
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/engine Engine

import (
	"context"
)

// Engine provides the rule calculations of an import
type Engine interface {
	// ParseTier normalizes a raw record tier to 1..3. It never fails.
	ParseTier(raw any) int

	// ScaleStats recomputes a class stat table from custom overrides
	ScaleStats(ctx context.Context, input *ScaleStatsInput) (*ScaleStatsOutput, error)

	// CustomizeFeatures computes per-instance feature overrides
	CustomizeFeatures(ctx context.Context, input *CustomizeFeaturesInput) (*CustomizeFeaturesOutput, error)

	// DeriveStats computes the actor statistics granted by a class at a tier
	DeriveStats(ctx context.Context, input *DeriveStatsInput) (*DeriveStatsOutput, error)
}
