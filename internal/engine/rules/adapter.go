// Package rules implements the engine interface with the Lancer NPC rules
package rules

import (
	"context"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/engine"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
)

// Adapter implements engine.Engine
type Adapter struct {
	defaultPolicy lancer.ScalingPolicy
}

// AdapterConfig contains configuration for the adapter
type AdapterConfig struct {
	// DefaultPolicy is used when a scale request names no policy. Empty means scaled.
	DefaultPolicy lancer.ScalingPolicy
}

// Validate ensures all required dependencies are provided
func (c *AdapterConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	if _, err := ParseScalingPolicy(c.DefaultPolicy.String()); err != nil {
		return errors.Wrap(err, "invalid default policy")
	}
	return nil
}

// NewAdapter creates a new Lancer rules engine
func NewAdapter(cfg *AdapterConfig) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	policy, _ := ParseScalingPolicy(cfg.DefaultPolicy.String())
	return &Adapter{defaultPolicy: policy}, nil
}

// Verify that Adapter implements engine.Engine interface
var _ engine.Engine = (*Adapter)(nil)

// ParseTier normalizes a raw record tier
func (a *Adapter) ParseTier(raw any) int {
	return ParseTier(raw)
}

// ScaleStats recomputes a class stat table from custom overrides
func (a *Adapter) ScaleStats(_ context.Context, input *engine.ScaleStatsInput) (*engine.ScaleStatsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	policy := input.Policy
	if policy == "" {
		policy = a.defaultPolicy
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("policy", policy.String(),
		[]string{lancer.ScalingScaled.String(), lancer.ScalingFlat.String()}, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	table, overridden := ScaleStats(input.BaseStats, input.Overrides, policy)
	return &engine.ScaleStatsOutput{
		BaseStats:  table,
		Overridden: overridden,
	}, nil
}

// CustomizeFeatures computes per-instance feature overrides
func (a *Adapter) CustomizeFeatures(_ context.Context, input *engine.CustomizeFeaturesInput) (*engine.CustomizeFeaturesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	patches, discrepancies := CustomizeFeatures(input.Features, input.Items, input.RecordTier)
	return &engine.CustomizeFeaturesOutput{
		Patches:           patches,
		TierDiscrepancies: discrepancies,
	}, nil
}

// DeriveStats computes the actor statistics granted by a class at a tier
func (a *Adapter) DeriveStats(_ context.Context, input *engine.DeriveStatsInput) (*engine.DeriveStatsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	return DeriveStats(input.Class, input.Tier), nil
}
