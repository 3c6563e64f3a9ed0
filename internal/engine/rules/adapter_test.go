package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/engine"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
)

type AdapterTestSuite struct {
	suite.Suite
	adapter *Adapter
	ctx     context.Context
}

func TestAdapterSuite(t *testing.T) {
	suite.Run(t, new(AdapterTestSuite))
}

func TestNewAdapter(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		adapter, err := NewAdapter(nil)
		assert.Error(t, err)
		assert.Nil(t, adapter)
		assert.True(t, errors.IsInvalidArgument(err))
		assert.Contains(t, err.Error(), "config is required")
	})

	t.Run("invalid default policy", func(t *testing.T) {
		adapter, err := NewAdapter(&AdapterConfig{DefaultPolicy: "linear"})
		assert.Error(t, err)
		assert.Nil(t, adapter)
		assert.True(t, errors.IsInvalidArgument(err))
	})

	t.Run("empty default policy", func(t *testing.T) {
		adapter, err := NewAdapter(&AdapterConfig{})
		assert.NoError(t, err)
		assert.Equal(t, lancer.ScalingScaled, adapter.defaultPolicy)
	})
}

func (s *AdapterTestSuite) SetupTest() {
	var err error
	s.adapter, err = NewAdapter(&AdapterConfig{DefaultPolicy: lancer.ScalingFlat})
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *AdapterTestSuite) TestScaleStats_DefaultPolicy() {
	out, err := s.adapter.ScaleStats(s.ctx, &engine.ScaleStatsInput{
		BaseStats: lancer.StatTable{{"hp": 10}, {"hp": 12}, {"hp": 14}},
		Overrides: map[string]float64{"hp": 20},
	})

	s.Require().NoError(err)
	s.Equal(lancer.StatTable{{"hp": 20}, {"hp": 20}, {"hp": 20}}, out.BaseStats)
	s.Equal([]string{"hp"}, out.Overridden)
}

func (s *AdapterTestSuite) TestScaleStats_ExplicitPolicy() {
	out, err := s.adapter.ScaleStats(s.ctx, &engine.ScaleStatsInput{
		BaseStats: lancer.StatTable{{"hp": 10}, {"hp": 12}, {"hp": 14}},
		Overrides: map[string]float64{"hp": 20},
		Policy:    lancer.ScalingScaled,
	})

	s.Require().NoError(err)
	s.Equal(lancer.StatTable{{"hp": 20}, {"hp": 22}, {"hp": 24}}, out.BaseStats)
}

func (s *AdapterTestSuite) TestScaleStats_InvalidInput() {
	_, err := s.adapter.ScaleStats(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.adapter.ScaleStats(s.ctx, &engine.ScaleStatsInput{Policy: "linear"})
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "policy")
}

func (s *AdapterTestSuite) TestCustomizeFeatures() {
	out, err := s.adapter.CustomizeFeatures(s.ctx, &engine.CustomizeFeaturesInput{
		Features:   []lancer.Item{{ID: "item-1", LID: "npcf_a", Type: lancer.ItemTypeFeature, Name: "A"}},
		Items:      []lancer.NpcItem{{ItemID: "npcf_a", Description: "custom"}},
		RecordTier: 1,
	})

	s.Require().NoError(err)
	s.Len(out.Patches, 1)
	s.Empty(out.TierDiscrepancies)

	_, err = s.adapter.CustomizeFeatures(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *AdapterTestSuite) TestDeriveStats() {
	out, err := s.adapter.DeriveStats(s.ctx, &engine.DeriveStatsInput{
		Class: &lancer.Item{BaseStats: &lancer.StatTable{{"hp": 10}, {"hp": 12}, {"hp": 14}}},
		Tier:  3,
	})

	s.Require().NoError(err)
	s.Equal(14, out.HPMax)

	_, err = s.adapter.DeriveStats(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *AdapterTestSuite) TestParseTier() {
	s.Equal(1, s.adapter.ParseTier("custom"))
	s.Equal(3, s.adapter.ParseTier(float64(5)))
}
