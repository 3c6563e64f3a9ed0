package rules

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/engine"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
)

type CustomizeFeaturesTestSuite struct {
	suite.Suite
	features []lancer.Item
}

func TestCustomizeFeaturesSuite(t *testing.T) {
	suite.Run(t, new(CustomizeFeaturesTestSuite))
}

func (s *CustomizeFeaturesTestSuite) SetupTest() {
	s.features = []lancer.Item{
		{ID: "item-1", LID: "npcf_hull_plating", Type: lancer.ItemTypeFeature, Name: "Hull Plating"},
		{ID: "item-2", LID: "npcf_autocannon", Type: lancer.ItemTypeFeature, Name: "Autocannon"},
		{ID: "item-3", LID: "npcf_autocannon", Type: lancer.ItemTypeFeature, Name: "Autocannon"},
		{ID: "item-4", LID: "npc_class_warbot", Type: lancer.ItemTypeClass, Name: "Warbot"},
	}
}

func (s *CustomizeFeaturesTestSuite) TestAppliesPresentFields() {
	destroyed := true
	uses := 2
	items := []lancer.NpcItem{
		{ItemID: "npcf_hull_plating", FlavorName: "Scrap Armor", Description: "Bolted on", Destroyed: &destroyed, Uses: &uses},
	}

	patches, discrepancies := CustomizeFeatures(s.features, items, 2)

	s.Empty(discrepancies)
	s.Require().Len(patches, 1)
	patch := patches[0]
	s.Equal("item-1", patch.ItemID)
	s.Equal("Scrap Armor", *patch.Name)
	s.Equal("Scrap Armor", *patch.CustomName)
	s.Equal("Bolted on", *patch.CustomDescription)
	s.True(*patch.Destroyed)
	s.Equal(&lancer.Counter{Value: 2, Max: 2}, patch.Uses)
}

func (s *CustomizeFeaturesTestSuite) TestSkipsItemsWithoutChanges() {
	items := []lancer.NpcItem{{ItemID: "npcf_hull_plating"}}

	patches, discrepancies := CustomizeFeatures(s.features, items, 1)

	s.Empty(patches)
	s.Empty(discrepancies)
}

func (s *CustomizeFeaturesTestSuite) TestUnmatchedItemsAreIgnored() {
	items := []lancer.NpcItem{
		{ItemID: "npcf_missing", FlavorName: "Ghost"},
		{ItemID: "npc_class_warbot", FlavorName: "Not a feature"},
	}

	patches, discrepancies := CustomizeFeatures(s.features, items, 1)

	s.Empty(patches)
	s.Empty(discrepancies)
}

func (s *CustomizeFeaturesTestSuite) TestDuplicateLidsClaimDistinctFeatures() {
	items := []lancer.NpcItem{
		{ItemID: "npcf_autocannon", FlavorName: "Left Gun"},
		{ItemID: "npcf_autocannon", FlavorName: "Right Gun"},
	}

	patches, _ := CustomizeFeatures(s.features, items, 1)

	s.Require().Len(patches, 2)
	s.Equal("item-2", patches[0].ItemID)
	s.Equal("Left Gun", *patches[0].Name)
	s.Equal("item-3", patches[1].ItemID)
	s.Equal("Right Gun", *patches[1].Name)
}

func (s *CustomizeFeaturesTestSuite) TestTierDiscrepancies() {
	testCases := []struct {
		name     string
		item     lancer.NpcItem
		expected []engine.TierDiscrepancy
	}{
		{
			name: "same tier",
			item: lancer.NpcItem{ItemID: "npcf_hull_plating", Tier: float64(2)},
		},
		{
			name:     "different tier uses feature name",
			item:     lancer.NpcItem{ItemID: "npcf_hull_plating", Tier: float64(3)},
			expected: []engine.TierDiscrepancy{{Name: "Hull Plating", Tier: "3"}},
		},
		{
			name:     "different tier uses flavor name",
			item:     lancer.NpcItem{ItemID: "npcf_hull_plating", FlavorName: "Scrap Armor", Tier: float64(1)},
			expected: []engine.TierDiscrepancy{{Name: "Scrap Armor", Tier: "1"}},
		},
		{
			name:     "string tier never equals",
			item:     lancer.NpcItem{ItemID: "npcf_hull_plating", Tier: "2"},
			expected: []engine.TierDiscrepancy{{Name: "Hull Plating", Tier: "2"}},
		},
		{
			name: "no declared tier",
			item: lancer.NpcItem{ItemID: "npcf_hull_plating"},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			patches, discrepancies := CustomizeFeatures(s.features, []lancer.NpcItem{tc.item}, 2)

			s.Equal(tc.expected, discrepancies)
			for _, patch := range patches {
				s.Nil(patch.BaseStats, "tier is never applied")
			}
		})
	}
}
