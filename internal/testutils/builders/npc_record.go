// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
)

// NpcRecordBuilder provides a fluent interface for building test records
type NpcRecordBuilder struct {
	record *lancer.NpcRecord
}

// NewNpcRecordBuilder creates a new builder with a valid tier 1 record
func NewNpcRecordBuilder() *NpcRecordBuilder {
	return &NpcRecordBuilder{
		record: &lancer.NpcRecord{
			ID:    "cc-npc-test-1",
			Name:  "Test NPC",
			Class: "npc_class_warbot",
			Tier:  float64(1),
		},
	}
}

// WithID sets the external id
func (b *NpcRecordBuilder) WithID(id string) *NpcRecordBuilder {
	b.record.ID = id
	return b
}

// WithName sets the record name
func (b *NpcRecordBuilder) WithName(name string) *NpcRecordBuilder {
	b.record.Name = name
	return b
}

// WithClass sets the class lid
func (b *NpcRecordBuilder) WithClass(lid string) *NpcRecordBuilder {
	b.record.Class = lid
	return b
}

// WithTier sets the raw tier value
func (b *NpcRecordBuilder) WithTier(tier any) *NpcRecordBuilder {
	b.record.Tier = tier
	return b
}

// WithCustomStats marks the record as custom tier with the given overrides
func (b *NpcRecordBuilder) WithCustomStats(stats map[string]float64) *NpcRecordBuilder {
	b.record.Tier = lancer.TierCustom
	b.record.Stats = make(map[string]any, len(stats))
	for k, v := range stats {
		b.record.Stats[k] = v
	}
	return b
}

// WithTemplates sets the template lids
func (b *NpcRecordBuilder) WithTemplates(lids ...string) *NpcRecordBuilder {
	b.record.Templates = lids
	return b
}

// WithFeatures adds plain feature references
func (b *NpcRecordBuilder) WithFeatures(lids ...string) *NpcRecordBuilder {
	for _, lid := range lids {
		b.record.Items = append(b.record.Items, lancer.NpcItem{ItemID: lid})
	}
	return b
}

// WithItem adds a feature reference with overrides
func (b *NpcRecordBuilder) WithItem(item lancer.NpcItem) *NpcRecordBuilder {
	b.record.Items = append(b.record.Items, item)
	return b
}

// WithPortrait sets the cloud portrait
func (b *NpcRecordBuilder) WithPortrait(url string) *NpcRecordBuilder {
	b.record.CloudPortrait = url
	return b
}

// Build returns the record
func (b *NpcRecordBuilder) Build() *lancer.NpcRecord {
	return b.record
}
