// Package npcimport merges Comp/Con NPC records into local actors
package npcimport

import (
	"context"
	"encoding/json"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/engine"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
)

//go:generate mockgen -destination=mock/mock_service.go -package=npcimportmock github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/orchestrators/npcimport Service

// Service defines the import orchestrator interface
type Service interface {
	// ImportOne creates or updates the actor for a single record.
	// Missing library definitions and tier mismatches are reported, not returned.
	// Returns errors.InvalidArgument when the record lacks a name or class
	// Returns the store error when a write fails
	ImportOne(ctx context.Context, input *ImportOneInput) (*ImportOneOutput, error)

	// ImportMany imports records one after another. A failing record is
	// counted and the batch moves on. Cancellation is checked between records.
	ImportMany(ctx context.Context, input *ImportManyInput) (*ImportManyOutput, error)
}

// ImportOneInput contains a decoded record and the import options
type ImportOneInput struct {
	Record *lancer.NpcRecord
	// UpdateExisting reuses the actor already imported from the same record id
	UpdateExisting bool
	// Scaling applies to custom tier records; empty uses the configured default
	Scaling lancer.ScalingPolicy
}

// ImportOneOutput contains the resulting actor
type ImportOneOutput struct {
	Actor      *lancer.Actor
	WasUpdated bool
	Report     *ImportReport
}

// ImportReport lists what could not be applied to the actor
type ImportReport struct {
	// MissingItems holds "Class: <lid>" and "Template: <lid>" entries
	MissingItems []string `json:"missing_items,omitempty"`
	// MissingFeatures holds the lids of unresolved features
	MissingFeatures   []string                 `json:"missing_features,omitempty"`
	TierDiscrepancies []engine.TierDiscrepancy `json:"tier_discrepancies,omitempty"`
	// CustomStatsApplied is set when the class table was rebuilt from custom stats
	CustomStatsApplied bool                 `json:"custom_stats_applied"`
	OverriddenStats    []string             `json:"overridden_stats,omitempty"`
	Scaling            lancer.ScalingPolicy `json:"scaling"`
}

// MissingCount is the number of unresolved library references
func (r *ImportReport) MissingCount() int {
	if r == nil {
		return 0
	}
	return len(r.MissingItems) + len(r.MissingFeatures)
}

// ImportManyInput contains raw records and the shared import options
type ImportManyInput struct {
	Records        []json.RawMessage
	UpdateExisting bool
	Scaling        lancer.ScalingPolicy
}

// Outcome is the result of one record in a batch
type Outcome string

// Outcomes
const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeFailed  Outcome = "failed"
)

// RecordResult describes one record of a batch
type RecordResult struct {
	Index   int           `json:"index"`
	Name    string        `json:"name"`
	Outcome Outcome       `json:"outcome"`
	ActorID string        `json:"actor_id,omitempty"`
	Error   string        `json:"error,omitempty"`
	Report  *ImportReport `json:"report,omitempty"`
}

// ImportManyOutput contains the batch counters and per record results
type ImportManyOutput struct {
	SuccessCount int
	UpdateCount  int
	ErrorCount   int
	// Canceled is set when the context ended before every record was processed
	Canceled bool
	// Skipped is the number of records left unprocessed after cancellation
	Skipped int
	Results []RecordResult
}

// CreatedCount is the number of successful records that made a new actor
func (o *ImportManyOutput) CreatedCount() int {
	return o.SuccessCount - o.UpdateCount
}
