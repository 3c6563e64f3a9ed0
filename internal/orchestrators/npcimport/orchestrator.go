package npcimport

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/engine"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/pkg/clock"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/repositories/actor"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/services/resolver"
)

// DefaultSettleDelay is the wait after attaching class and templates when the
// store cannot signal that derived fields are computed
const DefaultSettleDelay = 500 * time.Millisecond

var scalingPolicies = []string{
	lancer.ScalingScaled.String(),
	lancer.ScalingFlat.String(),
}

// Config holds the dependencies for the import orchestrator
type Config struct {
	ActorRepo actor.Repository
	Resolver  resolver.Service
	Engine    engine.Engine
	// Clock drives the settle delay; defaults to the system clock
	Clock clock.Clock
	// SettleDelay is only used when ActorRepo is not an actor.Settler. Zero disables it.
	SettleDelay time.Duration
	// DefaultPortrait is used when a record has no image
	DefaultPortrait string
	// DefaultScaling applies when an input leaves the policy empty
	DefaultScaling lancer.ScalingPolicy
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()

	if c.ActorRepo == nil {
		vb.RequiredField("ActorRepo")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.SettleDelay < 0 {
		vb.Field("SettleDelay", "must not be negative")
	}
	if c.DefaultScaling != "" {
		errors.ValidateEnum("DefaultScaling", c.DefaultScaling.String(), scalingPolicies, vb)
	}

	return vb.Build()
}

type orchestrator struct {
	// mu serializes merges so locate and create never interleave across records
	mu sync.Mutex

	actorRepo       actor.Repository
	resolver        resolver.Service
	engine          engine.Engine
	clock           clock.Clock
	settleDelay     time.Duration
	defaultPortrait string
	defaultScaling  lancer.ScalingPolicy
}

// NewOrchestrator creates a new import orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		actorRepo:       cfg.ActorRepo,
		resolver:        cfg.Resolver,
		engine:          cfg.Engine,
		clock:           cfg.Clock,
		settleDelay:     cfg.SettleDelay,
		defaultPortrait: cfg.DefaultPortrait,
		defaultScaling:  cfg.DefaultScaling,
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.defaultPortrait == "" {
		o.defaultPortrait = lancer.DefaultPortrait
	}
	if o.defaultScaling == "" {
		o.defaultScaling = lancer.ScalingScaled
	}

	return o, nil
}

// ImportOne runs a record through locate, create or update, class and
// template attach, settle, scaling, feature replacement, customization and
// counter reset. Each step waits for the previous store mutation.
func (o *orchestrator) ImportOne(ctx context.Context, input *ImportOneInput) (*ImportOneOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := o.validateImport(input.Record, input.Scaling); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// A record is either applied completely or fails on a store error
	ctx = context.WithoutCancel(ctx)

	record := input.Record
	policy := o.policy(input.Scaling)
	tier := o.engine.ParseTier(record.Tier)
	report := &ImportReport{Scaling: policy}

	slog.InfoContext(ctx, "Importing NPC",
		"name", record.Name,
		"class", record.Class,
		"tier", tier,
		"record_id", record.ID)

	existing, err := o.locate(ctx, record, input.UpdateExisting)
	if err != nil {
		return nil, err
	}

	system, err := o.baseSystem(ctx, record, tier)
	if err != nil {
		return nil, err
	}

	var current *lancer.Actor
	if existing != nil {
		updated, err := o.actorRepo.Update(ctx, actor.UpdateInput{
			ID:     existing.ID,
			Name:   record.Name,
			System: system,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to update actor %s", existing.ID)
		}
		current = updated.Actor
	} else {
		created, err := o.actorRepo.Create(ctx, actor.CreateInput{
			Actor: &lancer.Actor{
				Type:   lancer.ActorTypeNPC,
				Name:   record.Name,
				Img:    record.Portrait(o.defaultPortrait),
				System: system,
			},
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create actor")
		}
		current = created.Actor
	}

	classResolved, err := o.attachClassAndTemplates(ctx, current, record, report)
	if err != nil {
		return nil, err
	}

	if err := o.settle(ctx, current.ID); err != nil {
		return nil, err
	}

	if record.IsCustomTier() && classResolved {
		if err := o.scaleClass(ctx, current.ID, record, policy, report); err != nil {
			return nil, err
		}
	}

	features, err := o.replaceFeatures(ctx, current.ID, record, report)
	if err != nil {
		return nil, err
	}

	if err := o.customize(ctx, current.ID, features, record, tier, report); err != nil {
		return nil, err
	}

	final, err := o.resetCounters(ctx, current.ID, record, tier)
	if err != nil {
		return nil, err
	}

	if report.MissingCount() > 0 {
		slog.WarnContext(ctx, "NPC imported with missing library items",
			"name", record.Name,
			"missing_items", report.MissingItems,
			"missing_features", report.MissingFeatures)
	}

	return &ImportOneOutput{
		Actor:      final,
		WasUpdated: existing != nil,
		Report:     report,
	}, nil
}

// ImportMany imports each record in order and isolates failures
func (o *orchestrator) ImportMany(ctx context.Context, input *ImportManyInput) (*ImportManyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Scaling != "" {
		vb := errors.NewValidationBuilder()
		errors.ValidateEnum("scaling", input.Scaling.String(), scalingPolicies, vb)
		if err := vb.Build(); err != nil {
			return nil, err
		}
	}

	output := &ImportManyOutput{
		Results: make([]RecordResult, 0, len(input.Records)),
	}

	for i, raw := range input.Records {
		if ctx.Err() != nil {
			output.Canceled = true
			output.Skipped = len(input.Records) - i
			slog.WarnContext(ctx, "Import canceled",
				"processed", i,
				"skipped", output.Skipped)
			break
		}

		result := o.importRecord(ctx, i, raw, input)
		switch result.Outcome {
		case OutcomeUpdated:
			output.SuccessCount++
			output.UpdateCount++
		case OutcomeCreated:
			output.SuccessCount++
		default:
			output.ErrorCount++
		}
		output.Results = append(output.Results, result)
	}

	slog.InfoContext(ctx, "Import finished",
		"imported", output.SuccessCount,
		"updated", output.UpdateCount,
		"created", output.CreatedCount(),
		"failed", output.ErrorCount)

	return output, nil
}

func (o *orchestrator) importRecord(ctx context.Context, index int, raw []byte, input *ImportManyInput) RecordResult {
	result := RecordResult{Index: index}

	record, err := lancer.DecodeNpcRecord(raw)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Error = errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid record").Error()
		slog.ErrorContext(ctx, "Failed to decode NPC record", "index", index, "error", err)
		return result
	}
	result.Name = record.Name

	out, err := o.ImportOne(ctx, &ImportOneInput{
		Record:         record,
		UpdateExisting: input.UpdateExisting,
		Scaling:        input.Scaling,
	})
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Error = err.Error()
		slog.ErrorContext(ctx, "Failed to import NPC",
			"index", index,
			"name", record.Name,
			"error", err)
		return result
	}

	result.ActorID = out.Actor.ID
	result.Report = out.Report
	result.Outcome = OutcomeCreated
	if out.WasUpdated {
		result.Outcome = OutcomeUpdated
	}
	return result
}

func (o *orchestrator) validateImport(record *lancer.NpcRecord, policy lancer.ScalingPolicy) error {
	if record == nil {
		return errors.InvalidArgument("record is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", record.Name, vb)
	errors.ValidateRequired("class", record.Class, vb)
	if policy != "" {
		errors.ValidateEnum("scaling", policy.String(), scalingPolicies, vb)
	}
	return vb.Build()
}

func (o *orchestrator) policy(p lancer.ScalingPolicy) lancer.ScalingPolicy {
	if p == "" {
		return o.defaultScaling
	}
	return p
}

// locate returns the actor previously imported from the record, preferring
// the earliest created one when several share the id
func (o *orchestrator) locate(ctx context.Context, record *lancer.NpcRecord, updateExisting bool) (*lancer.Actor, error) {
	if !updateExisting || record.ID == "" {
		return nil, nil
	}

	found, err := o.actorRepo.Find(ctx, actor.FindInput{
		Type: lancer.ActorTypeNPC,
		LID:  record.ID,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to find actor for record %s", record.ID)
	}
	if len(found.Actors) == 0 {
		return nil, nil
	}
	if len(found.Actors) > 1 {
		slog.WarnContext(ctx, "Several actors share a record id, updating the oldest",
			"record_id", record.ID,
			"count", len(found.Actors),
			"actor_id", found.Actors[0].ID)
	}
	return found.Actors[0], nil
}

// baseSystem builds the attribute record written on create and update. The
// counters stay zero until resetCounters fills them from the class.
func (o *orchestrator) baseSystem(ctx context.Context, record *lancer.NpcRecord, tier int) (lancer.ActorSystem, error) {
	zeroed, err := o.engine.DeriveStats(ctx, &engine.DeriveStatsInput{Tier: tier})
	if err != nil {
		return lancer.ActorSystem{}, errors.Wrap(err, "failed to derive stats")
	}

	side := record.Side
	if side == "" {
		side = lancer.DefaultSide
	}

	return lancer.ActorSystem{
		LID:      record.ID,
		Tier:     tier,
		Tag:      record.Tag,
		Subtitle: record.Subtitle,
		Campaign: record.Campaign,
		Labels:   append([]string{}, record.Labels...),
		Note:     record.Note,
		Side:     side,
		Stats:    zeroed.Stats,
	}, nil
}

// attachClassAndTemplates swaps the class and template copies on the actor
// for fresh ones from the library. It reports whether the class resolved.
func (o *orchestrator) attachClassAndTemplates(ctx context.Context, current *lancer.Actor, record *lancer.NpcRecord, report *ImportReport) (bool, error) {
	var stale []string
	for _, item := range current.Items {
		if item.Type == lancer.ItemTypeClass || item.Type == lancer.ItemTypeTemplate {
			stale = append(stale, item.ID)
		}
	}
	if len(stale) > 0 {
		if _, err := o.actorRepo.DeleteItems(ctx, actor.DeleteItemsInput{
			ActorID: current.ID,
			ItemIDs: stale,
		}); err != nil {
			return false, errors.Wrapf(err, "failed to remove class and templates from actor %s", current.ID)
		}
	}

	var items []lancer.Item

	class, err := o.resolve(ctx, record.Class, lancer.ItemTypeClass)
	if err != nil {
		return false, err
	}
	if class != nil {
		items = append(items, lancer.NewItem(class))
	} else {
		report.MissingItems = append(report.MissingItems, "Class: "+record.Class)
	}

	for _, lid := range record.Templates {
		template, err := o.resolve(ctx, lid, lancer.ItemTypeTemplate)
		if err != nil {
			return false, err
		}
		if template == nil {
			report.MissingItems = append(report.MissingItems, "Template: "+lid)
			continue
		}
		items = append(items, lancer.NewItem(template))
	}

	if len(items) > 0 {
		if _, err := o.actorRepo.CreateItems(ctx, actor.CreateItemsInput{
			ActorID: current.ID,
			Items:   items,
		}); err != nil {
			return false, errors.Wrapf(err, "failed to attach class and templates to actor %s", current.ID)
		}
	}

	return class != nil, nil
}

// settle waits until the store has computed the actor's derived fields
func (o *orchestrator) settle(ctx context.Context, actorID string) error {
	if settler, ok := o.actorRepo.(actor.Settler); ok {
		if err := settler.AwaitSettled(ctx, actorID); err != nil {
			return errors.Wrapf(err, "failed to settle actor %s", actorID)
		}
		return nil
	}

	if o.settleDelay > 0 {
		<-o.clock.After(o.settleDelay)
	}
	return nil
}

// scaleClass rebuilds the class table from the record's custom stats and
// marks the class name
func (o *orchestrator) scaleClass(ctx context.Context, actorID string, record *lancer.NpcRecord, policy lancer.ScalingPolicy, report *ImportReport) error {
	current, err := o.actorRepo.Get(ctx, actor.GetInput{ID: actorID})
	if err != nil {
		return errors.Wrapf(err, "failed to get actor %s", actorID)
	}

	class, ok := current.Actor.FindItem(record.Class, lancer.ItemTypeClass)
	if !ok {
		return errors.Internalf("class %s missing from actor %s after attach", record.Class, actorID)
	}

	var base lancer.StatTable
	if class.BaseStats != nil {
		base = *class.BaseStats
	}

	scaled, err := o.engine.ScaleStats(ctx, &engine.ScaleStatsInput{
		BaseStats: base,
		Overrides: record.NumericStats(),
		Policy:    policy,
	})
	if err != nil {
		return errors.Wrap(err, "failed to scale class stats")
	}

	name := lancer.CustomClassName(class.Name)
	if _, err := o.actorRepo.UpdateItems(ctx, actor.UpdateItemsInput{
		ActorID: actorID,
		Patches: []lancer.ItemPatch{{
			ItemID:    class.ID,
			Name:      &name,
			BaseStats: &scaled.BaseStats,
		}},
	}); err != nil {
		return errors.Wrapf(err, "failed to update class on actor %s", actorID)
	}

	report.CustomStatsApplied = true
	report.OverriddenStats = scaled.Overridden

	slog.InfoContext(ctx, "Applied custom class stats",
		"actor_id", actorID,
		"class", name,
		"policy", policy,
		"overridden", scaled.Overridden)

	return nil
}

// replaceFeatures removes every feature on the actor and attaches annotated
// copies of the record's features. It returns the attached items.
func (o *orchestrator) replaceFeatures(ctx context.Context, actorID string, record *lancer.NpcRecord, report *ImportReport) ([]lancer.Item, error) {
	current, err := o.actorRepo.Get(ctx, actor.GetInput{ID: actorID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get actor %s", actorID)
	}

	existing := current.Actor.ItemsOfType(lancer.ItemTypeFeature)
	if len(existing) > 0 {
		ids := make([]string, len(existing))
		for i, item := range existing {
			ids[i] = item.ID
		}
		if _, err := o.actorRepo.DeleteItems(ctx, actor.DeleteItemsInput{
			ActorID: actorID,
			ItemIDs: ids,
		}); err != nil {
			return nil, errors.Wrapf(err, "failed to remove features from actor %s", actorID)
		}
	}

	var features []lancer.Item
	for _, npcItem := range record.Items {
		entry, err := o.resolve(ctx, npcItem.ItemID, lancer.ItemTypeFeature)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			report.MissingFeatures = append(report.MissingFeatures, npcItem.ItemID)
			continue
		}
		features = append(features, o.annotateFeature(lancer.NewItem(entry), npcItem))
	}

	if len(features) == 0 {
		return nil, nil
	}

	created, err := o.actorRepo.CreateItems(ctx, actor.CreateItemsInput{
		ActorID: actorID,
		Items:   features,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to attach features to actor %s", actorID)
	}
	return created.Items, nil
}

func (o *orchestrator) annotateFeature(item lancer.Item, npcItem lancer.NpcItem) lancer.Item {
	item.CustomName = npcItem.FlavorName
	item.CustomDescription = npcItem.Description
	if npcItem.HasTier() {
		item.Tier = o.engine.ParseTier(npcItem.Tier)
	}
	if npcItem.Destroyed != nil {
		item.Destroyed = *npcItem.Destroyed
	}
	if npcItem.Uses != nil {
		item.Uses = &lancer.Counter{Value: *npcItem.Uses, Max: *npcItem.Uses}
	}
	return item
}

// customize applies the per instance overrides to the attached features
func (o *orchestrator) customize(ctx context.Context, actorID string, features []lancer.Item, record *lancer.NpcRecord, tier int, report *ImportReport) error {
	if len(features) == 0 {
		return nil
	}

	custom, err := o.engine.CustomizeFeatures(ctx, &engine.CustomizeFeaturesInput{
		Features:   features,
		Items:      record.Items,
		RecordTier: tier,
	})
	if err != nil {
		return errors.Wrap(err, "failed to customize features")
	}

	for _, d := range custom.TierDiscrepancies {
		slog.WarnContext(ctx, "Feature tier differs from NPC tier",
			"actor_id", actorID,
			"feature", d.Name,
			"feature_tier", d.Tier,
			"npc_tier", tier)
	}
	report.TierDiscrepancies = append(report.TierDiscrepancies, custom.TierDiscrepancies...)

	if len(custom.Patches) == 0 {
		return nil
	}
	if _, err := o.actorRepo.UpdateItems(ctx, actor.UpdateItemsInput{
		ActorID: actorID,
		Patches: custom.Patches,
	}); err != nil {
		return errors.Wrapf(err, "failed to customize features on actor %s", actorID)
	}
	return nil
}

// resetCounters derives the actor's stats from its class and tops up the
// counters: full health, no heat
func (o *orchestrator) resetCounters(ctx context.Context, actorID string, record *lancer.NpcRecord, tier int) (*lancer.Actor, error) {
	current, err := o.actorRepo.Get(ctx, actor.GetInput{ID: actorID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get actor %s", actorID)
	}

	input := &engine.DeriveStatsInput{Tier: tier}
	if class, ok := current.Actor.FindItem(record.Class, lancer.ItemTypeClass); ok {
		input.Class = &class
	}
	derived, err := o.engine.DeriveStats(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive stats")
	}

	system := current.Actor.System
	system.HP = lancer.Counter{Value: derived.HPMax, Max: derived.HPMax}
	system.Heat = lancer.Counter{Value: 0, Max: derived.HeatCap}
	system.Structure = lancer.Counter{Value: derived.StructureMax, Max: derived.StructureMax}
	system.Stress = lancer.Counter{Value: derived.StressMax, Max: derived.StressMax}
	system.Stats = derived.Stats

	updated, err := o.actorRepo.Update(ctx, actor.UpdateInput{
		ID:     actorID,
		Name:   current.Actor.Name,
		System: system,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reset counters on actor %s", actorID)
	}
	return updated.Actor, nil
}

// resolve returns a library copy or nil when the lid is unknown
func (o *orchestrator) resolve(ctx context.Context, lid string, itemType lancer.ItemType) (*lancer.LibraryEntry, error) {
	out, err := o.resolver.FindByLID(ctx, &resolver.FindByLIDInput{
		LID:  lid,
		Type: itemType,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s %s", itemType, lid)
	}
	if !out.Found {
		slog.WarnContext(ctx, "Library item not found", "lid", lid, "type", itemType)
		return nil, nil
	}
	return out.Entry, nil
}
