package actor

import (
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/pkg/idgen"
)

// Error messages
const (
	errActorNil     = "actor cannot be nil"
	errActorIDEmpty = "actor ID cannot be empty"
)

// The helpers below hold the item semantics shared by every backend. Each
// backend loads the actor, applies one of them and saves it back atomically.

func validateCreate(input CreateInput) error {
	if input.Actor == nil {
		return errors.InvalidArgument(errActorNil)
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", input.Actor.Name, vb)
	errors.ValidateRequired("type", input.Actor.Type, vb)
	return vb.Build()
}

func validateUpdate(input UpdateInput) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("id", input.ID, vb)
	errors.ValidateRequired("name", input.Name, vb)
	return vb.Build()
}

func validateFind(input FindInput) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("type", input.Type, vb)
	errors.ValidateRequired("lid", input.LID, vb)
	return vb.Build()
}

func requireActorID(id string) error {
	if id == "" {
		return errors.InvalidArgument(errActorIDEmpty)
	}
	return nil
}

// newActor prepares a copy of a draft for its first save
func newActor(draft *lancer.Actor, ids idgen.Generator, seq int64, now int64) *lancer.Actor {
	a := draft.Clone()
	a.ID = ids.Generate()
	a.Sequence = seq
	a.CreatedAt = now
	a.UpdatedAt = now
	for i := range a.Items {
		a.Items[i].ID = ids.Generate()
	}
	return a
}

func applyUpdate(a *lancer.Actor, input UpdateInput, now int64) {
	a.Name = input.Name
	a.System = input.System
	a.System.Labels = append([]string(nil), input.System.Labels...)
	a.System.Stats = input.System.Stats.Clone()
	a.UpdatedAt = now
}

func applyCreateItems(a *lancer.Actor, items []lancer.Item, ids idgen.Generator, now int64) []lancer.Item {
	created := make([]lancer.Item, len(items))
	for i, item := range items {
		c := item.Clone()
		c.ID = ids.Generate()
		a.Items = append(a.Items, c)
		created[i] = c.Clone()
	}
	a.UpdatedAt = now
	return created
}

func applyUpdateItems(a *lancer.Actor, patches []lancer.ItemPatch, now int64) ([]lancer.Item, error) {
	positions := make(map[string]int, len(a.Items))
	for i, item := range a.Items {
		positions[item.ID] = i
	}

	// validate every patch before touching anything
	for _, p := range patches {
		if p.ItemID == "" {
			return nil, errors.InvalidArgument("item ID cannot be empty")
		}
		if _, ok := positions[p.ItemID]; !ok {
			return nil, errors.NotFoundf("item %s not found on actor %s", p.ItemID, a.ID)
		}
	}

	updated := make([]lancer.Item, len(patches))
	for i, p := range patches {
		item := &a.Items[positions[p.ItemID]]
		p.Apply(item)
		updated[i] = item.Clone()
	}
	a.UpdatedAt = now
	return updated, nil
}

func applyDeleteItems(a *lancer.Actor, ids []string, now int64) int {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := a.Items[:0]
	deleted := 0
	for _, item := range a.Items {
		if drop[item.ID] {
			deleted++
			continue
		}
		kept = append(kept, item)
	}
	a.Items = kept
	if deleted > 0 {
		a.UpdatedAt = now
	}
	return deleted
}
