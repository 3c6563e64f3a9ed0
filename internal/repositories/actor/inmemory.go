package actor

import (
	"context"
	"sort"
	"sync"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/pkg/clock"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/pkg/idgen"
)

// InMemoryConfig contains configuration for the in-memory repository
type InMemoryConfig struct {
	IDGenerator idgen.Generator
	Clock       clock.Clock
}

// InMemoryRepository implements Repository using in-memory storage.
// It backs dry runs and tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*lancer.Actor
	seq   int64
	ids   idgen.Generator
	clock clock.Clock
}

// NewInMemory creates a new in-memory repository. A nil config uses UUIDs
// and the real clock.
func NewInMemory(cfg *InMemoryConfig) *InMemoryRepository {
	if cfg == nil {
		cfg = &InMemoryConfig{}
	}
	ids := cfg.IDGenerator
	if ids == nil {
		ids = idgen.NewUUID("")
	}
	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &InMemoryRepository{
		store: make(map[string]*lancer.Actor),
		ids:   ids,
		clock: c,
	}
}

// Verify interfaces
var (
	_ Repository = (*InMemoryRepository)(nil)
	_ Settler    = (*InMemoryRepository)(nil)
)

// Create stores a new actor
func (r *InMemoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	a := newActor(input.Actor, r.ids, r.seq, r.clock.Now().Unix())
	r.store[a.ID] = a

	return &CreateOutput{Actor: a.Clone()}, nil
}

// Get retrieves an actor by ID
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if err := requireActorID(input.ID); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.store[input.ID]
	if !ok {
		return nil, errors.NotFoundf("actor %s not found", input.ID)
	}
	return &GetOutput{Actor: a.Clone()}, nil
}

// Update overwrites name and attributes
func (r *InMemoryRepository) Update(_ context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.store[input.ID]
	if !ok {
		return nil, errors.NotFoundf("actor %s not found", input.ID)
	}
	applyUpdate(a, input, r.clock.Now().Unix())

	return &UpdateOutput{Actor: a.Clone()}, nil
}

// CreateItems attaches items
func (r *InMemoryRepository) CreateItems(_ context.Context, input CreateItemsInput) (*CreateItemsOutput, error) {
	if err := requireActorID(input.ActorID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.store[input.ActorID]
	if !ok {
		return nil, errors.NotFoundf("actor %s not found", input.ActorID)
	}
	created := applyCreateItems(a, input.Items, r.ids, r.clock.Now().Unix())

	return &CreateItemsOutput{Items: created}, nil
}

// UpdateItems patches items
func (r *InMemoryRepository) UpdateItems(_ context.Context, input UpdateItemsInput) (*UpdateItemsOutput, error) {
	if err := requireActorID(input.ActorID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.store[input.ActorID]
	if !ok {
		return nil, errors.NotFoundf("actor %s not found", input.ActorID)
	}

	// patch a copy so a rejected batch leaves the actor untouched
	next := a.Clone()
	updated, err := applyUpdateItems(next, input.Patches, r.clock.Now().Unix())
	if err != nil {
		return nil, err
	}
	r.store[input.ActorID] = next

	return &UpdateItemsOutput{Items: updated}, nil
}

// DeleteItems removes items
func (r *InMemoryRepository) DeleteItems(_ context.Context, input DeleteItemsInput) (*DeleteItemsOutput, error) {
	if err := requireActorID(input.ActorID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.store[input.ActorID]
	if !ok {
		return nil, errors.NotFoundf("actor %s not found", input.ActorID)
	}
	deleted := applyDeleteItems(a, input.ItemIDs, r.clock.Now().Unix())

	return &DeleteItemsOutput{Deleted: deleted}, nil
}

// Find returns the actors carrying a lid
func (r *InMemoryRepository) Find(_ context.Context, input FindInput) (*FindOutput, error) {
	if err := validateFind(input); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*lancer.Actor
	for _, a := range r.sorted() {
		if a.Type == input.Type && a.System.LID == input.LID {
			out = append(out, a.Clone())
		}
	}
	return &FindOutput{Actors: out}, nil
}

// List returns every actor
func (r *InMemoryRepository) List(_ context.Context, _ ListInput) (*ListOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := r.sorted()
	out := make([]*lancer.Actor, len(sorted))
	for i, a := range sorted {
		out[i] = a.Clone()
	}
	return &ListOutput{Actors: out}, nil
}

// AwaitSettled returns at once; nothing is derived asynchronously in memory
func (r *InMemoryRepository) AwaitSettled(ctx context.Context, _ string) error {
	return ctx.Err()
}

func (r *InMemoryRepository) sorted() []*lancer.Actor {
	out := make([]*lancer.Actor, 0, len(r.store))
	for _, a := range r.store {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Sequence < out[j].Sequence
	})
	return out
}
