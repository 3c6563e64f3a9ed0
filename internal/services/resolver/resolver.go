package resolver

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/repositories/library"
)

// Config contains the resolver dependencies
type Config struct {
	Library library.Repository
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c == nil {
		vb.RequiredField("config")
		return vb.Build()
	}
	if c.Library == nil {
		vb.RequiredField("Library")
	}
	return vb.Build()
}

type indexKey struct {
	lid      string
	itemType lancer.ItemType
}

// partitionIndex maps keys to entry ids; the first entry with a key wins
type partitionIndex struct {
	byKey map[indexKey]string
	byLID map[string]string
}

// Resolver implements Service with a per-session index cache
type Resolver struct {
	library library.Repository

	mu         sync.Mutex
	partitions []library.PartitionIndex
	loaded     bool
	indexes    map[string]*partitionIndex
}

// New creates a resolver
func New(cfg *Config) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Resolver{
		library: cfg.Library,
		indexes: make(map[string]*partitionIndex),
	}, nil
}

// Verify that Resolver implements Service
var _ Service = (*Resolver)(nil)

// FindByLID implements Service
func (r *Resolver) FindByLID(ctx context.Context, input *FindByLIDInput) (*FindByLIDOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.LID == "" {
		return &FindByLIDOutput{}, nil
	}

	partition, id, err := r.lookup(ctx, input.LID, input.Type)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return &FindByLIDOutput{}, nil
	}

	out, err := r.library.GetEntry(ctx, library.GetEntryInput{Partition: partition, ID: id})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s from %s", input.LID, partition)
	}

	return &FindByLIDOutput{Entry: out.Entry.Clone(), Found: true}, nil
}

// Reset implements Service
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.partitions = nil
	r.loaded = false
	r.indexes = make(map[string]*partitionIndex)
}

func (r *Resolver) lookup(ctx context.Context, lid string, itemType lancer.ItemType) (string, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		out, err := r.library.ListPartitions(ctx, library.ListPartitionsInput{})
		if err != nil {
			return "", "", errors.Wrap(err, "failed to list library partitions")
		}
		r.partitions = out.Partitions
		r.loaded = true
	}

	for i := range r.partitions {
		p := &r.partitions[i]
		if p.DocumentType != lancer.DocumentTypeItem {
			continue
		}

		idx := r.indexFor(p)
		var (
			id string
			ok bool
		)
		if itemType == "" {
			id, ok = idx.byLID[lid]
		} else {
			id, ok = idx.byKey[indexKey{lid: lid, itemType: itemType}]
		}
		if ok {
			return p.Name, id, nil
		}
	}

	return "", "", nil
}

func (r *Resolver) indexFor(p *library.PartitionIndex) *partitionIndex {
	if idx, ok := r.indexes[p.Name]; ok {
		return idx
	}

	idx := &partitionIndex{
		byKey: make(map[indexKey]string, len(p.Entries)),
		byLID: make(map[string]string, len(p.Entries)),
	}
	for _, e := range p.Entries {
		if e.LID == "" {
			continue
		}
		key := indexKey{lid: e.LID, itemType: e.Type}
		if _, exists := idx.byKey[key]; !exists {
			idx.byKey[key] = e.ID
		}
		if _, exists := idx.byLID[e.LID]; !exists {
			idx.byLID[e.LID] = e.ID
		}
	}
	r.indexes[p.Name] = idx

	slog.Debug("Indexed library partition", "partition", p.Name, "entries", len(p.Entries))
	return idx
}
