// Package library provides read access to the installed compendiums
package library

//go:generate mockgen -destination=mock/mock_repository.go -package=librarymock github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/repositories/library Repository

import (
	"context"
	"fmt"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
)

// Repository defines the interface for compendium reads
type Repository interface {
	// ListPartitions returns the index of every partition, in listing order.
	// Index entries only carry the fields needed to pick a definition.
	// Returns errors.Internal for storage failures
	ListPartitions(ctx context.Context, input ListPartitionsInput) (*ListPartitionsOutput, error)

	// GetEntry loads a full definition from a partition
	// Returns errors.InvalidArgument for empty partition or entry IDs
	// Returns errors.NotFound if the partition or entry doesn't exist
	// Returns errors.Internal for storage failures
	GetEntry(ctx context.Context, input GetEntryInput) (*GetEntryOutput, error)
}

// Writer stores whole partitions
type Writer interface {
	// SavePartition replaces a partition and all of its entries
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Internal for storage failures
	SavePartition(ctx context.Context, input SavePartitionInput) (*SavePartitionOutput, error)
}

// Store is a library that can also be written
type Store interface {
	Repository
	Writer
}

// IndexEntry is the lookup view of a definition
type IndexEntry struct {
	ID   string          `json:"_id"`
	LID  string          `json:"lid"`
	Type lancer.ItemType `json:"type"`
}

// PartitionIndex is a partition without its full definitions
type PartitionIndex struct {
	Name         string       `json:"name"`
	DocumentType string       `json:"document_type"`
	Entries      []IndexEntry `json:"entries"`
}

// ListPartitionsInput defines the input for listing partitions
type ListPartitionsInput struct{}

// ListPartitionsOutput defines the output for listing partitions
type ListPartitionsOutput struct {
	Partitions []PartitionIndex
}

// GetEntryInput defines the input for loading an entry
type GetEntryInput struct {
	Partition string
	ID        string
}

// GetEntryOutput defines the output for loading an entry
type GetEntryOutput struct {
	Entry *lancer.LibraryEntry
}

// SavePartitionInput defines the input for saving a partition
type SavePartitionInput struct {
	Partition *lancer.Partition
}

// SavePartitionOutput defines the output for saving a partition
type SavePartitionOutput struct {
	EntryCount int
}

func indexOf(p *lancer.Partition) PartitionIndex {
	idx := PartitionIndex{
		Name:         p.Name,
		DocumentType: p.DocumentType,
		Entries:      make([]IndexEntry, len(p.Entries)),
	}
	for i, e := range p.Entries {
		idx.Entries[i] = IndexEntry{ID: e.ID, LID: e.LID, Type: e.Type}
	}
	return idx
}

func validatePartition(p *lancer.Partition) error {
	vb := errors.NewValidationBuilder()
	if p == nil {
		vb.RequiredField("partition")
		return vb.Build()
	}
	errors.ValidateRequired("partition.name", p.Name, vb)
	errors.ValidateRequired("partition.document_type", p.DocumentType, vb)

	seen := make(map[string]bool, len(p.Entries))
	for i, e := range p.Entries {
		if e.ID == "" {
			vb.RequiredField(fmt.Sprintf("entries[%d]._id", i))
			continue
		}
		if seen[e.ID] {
			vb.Fieldf(fmt.Sprintf("entries[%d]._id", i), "duplicate id %s", e.ID)
		}
		seen[e.ID] = true
	}
	return vb.Build()
}
