// Package resolver finds library definitions by lid across the compendiums
package resolver

//go:generate mockgen -destination=mock/mock_service.go -package=resolvermock github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/services/resolver Service

import (
	"context"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
)

// Service looks up definitions by lid
type Service interface {
	// FindByLID returns a copy of the first definition with the lid, scanning
	// Item partitions in listing order. An empty type matches any type.
	// A miss is not an error; Found is false.
	// Returns errors.Internal for library failures
	FindByLID(ctx context.Context, input *FindByLIDInput) (*FindByLIDOutput, error)

	// Reset drops the cached indexes; the next lookup rebuilds them
	Reset()
}

// FindByLIDInput contains the lookup key
type FindByLIDInput struct {
	LID  string
	Type lancer.ItemType
}

// FindByLIDOutput contains the definition, nil when not found
type FindByLIDOutput struct {
	Entry *lancer.LibraryEntry
	Found bool
}
