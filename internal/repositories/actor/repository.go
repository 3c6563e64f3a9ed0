// Package actor provides the interface for NPC actor persistence
package actor

//go:generate mockgen -destination=mock/mock_repository.go -package=actormock github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/repositories/actor Repository

import (
	"context"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
)

// Repository defines the interface for actor persistence.
// Every method returns copies; callers never share state with the store.
type Repository interface {
	// Create stores a new actor, assigning its ID, creation sequence and
	// the IDs of any embedded items
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves an actor by ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the actor doesn't exist
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update overwrites the name and attribute record of an actor.
	// Image, token and items are left alone.
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound if the actor doesn't exist
	// Returns errors.Internal for storage failures
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// CreateItems attaches items to an actor, assigning fresh item IDs
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound if the actor doesn't exist
	// Returns errors.Internal for storage failures
	CreateItems(ctx context.Context, input CreateItemsInput) (*CreateItemsOutput, error)

	// UpdateItems applies patches to embedded items
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound if the actor or a patched item doesn't exist
	// Returns errors.Internal for storage failures
	UpdateItems(ctx context.Context, input UpdateItemsInput) (*UpdateItemsOutput, error)

	// DeleteItems removes embedded items by ID; unknown IDs are ignored
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound if the actor doesn't exist
	// Returns errors.Internal for storage failures
	DeleteItems(ctx context.Context, input DeleteItemsInput) (*DeleteItemsOutput, error)

	// Find returns the actors of a type whose attribute record carries the
	// lid, in creation order
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Internal for storage failures
	Find(ctx context.Context, input FindInput) (*FindOutput, error)

	// List returns every actor in creation order
	// Returns errors.Internal for storage failures
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

// Settler is implemented by stores that can tell when the derived fields of
// an actor are computed after a mutation
type Settler interface {
	// AwaitSettled blocks until pending derived field computation for the
	// actor is done
	AwaitSettled(ctx context.Context, actorID string) error
}

// CreateInput defines the input for creating an actor
type CreateInput struct {
	Actor *lancer.Actor
}

// CreateOutput defines the output for creating an actor
type CreateOutput struct {
	Actor *lancer.Actor
}

// GetInput defines the input for getting an actor
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting an actor
type GetOutput struct {
	Actor *lancer.Actor
}

// UpdateInput defines the input for updating an actor
type UpdateInput struct {
	ID     string
	Name   string
	System lancer.ActorSystem
}

// UpdateOutput defines the output for updating an actor
type UpdateOutput struct {
	Actor *lancer.Actor
}

// CreateItemsInput defines the input for attaching items
type CreateItemsInput struct {
	ActorID string
	Items   []lancer.Item
}

// CreateItemsOutput contains the attached items with their IDs
type CreateItemsOutput struct {
	Items []lancer.Item
}

// UpdateItemsInput defines the input for patching items
type UpdateItemsInput struct {
	ActorID string
	Patches []lancer.ItemPatch
}

// UpdateItemsOutput contains the patched items
type UpdateItemsOutput struct {
	Items []lancer.Item
}

// DeleteItemsInput defines the input for removing items
type DeleteItemsInput struct {
	ActorID string
	ItemIDs []string
}

// DeleteItemsOutput defines the output for removing items
type DeleteItemsOutput struct {
	Deleted int
}

// FindInput defines the query for actors by lid
type FindInput struct {
	Type string
	LID  string
}

// FindOutput contains the matching actors
type FindOutput struct {
	Actors []*lancer.Actor
}

// ListInput defines the input for listing actors
type ListInput struct{}

// ListOutput contains every actor
type ListOutput struct {
	Actors []*lancer.Actor
}
