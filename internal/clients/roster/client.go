// Package roster reads Comp/Con NPC records from a roster source
package roster

//go:generate mockgen -destination=mock/mock_client.go -package=rostermock github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/clients/roster Client

import (
	"context"
	"encoding/json"
	"strings"
)

// ActiveSuffix marks the current revision of a record in a Comp/Con roster
const ActiveSuffix = "--active"

// Client defines the interface to a roster of NPC records
type Client interface {
	// List returns the record keys in a stable order
	// Returns errors.Unavailable when the roster cannot be read
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// Get returns the raw JSON of one record
	// Returns errors.InvalidArgument for malformed keys
	// Returns errors.NotFound if the key doesn't exist
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
}

// ListInput defines the listing filter
type ListInput struct {
	// ActiveOnly keeps keys ending with ActiveSuffix
	ActiveOnly bool
}

// ListOutput contains the record keys
type ListOutput struct {
	Keys []string
}

// GetInput defines the record to fetch
type GetInput struct {
	Key string
}

// GetOutput contains the raw record
type GetOutput struct {
	Record json.RawMessage
}

// IsActive reports whether a key names the active revision of a record
func IsActive(key string) bool {
	return strings.HasSuffix(key, ActiveSuffix)
}
