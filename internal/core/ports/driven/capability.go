package driven

import (
	"context"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// CapabilityClient is the uniform surface of one workspace service.
// Errors from the remote API are returned as *domain.RemoteError.
type CapabilityClient interface {
	// Service reports which service this client serves.
	Service() domain.Service

	// List returns items matching the options.
	List(ctx context.Context, opts ListOptions) ([]any, error)

	// Get returns a single item by ID.
	Get(ctx context.Context, id string) (any, error)

	// Create creates an item from the details and returns it.
	Create(ctx context.Context, details domain.Details) (any, error)

	// Update modifies an item and returns the updated representation.
	Update(ctx context.Context, id string, details domain.Details) (any, error)

	// Delete removes an item.
	Delete(ctx context.Context, id string) error

	// Extension returns a service-specific operation such as "upload"
	// or "append_text".
	Extension(name string) (ExtensionFunc, bool)
}

// ExtensionFunc is a service-specific operation outside the uniform surface.
type ExtensionFunc func(ctx context.Context, details domain.Details) (any, error)

// ListOptions narrows a List call.
type ListOptions struct {
	// MaxResults caps the number of items returned.
	MaxResults int

	// Query is a service-specific search expression.
	Query string

	// Filters carries remaining service-specific options
	// (label IDs, time bounds, ordering).
	Filters domain.Details
}
