package resolver

import (
	"context"

	"github.com/tweag/assetmap/importmap"
	"github.com/tweag/assetmap/resource"
)

// Resolver resolves the asset descriptors of a scope into a resource
// collection and derives import map documents from it.
// The empty scope name addresses the default scope.
// Implementations are safe for concurrent use.
type Resolver interface {
	// Resolve returns the resolved collection of the scope.
	// A scope without descriptors resolves to the empty collection, not an error.
	// Failures of the descriptor source are propagated to the caller.
	Resolve(ctx context.Context, scope string) (*resource.Collection, error)
	// ResolveImportMap returns the import map derived from the scope's
	// resolved collection.
	ResolveImportMap(ctx context.Context, scope string) (*importmap.ImportMap, error)
	// IsRegistered reports whether the scope is declared in the underlying
	// descriptor source. It never resolves and never populates a cache.
	IsRegistered(ctx context.Context, scope string) (bool, error)
}
