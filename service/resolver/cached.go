package resolver

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/tweag/assetmap/api"
	"github.com/tweag/assetmap/importmap"
	"github.com/tweag/assetmap/integrity"
	"github.com/tweag/assetmap/resource"
)

// Cached is a Resolver that resolves every scope at most once and retains
// the result for its lifetime. It serves deployments where the set of
// published assets is fixed after startup: repeated resolutions return the
// identical collection, so artifacts derived from it (entity tags,
// serialized bytes) stay valid for as long as the process runs.
//
// Failed resolutions are not retained. A later call consults the source again.
type Cached struct {
	source    api.Source
	algorithm integrity.Algorithm

	// mu guards the entries map only. It is never held while the
	// descriptor source runs.
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
}

var _ Resolver = (*Cached)(nil)

// entry is the cell of one scope. The collection pointer is
// single-assignment: it transitions at most once from nil to a resolved
// collection and then never changes. The derived import map is owned by
// the entry and shares its lifetime.
type entry struct {
	collection atomic.Pointer[resource.Collection]

	deriveOnce sync.Once
	importMap  *importmap.ImportMap
}

func NewCached(source api.Source, algorithm integrity.Algorithm) *Cached {
	return &Cached{
		source:    source,
		algorithm: algorithm,
		entries:   make(map[string]*entry),
	}
}

func (c *Cached) Resolve(ctx context.Context, scope string) (*resource.Collection, error) {
	e := c.entry(scope)
	if collection := e.collection.Load(); collection != nil {
		return collection, nil
	}
	// Concurrent first resolutions of one scope collapse into a single
	// enumeration of the source. Losers of the race receive the winner's
	// collection, never a second build.
	result, err, _ := c.group.Do(scope, func() (any, error) {
		// A previous flight may have published while we waited.
		if collection := e.collection.Load(); collection != nil {
			return collection, nil
		}
		collection, err := resolve(ctx, c.source, scope, c.algorithm)
		if err != nil {
			return nil, err
		}
		e.collection.CompareAndSwap(nil, collection)
		return e.collection.Load(), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*resource.Collection), nil
}

func (c *Cached) ResolveImportMap(ctx context.Context, scope string) (*importmap.ImportMap, error) {
	collection, err := c.Resolve(ctx, scope)
	if err != nil {
		return nil, err
	}
	e := c.entry(scope)
	// Derived at most once from the retained collection. The import map is
	// never invalidated independently of its entry.
	e.deriveOnce.Do(func() {
		e.importMap = importmap.FromCollection(collection, c.algorithm)
	})
	return e.importMap, nil
}

// IsRegistered delegates to the descriptor source.
// It never resolves and never populates the cache.
func (c *Cached) IsRegistered(ctx context.Context, scope string) (bool, error) {
	return c.source.HasDescriptors(ctx, scope)
}

func (c *Cached) entry(scope string) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[scope]
	if !ok {
		e = &entry{}
		c.entries[scope] = e
	}
	return e
}
