package resolver

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tweag/assetmap/importmap"
	"github.com/tweag/assetmap/resource"
)

// Expiring wraps a Resolver with a time-bounded read-through cache.
// It serves multi-tenant deployments with many scopes, where retaining
// every resolved collection forever would grow without bound. Entries
// expire after the configured TTL and are resolved again on the next
// request. Within the TTL, repeated resolutions of a scope return the
// identical collection.
//
// Failed resolutions are never cached.
type Expiring struct {
	inner Resolver
	ttl   time.Duration
	cache *gocache.Cache
}

var _ Resolver = (*Expiring)(nil)

func NewExpiring(inner Resolver, ttl, cleanupInterval time.Duration) *Expiring {
	return &Expiring{
		inner: inner,
		ttl:   ttl,
		cache: gocache.New(ttl, cleanupInterval),
	}
}

func (e *Expiring) Resolve(ctx context.Context, scope string) (*resource.Collection, error) {
	key := collectionKey(scope)
	if cached, ok := e.cache.Get(key); ok {
		return cached.(*resource.Collection), nil
	}
	collection, err := e.inner.Resolve(ctx, scope)
	if err != nil {
		return nil, err
	}
	e.cache.Set(key, collection, e.ttl)
	return collection, nil
}

func (e *Expiring) ResolveImportMap(ctx context.Context, scope string) (*importmap.ImportMap, error) {
	key := importMapKey(scope)
	if cached, ok := e.cache.Get(key); ok {
		return cached.(*importmap.ImportMap), nil
	}
	m, err := e.inner.ResolveImportMap(ctx, scope)
	if err != nil {
		return nil, err
	}
	e.cache.Set(key, m, e.ttl)
	return m, nil
}

// IsRegistered delegates to the inner resolver. Registration checks are
// cheap and must reflect the current source, so they bypass the cache.
func (e *Expiring) IsRegistered(ctx context.Context, scope string) (bool, error) {
	return e.inner.IsRegistered(ctx, scope)
}

// Cache keys carry a kind prefix so a scope's collection and import map
// entries never collide.
func collectionKey(scope string) string { return "collection\x00" + scope }
func importMapKey(scope string) string  { return "importmap\x00" + scope }
