package resolver

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/tweag/assetmap/api"
	"github.com/tweag/assetmap/importmap"
	"github.com/tweag/assetmap/integrity"
	"github.com/tweag/assetmap/resource"
)

// Direct is a Resolver that consults the descriptor source on every call.
// It serves development setups where the source changes underneath, such as
// a watched manifest. Nothing is retained: each resolution reflects the
// state of the source at call time. Concurrent resolutions of the same
// scope are still collapsed into a single enumeration.
type Direct struct {
	source    api.Source
	algorithm integrity.Algorithm
	group     singleflight.Group
}

var _ Resolver = (*Direct)(nil)

func NewDirect(source api.Source, algorithm integrity.Algorithm) *Direct {
	return &Direct{source: source, algorithm: algorithm}
}

func (d *Direct) Resolve(ctx context.Context, scope string) (*resource.Collection, error) {
	result, err, _ := d.group.Do(scope, func() (any, error) {
		return resolve(ctx, d.source, scope, d.algorithm)
	})
	if err != nil {
		return nil, err
	}
	return result.(*resource.Collection), nil
}

func (d *Direct) ResolveImportMap(ctx context.Context, scope string) (*importmap.ImportMap, error) {
	collection, err := d.Resolve(ctx, scope)
	if err != nil {
		return nil, err
	}
	return importmap.FromCollection(collection, d.algorithm), nil
}

// IsRegistered delegates to the descriptor source.
func (d *Direct) IsRegistered(ctx context.Context, scope string) (bool, error) {
	return d.source.HasDescriptors(ctx, scope)
}

// resolve runs one full resolution of a scope: enumerate, normalize, build.
// It is shared by all resolver strategies.
func resolve(ctx context.Context, source api.Source, scope string, algorithm integrity.Algorithm) (*resource.Collection, error) {
	descriptors, err := source.Descriptors(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("enumerating descriptors of scope %q: %w", scope, err)
	}
	return resource.NewCollection(resource.Normalize(descriptors), algorithm), nil
}
