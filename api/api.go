package api

import "context"

// A Selector marks an asset descriptor as an alternative representation of
// another asset reachable under the same route, negotiated at request time.
// Example: a content-encoding variant with Name "Content-Encoding" and
// Value "br".
type Selector struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Quality string `json:"quality,omitempty"`
}

// A DescriptorProperty is a free-form name/value annotation attached to an
// asset descriptor by the publishing pipeline.
// Consumers compare property names case-insensitively.
type DescriptorProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// An AssetDescriptor describes a single published static asset:
// the route it is served under, the selectors that apply to it,
// and the properties the publishing pipeline attached to it.
// This type does not include the actual data, but only metadata about it.
// Asset bytes never flow through this system.
type AssetDescriptor struct {
	Route      string               `json:"route"`
	Selectors  []Selector           `json:"selectors,omitempty"`
	Properties []DescriptorProperty `json:"properties,omitempty"`
}

// Source enumerates the asset descriptors of a scope.
// The empty scope name addresses the default scope.
// Enumeration may block on I/O, so implementations accept a context.
// Callers must not assume any ordering of the returned descriptors.
type Source interface {
	// Descriptors returns all descriptors registered for the given scope.
	// A scope without descriptors yields an empty result, not an error.
	Descriptors(ctx context.Context, scope string) ([]AssetDescriptor, error)
	// HasDescriptors reports whether the scope is declared in the source.
	HasDescriptors(ctx context.Context, scope string) (bool, error)
}
