package api

import (
	"context"
	"maps"
)

// StaticSource is a Source backed by a fixed, in-memory set of descriptors.
// The empty map key addresses the default scope.
// It is immutable after construction and safe for concurrent use.
type StaticSource struct {
	scopes map[string][]AssetDescriptor
}

func NewStaticSource(scopes map[string][]AssetDescriptor) *StaticSource {
	return &StaticSource{scopes: maps.Clone(scopes)}
}

func (s *StaticSource) Descriptors(_ context.Context, scope string) ([]AssetDescriptor, error) {
	return s.scopes[scope], nil
}

func (s *StaticSource) HasDescriptors(_ context.Context, scope string) (bool, error) {
	_, ok := s.scopes[scope]
	return ok, nil
}
