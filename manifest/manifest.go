// Package manifest reads the asset manifest emitted by the publishing
// pipeline and serves it as a descriptor source.
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/tweag/assetmap/api"
	"github.com/tweag/assetmap/integrity"
	"github.com/tweag/assetmap/resource"
)

// CurrentVersion is the manifest format version this package understands.
const CurrentVersion = 1

// Manifest describes the JSON manifest file format.
// The assets list is the default scope; scopes adds named scopes.
type Manifest struct {
	Version int                              `json:"version"`
	Assets  []api.AssetDescriptor            `json:"assets"`
	Scopes  map[string][]api.AssetDescriptor `json:"scopes,omitempty"`
}

// A DecodeError marks a manifest that was read but could not be understood:
// malformed JSON, unknown fields, or failed validation.
// Callers use it to tell bad manifest contents apart from I/O failures.
type DecodeError struct {
	err error
}

func (e DecodeError) Error() string { return e.err.Error() }
func (e DecodeError) Unwrap() error { return e.err }

// Parse reads and validates a manifest document.
// Decoding is strict: unknown fields are rejected, so typos in hand-edited
// manifests surface instead of being silently dropped.
func Parse(reader io.Reader) (*Manifest, error) {
	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	var manifest Manifest
	if err := decoder.Decode(&manifest); err != nil {
		return nil, DecodeError{fmt.Errorf("decoding manifest: %w", err)}
	}
	if err := manifest.validate(); err != nil {
		return nil, DecodeError{err}
	}
	return &manifest, nil
}

// Load reads the manifest file at path.
func Load(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer file.Close()
	manifest, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return manifest, nil
}

func (m *Manifest) validate() error {
	issues := []string{}
	if m.Version != CurrentVersion {
		issues = append(issues, fmt.Sprintf(`"version" must be %d`, CurrentVersion))
	}
	issues = append(issues, validateEntries("assets", m.Assets)...)
	for _, scope := range slices.Sorted(maps.Keys(m.Scopes)) {
		if scope == "" {
			issues = append(issues, `"scopes" must not declare the empty scope name (the default scope is "assets")`)
		}
		issues = append(issues, validateEntries(fmt.Sprintf("scopes[%q]", scope), m.Scopes[scope])...)
	}
	if len(issues) > 0 {
		return errors.New("manifest validation failed: \n  " + strings.Join(issues, "\n  "))
	}
	return nil
}

func validateEntries(section string, entries []api.AssetDescriptor) []string {
	issues := []string{}
	// Routes of entries without selectors must be unique within a scope:
	// they become the URLs of the resolved collection.
	primaryRoutes := map[string]bool{}
	for i, entry := range entries {
		entryIssues := []string{}
		if len(entry.Route) == 0 || entry.Route[0] == '/' {
			entryIssues = append(entryIssues, `"route" must be a non-empty path, relative to the asset base`)
		}
		for _, selector := range entry.Selectors {
			if selector.Name == "" {
				entryIssues = append(entryIssues, `selector "name" must be a non-empty string`)
			}
		}
		for _, property := range entry.Properties {
			if property.Name == "" {
				entryIssues = append(entryIssues, `property "name" must be a non-empty string`)
			}
			if strings.EqualFold(property.Name, resource.Integrity) {
				if _, err := integrity.ChecksumFromSRI(property.Value); err != nil {
					entryIssues = append(entryIssues, fmt.Sprintf(`"integrity" value is not a valid sri string: %v`, err))
				}
			}
		}
		if len(entry.Selectors) == 0 {
			if primaryRoutes[entry.Route] {
				entryIssues = append(entryIssues, fmt.Sprintf("duplicate route %q", entry.Route))
			}
			primaryRoutes[entry.Route] = true
		}
		if len(entryIssues) > 0 {
			issues = append(issues, fmt.Sprintf("%s[%d] (%s): %s", section, i, entry.Route, strings.Join(entryIssues, ", ")))
		}
	}
	return issues
}

// Descriptors returns the entries of a scope.
// The empty scope name addresses the default scope.
func (m *Manifest) Descriptors(scope string) []api.AssetDescriptor {
	if scope == "" {
		return m.Assets
	}
	return m.Scopes[scope]
}

// HasScope reports whether the scope is declared in the manifest.
// The default scope is always declared.
func (m *Manifest) HasScope(scope string) bool {
	if scope == "" {
		return true
	}
	_, ok := m.Scopes[scope]
	return ok
}

// ScopeNames returns the declared named scopes in sorted order.
func (m *Manifest) ScopeNames() []string {
	return slices.Sorted(maps.Keys(m.Scopes))
}

// Source adapts a parsed manifest to the descriptor source contract.
// The manifest is fixed at construction; pair a Watcher with a
// recompute-per-call resolver when the file changes at runtime.
type Source struct {
	manifest *Manifest
}

var _ api.Source = (*Source)(nil)

func NewSource(manifest *Manifest) *Source {
	return &Source{manifest: manifest}
}

func (s *Source) Descriptors(_ context.Context, scope string) ([]api.AssetDescriptor, error) {
	return s.manifest.Descriptors(scope), nil
}

func (s *Source) HasDescriptors(_ context.Context, scope string) (bool, error) {
	return s.manifest.HasScope(scope), nil
}
