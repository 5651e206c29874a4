// Package importmap derives browser import map documents from resolved
// resource collections.
package importmap

import (
	"encoding/json"

	"github.com/tweag/assetmap/integrity"
	"github.com/tweag/assetmap/resource"
)

// ContentType is the media type import map documents are served with.
const ContentType = "application/importmap+json"

// An ImportMap is a module resolution map as consumed by browsers:
// bare import specifiers mapped to URLs, optional per-scope overrides,
// and subresource integrity values keyed by URL.
// Instances are immutable once constructed; the serialized form and its
// fingerprint are computed at construction time.
type ImportMap struct {
	Imports   map[string]string            `json:"imports,omitempty"`
	Scopes    map[string]map[string]string `json:"scopes,omitempty"`
	Integrity map[string]string            `json:"integrity,omitempty"`

	encoded     []byte
	fingerprint integrity.Checksum
}

// New builds an import map document from explicit members.
// Use FromCollection for maps derived from resolved collections.
func New(imports map[string]string, scopes map[string]map[string]string, integrityByURL map[string]string, algorithm integrity.Algorithm) *ImportMap {
	return build(imports, scopes, integrityByURL, algorithm)
}

// FromCollection derives the import map of a resolved collection.
// Every resource carrying a label contributes an import entry mapping the
// label to the resource URL. Independently, every resource carrying an
// integrity value contributes to the integrity member, keyed by URL.
// Derivation is deterministic: the collection is walked in sorted order,
// and on duplicate labels the last resource wins.
func FromCollection(collection *resource.Collection, algorithm integrity.Algorithm) *ImportMap {
	imports := map[string]string{}
	integrityByURL := map[string]string{}
	for res := range collection.All() {
		if label, ok := res.Property(resource.Label); ok {
			imports[label] = res.URL
		}
		if value, ok := res.Property(resource.Integrity); ok {
			integrityByURL[res.URL] = value
		}
	}
	return build(imports, nil, integrityByURL, algorithm)
}

// Combine merges import maps into a single document.
// Earlier maps take precedence: an import specifier, scope entry, or
// integrity value that is already mapped is never overridden by a later map.
// This matches how browsers treat multiple import maps on one page.
func Combine(algorithm integrity.Algorithm, maps ...*ImportMap) *ImportMap {
	imports := map[string]string{}
	scopes := map[string]map[string]string{}
	integrityByURL := map[string]string{}
	for _, m := range maps {
		if m == nil {
			continue
		}
		for specifier, url := range m.Imports {
			if _, ok := imports[specifier]; !ok {
				imports[specifier] = url
			}
		}
		for scope, entries := range m.Scopes {
			merged, ok := scopes[scope]
			if !ok {
				merged = map[string]string{}
				scopes[scope] = merged
			}
			for specifier, url := range entries {
				if _, ok := merged[specifier]; !ok {
					merged[specifier] = url
				}
			}
		}
		for url, value := range m.Integrity {
			if _, ok := integrityByURL[url]; !ok {
				integrityByURL[url] = value
			}
		}
	}
	return build(imports, scopes, integrityByURL, algorithm)
}

func build(imports map[string]string, scopes map[string]map[string]string, integrityByURL map[string]string, algorithm integrity.Algorithm) *ImportMap {
	m := &ImportMap{Imports: imports, Scopes: scopes, Integrity: integrityByURL}
	// Maps marshal with sorted keys, so the encoding is deterministic.
	encoded, err := json.Marshal(document(*m))
	if err != nil {
		// Members are plain string maps and always marshal.
		panic(err)
	}
	m.encoded = encoded
	m.fingerprint = integrity.Sum(algorithm, encoded)
	return m
}

// document is the wire shape of an import map, without the custom marshaller.
type document ImportMap

func (m *ImportMap) MarshalJSON() ([]byte, error) {
	return m.encoded, nil
}

// Fingerprint is the checksum of the serialized document.
// It serves as a strong validator for HTTP caching.
func (m *ImportMap) Fingerprint() integrity.Checksum {
	return m.fingerprint
}

// Encoded returns the serialized document.
// The returned slice is shared and must not be modified.
func (m *ImportMap) Encoded() []byte {
	return m.encoded
}
