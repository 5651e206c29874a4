package resource

import (
	"encoding/json"
	"iter"
	"slices"
	"strings"

	"github.com/tweag/assetmap/integrity"
)

// A Collection is an immutable, ordered set of resources resolved for one
// scope. Resources are sorted by URL under byte-wise comparison, never
// locale-aware, so serialization is deterministic and the fingerprint is
// stable across processes.
type Collection struct {
	resources   []Resource
	encoded     []byte
	fingerprint integrity.Checksum
}

// NewCollection sorts the resources and computes the serialized form and its
// fingerprint. The sort is stable, so resources sharing a URL keep their
// input order. Sorting, encoding, and fingerprinting happen once, here,
// not per access.
func NewCollection(resources []Resource, algorithm integrity.Algorithm) *Collection {
	sorted := slices.Clone(resources)
	if sorted == nil {
		sorted = []Resource{}
	}
	slices.SortStableFunc(sorted, func(a, b Resource) int {
		return strings.Compare(a.URL, b.URL)
	})
	encoded, err := json.Marshal(sorted)
	if err != nil {
		// Resources are plain string pairs and always marshal.
		panic(err)
	}
	return &Collection{
		resources:   sorted,
		encoded:     encoded,
		fingerprint: integrity.Sum(algorithm, encoded),
	}
}

func (c *Collection) Len() int {
	return len(c.resources)
}

// Resources returns the resources in sorted order.
// The returned slice is shared and must not be modified.
func (c *Collection) Resources() []Resource {
	return c.resources
}

// All iterates the resources in sorted order.
func (c *Collection) All() iter.Seq[Resource] {
	return func(yield func(Resource) bool) {
		for _, resource := range c.resources {
			if !yield(resource) {
				return
			}
		}
	}
}

// Fingerprint is the checksum of the serialized collection.
// It serves as a strong validator for HTTP caching.
func (c *Collection) Fingerprint() integrity.Checksum {
	return c.fingerprint
}

// Encoded returns the serialized collection: a JSON array of resources.
// The returned slice is shared and must not be modified.
func (c *Collection) Encoded() []byte {
	return c.encoded
}

func (c *Collection) MarshalJSON() ([]byte, error) {
	return c.encoded, nil
}
