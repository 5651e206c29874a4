package resource

import (
	"github.com/tweag/assetmap/api"
)

// A Property is one piece of metadata on a resolved resource.
// Name is always one of the recognized property names, in canonical spelling.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// A Resource is one entry of a resolved collection: the URL an asset is
// reachable under, plus the recognized metadata extracted from its descriptor.
// Properties is nil when the descriptor carried neither a label nor an
// integrity value. On the wire, nil properties are omitted entirely,
// distinguishing "no metadata" from "zero properties".
type Resource struct {
	URL        string     `json:"url"`
	Properties []Property `json:"properties,omitempty"`
}

// Property returns the value of the named property, if present.
// Callers pass one of the canonical property name constants.
func (r Resource) Property(name string) (string, bool) {
	for _, property := range r.Properties {
		if property.Name == name {
			return property.Value, true
		}
	}
	return "", false
}

// Normalize turns raw asset descriptors into resources.
// Descriptors with selectors describe alternative representations of another
// asset and are skipped entirely. All other descriptors keep their route
// verbatim as the URL. Resources for descriptors carrying at least one of
// label or integrity receive every recognized property found, in the fixed
// table order. Descriptors with neither yield a resource without properties,
// even when preload hints were present on the descriptor.
func Normalize(descriptors []api.AssetDescriptor) []Resource {
	resources := make([]Resource, 0, len(descriptors))
	for _, descriptor := range descriptors {
		if len(descriptor.Selectors) > 0 {
			continue
		}
		resources = append(resources, normalizeOne(descriptor))
	}
	return resources
}

func normalizeOne(descriptor api.AssetDescriptor) Resource {
	ex := extractProperties(descriptor.Properties)
	out := Resource{URL: descriptor.Route}
	if !ex.found[slotLabel] && !ex.found[slotIntegrity] {
		return out
	}
	properties := make([]Property, 0, ex.count)
	for slot, name := range recognizedNames {
		if ex.found[slot] {
			properties = append(properties, Property{Name: name, Value: ex.values[slot]})
		}
	}
	out.Properties = properties
	return out
}
