package resource

import (
	"strings"

	"github.com/tweag/assetmap/api"
)

// Slot indices into the recognized property table.
// Slot order is the emission order of properties on a resource.
const (
	slotLabel = iota
	slotIntegrity
	slotPreloadRel
	slotPreloadAs
	slotPreloadPriority
	slotPreloadCrossorigin
	slotPreloadOrder
	slotPreloadGroup
	numRecognized
)

// Canonical names of the recognized descriptor properties.
// Descriptor property names are matched case-insensitively against these;
// resolved resources always carry the canonical spelling.
const (
	Label              = "label"
	Integrity          = "integrity"
	PreloadRel         = "preloadrel"
	PreloadAs          = "preloadas"
	PreloadPriority    = "preloadpriority"
	PreloadCrossorigin = "preloadcrossorigin"
	PreloadOrder       = "preloadorder"
	PreloadGroup       = "preloadgroup"
)

// recognizedNames is the single source of truth for which descriptor
// properties are recognized and in which order they are emitted.
// Extraction and emission both derive from this table.
var recognizedNames = [numRecognized]string{
	slotLabel:              Label,
	slotIntegrity:          Integrity,
	slotPreloadRel:         PreloadRel,
	slotPreloadAs:          PreloadAs,
	slotPreloadPriority:    PreloadPriority,
	slotPreloadCrossorigin: PreloadCrossorigin,
	slotPreloadOrder:       PreloadOrder,
	slotPreloadGroup:       PreloadGroup,
}

var slotsByName = func() map[string]int {
	m := make(map[string]int, numRecognized)
	for slot, name := range recognizedNames {
		m[name] = slot
	}
	return m
}()

// slotForName resolves a descriptor property name to its slot,
// comparing case-insensitively.
func slotForName(name string) (int, bool) {
	slot, ok := slotsByName[strings.ToLower(name)]
	return slot, ok
}

// extracted holds the recognized property values found on one descriptor.
type extracted struct {
	values [numRecognized]string
	found  [numRecognized]bool
	// count is the number of distinct recognized properties found.
	count int
}

// extractProperties scans the descriptor properties for recognized names.
// Unrecognized names are ignored, so descriptors can grow new annotations
// without breaking older consumers. Duplicate names: the last one wins.
func extractProperties(properties []api.DescriptorProperty) extracted {
	var ex extracted
	for _, property := range properties {
		slot, ok := slotForName(property.Name)
		if !ok {
			continue
		}
		if !ex.found[slot] {
			ex.found[slot] = true
			ex.count++
		}
		ex.values[slot] = property.Value
	}
	return ex
}
