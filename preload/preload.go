// Package preload derives "Link" response headers from the preload
// properties of a resolved resource collection.
package preload

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tweag/assetmap/resource"
)

// Link is one preload hint. Fields other than URL and Rel are optional
// and omitted from the rendered header when empty.
type Link struct {
	URL         string
	Rel         string
	As          string
	Integrity   string
	Priority    string
	Crossorigin string

	order   int64
	ordered bool
}

// Header renders the value of one "Link" response header.
func (l Link) Header() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "<%s>; rel=%q", l.URL, l.Rel)
	if l.As != "" {
		fmt.Fprintf(&builder, "; as=%q", l.As)
	}
	if l.Integrity != "" {
		fmt.Fprintf(&builder, "; integrity=%q", l.Integrity)
	}
	if l.Priority != "" {
		fmt.Fprintf(&builder, "; fetchpriority=%q", l.Priority)
	}
	if l.Crossorigin != "" {
		fmt.Fprintf(&builder, "; crossorigin=%q", l.Crossorigin)
	}
	return builder.String()
}

// Links selects the resources of a collection that carry a preload
// relationship and belong to the requested group. The empty group selects
// resources without a group. Links are ordered by their numeric order
// property; resources without one (or with a non-numeric value) come
// last, ties are broken by URL.
//
// Resources whose descriptors carried only preload properties resolve
// without any properties at all and therefore never yield a link.
func Links(c *resource.Collection, group string) []Link {
	var links []Link
	for r := range c.All() {
		rel, ok := r.Property(resource.PreloadRel)
		if !ok {
			continue
		}
		resourceGroup, _ := r.Property(resource.PreloadGroup)
		if resourceGroup != group {
			continue
		}
		link := Link{URL: r.URL, Rel: rel}
		link.As, _ = r.Property(resource.PreloadAs)
		link.Integrity, _ = r.Property(resource.Integrity)
		link.Priority, _ = r.Property(resource.PreloadPriority)
		link.Crossorigin, _ = r.Property(resource.PreloadCrossorigin)
		if rawOrder, ok := r.Property(resource.PreloadOrder); ok {
			if order, err := strconv.ParseInt(rawOrder, 10, 64); err == nil {
				link.order = order
				link.ordered = true
			}
		}
		links = append(links, link)
	}
	slices.SortFunc(links, compareLinks)
	return links
}

func compareLinks(a, b Link) int {
	switch {
	case a.ordered && b.ordered:
		if c := cmp.Compare(a.order, b.order); c != 0 {
			return c
		}
	case a.ordered:
		return -1
	case b.ordered:
		return 1
	}
	return strings.Compare(a.URL, b.URL)
}
