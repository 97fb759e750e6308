// Package geo resolves free-text Korean region names to approximate
// coordinates via a static in-memory table.
package geo

import "strings"

// adminSuffixes are common administrative suffixes stripped during
// normalization. Longer suffixes come first so "특별자치도" is removed before
// the bare "도" pass.
var adminSuffixes = []string{"특별자치도", "광역시", "특별시", "도", "시"}

// Geocoder maps region names to coordinates. The table is fixed at
// construction; lookups never perform I/O.
type Geocoder struct {
	entries []Entry
}

// NewGeocoder creates a Geocoder over a copy of the given table.
func NewGeocoder(table []Entry) *Geocoder {
	entries := make([]Entry, len(table))
	copy(entries, table)
	return &Geocoder{entries: entries}
}

// Geocode resolves a region name. First pass: the first table entry whose
// name is a substring of the raw input wins. Second pass: administrative
// suffixes are stripped from both sides and an exact match is retried.
// The second return is false when neither pass matches.
func (g *Geocoder) Geocode(region string) (Coordinate, bool) {
	raw := strings.TrimSpace(region)
	if raw == "" {
		return Coordinate{}, false
	}

	for _, e := range g.entries {
		if strings.Contains(raw, e.Name) {
			return e.Center, true
		}
	}

	normalized := normalizeRegion(raw)
	for _, e := range g.entries {
		if normalizeRegion(e.Name) == normalized {
			return e.Center, true
		}
	}

	return Coordinate{}, false
}

// normalizeRegion strips administrative suffixes like 특별자치도/광역시/특별시/도/시.
func normalizeRegion(s string) string {
	s = strings.TrimSpace(s)
	for _, suffix := range adminSuffixes {
		s = strings.ReplaceAll(s, suffix, "")
	}
	return s
}
