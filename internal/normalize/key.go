// Package normalize holds the pure helpers that map provider-native values
// (free-text locations, dates, price strings, condition phrases) into the
// canonical forms used across the dashboard.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LocationKey returns the canonical cache key for a free-text location or a
// "lat,lon" pair. Case, surrounding whitespace, repeated inner whitespace and
// spacing around commas are not significant.
func LocationKey(s string) string {
	parts := strings.Split(strings.ToLower(s), ",")
	for i, p := range parts {
		parts[i] = strings.Join(strings.Fields(p), " ")
	}
	return strings.Join(parts, ",")
}

// CropKey normalizes a commodity name for use as a cache key.
func CropKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// CropName returns the commodity name as data.gov.in spells it: title case
// with collapsed whitespace. CropKey(CropName(s)) == CropKey(s).
func CropName(s string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}
