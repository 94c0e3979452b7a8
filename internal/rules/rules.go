// Package rules derives stable lookup keys from transaction descriptions and
// resolves categories through layered rule sets: explicit user rules first,
// then learned (suggested) rules, then the static vendor table.
package rules

import (
	"regexp"
	"strings"
)

// DefaultCategory is returned when no rule layer matches a description.
const DefaultCategory = "Uncategorized"

// trailingDate matches a date fragment at the end of a description, e.g.
// "NETFLIX.COM 04/12" or "CITY PARKING 4/2/24". Bank exports append these to
// otherwise identical descriptions, which would break grouping.
var trailingDate = regexp.MustCompile(`\s+\d{1,2}/\d{1,2}(?:/\d{2,4})?$`)

// Normalize strips one trailing date fragment and surrounding whitespace so
// that recurring charges from the same vendor share a grouping key.
// Normalizing an already-normalized description is a no-op. Embedded numeric
// tokens are preserved; only a trailing fragment is removed.
func Normalize(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}

	return strings.TrimSpace(trailingDate.ReplaceAllString(description, ""))
}

// Key derives the lookup key for a description: normalized and lowercased.
func Key(description string) string {
	return strings.ToLower(Normalize(description))
}

// Set is one layer of categorization rules, keyed by Key(description).
// Values keep the exact casing they were saved with.
type Set map[string]string

// Save stores a rule for the description, overwriting any prior value for the
// same key. The category is trimmed but otherwise stored as given. Empty
// descriptions and categories are ignored.
func Save(set Set, description, category string) {
	key := Key(description)

	category = strings.TrimSpace(category)
	if key == "" || category == "" {
		return
	}

	set[key] = category
}

// Categorize resolves a category for the description.
//
// Lookup order:
//  1. user rules (exact key match)
//  2. suggested rules (exact key match)
//  3. vendor table (substring match, longest pattern first)
//  4. DefaultCategory
func Categorize(description string, user, suggested Set) string {
	key := Key(description)
	if key == "" {
		return DefaultCategory
	}

	if cat, ok := user[key]; ok {
		return cat
	}

	if cat, ok := suggested[key]; ok {
		return cat
	}

	for _, pattern := range vendorPatterns {
		if strings.Contains(key, pattern) {
			return vendorTable[pattern]
		}
	}

	return DefaultCategory
}
