package keys

import (
	"sort"
	"strings"
)

// Slug lower-cases a display name, trims it and replaces runs of spaces
// with a single underscore. Spell ids and catalog name keys use it.
func Slug(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

// RosterKey produces a canonical key for a set of combatant names.
// Behavior: slugs each name, drops empties and duplicates, sorts the parts
// and joins with a comma. Order in the request does not change the key.
func RosterKey(names []string) string {
	seen := make(map[string]struct{}, len(names))
	parts := make([]string, 0, len(names))
	for _, n := range names {
		s := Slug(n)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		parts = append(parts, s)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
