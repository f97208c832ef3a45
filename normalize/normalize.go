// Package normalize implements the Station Name Normalizer (spec.md §4.5):
// canonicalising a user-supplied station name to the repository's
// canonical form, and judging whether two names denote the same station.
package normalize

import (
	"strings"
)

// namesSource is satisfied by anything that can answer exact membership of
// station names; this is what Resolve actually needs (a case-preserving
// exact-match set),
// rather than full Station records.
type namesSource interface {
	HasName(name string) bool
}

// Set is a simple case-sensitive membership set of canonical names,
// satisfying namesSource. Callers build one once (e.g. from
// repository.StationNames()) and reuse it across Resolve calls.
type Set map[string]struct{}

// HasName reports whether name is an exact member of the set.
func (s Set) HasName(name string) bool {
	_, ok := s[name]
	return ok
}

// NewSet builds a Set from a slice of canonical station names.
func NewSet(names []string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// explicitAliases are hard-coded mainline<->subway or historical-name
// aliases the automatic rules below cannot derive (spec §4.5 "explicit
// aliases"; mirrors the underground handler's terminal aliasing in spirit
// but scoped to plain name resolution).
var explicitAliases = map[string]string{
	"St Pancras International": "London St Pancras",
	"Glasgow Central (Low Level)": "Glasgow Central",
}

// Resolve canonicalises candidate against known by trying, in order: exact
// match, case-insensitive match, with "London " prefix removed, with
// "London " prefix added, trailing "(Main)" stripped, explicit aliases.
// Returns candidate unchanged if nothing matches — callers validate
// existence separately (spec §4.5).
func Resolve(candidate string, known namesSource) string {
	trimmed := strings.TrimSpace(candidate)
	if known.HasName(trimmed) {
		return trimmed
	}

	lower := strings.ToLower(trimmed)
	if found, ok := findCaseInsensitive(lower, known); ok {
		return found
	}

	if stripped, ok := strings.CutPrefix(trimmed, "London "); ok && known.HasName(stripped) {
		return stripped
	}
	if !strings.HasPrefix(trimmed, "London ") {
		withPrefix := "London " + trimmed
		if known.HasName(withPrefix) {
			return withPrefix
		}
	}

	if stripped, ok := strings.CutSuffix(trimmed, " (Main)"); ok && known.HasName(stripped) {
		return stripped
	}

	if alias, ok := explicitAliases[trimmed]; ok && known.HasName(alias) {
		return alias
	}

	return candidate
}

// findCaseInsensitive only works against sets that expose enumeration; the
// Set type does, so this type-asserts rather than widening the interface
// (most callers use Set, and a case-fold scan needs the full name list).
func findCaseInsensitive(lower string, known namesSource) (string, bool) {
	set, ok := known.(Set)
	if !ok {
		return "", false
	}
	for name := range set {
		if strings.ToLower(name) == lower {
			return name, true
		}
	}
	return "", false
}

// foldForEquivalence strips punctuation and common suffixes so that, e.g.,
// "Farnborough (Main)" and "Farnborough Main" compare equal.
func foldForEquivalence(name string) string {
	s := strings.ToLower(name)
	s = strings.NewReplacer(
		"(", "", ")", "", "'", "", ".", "", ",", "",
	).Replace(s)
	for _, suffix := range []string{" main", " station", " rail station", " underground station"} {
		s = strings.TrimSuffix(s, suffix)
	}
	return strings.Join(strings.Fields(s), " ")
}

// AreEquivalent folds punctuation and common suffixes off both names and
// compares the result (spec §4.5).
func AreEquivalent(a, b string) bool {
	return foldForEquivalence(a) == foldForEquivalence(b)
}
