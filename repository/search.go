package repository

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// matchTier ranks how a candidate matched a query, lowest value wins ties
// (spec §4.1.4: exact/prefix/substring/word-prefix tiers, then a fuzzy
// backstop for queries that win none of those).
type matchTier int

const (
	tierExact matchTier = iota
	tierPrefix
	tierSubstring
	tierWordPrefix
	tierFuzzy
)

// Match is one ranked search result.
type Match struct {
	Name  string
	Tier  matchTier
	Score int // higher is better within tierFuzzy; unused otherwise
}

// Search ranks every known station name against query and returns the top
// n. Tiering is: exact match, prefix, substring, any-word-prefix, and
// finally a Smith-Waterman-style fuzzy score (github.com/sahilm/fuzzy) for
// queries that are typos or abbreviations rather than literal substrings —
// the tiers the spec names are deterministic and checked first; fuzzy only
// ever fills in results those tiers left empty.
func (r *Repository) Search(query string, n int) []Match {
	if n <= 0 {
		n = 10
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	names := r.StationNames()

	var matches []Match
	seen := make(map[string]bool, len(names))
	classify := func(name string) (matchTier, bool) {
		lower := strings.ToLower(name)
		switch {
		case lower == q:
			return tierExact, true
		case strings.HasPrefix(lower, q):
			return tierPrefix, true
		case strings.Contains(lower, q):
			return tierSubstring, true
		default:
			for _, word := range strings.Fields(lower) {
				if strings.HasPrefix(word, q) {
					return tierWordPrefix, true
				}
			}
			return 0, false
		}
	}
	for _, name := range names {
		if tier, ok := classify(name); ok {
			matches = append(matches, Match{Name: name, Tier: tier})
			seen[name] = true
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Tier != matches[j].Tier {
			return matches[i].Tier < matches[j].Tier
		}
		return matches[i].Name < matches[j].Name
	})

	if len(matches) < n {
		remaining := make([]string, 0, len(names))
		for _, name := range names {
			if !seen[name] {
				remaining = append(remaining, name)
			}
		}
		found := fuzzy.Find(query, remaining)
		sort.SliceStable(found, func(i, j int) bool { return found[i].Score > found[j].Score })
		for _, fm := range found {
			matches = append(matches, Match{Name: remaining[fm.Index], Tier: tierFuzzy, Score: fm.Score})
		}
	}

	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}
