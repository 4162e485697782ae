package catalog

import "strings"

// Matcher resolves a free-text item description to exactly one canonical
// catalog name. Resolution runs in three tiers, first success wins:
//
//  1. case-insensitive exact match,
//  2. longest substring containment in either direction,
//  3. whitespace-token overlap.
//
// Ties break toward the earlier catalog entry. The precedence and tie-break
// rules are load-bearing: historical quotes were produced with them, so they
// must not be tuned.
type Matcher struct {
	lower []string
	exact []string
}

func NewMatcher() *Matcher {
	m := &Matcher{
		lower: make([]string, 0, len(items)),
		exact: make([]string, 0, len(items)),
	}
	for _, it := range items {
		m.lower = append(m.lower, strings.ToLower(it.Name))
		m.exact = append(m.exact, it.Name)
	}
	return m
}

// Resolve maps requested to a canonical catalog name. ok is false when no
// tier produces a positive score; callers must keep that outcome distinct
// from "resolved but out of stock".
func (m *Matcher) Resolve(requested string) (name string, ok bool) {
	query := strings.ToLower(strings.TrimSpace(requested))
	if query == "" {
		return "", false
	}

	for i, lower := range m.lower {
		if lower == query {
			return m.exact[i], true
		}
	}

	bestScore := 0
	bestMatch := ""
	for i, lower := range m.lower {
		if strings.Contains(query, lower) {
			if len(lower) > bestScore {
				bestScore = len(lower)
				bestMatch = m.exact[i]
			}
		} else if strings.Contains(lower, query) {
			if len(query) > bestScore {
				bestScore = len(query)
				bestMatch = m.exact[i]
			}
		}
	}
	if bestMatch != "" {
		return bestMatch, true
	}

	queryWords := wordSet(query)
	for i, lower := range m.lower {
		overlap := overlapCount(queryWords, wordSet(lower))
		if overlap > bestScore {
			bestScore = overlap
			bestMatch = m.exact[i]
		}
	}
	if bestScore > 0 {
		return bestMatch, true
	}
	return "", false
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

func overlapCount(a, b map[string]struct{}) int {
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}
