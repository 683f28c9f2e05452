package apps

import "strings"

// MatchClass ranks a candidate. All Exact matches precede all Partial
// matches; inside a class discovery order is preserved.
type MatchClass int

const (
	Exact MatchClass = iota
	Partial
)

func (c MatchClass) String() string {
	if c == Exact {
		return "exact"
	}
	return "partial"
}

// Candidate is a read-only view of a matched record.
type Candidate struct {
	Record
	Class MatchClass
}

// MaxCandidates caps a resolution result.
const MaxCandidates = 5

// Resolve ranks inventory records against a free-text query. A record is
// Exact when the normalized query equals its key or appears inside its
// display name, Partial when any query token appears in the key or name.
func (ix *Index) Resolve(query string) []Candidate {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	tokens := strings.Fields(q)

	var exact, partial []Candidate
	for _, r := range ix.merged() {
		name := strings.ToLower(r.Name)

		if q == r.Key || strings.Contains(name, q) {
			exact = append(exact, Candidate{Record: r, Class: Exact})
			continue
		}
		if partialMatch(tokens, r.Key, name) {
			partial = append(partial, Candidate{Record: r, Class: Partial})
		}
	}

	out := append(exact, partial...)
	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	return out
}

// partialMatch reports whether any query token matches the key or name:
// plain containment, or a shared stem of at least four runes so that
// "chrome" still finds "chromium".
func partialMatch(tokens []string, key, name string) bool {
	for _, tok := range tokens {
		if strings.Contains(key, tok) || strings.Contains(name, tok) {
			return true
		}
		for _, word := range strings.Fields(key + " " + name) {
			if sharedStem(tok, word) {
				return true
			}
		}
	}
	return false
}

const minStem = 4

func sharedStem(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	n := 0
	for n < len(ra) && n < len(rb) && ra[n] == rb[n] {
		n++
	}
	return n >= minStem && 2*n >= len(ra)
}
