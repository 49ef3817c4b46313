package autophrase

import (
	"sort"
	"strings"
)

// Dictionary maps the first word of each configured phrase to the set of
// phrases beginning with that word. It is immutable after construction
// and safe for concurrent reads by any number of Filter instances.
//
// Phrases are stored as their space-joined form. Entries with fewer than
// two words are skipped: a single word is not a phrase and would merge
// nothing. Internal runs of whitespace are collapsed to single spaces so
// that lookup keys and buffer comparisons line up.
type Dictionary struct {
	byFirst       map[string][]string
	caseSensitive bool
	size          int
}

// NewDictionary builds a Dictionary from the given phrases. A nil or
// empty phrase list yields an empty dictionary, which makes any filter
// built on it a pure pass-through; construction never fails.
func NewDictionary(phrases []string, caseSensitive bool) *Dictionary {
	d := &Dictionary{
		byFirst:       make(map[string][]string),
		caseSensitive: caseSensitive,
	}
	seen := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		p = strings.Join(strings.Fields(p), " ")
		if !caseSensitive {
			p = strings.ToLower(p)
		}
		sp := strings.IndexByte(p, ' ')
		if sp < 0 {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		first := p[:sp]
		d.byFirst[first] = append(d.byFirst[first], p)
		d.size++
	}
	return d
}

// Lookup returns the phrases whose first word equals the given word
// under the dictionary's case sensitivity. The returned slice is shared
// and must not be modified.
func (d *Dictionary) Lookup(word string) []string {
	if d == nil || d.size == 0 {
		return nil
	}
	return d.byFirst[d.fold(word)]
}

// Len returns the number of stored phrases.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return d.size
}

// CaseSensitive reports whether lookups preserve case.
func (d *Dictionary) CaseSensitive() bool {
	return d != nil && d.caseSensitive
}

// Phrases returns all stored phrases in sorted order.
func (d *Dictionary) Phrases() []string {
	if d == nil || d.size == 0 {
		return nil
	}
	out := make([]string, 0, d.size)
	for _, ps := range d.byFirst {
		out = append(out, ps...)
	}
	sort.Strings(out)
	return out
}

func (d *Dictionary) fold(s string) string {
	if d.caseSensitive {
		return s
	}
	return strings.ToLower(s)
}
