// Package rewrite turns raw query strings into phrase-aware queries and
// hands them to a configured downstream parser.
package rewrite

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrParserNotFound reports a Get for a name nothing was registered
// under.
var ErrParserNotFound = errors.New("parser not found")

// ParsedQuery is the parsed form produced by the built-in parsers.
type ParsedQuery struct {
	Terms []string `json:"terms"`
}

// Parser turns a rewritten query string into its parsed form.
// Implementations are registered by name so the downstream parser can
// be chosen from configuration.
type Parser interface {
	Parse(query string) (*ParsedQuery, error)
}

// TermParser splits a query into whitespace-delimited terms.
type TermParser struct{}

// Parse implements Parser.
func (TermParser) Parse(query string) (*ParsedQuery, error) {
	return &ParsedQuery{Terms: strings.Fields(query)}, nil
}

// Registry manages named parsers. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// NewRegistry creates a registry with the built-in "term" parser.
func NewRegistry() *Registry {
	return &Registry{
		parsers: map[string]Parser{
			"term": TermParser{},
		},
	}
}

// Register adds a parser under the given name.
func (r *Registry) Register(name string, p Parser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.parsers[name]; exists {
		return fmt.Errorf("parser already registered: %q", name)
	}
	r.parsers[name] = p
	return nil
}

// Get returns the parser registered under name.
func (r *Registry) Get(name string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.parsers[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrParserNotFound, name)
	}
	return p, nil
}

// Names returns the registered parser names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
