package rewrite

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/Admje14/auto-phrase-tokenfilter/internal/analysis"
	"github.com/Admje14/auto-phrase-tokenfilter/internal/autophrase"
)

// Rewriter rewrites raw query strings so that configured multi-word
// phrases become single tokens, then delegates to a named downstream
// parser. Merged emissions always replace their words here: a query
// that kept both forms would change its boolean semantics.
type Rewriter struct {
	dict       *autophrase.Dictionary
	separator  string
	ignoreCase bool
	parsers    *Registry
	parserName string
}

// NewRewriter builds a Rewriter over the given dictionary. Case folding
// follows the dictionary. The named parser is looked up per query so it
// can be registered after the Rewriter is built.
func NewRewriter(dict *autophrase.Dictionary, separator string, parsers *Registry, parserName string) *Rewriter {
	return &Rewriter{
		dict:       dict,
		separator:  separator,
		ignoreCase: !dict.CaseSensitive(),
		parsers:    parsers,
		parserName: parserName,
	}
}

// Rewrite tokenizes the query on whitespace, runs it through the phrase
// filter, and reassembles the surviving token texts with single spaces.
// Field, '+' and '-' operators are detached from their terms before
// filtering and re-attached after, so an operator can never glue itself
// to the first word of a phrase. When folding is on, AND and OR are
// shielded as && and || so lowercasing cannot turn them into terms.
func (r *Rewriter) Rewrite(query string) (string, error) {
	q := query
	for strings.Contains(q, " :") {
		q = strings.ReplaceAll(q, " :", ": ")
	}
	q = strings.ReplaceAll(q, "+", "+ ")
	q = strings.ReplaceAll(q, "-", "- ")
	if r.ignoreCase {
		q = strings.ReplaceAll(q, "AND", "&&")
		q = strings.ReplaceAll(q, "OR", "||")
	}

	filtered, err := r.autophrase(q)
	if err != nil {
		return "", err
	}
	q = filtered

	q = strings.ReplaceAll(q, "+ ", "+")
	q = strings.ReplaceAll(q, "- ", "-")
	if r.ignoreCase {
		q = strings.ReplaceAll(q, "&&", "AND")
		q = strings.ReplaceAll(q, "||", "OR")
	}
	return q, nil
}

func (r *Rewriter) autophrase(q string) (string, error) {
	var ts analysis.TokenStream = analysis.NewWhitespaceTokenizer(q)
	if r.ignoreCase {
		ts = analysis.NewLowercaseFilter(ts)
	}
	ts = autophrase.NewFilter(ts, r.dict, autophrase.Options{Separator: r.separator})

	tokens, err := analysis.Collect(ts)
	if err != nil {
		return "", errors.Wrap(err, "autophrase query")
	}
	return strings.Join(analysis.Terms(tokens), " "), nil
}

// Parse rewrites the query and hands the result to the configured
// downstream parser. It returns the rewritten query alongside the
// parsed form.
func (r *Rewriter) Parse(query string) (string, *ParsedQuery, error) {
	rewritten, err := r.Rewrite(query)
	if err != nil {
		return "", nil, err
	}
	p, err := r.parsers.Get(r.parserName)
	if err != nil {
		return "", nil, err
	}
	parsed, err := p.Parse(rewritten)
	if err != nil {
		return "", nil, errors.Wrapf(err, "parser %q", r.parserName)
	}
	return rewritten, parsed, nil
}
