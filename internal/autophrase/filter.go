package autophrase

import (
	"errors"
	"strings"

	"github.com/Admje14/auto-phrase-tokenfilter/internal/analysis"
)

// ErrInvariant reports an impossible internal state: a negative position
// increment or a backlog offset reconstruction that does not fit the
// consumed span. It indicates a defect in the filter, not a recoverable
// runtime condition.
var ErrInvariant = errors.New("autophrase: internal invariant violated")

// Options configure a Filter instance. The zero value merges phrase
// words with no separator and replaces matched words with the merged
// token.
type Options struct {
	// Separator joins the constituent words of a merged token. Empty
	// means the words are concatenated directly.
	Separator string

	// EmitSingleTokens emits every original word verbatim and interleaves
	// completed phrase tokens as additional tokens instead of replacing
	// their words. Nothing is ever suppressed in this mode.
	EmitSingleTokens bool
}

type streamState int

const (
	stateIdle streamState = iota
	stateMatching
	stateDraining
	stateDone
)

// Filter merges configured multi-word phrases in a token stream into
// single tokens, passing everything else through unchanged. It consumes
// one upstream word per transition of an explicit state machine: IDLE
// (no active attempt), MATCHING (accumulating words against a candidate
// set), DRAINING (replaying the backlog of a failed attempt), DONE.
//
// Among overlapping candidate phrases the filter always prefers the
// longest completed match reachable before extension becomes impossible:
// a completed shorter phrase is held back while a longer one is still
// extendable, and emitted only once the longer one fails.
//
// A Filter is a sequential transformer over exactly one stream at a
// time; it is not safe for concurrent use. Reset clears all per-stream
// state so the instance can be reused deterministically.
type Filter struct {
	input analysis.TokenStream
	dict  *Dictionary
	opts  Options

	st         streamState
	candidates []string // phrases still consistent with the buffer
	buf        []string // words consumed by the current attempt, in order
	bufEnd     int      // end offset of the last buffered word

	lastValid    string // joined text of the longest completed, unemitted match
	lastValidEnd int
	lastEmitted  string // joined source text of the most recent queued emission

	out      []analysis.Token // ready tokens; failed attempts drain through here
	pushback []analysis.Token // words handed back after a partial match
}

// NewFilter wraps an input stream. A nil or empty dictionary makes the
// filter a pure pass-through.
func NewFilter(input analysis.TokenStream, dict *Dictionary, opts Options) *Filter {
	return &Filter{input: input, dict: dict, opts: opts}
}

// Next returns the next output token, or nil once the stream is
// exhausted. Upstream errors propagate unchanged and are not retried.
func (f *Filter) Next() (*analysis.Token, error) {
	if f.dict.Len() == 0 {
		return f.input.Next()
	}
	for {
		if len(f.out) > 0 {
			tok := f.out[0]
			f.out = f.out[1:]
			if len(f.out) == 0 && f.st == stateDraining {
				f.st = stateIdle
			}
			if tok.PosIncr < 0 {
				return nil, ErrInvariant
			}
			return &tok, nil
		}
		if f.st == stateDone {
			return nil, nil
		}
		if err := f.advance(); err != nil {
			return nil, err
		}
	}
}

// Reset clears the candidate set, buffer, backlog, and counters, and
// resets the upstream source, enabling reuse on a fresh stream.
func (f *Filter) Reset() error {
	f.st = stateIdle
	f.candidates = f.candidates[:0]
	f.buf = f.buf[:0]
	f.bufEnd = 0
	f.lastValid = ""
	f.lastValidEnd = 0
	f.lastEmitted = ""
	f.out = f.out[:0]
	f.pushback = f.pushback[:0]
	return f.input.Reset()
}

// advance applies one transition: pull a single word and either queue
// output or extend the current attempt. The non-recursive driving loop
// in Next bounds stack usage on arbitrarily long non-matching runs.
func (f *Filter) advance() error {
	tok, err := f.pull()
	if err != nil {
		return err
	}
	if tok == nil {
		return f.finish()
	}

	if f.st != stateMatching {
		if cands := f.dict.Lookup(tok.Term); len(cands) > 0 {
			f.seed(tok, cands)
			if f.opts.EmitSingleTokens {
				f.pushWord(*tok)
			}
			return nil
		}
		f.pushWord(*tok)
		return nil
	}
	return f.matchStep(tok)
}

// matchStep consumes one word into the buffer and partitions the
// candidate set against the joined buffer text: phrases equal to it
// (full match), phrases it strictly word-prefixes (extendable), and the
// rest (eliminated).
func (f *Filter) matchStep(tok *analysis.Token) error {
	f.buf = append(f.buf, tok.Term)
	f.bufEnd = tok.End
	joined := strings.Join(f.buf, " ")
	cmp := f.dict.fold(joined)
	prefix := cmp + " "

	matched := false
	ext := f.candidates[:0]
	for _, p := range f.candidates {
		switch {
		case p == cmp:
			matched = true
		case strings.HasPrefix(p, prefix):
			ext = append(ext, p)
		}
	}
	f.candidates = ext

	switch {
	case matched && len(ext) == 0:
		// The longest reachable match: emit it and try to reseed on the
		// final word, which may begin other phrases.
		if f.opts.EmitSingleTokens {
			f.pushWord(*tok)
		}
		f.lastValid = ""
		f.pushMerged(joined, f.bufEnd)
		f.reseedOrIdle(tok)
	case matched:
		// A longer overlapping phrase is still extendable; hold this
		// match back until extension succeeds or fails.
		f.lastValid = joined
		f.lastValidEnd = f.bufEnd
		if f.opts.EmitSingleTokens {
			f.pushWord(*tok)
		}
	case len(ext) > 0:
		if f.opts.EmitSingleTokens {
			f.pushWord(*tok)
		}
	default:
		return f.fail(tok)
	}
	return nil
}

// fail handles an attempt whose candidate set just emptied on tok.
func (f *Filter) fail(tok *analysis.Token) error {
	if f.lastValid != "" {
		n := wordCount(f.lastValid)
		f.pushMerged(f.lastValid, f.lastValidEnd)
		f.lastValid = ""
		if f.opts.EmitSingleTokens {
			f.pushWord(*tok)
			f.reseedOrIdle(tok)
			return nil
		}
		// Words consumed past the emitted match go back through the
		// machine so they can start attempts of their own.
		leftovers, err := f.reconstruct(n)
		if err != nil {
			return err
		}
		f.clearAttempt()
		f.st = stateIdle
		f.pushback = append(leftovers, f.pushback...)
		return nil
	}

	// No match ever completed: the whole buffer failed.
	if f.opts.EmitSingleTokens {
		f.pushWord(*tok)
		f.reseedOrIdle(tok)
		return nil
	}
	return f.flushBuffer()
}

// finish handles upstream exhaustion.
func (f *Filter) finish() error {
	if f.lastValid != "" {
		n := wordCount(f.lastValid)
		f.pushMerged(f.lastValid, f.lastValidEnd)
		f.lastValid = ""
		if !f.opts.EmitSingleTokens && len(f.buf) > n {
			leftovers, err := f.reconstruct(n)
			if err != nil {
				return err
			}
			f.pushback = append(leftovers, f.pushback...)
		}
		f.clearAttempt()
		f.st = stateIdle
		return nil
	}
	if !f.opts.EmitSingleTokens && len(f.buf) > 0 {
		return f.flushBuffer()
	}
	f.clearAttempt()
	f.st = stateDone
	return nil
}

// flushBuffer replays the buffered words, in original order and with
// reconstructed offsets, then drains. A leading word that is the
// word-boundary tail of the last emitted phrase was already folded into
// a merged token and is skipped rather than replayed twice.
func (f *Filter) flushBuffer() error {
	tokens, err := f.reconstruct(0)
	if err != nil {
		return err
	}
	f.clearAttempt()
	start := 0
	if len(tokens) > 0 && f.coveredByLast(tokens[0].Term) {
		start = 1
	}
	if start >= len(tokens) {
		f.st = stateIdle
		return nil
	}
	for _, t := range tokens[start:] {
		f.pushWord(t)
	}
	f.st = stateDraining
	return nil
}

// reconstruct rebuilds tokens for buf[skip:]. Only the aggregate span is
// retained while matching, so each word's offsets are recomputed by
// walking the joined buffer text, one word length plus one separator per
// boundary, anchored at the buffer's final end offset.
func (f *Filter) reconstruct(skip int) ([]analysis.Token, error) {
	joined := strings.Join(f.buf, " ")
	off := f.bufEnd - len(joined)
	if off < 0 {
		return nil, ErrInvariant
	}
	out := make([]analysis.Token, 0, len(f.buf)-skip)
	for i, w := range f.buf {
		if i >= skip {
			out = append(out, analysis.Token{Term: w, Start: off, End: off + len(w), PosIncr: 1})
		}
		off += len(w) + 1
	}
	return out, nil
}

// seed starts a match attempt on a word that begins at least one phrase.
func (f *Filter) seed(tok *analysis.Token, cands []string) {
	f.candidates = append(f.candidates[:0], cands...)
	f.buf = append(f.buf[:0], tok.Term)
	f.bufEnd = tok.End
	f.st = stateMatching
}

// reseedOrIdle restarts matching on tok if it begins other phrases,
// otherwise returns to IDLE.
func (f *Filter) reseedOrIdle(tok *analysis.Token) {
	if cands := f.dict.Lookup(tok.Term); len(cands) > 0 {
		f.seed(tok, cands)
		return
	}
	f.clearAttempt()
	f.st = stateIdle
}

func (f *Filter) clearAttempt() {
	f.candidates = f.candidates[:0]
	f.buf = f.buf[:0]
	f.bufEnd = 0
}

// pull takes the next word, preferring words handed back by a partial
// match over fresh upstream input.
func (f *Filter) pull() (*analysis.Token, error) {
	if len(f.pushback) > 0 {
		tok := f.pushback[0]
		f.pushback = f.pushback[1:]
		return &tok, nil
	}
	return f.input.Next()
}

func (f *Filter) pushWord(t analysis.Token) {
	f.out = append(f.out, t)
	f.lastEmitted = t.Term
}

// pushMerged queues the merged token for a completed phrase. Its text
// joins the constituent words with the configured separator, its span
// runs from the first word's start to the last word's end, and it
// occupies exactly one output position (zero when interleaved alongside
// the originals in emit-single mode).
func (f *Filter) pushMerged(joined string, end int) {
	incr := 1
	if f.opts.EmitSingleTokens {
		incr = 0
	}
	f.out = append(f.out, analysis.Token{
		Term:    strings.ReplaceAll(joined, " ", f.opts.Separator),
		Start:   end - len(joined),
		End:     end,
		PosIncr: incr,
	})
	f.lastEmitted = joined
}

// coveredByLast reports whether word is the word-boundary tail of the
// most recent emission: the trailing len(word) bytes equal it exactly
// and sit after a space. Such a word was part of an emitted phrase.
func (f *Filter) coveredByLast(word string) bool {
	return len(f.lastEmitted) > len(word) && strings.HasSuffix(f.lastEmitted, " "+word)
}

func wordCount(joined string) int {
	return strings.Count(joined, " ") + 1
}
