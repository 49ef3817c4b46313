package analysis

import (
	"unicode"
	"unicode/utf8"
)

// WhitespaceTokenizer splits text on Unicode whitespace without any
// normalization. Each token carries its byte offsets in the source and
// a position increment of 1.
type WhitespaceTokenizer struct {
	text string
	off  int
}

// NewWhitespaceTokenizer creates a tokenizer over the given text.
func NewWhitespaceTokenizer(text string) *WhitespaceTokenizer {
	return &WhitespaceTokenizer{text: text}
}

// Next returns the next token, or nil when the text is exhausted.
func (t *WhitespaceTokenizer) Next() (*Token, error) {
	// Skip whitespace.
	for t.off < len(t.text) {
		r, size := utf8.DecodeRuneInString(t.text[t.off:])
		if !unicode.IsSpace(r) {
			break
		}
		t.off += size
	}
	if t.off >= len(t.text) {
		return nil, nil
	}

	start := t.off
	for t.off < len(t.text) {
		r, size := utf8.DecodeRuneInString(t.text[t.off:])
		if unicode.IsSpace(r) {
			break
		}
		t.off += size
	}

	return &Token{
		Term:    t.text[start:t.off],
		Start:   start,
		End:     t.off,
		PosIncr: 1,
	}, nil
}

// Reset rewinds the tokenizer to the start of the text.
func (t *WhitespaceTokenizer) Reset() error {
	t.off = 0
	return nil
}
