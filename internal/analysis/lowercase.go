package analysis

import "strings"

// LowercaseFilter lowercases every token term from its input stream.
// Offsets and position increments pass through untouched.
type LowercaseFilter struct {
	input TokenStream
}

// NewLowercaseFilter wraps an input stream.
func NewLowercaseFilter(input TokenStream) *LowercaseFilter {
	return &LowercaseFilter{input: input}
}

func (f *LowercaseFilter) Next() (*Token, error) {
	tok, err := f.input.Next()
	if err != nil || tok == nil {
		return nil, err
	}
	tok.Term = strings.ToLower(tok.Term)
	return tok, nil
}

func (f *LowercaseFilter) Reset() error {
	return f.input.Reset()
}
