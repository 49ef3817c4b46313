package analysis

// Token is a single token produced by a TokenStream. Start and End are
// byte offsets into the source text; PosIncr is the number of indexing
// positions this token advances relative to the previous one.
type Token struct {
	Term    string
	Start   int
	End     int
	PosIncr int
}

// TokenStream yields tokens one at a time. Next returns a nil token
// after the final one; any upstream failure is returned as-is and
// terminates iteration. Implementations are not safe for concurrent
// use, but MUST be reusable on a fresh pass after Reset().
type TokenStream interface {
	Next() (*Token, error)
	Reset() error
}

// Collect drains a stream into a slice.
func Collect(ts TokenStream) ([]Token, error) {
	var tokens []Token
	for {
		tok, err := ts.Next()
		if err != nil {
			return tokens, err
		}
		if tok == nil {
			return tokens, nil
		}
		tokens = append(tokens, *tok)
	}
}

// Terms returns the token texts in order.
func Terms(tokens []Token) []string {
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, len(tokens))
	for i, t := range tokens {
		terms[i] = t.Term
	}
	return terms
}
