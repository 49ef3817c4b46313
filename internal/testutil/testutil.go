// Package testutil holds helpers shared by integration and benchmark
// tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Admje14/auto-phrase-tokenfilter/internal/analysis"
	"github.com/Admje14/auto-phrase-tokenfilter/internal/autophrase"
)

// SamplePhrases returns a phrase set suitable for most tests.
func SamplePhrases() []string {
	return []string{
		"wheel chair",
		"sea biscuit",
		"ball valve",
		"new york",
		"new york city",
		"city of new york",
		"income tax",
		"tax refund",
		"big apple",
	}
}

// SampleDictionary builds a case-folding dictionary from SamplePhrases.
func SampleDictionary() *autophrase.Dictionary {
	return autophrase.NewDictionary(SamplePhrases(), false)
}

// WriteWordlist writes a wordlist file with one phrase per line into a
// temporary directory and returns its path.
func WriteWordlist(t *testing.T, phrases []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phrases.txt")
	var content string
	for _, p := range phrases {
		content += p + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteWordlist: %v", err)
	}
	return path
}

// FilterTerms runs text through the whitespace tokenizer and phrase
// filter and returns the emitted token texts.
func FilterTerms(t *testing.T, dict *autophrase.Dictionary, opts autophrase.Options, text string) []string {
	t.Helper()
	ts := autophrase.NewFilter(analysis.NewWhitespaceTokenizer(text), dict, opts)
	tokens, err := analysis.Collect(ts)
	if err != nil {
		t.Fatalf("Collect(%q): %v", text, err)
	}
	return analysis.Terms(tokens)
}

// AssertFileExists checks that a file exists at the given path.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("expected file to exist: %s", path)
	}
}
