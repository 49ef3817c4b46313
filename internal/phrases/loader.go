// Package phrases loads phrase lists from wordlist files and from an
// optional sqlite store.
package phrases

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadFiles reads one or more wordlist files and returns the phrases in
// order of appearance. Each line is one phrase. Blank lines and lines
// starting with '#' are skipped, surrounding whitespace is trimmed.
// Single-word lines are rejected because a phrase needs at least two
// words to merge.
func LoadFiles(paths ...string) ([]string, error) {
	var out []string
	for _, path := range paths {
		loaded, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, loaded...)
	}
	return out, nil
}

func loadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open phrase file")
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if len(strings.Fields(text)) < 2 {
			return nil, errors.Errorf("%s:%d: phrase %q needs at least two words", path, line, text)
		}
		out = append(out, text)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read phrase file %s", path)
	}
	return out, nil
}
