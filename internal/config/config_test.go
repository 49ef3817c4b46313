package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
listen: ":9090"
phrase_files:
  - phrases.txt
  - more.txt
phrase_db: phrases.db
case_sensitive: true
separator: "-"
emit_single_tokens: true
downstream_parser: term
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, []string{"phrases.txt", "more.txt"}, cfg.PhraseFiles)
	assert.Equal(t, "phrases.db", cfg.PhraseDB)
	assert.True(t, cfg.CaseSensitive)
	assert.Equal(t, "-", cfg.Separator)
	assert.True(t, cfg.EmitSingleTokens)
	assert.Equal(t, "term", cfg.DownstreamParser)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `phrase_files: [phrases.txt]`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "_", cfg.Separator)
	assert.Equal(t, "term", cfg.DownstreamParser)
	assert.False(t, cfg.CaseSensitive)
	assert.False(t, cfg.EmitSingleTokens)
}

func TestLoadEmptySeparator(t *testing.T) {
	path := writeConfig(t, `separator: ""`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Separator)
}

func TestLoadRejectsLongSeparator(t *testing.T) {
	path := writeConfig(t, `separator: "--"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "separator")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "listen: [unterminated")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.Listen = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.DownstreamParser = ""
	assert.Error(t, cfg.Validate())
}
