package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Admje14/auto-phrase-tokenfilter/internal/phrases"
)

func newTestHandler(t *testing.T, opts Options) *Handler {
	t.Helper()
	h, err := NewHandler(context.Background(), opts, nil)
	require.NoError(t, err)
	return h
}

func doJSON(t *testing.T, h *Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandleRewrite(t *testing.T) {
	h := newTestHandler(t, Options{
		FilePhrases: []string{"new york city", "wheel chair"},
		Separator:   "_",
	})

	rec := doJSON(t, h, http.MethodPost, "/rewrite", map[string]string{
		"query": "visit new york city today",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "visit new york city today", body["original"])
	assert.Equal(t, "visit new_york_city today", body["rewritten"])

	parsed, ok := body["parsed"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"visit", "new_york_city", "today"}, parsed["terms"])
}

func TestHandleRewriteBadBody(t *testing.T) {
	h := newTestHandler(t, Options{Separator: "_"})

	req := httptest.NewRequest(http.MethodPost, "/rewrite", bytes.NewBufferString("{"))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTokenize(t *testing.T) {
	h := newTestHandler(t, Options{
		FilePhrases: []string{"new york"},
		Separator:   "_",
	})

	rec := doJSON(t, h, http.MethodPost, "/tokenize", map[string]string{
		"text": "new york pizza",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])

	tokens, ok := body["tokens"].([]interface{})
	require.True(t, ok)
	first := tokens[0].(map[string]interface{})
	assert.Equal(t, "new_york", first["term"])
	assert.Equal(t, float64(0), first["start"])
	assert.Equal(t, float64(8), first["end"])
	assert.Equal(t, float64(1), first["pos_incr"])
}

func TestHandleTokenizeEmitSingleOverride(t *testing.T) {
	h := newTestHandler(t, Options{
		FilePhrases: []string{"new york"},
		Separator:   "_",
	})

	emit := true
	rec := doJSON(t, h, http.MethodPost, "/tokenize", map[string]interface{}{
		"text":               "new york",
		"emit_single_tokens": emit,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(3), body["count"])
}

func TestHandleListPhrases(t *testing.T) {
	h := newTestHandler(t, Options{
		FilePhrases: []string{"wheel chair", "new york"},
		Separator:   "_",
	})

	rec := doJSON(t, h, http.MethodGet, "/phrases", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, []interface{}{"new york", "wheel chair"}, body["phrases"])
	assert.Equal(t, false, body["case_sensitive"])
}

func TestHandleAddPhraseWithoutStore(t *testing.T) {
	h := newTestHandler(t, Options{Separator: "_"})

	rec := doJSON(t, h, http.MethodPost, "/phrases", map[string]string{"phrase": "wheel chair"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPhraseManagementWithStore(t *testing.T) {
	store, err := phrases.OpenStore(filepath.Join(t.TempDir(), "phrases.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	h := newTestHandler(t, Options{
		FilePhrases: []string{"wheel chair"},
		Store:       store,
		Separator:   "_",
	})

	// add a phrase and see it take effect immediately
	rec := doJSON(t, h, http.MethodPost, "/phrases", map[string]string{"phrase": "new york"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/rewrite", map[string]string{"query": "new york snow"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new_york snow", decodeBody(t, rec)["rewritten"])

	// disable it again
	rec = doJSON(t, h, http.MethodDelete, "/phrases", map[string]string{"phrase": "new york"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/rewrite", map[string]string{"query": "new york snow"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new york snow", decodeBody(t, rec)["rewritten"])
}

func TestHandleAddPhraseRejectsSingleWord(t *testing.T) {
	store, err := phrases.OpenStore(filepath.Join(t.TempDir(), "phrases.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	h := newTestHandler(t, Options{Store: store, Separator: "_"})

	rec := doJSON(t, h, http.MethodPost, "/phrases", map[string]string{"phrase": "syntax"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
