// Package server exposes the auto-phrasing pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Admje14/auto-phrase-tokenfilter/internal/analysis"
	"github.com/Admje14/auto-phrase-tokenfilter/internal/autophrase"
	"github.com/Admje14/auto-phrase-tokenfilter/internal/phrases"
	"github.com/Admje14/auto-phrase-tokenfilter/internal/rewrite"
)

// Options configures a Handler.
type Options struct {
	// FilePhrases are phrases loaded from wordlist files at startup.
	FilePhrases []string
	// Store is an optional managed phrase store. When set, phrases can
	// be added and disabled at runtime and the dictionary is rebuilt.
	Store *phrases.Store
	// CaseSensitive disables case folding when matching.
	CaseSensitive bool
	// Separator replaces spaces inside merged phrase tokens.
	Separator string
	// EmitSingleTokens keeps original words in /tokenize output.
	EmitSingleTokens bool
	// Parsers is the downstream parser registry.
	Parsers *rewrite.Registry
	// ParserName selects the downstream parser for /rewrite.
	ParserName string
}

// Handler holds the HTTP handlers for the auto-phrasing API.
type Handler struct {
	mu       sync.RWMutex
	dict     *autophrase.Dictionary
	rewriter *rewrite.Rewriter

	opts   Options
	logger *slog.Logger
}

// NewHandler builds a Handler and its initial dictionary from the
// configured phrase sources.
func NewHandler(ctx context.Context, opts Options, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Parsers == nil {
		opts.Parsers = rewrite.NewRegistry()
	}
	if opts.ParserName == "" {
		opts.ParserName = "term"
	}

	h := &Handler{opts: opts, logger: logger}
	if err := h.reload(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// reload rebuilds the dictionary and rewriter from the phrase sources.
func (h *Handler) reload(ctx context.Context) error {
	all := append([]string(nil), h.opts.FilePhrases...)
	if h.opts.Store != nil {
		stored, err := h.opts.Store.Enabled(ctx)
		if err != nil {
			return err
		}
		all = append(all, stored...)
	}

	dict := autophrase.NewDictionary(all, h.opts.CaseSensitive)
	rw := rewrite.NewRewriter(dict, h.opts.Separator, h.opts.Parsers, h.opts.ParserName)

	h.mu.Lock()
	h.dict = dict
	h.rewriter = rw
	h.mu.Unlock()

	h.logger.Info("phrase dictionary loaded", "phrases", dict.Len())
	return nil
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Query rewriting and analysis.
	mux.HandleFunc("POST /rewrite", h.handleRewrite)
	mux.HandleFunc("POST /tokenize", h.handleTokenize)

	// Phrase management.
	mux.HandleFunc("GET /phrases", h.handleListPhrases)
	mux.HandleFunc("POST /phrases", h.handleAddPhrase)
	mux.HandleFunc("DELETE /phrases", h.handleDisablePhrase)
}

// --- Query Rewriting ---

func (h *Handler) handleRewrite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	h.mu.RLock()
	rw := h.rewriter
	h.mu.RUnlock()

	start := time.Now()
	rewritten, parsed, err := rw.Parse(req.Query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"original":  req.Query,
		"rewritten": rewritten,
		"parsed":    parsed,
		"took_ms":   time.Since(start).Milliseconds(),
	})
}

// --- Tokenization ---

// tokenResponse is the wire form of an emitted token.
type tokenResponse struct {
	Term    string `json:"term"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	PosIncr int    `json:"pos_incr"`
}

func (h *Handler) handleTokenize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text             string `json:"text"`
		EmitSingleTokens *bool  `json:"emit_single_tokens"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	emitSingle := h.opts.EmitSingleTokens
	if req.EmitSingleTokens != nil {
		emitSingle = *req.EmitSingleTokens
	}

	h.mu.RLock()
	dict := h.dict
	h.mu.RUnlock()

	var ts analysis.TokenStream = analysis.NewWhitespaceTokenizer(req.Text)
	if !h.opts.CaseSensitive {
		ts = analysis.NewLowercaseFilter(ts)
	}
	ts = autophrase.NewFilter(ts, dict, autophrase.Options{
		Separator:        h.opts.Separator,
		EmitSingleTokens: emitSingle,
	})

	tokens, err := analysis.Collect(ts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]tokenResponse, len(tokens))
	for i, t := range tokens {
		out[i] = tokenResponse{Term: t.Term, Start: t.Start, End: t.End, PosIncr: t.PosIncr}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": out,
		"count":  len(out),
	})
}

// --- Phrase Management ---

func (h *Handler) handleListPhrases(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	dict := h.dict
	h.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"phrases":        dict.Phrases(),
		"count":          dict.Len(),
		"case_sensitive": dict.CaseSensitive(),
	})
}

func (h *Handler) handleAddPhrase(w http.ResponseWriter, r *http.Request) {
	if h.opts.Store == nil {
		writeError(w, http.StatusConflict, "no phrase store configured")
		return
	}

	var req struct {
		Phrase string `json:"phrase"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Phrase == "" {
		writeError(w, http.StatusBadRequest, "phrase is required")
		return
	}

	if err := h.opts.Store.Add(r.Context(), req.Phrase); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "reload dictionary: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "added",
		"phrase": req.Phrase,
	})
}

func (h *Handler) handleDisablePhrase(w http.ResponseWriter, r *http.Request) {
	if h.opts.Store == nil {
		writeError(w, http.StatusConflict, "no phrase store configured")
		return
	}

	var req struct {
		Phrase string `json:"phrase"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Phrase == "" {
		writeError(w, http.StatusBadRequest, "phrase is required")
		return
	}

	if err := h.opts.Store.Disable(r.Context(), req.Phrase); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "reload dictionary: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "disabled",
		"phrase": req.Phrase,
	})
}
