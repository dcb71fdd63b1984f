// Package httpapi serves the loaded content catalog as a read-only JSON API.
// Answers are graded by the client; the API never sees them.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/p-n-ai/b1-trainer/internal/content"
)

// Options configures the API handler.
type Options struct {
	// AllowedOrigins lists origins allowed to call the API from a browser.
	// Empty disables cross-origin access.
	AllowedOrigins []string
}

// ModuleSummary is a module without its cards.
type ModuleSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Cards       int    `json:"cards"`
}

// EntryView is a dictionary entry with its alphabetical neighbours.
type EntryView struct {
	Entry content.DictionaryEntry  `json:"entry"`
	Prev  *content.DictionaryEntry `json:"prev"`
	Next  *content.DictionaryEntry `json:"next"`
}

type api struct {
	cat *content.Catalog
}

// New returns the HTTP handler for cat: health probes and the content routes,
// wrapped in CORS and request logging.
func New(cat *content.Catalog, opts Options) http.Handler {
	a := &api{cat: cat}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", a.handleReadyz)
	mux.HandleFunc("GET /api/modules", a.handleModules)
	mux.HandleFunc("GET /api/modules/{moduleID}", a.handleModule)
	mux.HandleFunc("GET /api/modules/{moduleID}/cards/{cardID}", a.handleCard)
	mux.HandleFunc("GET /api/dictionary", a.handleDictionary)
	mux.HandleFunc("GET /api/dictionary/{id}", a.handleEntry)
	mux.HandleFunc("GET /api/emails", a.handleEmails)
	mux.HandleFunc("GET /api/emails/{id}", a.handleEmail)

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	return logRequests(c.Handler(mux))
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) handleReadyz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string        `json:"status"`
		Stats  content.Stats `json:"stats"`
	}{"ready", a.cat.Stats()})
}

func (a *api) handleModules(w http.ResponseWriter, r *http.Request) {
	mods := a.cat.Modules()
	out := make([]ModuleSummary, len(mods))
	for i, m := range mods {
		out[i] = ModuleSummary{ID: m.ID, Title: m.Title, Description: m.Description, Cards: len(m.Cards)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) handleModule(w http.ResponseWriter, r *http.Request) {
	m, ok := a.cat.Module(r.PathValue("moduleID"))
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *api) handleCard(w http.ResponseWriter, r *http.Request) {
	ref, ok := a.cat.Card(r.PathValue("moduleID"), r.PathValue("cardID"))
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Module ModuleSummary `json:"module"`
		Card   content.Card  `json:"card"`
	}{
		Module: ModuleSummary{ID: ref.Module.ID, Title: ref.Module.Title, Description: ref.Module.Description, Cards: len(ref.Module.Cards)},
		Card:   ref.Card,
	})
}

// handleDictionary lists entries alphabetically, filtered by the optional
// pos and q query parameters.
func (a *api) handleDictionary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, a.cat.DictionaryByPOS(q.Get("pos"), q.Get("q")))
}

func (a *api) handleEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, ok := a.cat.DictionaryEntry(id)
	if !ok {
		notFound(w)
		return
	}
	n, _ := a.cat.DictionaryNeighbors(id)
	writeJSON(w, http.StatusOK, EntryView{Entry: e, Prev: n.Prev, Next: n.Next})
}

func (a *api) handleEmails(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.cat.Emails())
}

func (a *api) handleEmail(w http.ResponseWriter, r *http.Request) {
	e, ok := a.cat.Email(r.PathValue("id"))
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writing response failed", "error", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
