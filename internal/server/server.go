// Package server exposes the worksheet editor as an HTTP JSON API with CSV and
// XLSX downloads and a websocket feed of worksheet changes.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/p-n-ai/worksheet-gen/internal/ai"
	"github.com/p-n-ai/worksheet-gen/internal/curriculum"
	"github.com/p-n-ai/worksheet-gen/internal/editor"
	"github.com/p-n-ai/worksheet-gen/internal/export"
	"github.com/p-n-ai/worksheet-gen/internal/generator"
	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

const (
	maxBodyBytes  = 1 << 20
	readyTimeout  = 2 * time.Second
	defaultList   = 20
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Standards lists the selectable standards. *curriculum.Loader satisfies it.
type Standards interface {
	All() []curriculum.Standard
	BySubject(subject string) []curriculum.Standard
}

// Providers describes the configured AI providers. *ai.Router satisfies it.
type Providers interface {
	Describe() []ai.ProviderInfo
}

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// Config holds the dependencies of a Server.
type Config struct {
	Editor      *editor.Service
	Standards   Standards
	AI          Providers
	Hub         *Hub
	CORSOrigins []string
	Checks      map[string]Check // run by /readyz
}

// Server holds the HTTP handlers.
type Server struct {
	editor    *editor.Service
	standards Standards
	ai        Providers
	hub       *Hub
	origins   []string
	checks    map[string]Check
}

// New creates a Server.
func New(cfg Config) *Server {
	hub := cfg.Hub
	if hub == nil {
		hub = NewHub(cfg.CORSOrigins)
	}
	return &Server{
		editor:    cfg.Editor,
		standards: cfg.Standards,
		ai:        cfg.AI,
		hub:       hub,
		origins:   cfg.CORSOrigins,
		checks:    cfg.Checks,
	}
}

// Handler returns the routes wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	})
	return c.Handler(s.Routes())
}

// Routes creates the HTTP router.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("GET /v1/standards", s.handleStandards)
	mux.HandleFunc("GET /v1/ai", s.handleAI)

	mux.HandleFunc("GET /v1/worksheets", s.handleList)
	mux.HandleFunc("POST /v1/worksheets", s.handleCreate)
	mux.HandleFunc("GET /v1/worksheets/{id}", s.handleGet)
	mux.HandleFunc("DELETE /v1/worksheets/{id}", s.handleDelete)
	mux.HandleFunc("POST /v1/worksheets/{id}/questions", s.handleAppend)
	mux.HandleFunc("POST /v1/worksheets/{id}/custom", s.handleCustom)
	mux.HandleFunc("PATCH /v1/worksheets/{id}/questions/{index}", s.handlePatchQuestion)
	mux.HandleFunc("DELETE /v1/worksheets/{id}/questions/{index}", s.handleDeleteQuestion)
	mux.HandleFunc("POST /v1/worksheets/{id}/questions/{index}/regenerate", s.handleRegenerate)
	mux.HandleFunc("POST /v1/worksheets/{id}/questions/{index}/regenerate-passage", s.handleRegeneratePassage)
	mux.HandleFunc("PUT /v1/worksheets/{id}/questions/{index}/passage", s.handleUpdatePassage)
	mux.HandleFunc("DELETE /v1/worksheets/{id}/questions/{index}/passage", s.handleDeletePassage)
	mux.HandleFunc("PUT /v1/worksheets/{id}/questions/{index}/illustration", s.handleIllustration)

	mux.HandleFunc("GET /v1/worksheets/{id}/export.csv", s.handleExportCSV)
	mux.HandleFunc("GET /v1/worksheets/{id}/export.xlsx", s.handleExportXLSX)
	mux.HandleFunc("GET /v1/worksheets/{id}/live", s.handleLive)
	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReadyz runs every dependency check concurrently and fails on the first error.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for name, check := range s.checks {
		g.Go(func() error {
			if err := check(ctx); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Warn("readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

func (s *Server) handleStandards(w http.ResponseWriter, r *http.Request) {
	if s.standards == nil {
		writeJSON(w, http.StatusOK, []curriculum.Standard{})
		return
	}
	list := s.standards.All()
	if subject := r.URL.Query().Get("subject"); subject != "" {
		list = s.standards.BySubject(subject)
	}
	if list == nil {
		list = []curriculum.Standard{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	list := []ai.ProviderInfo{}
	if s.ai != nil {
		list = append(list, s.ai.Describe()...)
	}
	writeJSON(w, http.StatusOK, map[string]any{"providers": list})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := defaultList
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, &requestError{msg: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	list, err := s.editor.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []worksheet.Worksheet{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req editor.CreateRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}
	if err := checkMode(req.Mode); err != nil {
		writeError(w, r, err)
		return
	}
	ws, err := s.editor.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ws)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	ws, err := s.editor.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	var req editor.AppendRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}
	if err := checkMode(req.Mode); err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r)(s.editor.Append(r.Context(), r.PathValue("id"), req))
}

func (s *Server) handleCustom(w http.ResponseWriter, r *http.Request) {
	var q worksheet.Question
	if err := decode(r, &q, false); err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r)(s.editor.AddCustomQuestion(r.Context(), r.PathValue("id"), q))
}

func (s *Server) handlePatchQuestion(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch editor.QuestionPatch
	if err := decode(r, &patch, false); err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r)(s.editor.PatchQuestion(r.Context(), r.PathValue("id"), index, patch))
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r)(s.editor.DeleteQuestion(r.Context(), r.PathValue("id"), index))
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	index, opts, err := regenerateArgs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r)(s.editor.RegenerateQuestion(r.Context(), r.PathValue("id"), index, opts))
}

func (s *Server) handleRegeneratePassage(w http.ResponseWriter, r *http.Request) {
	index, opts, err := regenerateArgs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r)(s.editor.RegeneratePassage(r.Context(), r.PathValue("id"), index, opts))
}

type passageBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleUpdatePassage(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body passageBody
	if err := decode(r, &body, false); err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r)(s.editor.UpdatePassage(r.Context(), r.PathValue("id"), index, body.Title, body.Content))
}

func (s *Server) handleDeletePassage(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r)(s.editor.DeletePassage(r.Context(), r.PathValue("id"), index))
}

func (s *Server) handleIllustration(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req editor.IllustrationRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r)(s.editor.UpdateIllustration(r.Context(), r.PathValue("id"), index, req))
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, "csv", "text/csv; charset=utf-8", export.CSV)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, "xlsx", xlsxMediaType, export.XLSX)
}

// download renders the worksheet into memory first so an export failure can
// still be reported as an error status.
func (s *Server) download(w http.ResponseWriter, r *http.Request, ext, mediaType string, render func(io.Writer, worksheet.Worksheet) error) {
	ws, err := s.editor.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := render(&buf, ws); err != nil {
		writeError(w, r, fmt.Errorf("exporting %s: %w", ext, err))
		return
	}
	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(ws, ext)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleLive subscribes before loading the snapshot so no change saved in
// between is missed.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	updates, unsubscribe := s.hub.subscribe(id)
	defer unsubscribe()

	ws, err := s.editor.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.hub.stream(w, r, ws, updates)
}

// respond returns a function that writes the result of an editor call.
func respond(w http.ResponseWriter, r *http.Request) func(worksheet.Worksheet, error) {
	return func(ws worksheet.Worksheet, err error) {
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ws)
	}
}

func regenerateArgs(r *http.Request) (int, editor.GenerationOptions, error) {
	var opts editor.GenerationOptions
	index, err := pathIndex(r)
	if err != nil {
		return 0, opts, err
	}
	if err := decode(r, &opts, true); err != nil {
		return 0, opts, err
	}
	return index, opts, checkMode(opts.Mode)
}

func pathIndex(r *http.Request) (int, error) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return 0, &requestError{msg: "question index must be an integer"}
	}
	return i, nil
}

// checkMode rejects unknown modes. An empty mode is left for the editor to
// resolve.
func checkMode(m generator.QuestionMode) error {
	if m == "" {
		return nil
	}
	if _, err := generator.ParseMode(string(m)); err != nil {
		return &requestError{msg: err.Error()}
	}
	return nil
}

// decode reads a JSON body into dst. An empty body is accepted when optional.
func decode(r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return &requestError{msg: "invalid request body: " + err.Error()}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}
