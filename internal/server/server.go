// Package server exposes recorded builds and their summaries over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dshills/issuegate/internal/analysis"
	"github.com/dshills/issuegate/internal/pipeline"
	"github.com/dshills/issuegate/internal/registry"
	"github.com/dshills/issuegate/internal/render"
)

// Server serves the read-only API.
type Server struct {
	Store     registry.Store
	Evaluator *pipeline.Evaluator
	Render    render.Deps
	Logger    *slog.Logger
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthzHandler)
	r.Get("/api/v1/jobs/{job}/builds", s.listBuildsHandler)
	r.Get("/api/v1/jobs/{job}/builds/{number}/summary", s.summaryHandler)
	return r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger().Info("issuegate server started", "addr", addr)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		s.logger().Info("issuegate server stopped")
		return nil
	case err := <-errCh:
		return err
	}
}

func healthzHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type buildView struct {
	ID        string            `json:"id"`
	Build     analysis.BuildID  `json:"build"`
	Timestamp time.Time         `json:"timestamp"`
	Total     int               `json:"total"`
	Reference *analysis.BuildID `json:"reference,omitempty"`
	Errors    int               `json:"errors"`
	Result    string            `json:"result,omitempty"`
	URL       string            `json:"url"`
}

func (s *Server) listBuildsHandler(w http.ResponseWriter, r *http.Request) {
	job := chi.URLParam(r, "job")
	runs, err := s.Store.List(r.Context(), job)
	if err != nil {
		s.logger().Error("list builds", "job", job, "error", err)
		writeError(w, http.StatusInternalServerError, "list builds failed")
		return
	}
	views := make([]buildView, 0, len(runs))
	for _, run := range runs {
		views = append(views, buildView{
			ID:        run.ID,
			Build:     run.Build,
			Timestamp: run.Timestamp,
			Total:     run.Size(),
			Reference: run.Reference,
			Errors:    len(run.Errors),
			Result:    string(run.Result),
			URL:       run.Build.URL(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": job, "builds": views})
}

func contentType(format string) string {
	switch strings.ToLower(format) {
	case "html":
		return "text/html; charset=utf-8"
	case "md", "markdown":
		return "text/markdown; charset=utf-8"
	case "json":
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

func (s *Server) summaryHandler(w http.ResponseWriter, r *http.Request) {
	job := chi.URLParam(r, "job")
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 {
		writeError(w, http.StatusBadRequest, "build number must be a positive integer")
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "html"
	}
	renderer, err := render.ForFormat(format, s.Render)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sum, err := s.Evaluator.Evaluate(r.Context(), analysis.BuildID{Job: job, Number: number})
	if errors.Is(err, registry.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no analysis for %s #%d", job, number))
		return
	}
	if err != nil {
		s.logger().Error("evaluate build", "job", job, "number", number, "error", err)
		writeError(w, http.StatusInternalServerError, "evaluation failed")
		return
	}
	out, err := renderer.Render(sum)
	if err != nil {
		s.logger().Error("render summary", "job", job, "number", number, "error", err)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
