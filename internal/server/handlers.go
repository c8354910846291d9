package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/styletower/pkg/cache"
	"github.com/matzehuels/styletower/pkg/errors"
	"github.com/matzehuels/styletower/pkg/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"components":  s.runner.Catalog.Names(),
		"definitions": s.runner.Catalog.Entries(),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts := pipeline.Options{
		Component: chi.URLParam(r, "component"),
		Props:     queryProps(r),
		Refresh:   r.Header.Get("Cache-Control") == "no-cache",
		TTL:       s.ttl,
		Tag:       s.sheet.TagOptions(),
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if res.Cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Page)
}

func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutSuffix(chi.URLParam(r, "file"), ".css")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	css, err := s.runner.Block(r.Context(), token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	// Content-addressed: a token always names the same bytes.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("ETag", `"`+token+`"`)
	if r.Header.Get("If-None-Match") == `"`+token+`"` {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(css))
}

// queryProps turns query parameters into props. Only the first value of a
// repeated parameter is used.
func queryProps(r *http.Request) map[string]string {
	q := r.URL.Query()
	if len(q) == 0 {
		return nil
	}
	props := make(map[string]string, len(q))
	for k, v := range q {
		if len(v) > 0 {
			props[k] = v[0]
		}
	}
	return props
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	if stderrors.Is(err, cache.ErrNotFound) {
		return http.StatusNotFound
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidToken:
		return http.StatusBadRequest
	case errors.ErrCodeUnknownDefinition, errors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "id", requestIDFrom(r.Context()), "err", err)
		writeError(w, status, "internal error")
		return
	}
	if stderrors.Is(err, cache.ErrNotFound) {
		writeError(w, status, "block not found")
		return
	}
	writeError(w, status, errors.UserMessage(err))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
