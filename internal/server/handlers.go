package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gompdf/pageflow/internal/importer"
	"github.com/gompdf/pageflow/internal/pagination"
	"github.com/gompdf/pageflow/pkg/api"
)

type reflowRequest struct {
	Content string `json:"content"`
	Title   string `json:"title,omitempty"`
}

type reflowResponse struct {
	Content     string `json:"content"`
	Pages       int    `json:"pages"`
	Iterations  int    `json:"iterations"`
	Splits      int    `json:"splits"`
	Moves       int    `json:"moves"`
	Overflowing []int  `json:"overflowing,omitempty"`
	Converged   bool   `json:"converged"`
}

type paginateTextRequest struct {
	Text string `json:"text"`
}

type paginateTextResponse struct {
	Pages []string `json:"pages"`
}

func (s *Server) handleReflow(w http.ResponseWriter, r *http.Request) {
	var req reflowRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := api.Open(req.Content, s.editorOptions()...)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer e.Close()
	s.reflow(w, r, e)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	name := sanitizeFilename(r.URL.Query().Get("name"))
	imp, err := importer.ForFile(name)
	if err != nil {
		jsonError(w, fmt.Sprintf("unsupported file type: %q", filepath.Ext(name)), http.StatusBadRequest)
		return
	}
	data, ok := readBody(w, r)
	if !ok {
		return
	}
	doc, err := imp.Import(bytes.NewReader(data), name)
	if err != nil {
		jsonError(w, "import failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	e, err := api.NewEditor(s.editorOptions()...)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer e.Close()
	if err := e.LoadDocument(doc); err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.reflow(w, r, e)
}

func (s *Server) reflow(w http.ResponseWriter, r *http.Request, e *api.Editor) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.ReflowTimeout)
	defer cancel()

	stats, err := e.Reflow(ctx)
	converged := err == nil
	switch {
	case err == nil:
	case errors.Is(err, pagination.ErrNotConverged):
		s.log.Warn("reflow did not converge", "passes", stats.Passes)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		jsonError(w, "reflow timed out", http.StatusServiceUnavailable)
		return
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, http.StatusOK, reflowResponse{
		Content:     e.Content(),
		Pages:       e.PageCount(),
		Iterations:  stats.Passes,
		Splits:      stats.Splits,
		Moves:       stats.Moves,
		Overflowing: stats.Overflowing,
		Converged:   converged,
	})
}

func (s *Server) handlePaginateText(w http.ResponseWriter, r *http.Request) {
	var req paginateTextRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pages, err := api.PaginateText(req.Text, s.editorOptions()...)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, http.StatusOK, paginateTextResponse{Pages: pages})
}

// handleExport renders the reflowed document as PDF, or as HTML with
// ?format=html.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req reflowRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := api.Open(req.Content, s.editorOptions(api.WithTitle(req.Title))...)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.ReflowTimeout)
	defer cancel()
	if _, err := e.Reflow(ctx); err != nil && !errors.Is(err, pagination.ErrNotConverged) {
		jsonError(w, "reflow failed: "+err.Error(), http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	contentType := "application/pdf"
	if strings.EqualFold(r.URL.Query().Get("format"), "html") {
		contentType = "text/html; charset=utf-8"
		err = e.ExportHTML(&buf)
	} else {
		err = e.ExportPDF(&buf)
	}
	if err != nil {
		jsonError(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return nil, false
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return nil, false
	}
	return data, true
}

func jsonResponse(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	jsonResponse(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
