package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/outliner/internal/doctree"
	"github.com/dgallion1/outliner/internal/outline"
	"github.com/dgallion1/outliner/internal/parser"
	"github.com/dgallion1/outliner/internal/render"
)

// handleRenumber runs the heading numbering pass on an uploaded
// document and returns the renumbered result.
func (s *Server) handleRenumber(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.parseUpload(w, r)
	if !ok {
		return
	}

	rep := outline.Renumber(doc)

	writeJSON(w, http.StatusOK, map[string]any{
		"document": render.Markdown(doc),
		"report":   rep,
	})
}

// handleRelink runs the link-resynchronization pass on an uploaded
// document. A stale table of contents is a warning, not a failure;
// a missing one is.
func (s *Server) handleRelink(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.parseUpload(w, r)
	if !ok {
		return
	}

	rep, err := outline.ResyncLinks(doc)
	if errors.Is(err, outline.ErrNoTOC) {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		jsonError(w, "relink failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := map[string]any{
		"document": render.Markdown(doc),
		"report":   rep,
	}
	if rep.Stale {
		resp["warning"] = "table of contents does not match the document headings; results may be incorrect"
	}
	if len(rep.Deprecated) > 0 {
		resp["deprecated_links"] = deprecatedLines(rep.Deprecated)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleOutline returns the current heading outline of an uploaded
// document without modifying it.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.parseUpload(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"title":    doc.Title,
		"headings": outline.Entries(doc),
	})
}

// parseUpload reads the multipart "file" field and parses it into a
// document tree. On failure it writes the error response and returns
// ok=false.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) (*doctree.Document, bool) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return nil, false
	}

	p, err := parser.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	if pdf, isPDF := p.(*parser.PDFParser); isPDF {
		pdf.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return nil, false
	}
	if title := r.FormValue("title"); title != "" {
		doc.Title = title
	}
	return doc, true
}

// readUpload extracts the uploaded file, enforcing size limits.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return "", nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return "", nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return "", nil, false
	}
	return filename, data, true
}

// deprecatedLines formats deprecated links for the end-of-pass report.
func deprecatedLines(links []outline.DeprecatedLink) []string {
	lines := make([]string, len(links))
	for i, l := range links {
		lines[i] = fmt.Sprintf("heading: %s / description: %s", l.URL, l.Display)
	}
	return lines
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
