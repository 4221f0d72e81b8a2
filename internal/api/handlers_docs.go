package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dgallion1/outliner/internal/docstore"
	"github.com/dgallion1/outliner/internal/doctree"
	"github.com/dgallion1/outliner/internal/outline"
	"github.com/dgallion1/outliner/internal/parser"
	"github.com/dgallion1/outliner/internal/render"
	"github.com/go-chi/chi/v5"
)

// handleListDocuments lists documents held by the document store.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.orchestrator.Docstore().ListDocuments(r.Context(), 200)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// handleStoredRenumber fetches a document from the store, renumbers
// its headings, and writes the result back as a new revision.
func (s *Server) handleStoredRenumber(w http.ResponseWriter, r *http.Request) {
	doc, stored, ok := s.fetchStored(w, r)
	if !ok {
		return
	}

	rep := outline.Renumber(doc)

	out := render.Markdown(doc)
	if err := s.orchestrator.Docstore().PutRevision(r.Context(), stored.ID, docstore.RevisionRequest{
		Content: out,
		Source:  "outliner:renumber",
		Report:  rep,
	}); err != nil {
		jsonError(w, "failed to store revision: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id": stored.ID,
		"report": rep,
	})
}

// handleStoredRelink fetches a document from the store, resynchronizes
// its heading links, and writes the result back as a new revision.
func (s *Server) handleStoredRelink(w http.ResponseWriter, r *http.Request) {
	doc, stored, ok := s.fetchStored(w, r)
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

	out := render.Markdown(doc)
	if err := s.orchestrator.Docstore().PutRevision(r.Context(), stored.ID, docstore.RevisionRequest{
		Content: out,
		Source:  "outliner:relink",
		Report:  rep,
	}); err != nil {
		jsonError(w, "failed to store revision: "+err.Error(), http.StatusBadGateway)
		return
	}

	resp := map[string]any{
		"doc_id": stored.ID,
		"report": rep,
	}
	if rep.Stale {
		resp["warning"] = "table of contents does not match the document headings; results may be incorrect"
	}
	if len(rep.Deprecated) > 0 {
		resp["deprecated_links"] = deprecatedLines(rep.Deprecated)
	}
	writeJSON(w, http.StatusOK, resp)
}

// fetchStored retrieves and parses a stored document. Documents with
// no usable filename are treated as markdown.
func (s *Server) fetchStored(w http.ResponseWriter, r *http.Request) (*doctree.Document, *docstore.Document, bool) {
	docID := chi.URLParam(r, "docID")
	stored, err := s.orchestrator.Docstore().GetDocument(r.Context(), docID)
	if err != nil {
		jsonError(w, "failed to fetch document: "+err.Error(), http.StatusBadGateway)
		return nil, nil, false
	}
	if stored == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return nil, nil, false
	}

	name := stored.Name
	if !parser.IsSupportedExtension(name) {
		name = stored.ID + ".md"
	}
	p, err := parser.ForFile(name)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return nil, nil, false
	}

	doc, err := p.Parse(strings.NewReader(stored.Content), name)
	if err != nil {
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return nil, nil, false
	}
	return doc, stored, true
}
