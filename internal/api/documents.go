package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/lector/internal/hermes"
	"github.com/MikeSquared-Agency/lector/internal/session"
)

// DocumentResponse describes the active document after a load.
type DocumentResponse struct {
	Identity string `json:"identity"`
	Title    string `json:"title"`
	Preview  string `json:"preview"`
	Chunks   int    `json:"chunks"`
}

// uploadDocument handles POST /api/v1/documents: store the upload, extract
// its text and make it the active document.
func (s *Server) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid upload: %v"}`, err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		http.Error(w, `{"error":"missing document file"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !s.deps.Extractors.Supported(header.Filename) {
		http.Error(w, fmt.Sprintf(`{"error":"unsupported document type: %s"}`, header.Filename), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"read upload: %v"}`, err), http.StatusBadRequest)
		return
	}

	name, err := s.deps.Library.Save(header.Filename, data)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"store document: %v"}`, err), http.StatusInternalServerError)
		return
	}
	s.deps.Logger.Info("document stored", "name", name, "bytes", len(data))

	s.loadDocument(w, r, name, data)
}

// activateDocument handles POST /api/v1/documents/{name}/activate: re-select
// a previously stored document.
func (s *Server) activateDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	data, err := s.deps.Library.Read(name)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"unknown document: %s"}`, name), http.StatusNotFound)
		return
	}

	s.loadDocument(w, r, name, data)
}

// loadDocument is the shared tail of upload and activate: extract, load the
// session, announce, respond.
func (s *Server) loadDocument(w http.ResponseWriter, r *http.Request, name string, data []byte) {
	text, err := s.deps.Extractors.Extract(name, data)
	if err != nil {
		s.deps.Logger.Warn("extraction failed", "name", name, "error", err)
		text = "" // empty text falls through to the zero-chunk load below
	}

	if err := s.deps.Session.Load(name, text); err != nil {
		if errors.Is(err, session.ErrNoContent) {
			http.Error(w, fmt.Sprintf(`{"error":"document could not be processed: %s"}`, name), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, fmt.Sprintf(`{"error":"load document: %v"}`, err), http.StatusInternalServerError)
		return
	}

	snap := s.deps.Session.Current()
	s.deps.Logger.Info("document loaded", "identity", snap.Identity, "chunks", len(snap.Chunks))

	if s.deps.Hermes != nil {
		s.deps.Hermes.PublishDocumentLoaded(hermes.DocumentLoadedEvent{
			Identity: snap.Identity,
			Title:    snap.Title,
			Chunks:   len(snap.Chunks),
		})
	}

	writeJSON(w, http.StatusOK, DocumentResponse{
		Identity: snap.Identity,
		Title:    snap.Title,
		Preview:  snap.Preview,
		Chunks:   len(snap.Chunks),
	})
}

// listDocuments handles GET /api/v1/documents.
func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	names, err := s.deps.Library.List()
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"list documents: %v"}`, err), http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": names, "count": len(names)})
}

// currentDocument handles GET /api/v1/document.
func (s *Server) currentDocument(w http.ResponseWriter, r *http.Request) {
	if !s.deps.Session.HasDocument() {
		http.Error(w, `{"error":"no document loaded"}`, http.StatusNotFound)
		return
	}
	snap := s.deps.Session.Current()
	writeJSON(w, http.StatusOK, DocumentResponse{
		Identity: snap.Identity,
		Title:    snap.Title,
		Preview:  snap.Preview,
		Chunks:   len(snap.Chunks),
	})
}
