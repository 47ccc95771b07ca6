package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/deckgen/deckgen/internal/domain/entities"
)

// uploadFormField is the multipart field carrying the PDF
const uploadFormField = "pdf"

// multipartMemoryLimit caps how much of an upload is buffered in memory
// before spilling to temporary files
const multipartMemoryLimit = 32 << 20

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// UploadResponse describes a successful document upload
type UploadResponse struct {
	SessionID      string `json:"session_id"`
	Characters     int    `json:"characters"`
	Pages          int    `json:"pages"`
	Truncated      bool   `json:"truncated"`
	SuggestedTitle string `json:"suggested_title"`
}

// OutlineResponse carries the generated outline text back to the editor
type OutlineResponse struct {
	Outline string `json:"outline"`
	Slides  int    `json:"slides"`
}

// DeckResponse describes a built artifact ready for download
type DeckResponse struct {
	DownloadURL string `json:"download_url"`
	Slides      int    `json:"slides"`
	Bytes       int    `json:"bytes"`
}

// PreviewResponse carries the rendered slide-card fragment
type PreviewResponse struct {
	HTML   string `json:"html"`
	Slides int    `json:"slides"`
}

// HealthResponse reports server liveness
type HealthResponse struct {
	Status   string    `json:"status"`
	Version  string    `json:"version"`
	Sessions int       `json:"sessions"`
	Time     time.Time `json:"time"`
}

// handleUploadDocument accepts a PDF upload, runs extraction, and opens a
// session holding the text for the follow-up steps
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.config.GetMaxUploadBytes()

	// Reject oversized uploads before touching the body
	if r.ContentLength > maxBytes {
		s.handleConversionError(w, entities.NewUploadTooLargeError(maxBytes>>20))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.handleConversionError(w, entities.NewUploadTooLargeError(maxBytes>>20))
			return
		}
		s.handleError(w, err, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		s.handleError(w, fmt.Errorf("missing %q form field: %w", uploadFormField, err), http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.handleConversionError(w, entities.NewUploadTooLargeError(maxBytes>>20))
			return
		}
		s.handleError(w, err, http.StatusBadRequest)
		return
	}

	text, err := s.converter.ExtractText(r.Context(), data)
	if err != nil {
		s.handleConversionError(w, err)
		return
	}

	sess := s.sessions.Create(header.Filename, text)
	s.logger.Info("Document uploaded: session=%s file=%q pages=%d chars=%d", sess.ID, header.Filename, text.Pages, text.Len())

	s.writeJSON(w, UploadResponse{
		SessionID:      sess.ID,
		Characters:     text.Len(),
		Pages:          text.Pages,
		Truncated:      text.Truncated,
		SuggestedTitle: entities.SuggestDeckTitle(header.Filename),
	})
}

// handleGenerateOutline asks the generation service for a slide structure
// from the session's stored text
func (s *Server) handleGenerateOutline(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(mux.Vars(r)["id"])
	if !ok {
		s.handleConversionError(w, entities.NewSessionError("session not found or expired, upload the document again"))
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleError(w, err, http.StatusBadRequest)
		return
	}

	outline, err := s.converter.GenerateOutline(r.Context(), sess.Text, req.Title)
	if err != nil {
		// The session keeps its text; the user can retry without re-uploading
		s.handleConversionError(w, err)
		return
	}

	s.sessions.SetOutline(sess.ID, outline)

	s.writeJSON(w, OutlineResponse{
		Outline: outline,
		Slides:  len(s.converter.ParseOutline(outline)),
	})
}

// handleBuildDeck assembles the artifact from the (possibly edited) outline
// and stores it on the session for download
func (s *Server) handleBuildDeck(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(mux.Vars(r)["id"])
	if !ok {
		s.handleConversionError(w, entities.NewSessionError("session not found or expired, upload the document again"))
		return
	}

	var req struct {
		Title   string `json:"title"`
		Outline string `json:"outline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleError(w, err, http.StatusBadRequest)
		return
	}

	outline := req.Outline
	if strings.TrimSpace(outline) == "" {
		outline = sess.Outline
	}

	deck, err := s.converter.BuildDeck(r.Context(), req.Title, outline)
	if err != nil {
		s.handleConversionError(w, err)
		return
	}

	s.sessions.SetOutline(sess.ID, outline)
	s.sessions.SetDeck(sess.ID, deck)
	s.logger.Success("Deck built: session=%s slides=%d bytes=%d", sess.ID, deck.SlideCount, deck.Size())

	s.writeJSON(w, DeckResponse{
		DownloadURL: fmt.Sprintf("/api/sessions/%s/deck", sess.ID),
		Slides:      deck.SlideCount,
		Bytes:       deck.Size(),
	})
}

// handleDownloadDeck streams the stored artifact as an attachment
func (s *Server) handleDownloadDeck(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(mux.Vars(r)["id"])
	if !ok {
		s.handleConversionError(w, entities.NewSessionError("session not found or expired, upload the document again"))
		return
	}

	if sess.Deck == nil {
		s.handleConversionError(w, entities.NewSessionError("no presentation generated for this session yet"))
		return
	}

	w.Header().Set("Content-Type", entities.DeckMIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sess.Deck.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(sess.Deck.Size()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(sess.Deck.Bytes); err != nil {
		s.logger.Error("Failed to write deck response: %v", err)
	}
}

// handlePreview renders outline text as slide cards without touching any
// session state
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Outline string `json:"outline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleError(w, err, http.StatusBadRequest)
		return
	}

	outline := s.converter.ParseOutline(req.Outline)
	html, err := s.preview.RenderPreview(r.Context(), outline)
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, PreviewResponse{
		HTML:   string(html),
		Slides: len(outline),
	})
}

// handleHealth reports liveness and the running version
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	version := s.version
	s.mu.RUnlock()

	s.writeJSON(w, HealthResponse{
		Status:   "ok",
		Version:  version,
		Sessions: s.sessions.Count(),
		Time:     time.Now(),
	})
}

// handleConversionError maps pipeline failures onto status codes.
// ConversionError messages are written for users; the wrapped cause is
// logged server-side only.
func (s *Server) handleConversionError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "An error occurred"

	var ce *entities.ConversionError
	if errors.As(err, &ce) {
		message = ce.Message
		switch ce.Type {
		case entities.ErrorTypeUploadTooLarge:
			status = http.StatusRequestEntityTooLarge
		case entities.ErrorTypeExtraction:
			status = http.StatusUnprocessableEntity
		case entities.ErrorTypeGeneration:
			status = http.StatusBadGateway
		case entities.ErrorTypeDeckRender:
			status = http.StatusInternalServerError
		case entities.ErrorTypeSession:
			status = http.StatusNotFound
		}
	}

	// Log the actual error for debugging (server-side only)
	s.logger.Error("Conversion failed (status %d): %v", status, err)

	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Time:    time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		s.logger.Error("Failed to encode error response: %v", encodeErr)
	}
}

// handleError handles error responses with sanitized messages
func (s *Server) handleError(w http.ResponseWriter, err error, status int) {
	// Sanitize error message to prevent information disclosure
	var message string
	switch status {
	case http.StatusBadRequest:
		message = "Invalid request"
	case http.StatusNotFound:
		message = "Resource not found"
	case http.StatusMethodNotAllowed:
		message = "Method not allowed"
	case http.StatusTooManyRequests:
		message = "Too many requests"
	case http.StatusInternalServerError:
		message = "Internal server error"
	default:
		message = "An error occurred"
	}

	// Log the actual error for debugging (server-side only)
	s.logger.Error("HTTP error (status %d): %v", status, err)

	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message, // Use sanitized message instead of err.Error()
		Time:    time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		s.logger.Error("Failed to encode error response: %v", encodeErr)
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response: %v", err)
	}
}
