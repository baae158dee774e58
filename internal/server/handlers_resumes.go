package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-studio/internal/intake"
	"github.com/jonathan/resume-studio/internal/types"
)

// uploadField is the multipart field carrying the resume file
const uploadField = "file"

// handleGetResume returns a stored resume document
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resumeID(w, r)
	if !ok {
		return
	}
	if s.deps.Resumes == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "resume storage is not configured")
		return
	}

	doc, err := s.deps.Resumes.GetResume(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to get resume", zap.Stringer("id", id), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load resume")
		return
	}
	if doc == nil {
		s.errorResponse(w, http.StatusNotFound, "resume not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// handlePutResume replaces a stored resume document
func (s *Server) handlePutResume(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resumeID(w, r)
	if !ok {
		return
	}
	if s.deps.Resumes == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "resume storage is not configured")
		return
	}

	var doc types.ResumeDocument
	if err := s.decodeAndValidate(r, &doc); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	doc.ID = id.String()

	if _, err := s.deps.Resumes.SaveResume(r.Context(), doc); err != nil {
		s.logger.Error("failed to save resume", zap.Stringer("id", id), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save resume")
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// handleParseResume turns an uploaded PDF into a resume document. The
// document is returned, not stored.
func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	if s.deps.Uploader == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "resume parsing is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "file is too large")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	f, header, err := r.FormFile(uploadField)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	doc, err := s.deps.Uploader.Upload(r.Context(), intake.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		status := HTTPStatus(err)
		var msg string
		switch status {
		case http.StatusBadRequest:
			msg = intake.NotPDFMessage
		case http.StatusUnprocessableEntity:
			msg = "Failed to parse the uploaded resume. Please try a different file."
		default:
			msg = "Failed to parse resume"
		}
		s.logger.Warn("resume upload failed", zap.String("file", header.Filename), zap.Int("status", status), zap.Error(err))
		s.errorResponse(w, status, msg)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

func (s *Server) resumeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid resume id")
		return uuid.Nil, false
	}
	return id, true
}
