package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/resume-builder/internal/api"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

// Pagination limits of the admin list endpoint.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// HealthResponse represents the response for /api/health
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Timestamp: time.Now().UTC().Format(time.RFC3339)})
}

// handleSubmitResume validates, sanitizes and stores a new resume.
func (s *Server) handleSubmitResume(w http.ResponseWriter, r *http.Request) {
	data, err := s.readResume(w, r)
	var (
		invalid  *ErrValidation
		tooLarge *ErrPayloadTooLarge
	)
	switch {
	case err == nil:
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: "Validation failed", Details: invalid.Problems})
		return
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Payload too large")
		return
	default:
		s.logger.WithError(err).Debug("rejected resume body")
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	stored, err := s.store.CreateResume(r.Context(), SanitizeResume(data))
	if err != nil {
		s.logger.WithError(err).Error("Error submitting resume")
		writeError(w, http.StatusInternalServerError, "Failed to submit resume")
		return
	}

	s.logger.WithField("resume_id", stored.ID).Info("resume submitted")
	writeJSON(w, http.StatusCreated, types.SubmitResponse{
		Message:  "Resume submitted successfully",
		ResumeID: stored.ID,
	})
}

// readResume enforces the size cap, decodes the body and runs the full validation rule set.
func (s *Server) readResume(w http.ResponseWriter, r *http.Request) (*types.ResumeData, error) {
	if r.ContentLength > s.maxResumeSize {
		return nil, &ErrPayloadTooLarge{Limit: s.maxResumeSize}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxResumeSize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &ErrPayloadTooLarge{Limit: s.maxResumeSize}
		}
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	var data types.ResumeData
	if len(body) == 0 {
		return nil, errors.New("empty body")
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	data.Normalize()

	if err := data.Validate(); err != nil {
		return nil, &ErrValidation{Problems: types.ValidationMessages(err)}
	}
	return &data, nil
}

// handleListResumes returns one page of resume summaries, newest first.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := s.store.ListResumes(r.Context(), page, perPage)
	if err != nil {
		s.logger.WithError(err).Error("Error fetching resumes")
		writeError(w, http.StatusInternalServerError, "Failed to fetch resumes")
		return
	}

	writeJSON(w, http.StatusOK, types.ListResponse{
		Resumes:    items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// parsePagination reads page (default 1) and per_page (default 20, capped at 100).
func parsePagination(r *http.Request) (page, perPage int, err error) {
	page, perPage = 1, DefaultPerPage
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("page must be a number")
		}
	}
	if v := q.Get("per_page"); v != "" {
		if perPage, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("per_page must be a number")
		}
	}
	page = max(page, 1)
	perPage = min(max(perPage, 1), MaxPerPage)
	return page, perPage, nil
}

// handleGetResume returns the full resume.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	stored, err := s.lookupResume(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err, "Failed to fetch resume")
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// handleResumePDF renders the resume as a PDF attachment. It serves both the
// public and the admin download routes.
func (s *Server) handleResumePDF(w http.ResponseWriter, r *http.Request) {
	stored, err := s.lookupResume(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err, "Failed to generate PDF")
		return
	}

	ctx := r.Context()
	if s.pdfTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.pdfTimeout)
		defer cancel()
	}

	pdf, err := rendering.RenderResumePDF(ctx, &stored.ResumeData, s.renderer)
	if err != nil {
		s.logger.WithError(err).WithField("resume_id", stored.ID).Error("Error generating PDF")
		writeError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", api.AdminFilename(stored.FullName)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		s.logger.WithError(err).Warn("failed to write PDF response")
	}
}

// handleDeleteResume removes a resume.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteResume(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			err = &ErrResumeNotFound{ID: id}
		}
		s.storeError(w, err, "Failed to delete resume")
		return
	}
	s.logger.WithField("resume_id", id).Info("resume deleted")
	writeJSON(w, http.StatusOK, types.MessageResponse{Message: "Resume deleted successfully"})
}

func (s *Server) lookupResume(ctx context.Context, id string) (*types.StoredResume, error) {
	stored, err := s.store.GetResume(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, &ErrResumeNotFound{ID: id}
	}
	return stored, err
}

// storeError writes a storage failure, logging anything that is not a plain not-found.
func (s *Server) storeError(w http.ResponseWriter, err error, fallback string) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.WithError(err).Error(fallback)
	}
	writeError(w, status, publicMessage(err, fallback))
}

// handleNotFound is the fallback for unknown routes.
func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error JSON response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, types.ErrorResponse{Error: message})
}
