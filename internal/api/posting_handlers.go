// Package api provides HTTP handlers for job posting endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/BTreeMap/TalentPipe/internal/models"
	"github.com/BTreeMap/TalentPipe/internal/util"
)

// jobPostingsHandler handles collection operations (GET, POST /api/job-postings).
func (s *Server) jobPostingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.jobPostingsHandler: processing request", "method", r.Method, "path", r.URL.Path)

	switch r.Method {
	case http.MethodGet:
		postings, err := s.st.ListJobPostings()
		if err != nil {
			slog.Error("Server.jobPostingsHandler: failed to list postings", "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch job postings"))
			return
		}
		slog.Debug("Server.jobPostingsHandler: postings fetched", "count", len(postings))
		writeJSONResponse(w, http.StatusOK, models.Success(postings))

	case http.MethodPost:
		var posting models.JobPosting
		if err := json.NewDecoder(r.Body).Decode(&posting); err != nil {
			slog.Warn("Server.jobPostingsHandler: failed to decode JSON", "error", err)
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
			return
		}
		if strings.TrimSpace(posting.Title) == "" {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("title is required"))
			return
		}
		if posting.Status == "" {
			posting.Status = models.PostingStatusDraft
		}
		if !models.IsValidPostingStatus(posting.Status) {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Unknown posting status: "+string(posting.Status)))
			return
		}

		now := time.Now().UTC()
		posting.ID = util.GenerateEntityID()
		posting.CreatedAt = now
		posting.UpdatedAt = now

		if err := s.st.SaveJobPosting(posting); err != nil {
			slog.Error("Server.jobPostingsHandler: failed to save posting", "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to save job posting"))
			return
		}
		slog.Info("Server.jobPostingsHandler: posting created", "id", posting.ID, "title", posting.Title)
		writeJSONResponse(w, http.StatusCreated, models.Success(posting))

	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
	}
}

// jobPostingHandler handles item operations (/api/job-postings/{id}) and the
// description generation endpoint (/api/job-postings/generate-description).
func (s *Server) jobPostingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.jobPostingHandler: processing request", "method", r.Method, "path", r.URL.Path)

	path := strings.TrimPrefix(r.URL.Path, "/api/job-postings/")
	segments := strings.Split(strings.Trim(path, "/"), "/")

	if len(segments) == 0 || segments[0] == "" {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Unknown job posting endpoint"))
		return
	}

	if segments[0] == "generate-description" {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
			return
		}
		s.generateDescriptionHandler(w, r)
		return
	}

	id := segments[0]
	if len(segments) > 1 {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Unknown job posting endpoint"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		posting, err := s.st.GetJobPosting(id)
		if err != nil {
			slog.Error("Server.jobPostingHandler: failed to get posting", "error", err, "id", id)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch job posting"))
			return
		}
		if posting == nil {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Job posting not found"))
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(posting))

	case http.MethodPut:
		existing, err := s.st.GetJobPosting(id)
		if err != nil {
			slog.Error("Server.jobPostingHandler: failed to get posting", "error", err, "id", id)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch job posting"))
			return
		}
		if existing == nil {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Job posting not found"))
			return
		}
		var posting models.JobPosting
		if err := json.NewDecoder(r.Body).Decode(&posting); err != nil {
			slog.Warn("Server.jobPostingHandler: failed to decode JSON", "error", err)
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
			return
		}
		if strings.TrimSpace(posting.Title) == "" {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("title is required"))
			return
		}
		if posting.Status == "" {
			posting.Status = existing.Status
		}
		if !models.IsValidPostingStatus(posting.Status) {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Unknown posting status: "+string(posting.Status)))
			return
		}
		posting.ID = id
		posting.CreatedAt = existing.CreatedAt
		posting.UpdatedAt = time.Now().UTC()

		if err := s.st.SaveJobPosting(posting); err != nil {
			slog.Error("Server.jobPostingHandler: failed to save posting", "error", err, "id", id)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to save job posting"))
			return
		}
		slog.Info("Server.jobPostingHandler: posting updated", "id", id)
		writeJSONResponse(w, http.StatusOK, models.Success(posting))

	case http.MethodDelete:
		deleted, err := s.st.DeleteJobPosting(id)
		if err != nil {
			slog.Error("Server.jobPostingHandler: failed to delete posting", "error", err, "id", id)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to delete job posting"))
			return
		}
		if !deleted {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Job posting not found"))
			return
		}
		slog.Info("Server.jobPostingHandler: posting deleted", "id", id)
		writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Job posting deleted", nil))

	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
	}
}

// generateDescriptionHandler drafts a posting description from the submitted
// posting fields (POST /api/job-postings/generate-description).
func (s *Server) generateDescriptionHandler(w http.ResponseWriter, r *http.Request) {
	var posting models.JobPosting
	if err := json.NewDecoder(r.Body).Decode(&posting); err != nil {
		slog.Warn("Server.generateDescriptionHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if strings.TrimSpace(posting.Title) == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("title is required"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	description, err := s.content.GenerateJobDescription(ctx, posting)
	if err != nil {
		slog.Error("Server.generateDescriptionHandler: generation failed", "error", err, "title", posting.Title)
		writeError(w, err)
		return
	}

	slog.Info("Server.generateDescriptionHandler: description generated", "title", posting.Title)
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]string{"description": description}))
}
