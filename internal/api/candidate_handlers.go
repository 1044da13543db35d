// Package api provides HTTP handlers for candidate endpoints.
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

// candidatesHandler handles collection operations (GET, POST /api/candidates).
func (s *Server) candidatesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.candidatesHandler: processing request", "method", r.Method, "path", r.URL.Path)

	switch r.Method {
	case http.MethodGet:
		candidates, err := s.st.ListCandidates()
		if err != nil {
			slog.Error("Server.candidatesHandler: failed to list candidates", "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch candidates"))
			return
		}
		slog.Debug("Server.candidatesHandler: candidates fetched", "count", len(candidates))
		writeJSONResponse(w, http.StatusOK, models.Success(candidates))

	case http.MethodPost:
		var cand models.Candidate
		if err := json.NewDecoder(r.Body).Decode(&cand); err != nil {
			slog.Warn("Server.candidatesHandler: failed to decode JSON", "error", err)
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
			return
		}
		if strings.TrimSpace(cand.Name) == "" {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("name is required"))
			return
		}
		if strings.TrimSpace(cand.Email) == "" {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("email is required"))
			return
		}
		if cand.Status == "" {
			cand.Status = models.CandidateStatusNew
		}
		if !models.IsValidCandidateStatus(cand.Status) {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Unknown candidate status: "+string(cand.Status)))
			return
		}

		now := time.Now().UTC()
		cand.ID = util.GenerateEntityID()
		cand.CreatedAt = now
		cand.UpdatedAt = now

		if err := s.st.SaveCandidate(cand); err != nil {
			slog.Error("Server.candidatesHandler: failed to save candidate", "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to save candidate"))
			return
		}
		slog.Info("Server.candidatesHandler: candidate created", "id", cand.ID, "email", cand.Email)
		writeJSONResponse(w, http.StatusCreated, models.Success(cand))

	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
	}
}

// candidateHandler handles item operations (/api/candidates/{id}) and the
// job-match lookup (/api/candidates/{id}/matching-jobs).
func (s *Server) candidateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.candidateHandler: processing request", "method", r.Method, "path", r.URL.Path)

	path := strings.TrimPrefix(r.URL.Path, "/api/candidates/")
	segments := strings.Split(strings.Trim(path, "/"), "/")

	if len(segments) == 0 || segments[0] == "" {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Unknown candidate endpoint"))
		return
	}
	id := segments[0]

	if len(segments) == 2 && segments[1] == "matching-jobs" {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
			return
		}
		ctx, cancel := requestContext(r)
		defer cancel()

		matches, err := s.matcher.FindMatchingJobs(ctx, id)
		if err != nil {
			slog.Error("Server.candidateHandler: matching jobs failed", "error", err, "id", id)
			writeError(w, err)
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(matches))
		return
	}
	if len(segments) > 1 {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Unknown candidate endpoint"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		cand, err := s.st.GetCandidate(id)
		if err != nil {
			slog.Error("Server.candidateHandler: failed to get candidate", "error", err, "id", id)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch candidate"))
			return
		}
		if cand == nil {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Candidate not found"))
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(cand))

	case http.MethodPut:
		existing, err := s.st.GetCandidate(id)
		if err != nil {
			slog.Error("Server.candidateHandler: failed to get candidate", "error", err, "id", id)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch candidate"))
			return
		}
		if existing == nil {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Candidate not found"))
			return
		}
		var cand models.Candidate
		if err := json.NewDecoder(r.Body).Decode(&cand); err != nil {
			slog.Warn("Server.candidateHandler: failed to decode JSON", "error", err)
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
			return
		}
		if strings.TrimSpace(cand.Name) == "" {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("name is required"))
			return
		}
		if cand.Status == "" {
			cand.Status = existing.Status
		}
		if !models.IsValidCandidateStatus(cand.Status) {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Unknown candidate status: "+string(cand.Status)))
			return
		}
		cand.ID = id
		cand.CreatedAt = existing.CreatedAt
		cand.UpdatedAt = time.Now().UTC()

		if err := s.st.SaveCandidate(cand); err != nil {
			slog.Error("Server.candidateHandler: failed to save candidate", "error", err, "id", id)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to save candidate"))
			return
		}
		slog.Info("Server.candidateHandler: candidate updated", "id", id)
		writeJSONResponse(w, http.StatusOK, models.Success(cand))

	case http.MethodDelete:
		deleted, err := s.st.DeleteCandidate(id)
		if err != nil {
			slog.Error("Server.candidateHandler: failed to delete candidate", "error", err, "id", id)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to delete candidate"))
			return
		}
		if !deleted {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Candidate not found"))
			return
		}
		slog.Info("Server.candidateHandler: candidate deleted", "id", id)
		writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Candidate deleted", nil))

	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
	}
}
