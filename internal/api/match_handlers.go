// Package api provides HTTP handlers for matching endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/BTreeMap/TalentPipe/internal/models"
)

// matchesHandler performs match analysis (POST /api/matches). A request with
// both ids scores the single pair; a request with only a candidateId ranks
// published postings; a request with only a jobPostingId ranks candidates.
func (s *Server) matchesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.matchesHandler: processing request", "method", r.Method, "path", r.URL.Path)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}

	var req models.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.matchesHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	switch {
	case req.CandidateID != "" && req.JobPostingID != "":
		result, err := s.matcher.MatchCandidate(ctx, req.CandidateID, req.JobPostingID)
		if err != nil {
			slog.Warn("Server.matchesHandler: match failed", "error", err,
				"candidateId", req.CandidateID, "jobPostingId", req.JobPostingID)
			writeError(w, err)
			return
		}
		slog.Info("Server.matchesHandler: pair matched",
			"candidateId", req.CandidateID, "jobPostingId", req.JobPostingID, "score", result.Score)
		writeJSONResponse(w, http.StatusOK, models.Success(result))

	case req.CandidateID != "":
		matches, err := s.matcher.FindMatchingJobs(ctx, req.CandidateID)
		if err != nil {
			slog.Warn("Server.matchesHandler: job ranking failed", "error", err, "candidateId", req.CandidateID)
			writeError(w, err)
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(matches))

	case req.JobPostingID != "":
		matches, err := s.matcher.FindMatchingCandidates(ctx, req.JobPostingID)
		if err != nil {
			slog.Warn("Server.matchesHandler: candidate ranking failed", "error", err, "jobPostingId", req.JobPostingID)
			writeError(w, err)
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(matches))

	default:
		writeJSONResponse(w, http.StatusBadRequest, models.Error("candidateId or jobPostingId is required"))
	}
}
