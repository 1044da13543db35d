// Package api provides HTTP handlers for interview process endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/BTreeMap/TalentPipe/internal/catalog"
	"github.com/BTreeMap/TalentPipe/internal/models"
	"github.com/BTreeMap/TalentPipe/internal/util"
)

// processesHandler handles collection operations (GET, POST /api/interview-processes).
func (s *Server) processesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.processesHandler: processing request", "method", r.Method, "path", r.URL.Path)

	switch r.Method {
	case http.MethodGet:
		processes, err := s.st.ListProcesses()
		if err != nil {
			slog.Error("Server.processesHandler: failed to list processes", "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch interview processes"))
			return
		}
		// Optional filter by candidate.
		if candidateID := r.URL.Query().Get("candidateId"); candidateID != "" {
			filtered := processes[:0]
			for _, p := range processes {
				if p.CandidateID == candidateID {
					filtered = append(filtered, p)
				}
			}
			processes = filtered
		}
		slog.Debug("Server.processesHandler: processes fetched", "count", len(processes))
		writeJSONResponse(w, http.StatusOK, models.Success(processes))

	case http.MethodPost:
		s.createProcessHandler(w, r)

	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
	}
}

// createProcessHandler starts a new interview process for a candidate and
// posting (POST /api/interview-processes).
func (s *Server) createProcessHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.createProcessHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if len(req.Stages) == 0 {
		req.Stages = catalog.DefaultStages(models.MaxProcessStages)
		slog.Debug("Server.createProcessHandler: no stages configured, using defaults", "count", len(req.Stages))
	}
	if err := req.Validate(); err != nil {
		slog.Warn("Server.createProcessHandler: validation failed", "error", err)
		writeError(w, err)
		return
	}

	candidate, err := s.st.GetCandidate(req.CandidateID)
	if err != nil {
		slog.Error("Server.createProcessHandler: failed to get candidate", "error", err, "candidateId", req.CandidateID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch candidate"))
		return
	}
	if candidate == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Candidate not found"))
		return
	}
	posting, err := s.st.GetJobPosting(req.JobPostingID)
	if err != nil {
		slog.Error("Server.createProcessHandler: failed to get posting", "error", err, "jobPostingId", req.JobPostingID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch job posting"))
		return
	}
	if posting == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Job posting not found"))
		return
	}

	stages, err := catalog.BuildStages(req.Stages)
	if err != nil {
		slog.Warn("Server.createProcessHandler: stage configuration rejected", "error", err)
		writeError(w, err)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	// Eager question generation happens before anything is written, so a
	// provider failure leaves no partial process behind.
	for i := range stages {
		if !req.Stages[i].GenerateQuestions {
			continue
		}
		questions, err := s.content.GenerateQuestions(ctx, stages[i].Type, *posting)
		if err != nil {
			slog.Error("Server.createProcessHandler: question generation failed",
				"error", err, "stage", stages[i].Name)
			writeError(w, err)
			return
		}
		stages[i].Questions = questions
	}

	proc, err := s.pipeline.CreateProcess(ctx, req.CandidateID, req.JobPostingID, util.GenerateProcessID(), stages)
	if err != nil {
		slog.Error("Server.createProcessHandler: failed to create process", "error", err)
		writeError(w, err)
		return
	}

	// Move the candidate into the interviewing state. Best effort; the
	// process record is the source of truth.
	if candidate.Status == models.CandidateStatusNew || candidate.Status == models.CandidateStatusReviewing {
		candidate.Status = models.CandidateStatusInterviewing
		candidate.UpdatedAt = time.Now().UTC()
		if err := s.st.SaveCandidate(*candidate); err != nil {
			slog.Warn("Server.createProcessHandler: failed to update candidate status", "error", err, "candidateId", candidate.ID)
		}
	}

	slog.Info("Server.createProcessHandler: process created", "processID", proc.ID, "stages", len(proc.Stages))
	writeJSONResponse(w, http.StatusCreated, models.Success(proc))
}

// processHandler handles item operations: GET /api/interview-processes/{id},
// POST .../{id}/cancel, and POST .../{id}/stages/{stageID}/result.
func (s *Server) processHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.processHandler: processing request", "method", r.Method, "path", r.URL.Path)

	path := strings.TrimPrefix(r.URL.Path, "/api/interview-processes/")
	segments := strings.Split(strings.Trim(path, "/"), "/")

	if len(segments) == 0 || segments[0] == "" {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Unknown interview process endpoint"))
		return
	}
	processID := segments[0]

	switch {
	case len(segments) == 1:
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
			return
		}
		proc, err := s.st.GetProcess(processID)
		if err != nil {
			slog.Error("Server.processHandler: failed to get process", "error", err, "processID", processID)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch interview process"))
			return
		}
		if proc == nil {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Interview process not found"))
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(proc))

	case len(segments) == 2 && segments[1] == "cancel":
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
			return
		}
		ctx, cancel := requestContext(r)
		defer cancel()

		proc, err := s.pipeline.CancelProcess(ctx, processID)
		if err != nil {
			slog.Warn("Server.processHandler: cancel rejected", "error", err, "processID", processID)
			writeError(w, err)
			return
		}
		slog.Info("Server.processHandler: process cancelled", "processID", processID)
		writeJSONResponse(w, http.StatusOK, models.Success(proc))

	case len(segments) == 4 && segments[1] == "stages" && segments[3] == "result":
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
			return
		}
		s.stageResultHandler(w, r, processID, segments[2])

	default:
		writeJSONResponse(w, http.StatusNotFound, models.Error("Unknown interview process endpoint"))
	}
}

// stageResultHandler records a pass/fail verdict directly on a process stage
// (POST /api/interview-processes/{id}/stages/{stageID}/result).
func (s *Server) stageResultHandler(w http.ResponseWriter, r *http.Request, processID, stageID string) {
	var req models.VerdictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.stageResultHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := req.Validate(); err != nil {
		slog.Warn("Server.stageResultHandler: validation failed", "error", err)
		writeError(w, err)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	proc, err := s.pipeline.ApplyStageResult(ctx, processID, stageID, *req.Passed)
	if err != nil {
		slog.Warn("Server.stageResultHandler: stage result rejected",
			"error", err, "processID", processID, "stageID", stageID)
		writeError(w, err)
		return
	}

	slog.Info("Server.stageResultHandler: stage result applied",
		"processID", processID, "stageID", stageID, "passed", *req.Passed, "status", proc.Status)
	writeJSONResponse(w, http.StatusOK, models.Success(proc))
}
