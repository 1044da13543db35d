// Package api provides HTTP handlers for interview session endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/BTreeMap/TalentPipe/internal/models"
	"github.com/BTreeMap/TalentPipe/internal/session"
)

// interviewView decorates an interview record with its derived session phase.
type interviewView struct {
	models.Interview
	Phase session.Phase `json:"phase"`
}

func viewOf(iv *models.Interview) interviewView {
	return interviewView{Interview: *iv, Phase: session.PhaseOf(iv)}
}

// interviewsHandler handles collection operations (GET, POST /api/interviews).
func (s *Server) interviewsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.interviewsHandler: processing request", "method", r.Method, "path", r.URL.Path)

	switch r.Method {
	case http.MethodGet:
		interviews, err := s.st.ListInterviews()
		if err != nil {
			slog.Error("Server.interviewsHandler: failed to list interviews", "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch interviews"))
			return
		}
		if processID := r.URL.Query().Get("processId"); processID != "" {
			filtered := interviews[:0]
			for _, iv := range interviews {
				if iv.ProcessID == processID {
					filtered = append(filtered, iv)
				}
			}
			interviews = filtered
		}
		views := make([]interviewView, len(interviews))
		for i := range interviews {
			views[i] = viewOf(&interviews[i])
		}
		slog.Debug("Server.interviewsHandler: interviews fetched", "count", len(views))
		writeJSONResponse(w, http.StatusOK, models.Success(views))

	case http.MethodPost:
		var req models.OpenInterviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Warn("Server.interviewsHandler: failed to decode JSON", "error", err)
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
			return
		}

		ctx, cancel := requestContext(r)
		defer cancel()

		iv, err := s.sessions.Open(ctx, req)
		if err != nil {
			slog.Warn("Server.interviewsHandler: open rejected", "error", err, "processId", req.ProcessID)
			writeError(w, err)
			return
		}
		slog.Info("Server.interviewsHandler: interview opened", "interviewID", iv.ID, "processID", iv.ProcessID)
		writeJSONResponse(w, http.StatusCreated, models.Success(viewOf(iv)))

	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
	}
}

// interviewHandler handles item operations: GET, PATCH, DELETE
// /api/interviews/{id} plus the session sub-endpoints /answers, /analysis,
// and /verdict.
func (s *Server) interviewHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.interviewHandler: processing request", "method", r.Method, "path", r.URL.Path)

	path := strings.TrimPrefix(r.URL.Path, "/api/interviews/")
	segments := strings.Split(strings.Trim(path, "/"), "/")

	if len(segments) == 0 || segments[0] == "" {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Unknown interview endpoint"))
		return
	}
	interviewID := segments[0]

	if len(segments) == 2 {
		switch segments[1] {
		case "answers":
			s.submitAnswersHandler(w, r, interviewID)
		case "analysis":
			s.analysisHandler(w, r, interviewID)
		case "verdict":
			s.verdictHandler(w, r, interviewID)
		default:
			writeJSONResponse(w, http.StatusNotFound, models.Error("Unknown interview endpoint"))
		}
		return
	}
	if len(segments) > 1 {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Unknown interview endpoint"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		iv, err := s.st.GetInterview(interviewID)
		if err != nil {
			slog.Error("Server.interviewHandler: failed to get interview", "error", err, "interviewID", interviewID)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch interview"))
			return
		}
		if iv == nil {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Interview not found"))
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(viewOf(iv)))

	case http.MethodPatch:
		s.rescheduleHandler(w, r, interviewID)

	case http.MethodDelete:
		ctx, cancel := requestContext(r)
		defer cancel()

		iv, err := s.sessions.Cancel(ctx, interviewID)
		if err != nil {
			slog.Warn("Server.interviewHandler: cancel rejected", "error", err, "interviewID", interviewID)
			writeError(w, err)
			return
		}
		slog.Info("Server.interviewHandler: interview cancelled", "interviewID", interviewID)
		writeJSONResponse(w, http.StatusOK, models.Success(viewOf(iv)))

	default:
		w.Header().Set("Allow", "GET, PATCH, DELETE")
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
	}
}

// rescheduleHandler updates scheduling metadata on a live interview
// (PATCH /api/interviews/{id}).
func (s *Server) rescheduleHandler(w http.ResponseWriter, r *http.Request, interviewID string) {
	var req struct {
		ScheduledDate *time.Time          `json:"scheduledDate"`
		Interviewer   *models.Interviewer `json:"interviewer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.rescheduleHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	iv, err := s.st.GetInterview(interviewID)
	if err != nil {
		slog.Error("Server.rescheduleHandler: failed to get interview", "error", err, "interviewID", interviewID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch interview"))
		return
	}
	if iv == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Interview not found"))
		return
	}
	if iv.Terminal() {
		writeJSONResponse(w, http.StatusConflict, models.Error("Interview accepts no further changes"))
		return
	}

	if req.ScheduledDate != nil {
		iv.ScheduledDate = *req.ScheduledDate
	}
	if req.Interviewer != nil {
		if strings.TrimSpace(req.Interviewer.Name) == "" {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("interviewer name is required"))
			return
		}
		iv.Interviewer = *req.Interviewer
	}
	iv.UpdatedAt = time.Now().UTC()

	if err := s.st.SaveInterview(*iv); err != nil {
		slog.Error("Server.rescheduleHandler: failed to save interview", "error", err, "interviewID", interviewID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to save interview"))
		return
	}
	slog.Info("Server.rescheduleHandler: interview updated", "interviewID", interviewID)
	writeJSONResponse(w, http.StatusOK, models.Success(viewOf(iv)))
}

// submitAnswersHandler saves a complete answer set
// (POST /api/interviews/{id}/answers).
func (s *Server) submitAnswersHandler(w http.ResponseWriter, r *http.Request, interviewID string) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}
	var req models.SubmitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.submitAnswersHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	iv, err := s.sessions.SubmitAnswers(ctx, interviewID, req.Answers)
	if err != nil {
		slog.Warn("Server.submitAnswersHandler: answers rejected", "error", err, "interviewID", interviewID)
		writeError(w, err)
		return
	}
	slog.Info("Server.submitAnswersHandler: answers saved", "interviewID", interviewID)
	writeJSONResponse(w, http.StatusOK, models.Success(viewOf(iv)))
}

// analysisHandler runs AI analysis over the saved answers
// (POST /api/interviews/{id}/analysis).
func (s *Server) analysisHandler(w http.ResponseWriter, r *http.Request, interviewID string) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	summary, err := s.sessions.RequestAnalysis(ctx, interviewID)
	if err != nil {
		slog.Warn("Server.analysisHandler: analysis rejected", "error", err, "interviewID", interviewID)
		writeError(w, err)
		return
	}
	slog.Info("Server.analysisHandler: analysis completed", "interviewID", interviewID, "overallScore", summary.OverallScore)
	writeJSONResponse(w, http.StatusOK, models.Success(summary))
}

// verdictHandler records the stage pass/fail decision
// (POST /api/interviews/{id}/verdict).
func (s *Server) verdictHandler(w http.ResponseWriter, r *http.Request, interviewID string) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}
	var req models.VerdictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.verdictHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := req.Validate(); err != nil {
		slog.Warn("Server.verdictHandler: validation failed", "error", err)
		writeError(w, err)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	iv, err := s.sessions.RecordVerdict(ctx, interviewID, *req.Passed)
	if err != nil {
		slog.Warn("Server.verdictHandler: verdict rejected", "error", err, "interviewID", interviewID)
		writeError(w, err)
		return
	}
	slog.Info("Server.verdictHandler: verdict recorded", "interviewID", interviewID, "passed", *req.Passed)
	writeJSONResponse(w, http.StatusOK, models.Success(viewOf(iv)))
}
