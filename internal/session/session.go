// Package session manages the question/answer/analysis cycle for a single
// interview stage visit.
//
// An interview session walks through a fixed set of phases derived from the
// interview record: questions are generated on first access, a complete
// answer set is captured, answers are analyzed, and finally a pass/fail
// verdict is recorded and fed back into the owning process through the
// pipeline engine. The process's stage list stays authoritative; the
// interview only carries a snapshot of the stage being conducted.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BTreeMap/TalentPipe/internal/content"
	"github.com/BTreeMap/TalentPipe/internal/models"
	"github.com/BTreeMap/TalentPipe/internal/pipeline"
	"github.com/BTreeMap/TalentPipe/internal/store"
	"github.com/BTreeMap/TalentPipe/internal/util"
)

// Phase is the derived lifecycle phase of an interview session.
type Phase string

const (
	// PhasePending means the stage has no questions yet.
	PhasePending Phase = "pending"
	// PhaseReadyForAnswers means questions exist but no answer set was saved.
	PhaseReadyForAnswers Phase = "ready_for_answers"
	// PhaseNeedsAnalysis means answers exist but have not been analyzed.
	PhaseNeedsAnalysis Phase = "needs_analysis"
	// PhaseAwaitingVerdict means analysis material exists and a pass/fail
	// decision is outstanding.
	PhaseAwaitingVerdict Phase = "awaiting_verdict"
	// PhaseTerminal means the interview accepts no further mutation.
	PhaseTerminal Phase = "terminal"
)

// PhaseOf derives the session phase from an interview record.
func PhaseOf(iv *models.Interview) Phase {
	if iv.Terminal() || iv.Stage.Completed() {
		return PhaseTerminal
	}
	if len(iv.Stage.Questions) == 0 {
		return PhasePending
	}
	if len(iv.Answers) == 0 {
		return PhaseReadyForAnswers
	}
	for i := range iv.Stage.Questions {
		if iv.Stage.Questions[i].Score != nil {
			return PhaseAwaitingVerdict
		}
	}
	return PhaseNeedsAnalysis
}

// StageAnalysis aggregates per-answer analyses into one stage-level summary.
// It is material for a human decision, not a verdict.
type StageAnalysis struct {
	OverallScore float64           `json:"overallScore"`
	Feedback     string            `json:"feedback"`
	PerQuestion  []content.Analysis `json:"perQuestion"`
}

// Controller owns the lifecycle of interview sessions.
type Controller struct {
	store   store.Store
	content content.Service
	engine  *pipeline.Engine
}

// NewController creates a session controller.
func NewController(st store.Store, svc content.Service, engine *pipeline.Engine) *Controller {
	slog.Debug("Creating session Controller")
	return &Controller{store: st, content: svc, engine: engine}
}

// Open creates an interview session bound to the process's current stage,
// generating questions first when the stage has none. Nothing is persisted
// if question generation fails.
func (c *Controller) Open(ctx context.Context, req models.OpenInterviewRequest) (*models.Interview, error) {
	slog.Debug("Controller Open", "processID", req.ProcessID)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	proc, err := c.store.GetProcess(req.ProcessID)
	if err != nil {
		slog.Error("Controller Open get process failed", "error", err, "processID", req.ProcessID)
		return nil, err
	}
	if proc == nil {
		return nil, fmt.Errorf("process %s: %w", req.ProcessID, models.ErrNotFound)
	}
	if proc.Status != models.ProcessStatusInProgress {
		return nil, fmt.Errorf("process %s is %s, cannot open interview: %w", proc.ID, proc.Status, models.ErrInvalidState)
	}

	stage := &proc.Stages[proc.CurrentStage]

	if len(stage.Questions) == 0 {
		job, err := c.store.GetJobPosting(proc.JobPostingID)
		if err != nil {
			slog.Error("Controller Open get posting failed", "error", err, "jobPostingID", proc.JobPostingID)
			return nil, err
		}
		if job == nil {
			return nil, fmt.Errorf("job posting %s: %w", proc.JobPostingID, models.ErrNotFound)
		}

		questions, err := c.content.GenerateQuestions(ctx, stage.Type, *job)
		if err != nil {
			// Leave the stage untouched; the caller may retry.
			return nil, err
		}
		stage.Questions = questions
		proc.UpdatedAt = time.Now().UTC()
		if err := c.store.SaveProcess(*proc); err != nil {
			slog.Error("Controller Open save process failed", "error", err, "processID", proc.ID)
			return nil, err
		}
	}

	now := time.Now().UTC()
	scheduled := req.ScheduledDate
	if scheduled.IsZero() {
		scheduled = now
	}
	iv := models.Interview{
		ID:            util.GenerateInterviewID(),
		CandidateID:   proc.CandidateID,
		JobPostingID:  proc.JobPostingID,
		ProcessID:     proc.ID,
		Stage:         *stage,
		Status:        models.InterviewStatusScheduled,
		ScheduledDate: scheduled,
		Interviewer:   req.Interviewer,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := c.store.SaveInterview(iv); err != nil {
		slog.Error("Controller Open save interview failed", "error", err, "interviewID", iv.ID)
		return nil, err
	}

	slog.Info("Controller Open succeeded", "interviewID", iv.ID, "processID", proc.ID, "stageID", iv.Stage.ID)
	return &iv, nil
}

// SubmitAnswers stores a complete answer set for the interview. The set must
// answer every generated question, with no blank entries.
func (c *Controller) SubmitAnswers(ctx context.Context, interviewID string, answers []string) (*models.Interview, error) {
	slog.Debug("Controller SubmitAnswers", "interviewID", interviewID, "answers", len(answers))

	iv, err := c.loadOpen(interviewID)
	if err != nil {
		return nil, err
	}

	if len(iv.Stage.Questions) == 0 {
		return nil, fmt.Errorf("interview %s has no questions yet: %w", interviewID, models.ErrInvalidState)
	}
	if len(answers) != len(iv.Stage.Questions) {
		return nil, fmt.Errorf("answer all questions before saving: got %d answers for %d questions: %w",
			len(answers), len(iv.Stage.Questions), models.ErrValidation)
	}
	for i, a := range answers {
		if strings.TrimSpace(a) == "" {
			return nil, fmt.Errorf("answer all questions before saving: answer %d is empty: %w", i+1, models.ErrValidation)
		}
	}

	iv.Answers = answers
	iv.Status = models.InterviewStatusInProgress
	iv.Stage.Status = models.StageStatusInProgress
	iv.UpdatedAt = time.Now().UTC()

	if err := c.store.SaveInterview(*iv); err != nil {
		slog.Error("Controller SubmitAnswers save failed", "error", err, "interviewID", interviewID)
		return nil, err
	}

	slog.Info("Controller SubmitAnswers succeeded", "interviewID", interviewID)
	return iv, nil
}

// RequestAnalysis runs the content service over every answer and aggregates
// the results. Per-question scores are persisted only once every call has
// succeeded, so a provider failure leaves stored state untouched.
func (c *Controller) RequestAnalysis(ctx context.Context, interviewID string) (*StageAnalysis, error) {
	slog.Debug("Controller RequestAnalysis", "interviewID", interviewID)

	iv, err := c.loadOpen(interviewID)
	if err != nil {
		return nil, err
	}
	if len(iv.Answers) == 0 {
		return nil, fmt.Errorf("interview %s has no answers to analyze: %w", interviewID, models.ErrInvalidState)
	}

	results := make([]content.Analysis, len(iv.Stage.Questions))
	var total float64
	var feedback strings.Builder
	for i := range iv.Stage.Questions {
		analysis, err := c.content.AnalyzeAnswer(ctx, iv.Stage.Questions[i], iv.Answers[i])
		if err != nil {
			return nil, err
		}
		results[i] = *analysis
		total += analysis.Score
		if feedback.Len() > 0 {
			feedback.WriteString("\n")
		}
		fmt.Fprintf(&feedback, "Q%d: %s", i+1, analysis.Feedback)
	}

	for i := range iv.Stage.Questions {
		score := results[i].Score
		iv.Stage.Questions[i].Score = &score
		iv.Stage.Questions[i].Feedback = results[i].Feedback
	}
	iv.UpdatedAt = time.Now().UTC()

	if err := c.store.SaveInterview(*iv); err != nil {
		slog.Error("Controller RequestAnalysis save failed", "error", err, "interviewID", interviewID)
		return nil, err
	}

	summary := &StageAnalysis{
		OverallScore: total / float64(len(results)),
		Feedback:     feedback.String(),
		PerQuestion:  results,
	}
	slog.Info("Controller RequestAnalysis succeeded", "interviewID", interviewID, "overallScore", summary.OverallScore)
	return summary, nil
}

// RecordVerdict completes the interview with a pass/fail decision and applies
// the result to the owning process. The interview and process records are
// written separately; when the first write lands but the second fails, the
// caller can retry and the process update is applied idempotently.
func (c *Controller) RecordVerdict(ctx context.Context, interviewID string, passed bool) (*models.Interview, error) {
	slog.Debug("Controller RecordVerdict", "interviewID", interviewID, "passed", passed)

	iv, err := c.load(interviewID)
	if err != nil {
		return nil, err
	}

	// Retry path: the interview update already landed. Re-apply the process
	// update, which is a no-op when it landed too.
	if iv.Status == models.InterviewStatusCompleted && iv.Stage.Completed() {
		if iv.Stage.Passed == nil || *iv.Stage.Passed != passed {
			return nil, fmt.Errorf("interview %s already completed with a different verdict: %w", interviewID, models.ErrInvalidState)
		}
		if _, err := c.engine.ApplyStageResult(ctx, iv.ProcessID, iv.Stage.ID, passed); err != nil {
			return nil, err
		}
		return iv, nil
	}

	if iv.Terminal() {
		return nil, fmt.Errorf("interview %s is %s, no further mutation accepted: %w", interviewID, iv.Status, models.ErrInvalidState)
	}
	if len(iv.Answers) == 0 {
		return nil, fmt.Errorf("interview %s has no answers, cannot record verdict: %w", interviewID, models.ErrInvalidState)
	}

	verdict := passed
	iv.Status = models.InterviewStatusCompleted
	iv.Stage.Status = models.StageStatusCompleted
	iv.Stage.Passed = &verdict
	iv.UpdatedAt = time.Now().UTC()

	if err := c.store.SaveInterview(*iv); err != nil {
		slog.Error("Controller RecordVerdict save interview failed", "error", err, "interviewID", interviewID)
		return nil, err
	}

	if _, err := c.engine.ApplyStageResult(ctx, iv.ProcessID, iv.Stage.ID, passed); err != nil {
		slog.Error("Controller RecordVerdict apply stage result failed",
			"error", err, "interviewID", interviewID, "processID", iv.ProcessID, "stageID", iv.Stage.ID)
		return nil, err
	}

	slog.Info("Controller RecordVerdict succeeded", "interviewID", interviewID, "passed", passed)
	return iv, nil
}

// Cancel marks an interview cancelled. Completed interviews reject
// cancellation; cancelling a cancelled interview is a no-op.
func (c *Controller) Cancel(ctx context.Context, interviewID string) (*models.Interview, error) {
	slog.Debug("Controller Cancel", "interviewID", interviewID)

	iv, err := c.load(interviewID)
	if err != nil {
		return nil, err
	}

	switch iv.Status {
	case models.InterviewStatusCompleted:
		return nil, fmt.Errorf("interview %s already completed: %w", interviewID, models.ErrInvalidState)
	case models.InterviewStatusCancelled:
		return iv, nil
	}

	iv.Status = models.InterviewStatusCancelled
	iv.UpdatedAt = time.Now().UTC()

	if err := c.store.SaveInterview(*iv); err != nil {
		slog.Error("Controller Cancel save failed", "error", err, "interviewID", interviewID)
		return nil, err
	}

	slog.Info("Controller Cancel succeeded", "interviewID", interviewID)
	return iv, nil
}

// load fetches an interview and refreshes its stage snapshot from the owning
// process so the projection never drifts from the authoritative record.
func (c *Controller) load(interviewID string) (*models.Interview, error) {
	iv, err := c.store.GetInterview(interviewID)
	if err != nil {
		slog.Error("Controller load interview failed", "error", err, "interviewID", interviewID)
		return nil, err
	}
	if iv == nil {
		return nil, fmt.Errorf("interview %s: %w", interviewID, models.ErrNotFound)
	}

	proc, err := c.store.GetProcess(iv.ProcessID)
	if err != nil {
		slog.Error("Controller load process failed", "error", err, "processID", iv.ProcessID)
		return nil, err
	}
	if proc != nil {
		if idx := proc.StageByID(iv.Stage.ID); idx >= 0 {
			authoritative := proc.Stages[idx]
			// Keep locally captured analysis material and any verdict the
			// process has not absorbed yet; everything else comes from the
			// process.
			if len(authoritative.Questions) == 0 && len(iv.Stage.Questions) > 0 {
				authoritative.Questions = iv.Stage.Questions
			} else if authoritative.Status != models.StageStatusCompleted {
				authoritative.Questions = mergeAnalysis(authoritative.Questions, iv.Stage.Questions)
				authoritative.Status = iv.Stage.Status
				authoritative.Passed = iv.Stage.Passed
			}
			iv.Stage = authoritative
		}
	}
	return iv, nil
}

// loadOpen is load plus a terminal-state check.
func (c *Controller) loadOpen(interviewID string) (*models.Interview, error) {
	iv, err := c.load(interviewID)
	if err != nil {
		return nil, err
	}
	if iv.Terminal() {
		return nil, fmt.Errorf("interview %s is %s, no further mutation accepted: %w", interviewID, iv.Status, models.ErrInvalidState)
	}
	if iv.Stage.Completed() {
		return nil, fmt.Errorf("stage %s of interview %s already completed: %w", iv.Stage.ID, interviewID, models.ErrInvalidState)
	}
	return iv, nil
}

// mergeAnalysis carries per-question scores and feedback from the snapshot
// into the authoritative question list when the texts line up.
func mergeAnalysis(authoritative, snapshot []models.Question) []models.Question {
	if len(authoritative) != len(snapshot) {
		return authoritative
	}
	for i := range authoritative {
		if snapshot[i].Score != nil && authoritative[i].Score == nil {
			authoritative[i].Score = snapshot[i].Score
			authoritative[i].Feedback = snapshot[i].Feedback
		}
	}
	return authoritative
}
