// Package pipeline implements the interview process state machine.
//
// A process is an ordered pipeline of stages completed strictly in order.
// Each stage ends with a recorded pass/fail verdict; a failed stage or a
// passed final stage completes the process. Status never moves backwards.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BTreeMap/TalentPipe/internal/models"
	"github.com/BTreeMap/TalentPipe/internal/store"
)

// Engine owns creation and stage advancement of interview processes.
// Mutating operations perform one read-modify-write round trip against the
// store; callers must serialize concurrent calls for the same process.
type Engine struct {
	store store.Store
}

// NewEngine creates a process state machine backed by the given store.
func NewEngine(st store.Store) *Engine {
	slog.Debug("Creating pipeline Engine")
	return &Engine{store: st}
}

// CreateProcess builds and persists a new interview process for a candidate
// and posting. The stage list must already be constructed (see catalog).
func (e *Engine) CreateProcess(ctx context.Context, candidateID, jobPostingID, id string, stages []models.InterviewStage) (*models.InterviewProcess, error) {
	slog.Debug("Engine CreateProcess", "candidateID", candidateID, "jobPostingID", jobPostingID, "stages", len(stages))

	if len(stages) == 0 {
		return nil, fmt.Errorf("process requires at least one stage: %w", models.ErrValidation)
	}
	if candidateID == "" || jobPostingID == "" {
		return nil, fmt.Errorf("candidateId and jobPostingId are required: %w", models.ErrValidation)
	}

	now := time.Now().UTC()
	proc := models.InterviewProcess{
		ID:           id,
		CandidateID:  candidateID,
		JobPostingID: jobPostingID,
		Stages:       stages,
		CurrentStage: 0,
		Status:       models.ProcessStatusInProgress,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := e.store.SaveProcess(proc); err != nil {
		slog.Error("Engine CreateProcess save failed", "error", err, "processID", proc.ID)
		return nil, err
	}

	slog.Info("Engine CreateProcess succeeded", "processID", proc.ID, "stages", len(stages))
	return &proc, nil
}

// ApplyStageResult records a pass/fail verdict for the process's current
// stage and derives the next process state: a failed stage or a passed final
// stage completes the process, otherwise currentStage advances by one.
//
// Re-applying the same verdict to an already-completed matching stage is a
// no-op returning the unchanged process, so callers can safely retry after a
// partial two-record write. A conflicting verdict fails.
func (e *Engine) ApplyStageResult(ctx context.Context, processID, stageID string, passed bool) (*models.InterviewProcess, error) {
	slog.Debug("Engine ApplyStageResult", "processID", processID, "stageID", stageID, "passed", passed)

	proc, err := e.store.GetProcess(processID)
	if err != nil {
		slog.Error("Engine ApplyStageResult get failed", "error", err, "processID", processID)
		return nil, err
	}
	if proc == nil {
		return nil, fmt.Errorf("process %s: %w", processID, models.ErrNotFound)
	}

	idx := proc.StageByID(stageID)
	if idx < 0 {
		return nil, fmt.Errorf("process %s has no stage %s: %w", processID, stageID, models.ErrNotFound)
	}
	stage := &proc.Stages[idx]

	// Idempotent retry path: the verdict already landed on this stage.
	if stage.Completed() {
		if stage.Passed != nil && *stage.Passed == passed {
			slog.Debug("Engine ApplyStageResult no-op retry", "processID", processID, "stageID", stageID)
			return proc, nil
		}
		return nil, fmt.Errorf("stage %s of process %s already completed with a different verdict: %w",
			stageID, processID, models.ErrInvalidState)
	}

	if proc.Status != models.ProcessStatusInProgress {
		return nil, fmt.Errorf("process %s is %s, not in_progress: %w", processID, proc.Status, models.ErrInvalidState)
	}
	if idx != proc.CurrentStage {
		return nil, fmt.Errorf("stage %s is at position %d but process %s is at stage %d: %w",
			stageID, idx, processID, proc.CurrentStage, models.ErrInvalidState)
	}

	verdict := passed
	stage.Status = models.StageStatusCompleted
	stage.Passed = &verdict

	// One rule covers both terminal outcomes: any failure completes the
	// process, and so does passing the last stage.
	switch {
	case !passed:
		proc.Status = models.ProcessStatusCompleted
	case idx == len(proc.Stages)-1:
		proc.Status = models.ProcessStatusCompleted
	default:
		proc.CurrentStage++
	}
	proc.UpdatedAt = time.Now().UTC()

	if err := e.store.SaveProcess(*proc); err != nil {
		slog.Error("Engine ApplyStageResult save failed", "error", err, "processID", processID, "stageID", stageID)
		return nil, err
	}

	slog.Info("Engine ApplyStageResult succeeded",
		"processID", processID, "stageID", stageID, "passed", passed,
		"status", proc.Status, "currentStage", proc.CurrentStage)
	return proc, nil
}

// CancelProcess marks a process cancelled. A finished process cannot be
// cancelled; cancelling an already-cancelled process is a no-op.
func (e *Engine) CancelProcess(ctx context.Context, processID string) (*models.InterviewProcess, error) {
	slog.Debug("Engine CancelProcess", "processID", processID)

	proc, err := e.store.GetProcess(processID)
	if err != nil {
		slog.Error("Engine CancelProcess get failed", "error", err, "processID", processID)
		return nil, err
	}
	if proc == nil {
		return nil, fmt.Errorf("process %s: %w", processID, models.ErrNotFound)
	}

	switch proc.Status {
	case models.ProcessStatusCompleted:
		return nil, fmt.Errorf("process %s already completed: %w", processID, models.ErrInvalidState)
	case models.ProcessStatusCancelled:
		slog.Debug("Engine CancelProcess no-op", "processID", processID)
		return proc, nil
	}

	proc.Status = models.ProcessStatusCancelled
	proc.UpdatedAt = time.Now().UTC()

	if err := e.store.SaveProcess(*proc); err != nil {
		slog.Error("Engine CancelProcess save failed", "error", err, "processID", processID)
		return nil, err
	}

	slog.Info("Engine CancelProcess succeeded", "processID", processID)
	return proc, nil
}
