// Package recovery reconciles interview and process records on application
// startup. Recording a verdict writes two records; a crash between the two
// writes leaves a completed interview whose process never advanced. The
// reconciler re-applies those verdicts, which is safe because stage results
// are applied idempotently.
package recovery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BTreeMap/TalentPipe/internal/models"
	"github.com/BTreeMap/TalentPipe/internal/pipeline"
	"github.com/BTreeMap/TalentPipe/internal/store"
)

// Reconciler scans stored interviews for verdicts that never reached the
// owning process.
type Reconciler struct {
	store  store.Store
	engine *pipeline.Engine
}

// NewReconciler creates a startup reconciler.
func NewReconciler(st store.Store, engine *pipeline.Engine) *Reconciler {
	return &Reconciler{store: st, engine: engine}
}

// Reconcile walks every stored interview and re-applies verdicts whose
// process update is missing. It returns the number of verdicts re-applied.
// Individual failures are logged and skipped so one bad record does not
// block startup.
func (r *Reconciler) Reconcile(ctx context.Context) (int, error) {
	slog.Debug("Reconciler Reconcile: starting")

	interviews, err := r.store.ListInterviews()
	if err != nil {
		return 0, fmt.Errorf("failed to list interviews for reconciliation: %w", err)
	}

	applied := 0
	for i := range interviews {
		iv := &interviews[i]
		if iv.Status != models.InterviewStatusCompleted || !iv.Stage.Completed() || iv.Stage.Passed == nil {
			continue
		}

		proc, err := r.store.GetProcess(iv.ProcessID)
		if err != nil {
			slog.Error("Reconciler Reconcile: failed to load process", "error", err, "processID", iv.ProcessID, "interviewID", iv.ID)
			continue
		}
		if proc == nil {
			slog.Warn("Reconciler Reconcile: interview references missing process", "processID", iv.ProcessID, "interviewID", iv.ID)
			continue
		}

		idx := proc.StageByID(iv.Stage.ID)
		if idx < 0 {
			slog.Warn("Reconciler Reconcile: interview references unknown stage", "stageID", iv.Stage.ID, "processID", proc.ID)
			continue
		}
		if proc.Stages[idx].Completed() {
			continue
		}

		if _, err := r.engine.ApplyStageResult(ctx, proc.ID, iv.Stage.ID, *iv.Stage.Passed); err != nil {
			slog.Error("Reconciler Reconcile: failed to re-apply verdict",
				"error", err, "processID", proc.ID, "stageID", iv.Stage.ID, "interviewID", iv.ID)
			continue
		}
		applied++
		slog.Info("Reconciler Reconcile: re-applied verdict",
			"processID", proc.ID, "stageID", iv.Stage.ID, "interviewID", iv.ID, "passed", *iv.Stage.Passed)
	}

	slog.Info("Reconciler Reconcile: finished", "interviews", len(interviews), "applied", applied)
	return applied, nil
}
