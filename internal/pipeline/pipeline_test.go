package pipeline

import (
	"context"
	"testing"

	"github.com/BTreeMap/TalentPipe/internal/catalog"
	"github.com/BTreeMap/TalentPipe/internal/models"
	"github.com/BTreeMap/TalentPipe/internal/store"
	"github.com/BTreeMap/TalentPipe/internal/util"
)

func newTestProcess(t *testing.T, engine *Engine, stageCount int) *models.InterviewProcess {
	t.Helper()
	stages, err := catalog.BuildStages(catalog.DefaultStages(stageCount))
	if err != nil {
		t.Fatalf("BuildStages failed: %v", err)
	}
	proc, err := engine.CreateProcess(context.Background(), "cand-1", "job-1", util.GenerateProcessID(), stages)
	if err != nil {
		t.Fatalf("CreateProcess failed: %v", err)
	}
	return proc
}

func TestCreateProcess(t *testing.T) {
	st := store.NewInMemoryStore()
	engine := NewEngine(st)

	proc := newTestProcess(t, engine, 3)

	if proc.Status != models.ProcessStatusInProgress {
		t.Errorf("expected status in_progress, got %s", proc.Status)
	}
	if proc.CurrentStage != 0 {
		t.Errorf("expected currentStage 0, got %d", proc.CurrentStage)
	}
	if len(proc.Stages) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(proc.Stages))
	}
	for i, stage := range proc.Stages {
		if stage.Order != i {
			t.Errorf("stage %d: expected order %d, got %d", i, i, stage.Order)
		}
		if stage.Status != models.StageStatusPending {
			t.Errorf("stage %d: expected pending, got %s", i, stage.Status)
		}
		if stage.Passed != nil {
			t.Errorf("stage %d: expected no verdict, got %v", i, *stage.Passed)
		}
	}

	stored, err := st.GetProcess(proc.ID)
	if err != nil {
		t.Fatalf("GetProcess failed: %v", err)
	}
	if stored == nil {
		t.Fatal("process not persisted")
	}
}

func TestCreateProcessValidation(t *testing.T) {
	st := store.NewInMemoryStore()
	engine := NewEngine(st)
	ctx := context.Background()

	if _, err := engine.CreateProcess(ctx, "cand-1", "job-1", "proc_x", nil); !models.IsValidation(err) {
		t.Errorf("expected validation error for empty stages, got %v", err)
	}

	stages, _ := catalog.BuildStages(catalog.DefaultStages(1))
	if _, err := engine.CreateProcess(ctx, "", "job-1", "proc_x", stages); !models.IsValidation(err) {
		t.Errorf("expected validation error for empty candidate id, got %v", err)
	}
}

func TestApplyStageResultAllPassed(t *testing.T) {
	st := store.NewInMemoryStore()
	engine := NewEngine(st)
	ctx := context.Background()

	proc := newTestProcess(t, engine, 3)

	for i := 0; i < 3; i++ {
		updated, err := engine.ApplyStageResult(ctx, proc.ID, proc.Stages[i].ID, true)
		if err != nil {
			t.Fatalf("stage %d: ApplyStageResult failed: %v", i, err)
		}
		stage := updated.Stages[i]
		if stage.Status != models.StageStatusCompleted {
			t.Errorf("stage %d: expected completed, got %s", i, stage.Status)
		}
		if stage.Passed == nil || !*stage.Passed {
			t.Errorf("stage %d: expected passed verdict", i)
		}
		if i < 2 {
			if updated.Status != models.ProcessStatusInProgress {
				t.Errorf("stage %d: expected process in_progress, got %s", i, updated.Status)
			}
			if updated.CurrentStage != i+1 {
				t.Errorf("stage %d: expected currentStage %d, got %d", i, i+1, updated.CurrentStage)
			}
		}
	}

	final, _ := st.GetProcess(proc.ID)
	if final.Status != models.ProcessStatusCompleted {
		t.Errorf("expected process completed after last stage, got %s", final.Status)
	}
}

func TestApplyStageResultFailureCompletesProcess(t *testing.T) {
	st := store.NewInMemoryStore()
	engine := NewEngine(st)
	ctx := context.Background()

	proc := newTestProcess(t, engine, 3)

	updated, err := engine.ApplyStageResult(ctx, proc.ID, proc.Stages[0].ID, false)
	if err != nil {
		t.Fatalf("ApplyStageResult failed: %v", err)
	}
	if updated.Status != models.ProcessStatusCompleted {
		t.Errorf("expected process completed after failed stage, got %s", updated.Status)
	}
	if updated.CurrentStage != 0 {
		t.Errorf("expected currentStage unchanged at 0, got %d", updated.CurrentStage)
	}

	// Later stages stay untouched and the process accepts no further results.
	for i := 1; i < 3; i++ {
		if updated.Stages[i].Status != models.StageStatusPending {
			t.Errorf("stage %d: expected pending, got %s", i, updated.Stages[i].Status)
		}
	}
	if _, err := engine.ApplyStageResult(ctx, proc.ID, proc.Stages[1].ID, true); !models.IsInvalidState(err) {
		t.Errorf("expected invalid state error after completion, got %v", err)
	}
}

func TestApplyStageResultOutOfOrder(t *testing.T) {
	st := store.NewInMemoryStore()
	engine := NewEngine(st)
	ctx := context.Background()

	proc := newTestProcess(t, engine, 3)

	if _, err := engine.ApplyStageResult(ctx, proc.ID, proc.Stages[1].ID, true); !models.IsInvalidState(err) {
		t.Errorf("expected invalid state error for out-of-order stage, got %v", err)
	}
	if _, err := engine.ApplyStageResult(ctx, proc.ID, proc.Stages[2].ID, false); !models.IsInvalidState(err) {
		t.Errorf("expected invalid state error for out-of-order stage, got %v", err)
	}

	// The rejected attempts must not have advanced or mutated anything.
	stored, _ := st.GetProcess(proc.ID)
	if stored.CurrentStage != 0 {
		t.Errorf("expected currentStage 0, got %d", stored.CurrentStage)
	}
	for i, stage := range stored.Stages {
		if stage.Status != models.StageStatusPending {
			t.Errorf("stage %d: expected pending, got %s", i, stage.Status)
		}
	}
}

func TestApplyStageResultUnknownIDs(t *testing.T) {
	st := store.NewInMemoryStore()
	engine := NewEngine(st)
	ctx := context.Background()

	proc := newTestProcess(t, engine, 2)

	if _, err := engine.ApplyStageResult(ctx, "proc_missing", proc.Stages[0].ID, true); !models.IsNotFound(err) {
		t.Errorf("expected not found error for unknown process, got %v", err)
	}
	if _, err := engine.ApplyStageResult(ctx, proc.ID, "stg_missing", true); !models.IsNotFound(err) {
		t.Errorf("expected not found error for unknown stage, got %v", err)
	}
}

func TestApplyStageResultIdempotentRetry(t *testing.T) {
	st := store.NewInMemoryStore()
	engine := NewEngine(st)
	ctx := context.Background()

	proc := newTestProcess(t, engine, 2)

	first, err := engine.ApplyStageResult(ctx, proc.ID, proc.Stages[0].ID, true)
	if err != nil {
		t.Fatalf("ApplyStageResult failed: %v", err)
	}

	// Same verdict again is a no-op; the process does not advance twice.
	retry, err := engine.ApplyStageResult(ctx, proc.ID, proc.Stages[0].ID, true)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if retry.CurrentStage != first.CurrentStage {
		t.Errorf("retry advanced currentStage: %d vs %d", retry.CurrentStage, first.CurrentStage)
	}
	if retry.Status != first.Status {
		t.Errorf("retry changed status: %s vs %s", retry.Status, first.Status)
	}

	// A conflicting verdict is rejected.
	if _, err := engine.ApplyStageResult(ctx, proc.ID, proc.Stages[0].ID, false); !models.IsInvalidState(err) {
		t.Errorf("expected invalid state error for conflicting verdict, got %v", err)
	}
}

func TestApplyStageResultSingleStage(t *testing.T) {
	st := store.NewInMemoryStore()
	engine := NewEngine(st)
	ctx := context.Background()

	proc := newTestProcess(t, engine, 1)

	updated, err := engine.ApplyStageResult(ctx, proc.ID, proc.Stages[0].ID, true)
	if err != nil {
		t.Fatalf("ApplyStageResult failed: %v", err)
	}
	if updated.Status != models.ProcessStatusCompleted {
		t.Errorf("expected single-stage process completed, got %s", updated.Status)
	}
}

func TestCancelProcess(t *testing.T) {
	st := store.NewInMemoryStore()
	engine := NewEngine(st)
	ctx := context.Background()

	proc := newTestProcess(t, engine, 2)

	cancelled, err := engine.CancelProcess(ctx, proc.ID)
	if err != nil {
		t.Fatalf("CancelProcess failed: %v", err)
	}
	if cancelled.Status != models.ProcessStatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}

	// Cancelling again is a no-op.
	again, err := engine.CancelProcess(ctx, proc.ID)
	if err != nil {
		t.Fatalf("second cancel failed: %v", err)
	}
	if again.Status != models.ProcessStatusCancelled {
		t.Errorf("expected cancelled, got %s", again.Status)
	}

	// A cancelled process accepts no stage results.
	if _, err := engine.ApplyStageResult(ctx, proc.ID, proc.Stages[0].ID, true); !models.IsInvalidState(err) {
		t.Errorf("expected invalid state error on cancelled process, got %v", err)
	}
}

func TestCancelCompletedProcess(t *testing.T) {
	st := store.NewInMemoryStore()
	engine := NewEngine(st)
	ctx := context.Background()

	proc := newTestProcess(t, engine, 1)
	if _, err := engine.ApplyStageResult(ctx, proc.ID, proc.Stages[0].ID, true); err != nil {
		t.Fatalf("ApplyStageResult failed: %v", err)
	}

	if _, err := engine.CancelProcess(ctx, proc.ID); !models.IsInvalidState(err) {
		t.Errorf("expected invalid state error cancelling completed process, got %v", err)
	}
}
