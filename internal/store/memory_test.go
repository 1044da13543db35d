package store

import (
	"testing"
	"time"

	"github.com/BTreeMap/TalentPipe/internal/models"
)

func TestInMemoryStoreJobPostings(t *testing.T) {
	st := NewInMemoryStore()

	missing, err := st.GetJobPosting("nope")
	if err != nil {
		t.Fatalf("GetJobPosting failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown posting")
	}

	posting := models.JobPosting{ID: "jp-1", Title: "Cashier", Status: models.PostingStatusDraft}
	if err := st.SaveJobPosting(posting); err != nil {
		t.Fatalf("SaveJobPosting failed: %v", err)
	}

	got, err := st.GetJobPosting("jp-1")
	if err != nil {
		t.Fatalf("GetJobPosting failed: %v", err)
	}
	if got == nil || got.Title != "Cashier" {
		t.Errorf("unexpected posting: %+v", got)
	}

	// Save is an upsert.
	posting.Status = models.PostingStatusPublished
	st.SaveJobPosting(posting)
	got, _ = st.GetJobPosting("jp-1")
	if got.Status != models.PostingStatusPublished {
		t.Errorf("expected published after upsert, got %s", got.Status)
	}

	all, _ := st.ListJobPostings()
	if len(all) != 1 {
		t.Errorf("expected 1 posting, got %d", len(all))
	}

	deleted, err := st.DeleteJobPosting("jp-1")
	if err != nil || !deleted {
		t.Errorf("expected delete to succeed, got deleted=%v err=%v", deleted, err)
	}
	deleted, _ = st.DeleteJobPosting("jp-1")
	if deleted {
		t.Error("expected second delete to report not found")
	}
}

func TestInMemoryStoreCandidates(t *testing.T) {
	st := NewInMemoryStore()

	cand := models.Candidate{ID: "c-1", Name: "Ana", Email: "ana@example.com", Status: models.CandidateStatusNew}
	if err := st.SaveCandidate(cand); err != nil {
		t.Fatalf("SaveCandidate failed: %v", err)
	}

	got, _ := st.GetCandidate("c-1")
	if got == nil || got.Email != "ana@example.com" {
		t.Errorf("unexpected candidate: %+v", got)
	}

	deleted, _ := st.DeleteCandidate("c-1")
	if !deleted {
		t.Error("expected delete to succeed")
	}
	got, _ = st.GetCandidate("c-1")
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestInMemoryStoreProcessCopySemantics(t *testing.T) {
	st := NewInMemoryStore()

	passed := true
	proc := models.InterviewProcess{
		ID:     "proc-1",
		Status: models.ProcessStatusInProgress,
		Stages: []models.InterviewStage{
			{ID: "stg-1", Name: "Technical", Status: models.StageStatusPending},
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := st.SaveProcess(proc); err != nil {
		t.Fatalf("SaveProcess failed: %v", err)
	}

	// Mutating the caller's copy after save must not leak into the store.
	proc.Stages[0].Status = models.StageStatusCompleted
	proc.Stages[0].Passed = &passed

	got, _ := st.GetProcess("proc-1")
	if got.Stages[0].Status != models.StageStatusPending {
		t.Errorf("stored stage mutated through caller slice: %s", got.Stages[0].Status)
	}

	// Mutating a fetched copy must not leak either.
	got.Stages[0].Status = models.StageStatusInProgress
	again, _ := st.GetProcess("proc-1")
	if again.Stages[0].Status != models.StageStatusPending {
		t.Errorf("stored stage mutated through fetched copy: %s", again.Stages[0].Status)
	}
}

func TestInMemoryStoreInterviews(t *testing.T) {
	st := NewInMemoryStore()

	iv := models.Interview{ID: "iv-1", ProcessID: "proc-1", Status: models.InterviewStatusScheduled}
	if err := st.SaveInterview(iv); err != nil {
		t.Fatalf("SaveInterview failed: %v", err)
	}

	got, _ := st.GetInterview("iv-1")
	if got == nil || got.ProcessID != "proc-1" {
		t.Errorf("unexpected interview: %+v", got)
	}

	all, _ := st.ListInterviews()
	if len(all) != 1 {
		t.Errorf("expected 1 interview, got %d", len(all))
	}

	deleted, _ := st.DeleteInterview("iv-1")
	if !deleted {
		t.Error("expected delete to succeed")
	}
}
