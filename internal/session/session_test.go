package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/BTreeMap/TalentPipe/internal/catalog"
	"github.com/BTreeMap/TalentPipe/internal/content"
	"github.com/BTreeMap/TalentPipe/internal/models"
	"github.com/BTreeMap/TalentPipe/internal/pipeline"
	"github.com/BTreeMap/TalentPipe/internal/store"
	"github.com/BTreeMap/TalentPipe/internal/util"
)

// stubService is a canned content.Service so tests never call a real provider.
type stubService struct {
	generateErr error
	analyzeErr  error

	generateCalls int
	analyzeCalls  int
}

func (s *stubService) GenerateQuestions(ctx context.Context, stageType models.StageType, job models.JobPosting) ([]models.Question, error) {
	s.generateCalls++
	if s.generateErr != nil {
		return nil, s.generateErr
	}
	questions := make([]models.Question, content.QuestionsPerStage)
	for i := range questions {
		questions[i] = models.Question{
			ID:             util.GenerateQuestionID(),
			Text:           fmt.Sprintf("Question %d", i+1),
			Category:       string(stageType),
			ExpectedAnswer: "A detailed answer",
		}
	}
	return questions, nil
}

func (s *stubService) AnalyzeAnswer(ctx context.Context, question models.Question, answer string) (*content.Analysis, error) {
	s.analyzeCalls++
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	return &content.Analysis{Score: 70, Feedback: "adequate"}, nil
}

func (s *stubService) GenerateJobDescription(ctx context.Context, posting models.JobPosting) (string, error) {
	return "description", nil
}

func (s *stubService) AnalyzeMatch(ctx context.Context, candidate models.Candidate, posting models.JobPosting) (*models.MatchResult, error) {
	return &models.MatchResult{Score: 50}, nil
}

type fixture struct {
	store      *store.InMemoryStore
	svc        *stubService
	engine     *pipeline.Engine
	controller *Controller
	proc       *models.InterviewProcess
}

func newFixture(t *testing.T, stageCount int) *fixture {
	t.Helper()
	st := store.NewInMemoryStore()
	svc := &stubService{}
	engine := pipeline.NewEngine(st)
	controller := NewController(st, svc, engine)

	now := time.Now().UTC()
	posting := models.JobPosting{
		ID:        util.GenerateEntityID(),
		Title:     "Store Associate",
		Status:    models.PostingStatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := st.SaveJobPosting(posting); err != nil {
		t.Fatalf("failed to seed posting: %v", err)
	}

	stages, err := catalog.BuildStages(catalog.DefaultStages(stageCount))
	if err != nil {
		t.Fatalf("BuildStages failed: %v", err)
	}
	proc, err := engine.CreateProcess(context.Background(), "cand-1", posting.ID, util.GenerateProcessID(), stages)
	if err != nil {
		t.Fatalf("CreateProcess failed: %v", err)
	}

	return &fixture{store: st, svc: svc, engine: engine, controller: controller, proc: proc}
}

func openRequest(processID string) models.OpenInterviewRequest {
	return models.OpenInterviewRequest{
		ProcessID:   processID,
		Interviewer: models.Interviewer{Name: "Sam Okafor", Email: "sam@example.com", Role: "Store Manager"},
	}
}

func TestOpenGeneratesQuestionsOnFirstAccess(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	iv, err := f.controller.Open(ctx, openRequest(f.proc.ID))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if len(iv.Stage.Questions) != content.QuestionsPerStage {
		t.Errorf("expected %d questions, got %d", content.QuestionsPerStage, len(iv.Stage.Questions))
	}
	if f.svc.generateCalls != 1 {
		t.Errorf("expected 1 generation call, got %d", f.svc.generateCalls)
	}
	if PhaseOf(iv) != PhaseReadyForAnswers {
		t.Errorf("expected phase ready_for_answers, got %s", PhaseOf(iv))
	}

	// Questions persist on the process, so reopening does not regenerate.
	proc, _ := f.store.GetProcess(f.proc.ID)
	if len(proc.Stages[0].Questions) != content.QuestionsPerStage {
		t.Errorf("questions not persisted on process stage")
	}
	if _, err := f.controller.Open(ctx, openRequest(f.proc.ID)); err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	if f.svc.generateCalls != 1 {
		t.Errorf("expected no regeneration, got %d calls", f.svc.generateCalls)
	}
}

func TestOpenGenerationFailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t, 1)
	f.svc.generateErr = fmt.Errorf("provider unavailable: %w", models.ErrExternalService)

	_, err := f.controller.Open(context.Background(), openRequest(f.proc.ID))
	if !models.IsExternalService(err) {
		t.Fatalf("expected external service error, got %v", err)
	}

	proc, _ := f.store.GetProcess(f.proc.ID)
	if len(proc.Stages[0].Questions) != 0 {
		t.Errorf("expected stage untouched after generation failure")
	}
	interviews, _ := f.store.ListInterviews()
	if len(interviews) != 0 {
		t.Errorf("expected no interview persisted, got %d", len(interviews))
	}
}

func TestOpenRejectsFinishedProcess(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	if _, err := f.engine.CancelProcess(ctx, f.proc.ID); err != nil {
		t.Fatalf("CancelProcess failed: %v", err)
	}
	if _, err := f.controller.Open(ctx, openRequest(f.proc.ID)); !models.IsInvalidState(err) {
		t.Errorf("expected invalid state error, got %v", err)
	}
	if _, err := f.controller.Open(ctx, openRequest("proc_missing")); !models.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestSubmitAnswersValidation(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	iv, err := f.controller.Open(ctx, openRequest(f.proc.ID))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// Wrong count.
	if _, err := f.controller.SubmitAnswers(ctx, iv.ID, []string{"one"}); !models.IsValidation(err) {
		t.Errorf("expected validation error for short answer set, got %v", err)
	}

	// Blank answer.
	answers := []string{"a", "b", "c", "d", "   "}
	if _, err := f.controller.SubmitAnswers(ctx, iv.ID, answers); !models.IsValidation(err) {
		t.Errorf("expected validation error for blank answer, got %v", err)
	}

	// Rejected submissions leave nothing behind.
	stored, _ := f.store.GetInterview(iv.ID)
	if len(stored.Answers) != 0 {
		t.Errorf("expected no answers stored, got %d", len(stored.Answers))
	}
}

func TestSubmitAnswersSuccess(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	iv, _ := f.controller.Open(ctx, openRequest(f.proc.ID))

	answers := []string{"a1", "a2", "a3", "a4", "a5"}
	updated, err := f.controller.SubmitAnswers(ctx, iv.ID, answers)
	if err != nil {
		t.Fatalf("SubmitAnswers failed: %v", err)
	}
	if updated.Status != models.InterviewStatusInProgress {
		t.Errorf("expected in_progress, got %s", updated.Status)
	}
	if PhaseOf(updated) != PhaseNeedsAnalysis {
		t.Errorf("expected phase needs_analysis, got %s", PhaseOf(updated))
	}
}

func TestRequestAnalysis(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	iv, _ := f.controller.Open(ctx, openRequest(f.proc.ID))
	if _, err := f.controller.RequestAnalysis(ctx, iv.ID); !models.IsInvalidState(err) {
		t.Errorf("expected invalid state error before answers, got %v", err)
	}

	f.controller.SubmitAnswers(ctx, iv.ID, []string{"a1", "a2", "a3", "a4", "a5"})

	summary, err := f.controller.RequestAnalysis(ctx, iv.ID)
	if err != nil {
		t.Fatalf("RequestAnalysis failed: %v", err)
	}
	if summary.OverallScore != 70 {
		t.Errorf("expected overall score 70, got %f", summary.OverallScore)
	}
	if len(summary.PerQuestion) != content.QuestionsPerStage {
		t.Errorf("expected %d per-question results, got %d", content.QuestionsPerStage, len(summary.PerQuestion))
	}
	if f.svc.analyzeCalls != content.QuestionsPerStage {
		t.Errorf("expected %d analysis calls, got %d", content.QuestionsPerStage, f.svc.analyzeCalls)
	}

	stored, _ := f.store.GetInterview(iv.ID)
	for i, q := range stored.Stage.Questions {
		if q.Score == nil || *q.Score != 70 {
			t.Errorf("question %d: expected persisted score 70", i)
		}
	}
	if PhaseOf(stored) != PhaseAwaitingVerdict {
		t.Errorf("expected phase awaiting_verdict, got %s", PhaseOf(stored))
	}
}

func TestRequestAnalysisFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	iv, _ := f.controller.Open(ctx, openRequest(f.proc.ID))
	f.controller.SubmitAnswers(ctx, iv.ID, []string{"a1", "a2", "a3", "a4", "a5"})
	f.svc.analyzeErr = fmt.Errorf("provider unavailable: %w", models.ErrExternalService)

	if _, err := f.controller.RequestAnalysis(ctx, iv.ID); !models.IsExternalService(err) {
		t.Fatalf("expected external service error, got %v", err)
	}

	stored, _ := f.store.GetInterview(iv.ID)
	for i, q := range stored.Stage.Questions {
		if q.Score != nil {
			t.Errorf("question %d: expected no score persisted after failure", i)
		}
	}
}

func TestRecordVerdictAdvancesProcess(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	iv, _ := f.controller.Open(ctx, openRequest(f.proc.ID))
	f.controller.SubmitAnswers(ctx, iv.ID, []string{"a1", "a2", "a3", "a4", "a5"})

	updated, err := f.controller.RecordVerdict(ctx, iv.ID, true)
	if err != nil {
		t.Fatalf("RecordVerdict failed: %v", err)
	}
	if updated.Status != models.InterviewStatusCompleted {
		t.Errorf("expected interview completed, got %s", updated.Status)
	}
	if updated.Stage.Passed == nil || !*updated.Stage.Passed {
		t.Error("expected passed verdict on stage snapshot")
	}

	proc, _ := f.store.GetProcess(f.proc.ID)
	if proc.CurrentStage != 1 {
		t.Errorf("expected process advanced to stage 1, got %d", proc.CurrentStage)
	}
	if proc.Status != models.ProcessStatusInProgress {
		t.Errorf("expected process in_progress, got %s", proc.Status)
	}
}

func TestRecordVerdictFailEndsProcess(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	iv, _ := f.controller.Open(ctx, openRequest(f.proc.ID))
	f.controller.SubmitAnswers(ctx, iv.ID, []string{"a1", "a2", "a3", "a4", "a5"})

	if _, err := f.controller.RecordVerdict(ctx, iv.ID, false); err != nil {
		t.Fatalf("RecordVerdict failed: %v", err)
	}

	proc, _ := f.store.GetProcess(f.proc.ID)
	if proc.Status != models.ProcessStatusCompleted {
		t.Errorf("expected process completed after failed stage, got %s", proc.Status)
	}
}

func TestRecordVerdictRetryIsIdempotent(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	iv, _ := f.controller.Open(ctx, openRequest(f.proc.ID))
	f.controller.SubmitAnswers(ctx, iv.ID, []string{"a1", "a2", "a3", "a4", "a5"})

	if _, err := f.controller.RecordVerdict(ctx, iv.ID, true); err != nil {
		t.Fatalf("RecordVerdict failed: %v", err)
	}
	// Retrying the same verdict succeeds without advancing again.
	if _, err := f.controller.RecordVerdict(ctx, iv.ID, true); err != nil {
		t.Fatalf("verdict retry failed: %v", err)
	}
	proc, _ := f.store.GetProcess(f.proc.ID)
	if proc.CurrentStage != 1 {
		t.Errorf("expected currentStage 1 after retry, got %d", proc.CurrentStage)
	}

	// A conflicting verdict is rejected.
	if _, err := f.controller.RecordVerdict(ctx, iv.ID, false); !models.IsInvalidState(err) {
		t.Errorf("expected invalid state error for conflicting verdict, got %v", err)
	}
}

// flakyStore fails process writes a set number of times, then recovers.
type flakyStore struct {
	store.Store
	processSaveFailures int
}

func (s *flakyStore) SaveProcess(p models.InterviewProcess) error {
	if s.processSaveFailures > 0 {
		s.processSaveFailures--
		return fmt.Errorf("save process %s: disk full", p.ID)
	}
	return s.Store.SaveProcess(p)
}

func TestRecordVerdictRetryAfterProcessWriteFailure(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	iv, _ := f.controller.Open(ctx, openRequest(f.proc.ID))
	f.controller.SubmitAnswers(ctx, iv.ID, []string{"a1", "a2", "a3", "a4", "a5"})

	flaky := &flakyStore{Store: f.store, processSaveFailures: 1}
	controller := NewController(flaky, f.svc, pipeline.NewEngine(flaky))

	// The interview write lands, then the process write fails.
	if _, err := controller.RecordVerdict(ctx, iv.ID, true); err == nil {
		t.Fatal("expected process write failure")
	}
	stored, _ := f.store.GetInterview(iv.ID)
	if stored.Status != models.InterviewStatusCompleted {
		t.Fatalf("expected interview write to land, got status %s", stored.Status)
	}
	proc, _ := f.store.GetProcess(f.proc.ID)
	if proc.CurrentStage != 0 {
		t.Fatalf("expected process untouched after failed write, got stage %d", proc.CurrentStage)
	}

	// Once the store recovers, retrying the same verdict applies the result.
	retried, err := controller.RecordVerdict(ctx, iv.ID, true)
	if err != nil {
		t.Fatalf("verdict retry failed: %v", err)
	}
	if retried.Stage.Passed == nil || !*retried.Stage.Passed {
		t.Error("expected passed verdict on retried interview")
	}
	proc, _ = f.store.GetProcess(f.proc.ID)
	if proc.CurrentStage != 1 {
		t.Errorf("expected process advanced to stage 1 after retry, got %d", proc.CurrentStage)
	}
	if proc.Stages[0].Passed == nil || !*proc.Stages[0].Passed {
		t.Error("expected verdict recorded on process stage")
	}
}

func TestRecordVerdictRequiresAnswers(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	iv, _ := f.controller.Open(ctx, openRequest(f.proc.ID))
	if _, err := f.controller.RecordVerdict(ctx, iv.ID, true); !models.IsInvalidState(err) {
		t.Errorf("expected invalid state error before answers, got %v", err)
	}
}

func TestCancelInterview(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	iv, _ := f.controller.Open(ctx, openRequest(f.proc.ID))

	cancelled, err := f.controller.Cancel(ctx, iv.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != models.InterviewStatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}
	if PhaseOf(cancelled) != PhaseTerminal {
		t.Errorf("expected phase terminal, got %s", PhaseOf(cancelled))
	}

	// Cancelling again is a no-op; further mutation is rejected.
	if _, err := f.controller.Cancel(ctx, iv.ID); err != nil {
		t.Fatalf("second cancel failed: %v", err)
	}
	if _, err := f.controller.SubmitAnswers(ctx, iv.ID, []string{"a1", "a2", "a3", "a4", "a5"}); !models.IsInvalidState(err) {
		t.Errorf("expected invalid state error after cancel, got %v", err)
	}
}
