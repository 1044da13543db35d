// Package testutil provides common test utilities and helpers for TalentPipe tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BTreeMap/TalentPipe/internal/api"
	"github.com/BTreeMap/TalentPipe/internal/content"
	"github.com/BTreeMap/TalentPipe/internal/matching"
	"github.com/BTreeMap/TalentPipe/internal/models"
	"github.com/BTreeMap/TalentPipe/internal/pipeline"
	"github.com/BTreeMap/TalentPipe/internal/session"
	"github.com/BTreeMap/TalentPipe/internal/store"
	"github.com/BTreeMap/TalentPipe/internal/util"
)

// StubContentService implements content.Service with canned results so tests
// never touch a real AI provider. Err, when set, is returned by every method.
type StubContentService struct {
	Err error

	// Score and Feedback are returned by AnalyzeAnswer.
	Score    float64
	Feedback string

	// MatchScore is returned by AnalyzeMatch.
	MatchScore float64

	GenerateCalls int
	AnalyzeCalls  int
}

// NewStubContentService creates a stub with reasonable defaults.
func NewStubContentService() *StubContentService {
	return &StubContentService{Score: 80, Feedback: "solid answer", MatchScore: 75}
}

func (s *StubContentService) GenerateQuestions(ctx context.Context, stageType models.StageType, job models.JobPosting) ([]models.Question, error) {
	s.GenerateCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	questions := make([]models.Question, content.QuestionsPerStage)
	for i := range questions {
		questions[i] = models.Question{
			ID:             util.GenerateQuestionID(),
			Text:           fmt.Sprintf("Question %d about %s", i+1, job.Title),
			Category:       string(stageType),
			ExpectedAnswer: "A thoughtful answer",
		}
	}
	return questions, nil
}

func (s *StubContentService) AnalyzeAnswer(ctx context.Context, question models.Question, answer string) (*content.Analysis, error) {
	s.AnalyzeCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	return &content.Analysis{Score: s.Score, Feedback: s.Feedback}, nil
}

func (s *StubContentService) GenerateJobDescription(ctx context.Context, posting models.JobPosting) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return "We are hiring a " + posting.Title + ".", nil
}

func (s *StubContentService) AnalyzeMatch(ctx context.Context, candidate models.Candidate, posting models.JobPosting) (*models.MatchResult, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return &models.MatchResult{
		Score:       s.MatchScore,
		Explanation: "decent overlap",
		Strengths:   []string{"relevant experience"},
		Gaps:        []string{"missing certification"},
	}, nil
}

// NewTestServer creates a test API server with in-memory dependencies.
// This centralizes the test server creation logic used across multiple test files.
func NewTestServer() (*api.Server, store.Store, *StubContentService) {
	st := store.NewInMemoryStore()
	svc := NewStubContentService()
	engine := pipeline.NewEngine(st)
	sessions := session.NewController(st, svc, engine)
	matcher := matching.NewEngine(st, svc)
	return api.NewServer(st, engine, sessions, matcher, svc), st, svc
}

// SeedCandidate stores a minimal candidate and returns it.
func SeedCandidate(t *testing.T, st store.Store) models.Candidate {
	t.Helper()
	now := time.Now().UTC()
	cand := models.Candidate{
		ID:        util.GenerateEntityID(),
		Name:      "Jordan Reyes",
		Email:     "jordan.reyes@example.com",
		Position:  "Store Associate",
		Status:    models.CandidateStatusNew,
		Skills:    []string{"customer service", "inventory"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := st.SaveCandidate(cand); err != nil {
		t.Fatalf("failed to seed candidate: %v", err)
	}
	return cand
}

// SeedJobPosting stores a published posting and returns it.
func SeedJobPosting(t *testing.T, st store.Store) models.JobPosting {
	t.Helper()
	now := time.Now().UTC()
	posting := models.JobPosting{
		ID:          util.GenerateEntityID(),
		Title:       "Store Associate",
		Department:  "Retail",
		Location:    "Toronto",
		Description: "Front of store role.",
		Status:      models.PostingStatusPublished,
		Salary:      models.Salary{Min: 40000, Max: 52000, Currency: "CAD"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := st.SaveJobPosting(posting); err != nil {
		t.Fatalf("failed to seed job posting: %v", err)
	}
	return posting
}

// AssertHTTPStatus checks the HTTP status code and fails the test if it doesn't match.
func AssertHTTPStatus(t *testing.T, expected, actual int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected status %d, got %d", context, expected, actual)
	}
}

// AssertJSONResponse decodes JSON response and validates the status field.
func AssertJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus string) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}

	if status, ok := response["status"].(string); ok {
		if status != expectedStatus {
			t.Errorf("expected status '%s', got '%s'", expectedStatus, status)
		}
	} else {
		t.Error("response missing or invalid 'status' field")
	}

	return response
}

// CreateHTTPRequest creates an HTTP request with optional JSON body for testing.
func CreateHTTPRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to create HTTP request: %v", err)
	}
	return req
}
