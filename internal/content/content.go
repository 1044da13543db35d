// Package content provides AI-backed text generation for TalentPipe:
// interview questions, answer analysis, job descriptions, and candidate
// match assessments.
//
// The package is provider-agnostic; the Gemini and OpenAI backends under
// content/gemini and content/openai plug in as TextGenerators. All calls are
// fallible and are never retried here; retry policy belongs to the caller.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BTreeMap/TalentPipe/internal/models"
	"github.com/BTreeMap/TalentPipe/internal/util"
)

// QuestionsPerStage is the fixed number of questions generated per stage.
const QuestionsPerStage = 5

// TextGenerator is the minimal contract a provider backend must satisfy.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Analysis is the outcome of scoring a single interview answer.
type Analysis struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// Service is the content contract consumed by the session controller and the
// matching engine.
type Service interface {
	GenerateQuestions(ctx context.Context, stageType models.StageType, job models.JobPosting) ([]models.Question, error)
	AnalyzeAnswer(ctx context.Context, question models.Question, answer string) (*Analysis, error)
	GenerateJobDescription(ctx context.Context, posting models.JobPosting) (string, error)
	AnalyzeMatch(ctx context.Context, candidate models.Candidate, posting models.JobPosting) (*models.MatchResult, error)
}

// Client implements Service on top of a TextGenerator backend.
type Client struct {
	gen TextGenerator
}

// NewClient creates a content client around the given provider backend.
func NewClient(gen TextGenerator) *Client {
	return &Client{gen: gen}
}

// GenerateQuestions asks the provider for exactly QuestionsPerStage questions
// tailored to the stage type and job posting.
func (c *Client) GenerateQuestions(ctx context.Context, stageType models.StageType, job models.JobPosting) ([]models.Question, error) {
	prompt := buildQuestionsPrompt(stageType, job)
	slog.Debug("content GenerateQuestions", "stageType", stageType, "jobPostingID", job.ID)

	raw, err := c.gen.GenerateContent(ctx, prompt)
	if err != nil {
		slog.Error("content GenerateQuestions provider failed", "error", err, "stageType", stageType)
		return nil, fmt.Errorf("generate questions for %s stage: %w: %w", stageType, models.ErrExternalService, err)
	}

	questions, err := parseQuestions(raw)
	if err != nil {
		slog.Error("content GenerateQuestions parse failed", "error", err, "stageType", stageType)
		return nil, fmt.Errorf("parse generated questions: %w: %w", models.ErrExternalService, err)
	}

	if len(questions) > QuestionsPerStage {
		questions = questions[:QuestionsPerStage]
	}
	for i := range questions {
		questions[i].ID = util.GenerateQuestionID()
		if questions[i].Category == "" {
			questions[i].Category = string(stageType)
		}
		if questions[i].ExpectedAnswer == "" {
			questions[i].ExpectedAnswer = "Looking for clear, structured responses demonstrating relevant experience and knowledge"
		}
	}
	slog.Debug("content GenerateQuestions succeeded", "count", len(questions))
	return questions, nil
}

// AnalyzeAnswer scores one answer against its question's rubric.
func (c *Client) AnalyzeAnswer(ctx context.Context, question models.Question, answer string) (*Analysis, error) {
	prompt := buildAnalysisPrompt(question, answer)
	slog.Debug("content AnalyzeAnswer", "questionID", question.ID)

	raw, err := c.gen.GenerateContent(ctx, prompt)
	if err != nil {
		slog.Error("content AnalyzeAnswer provider failed", "error", err, "questionID", question.ID)
		return nil, fmt.Errorf("analyze answer: %w: %w", models.ErrExternalService, err)
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		slog.Error("content AnalyzeAnswer parse failed", "error", err, "questionID", question.ID)
		return nil, fmt.Errorf("parse answer analysis: %w: %w", models.ErrExternalService, err)
	}
	return analysis, nil
}

// GenerateJobDescription writes a full posting description from the
// structured posting fields.
func (c *Client) GenerateJobDescription(ctx context.Context, posting models.JobPosting) (string, error) {
	prompt := buildDescriptionPrompt(posting)
	slog.Debug("content GenerateJobDescription", "title", posting.Title)

	raw, err := c.gen.GenerateContent(ctx, prompt)
	if err != nil {
		slog.Error("content GenerateJobDescription provider failed", "error", err, "title", posting.Title)
		return "", fmt.Errorf("generate job description: %w: %w", models.ErrExternalService, err)
	}
	return strings.TrimSpace(raw), nil
}

// AnalyzeMatch produces a compatibility assessment between a candidate and a
// posting.
func (c *Client) AnalyzeMatch(ctx context.Context, candidate models.Candidate, posting models.JobPosting) (*models.MatchResult, error) {
	prompt := buildMatchPrompt(candidate, posting)
	slog.Debug("content AnalyzeMatch", "candidateID", candidate.ID, "jobPostingID", posting.ID)

	raw, err := c.gen.GenerateContent(ctx, prompt)
	if err != nil {
		slog.Error("content AnalyzeMatch provider failed", "error", err, "candidateID", candidate.ID)
		return nil, fmt.Errorf("analyze match: %w: %w", models.ErrExternalService, err)
	}

	match, err := parseMatch(raw)
	if err != nil {
		slog.Error("content AnalyzeMatch parse failed", "error", err, "candidateID", candidate.ID)
		return nil, fmt.Errorf("parse match analysis: %w: %w", models.ErrExternalService, err)
	}
	return match, nil
}
