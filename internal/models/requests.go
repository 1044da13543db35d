package models

import (
	"fmt"
	"strings"
	"time"
)

// Validation constants for process configuration.
const (
	// MinProcessStages is the smallest allowed stage count for a process.
	MinProcessStages = 1
	// MaxProcessStages is the largest allowed stage count for a process.
	MaxProcessStages = 3
)

// StageConfig describes one requested stage when configuring a process.
type StageConfig struct {
	Name string    `json:"name"`
	Type StageType `json:"type"`
	// GenerateQuestions requests AI question generation at process creation
	// instead of at first stage access.
	GenerateQuestions bool `json:"generateQuestions,omitempty"`
}

// CreateProcessRequest is the payload for starting an interview process.
type CreateProcessRequest struct {
	CandidateID  string        `json:"candidateId"`
	JobPostingID string        `json:"jobPostingId"`
	Stages       []StageConfig `json:"stages"`
}

// Validate checks the create-process payload before any store access.
func (r *CreateProcessRequest) Validate() error {
	if r.CandidateID == "" {
		return fmt.Errorf("candidateId is required: %w", ErrValidation)
	}
	if r.JobPostingID == "" {
		return fmt.Errorf("jobPostingId is required: %w", ErrValidation)
	}
	if len(r.Stages) < MinProcessStages || len(r.Stages) > MaxProcessStages {
		return fmt.Errorf("stage count must be between %d and %d, got %d: %w",
			MinProcessStages, MaxProcessStages, len(r.Stages), ErrValidation)
	}
	for i, cfg := range r.Stages {
		if strings.TrimSpace(cfg.Name) == "" {
			return fmt.Errorf("stage %d: name is required: %w", i, ErrValidation)
		}
		if !IsValidStageType(cfg.Type) {
			return fmt.Errorf("stage %d: unknown stage type %q: %w", i, cfg.Type, ErrValidation)
		}
	}
	return nil
}

// OpenInterviewRequest is the payload for opening an interview session
// against a process's current stage.
type OpenInterviewRequest struct {
	ProcessID     string      `json:"processId"`
	ScheduledDate time.Time   `json:"scheduledDate"`
	Interviewer   Interviewer `json:"interviewer"`
}

// Validate checks the open-interview payload.
func (r *OpenInterviewRequest) Validate() error {
	if r.ProcessID == "" {
		return fmt.Errorf("processId is required: %w", ErrValidation)
	}
	if strings.TrimSpace(r.Interviewer.Name) == "" {
		return fmt.Errorf("interviewer name is required: %w", ErrValidation)
	}
	return nil
}

// SubmitAnswersRequest is the payload for saving a complete answer set.
type SubmitAnswersRequest struct {
	Answers []string `json:"answers"`
}

// VerdictRequest is the payload for recording a stage pass/fail decision.
type VerdictRequest struct {
	Passed *bool `json:"passed"`
}

// Validate checks that a verdict was actually supplied.
func (r *VerdictRequest) Validate() error {
	if r.Passed == nil {
		return fmt.Errorf("passed is required: %w", ErrValidation)
	}
	return nil
}

// MatchRequest is the payload for a single candidate/posting match analysis.
type MatchRequest struct {
	CandidateID  string `json:"candidateId"`
	JobPostingID string `json:"jobPostingId"`
}

// Validate checks the match payload.
func (r *MatchRequest) Validate() error {
	if r.CandidateID == "" {
		return fmt.Errorf("candidateId is required: %w", ErrValidation)
	}
	if r.JobPostingID == "" {
		return fmt.Errorf("jobPostingId is required: %w", ErrValidation)
	}
	return nil
}
