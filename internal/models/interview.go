// Package models defines the interview process state model for TalentPipe.
package models

import "time"

// StageType defines the kind of interview a stage represents.
type StageType string

const (
	StageTypeTechnical   StageType = "technical"
	StageTypeBehavioral  StageType = "behavioral"
	StageTypeCulturalFit StageType = "cultural_fit"
	StageTypeFinal       StageType = "final"
)

// IsValidStageType checks if the given stage type is supported.
func IsValidStageType(t StageType) bool {
	switch t {
	case StageTypeTechnical, StageTypeBehavioral, StageTypeCulturalFit, StageTypeFinal:
		return true
	default:
		return false
	}
}

// StageStatus represents the lifecycle state of a single interview stage.
type StageStatus string

const (
	StageStatusPending    StageStatus = "pending"
	StageStatusInProgress StageStatus = "in_progress"
	StageStatusCompleted  StageStatus = "completed"
)

// ProcessStatus represents the lifecycle state of a whole interview process.
type ProcessStatus string

const (
	ProcessStatusInProgress ProcessStatus = "in_progress"
	ProcessStatusCompleted  ProcessStatus = "completed"
	ProcessStatusCancelled  ProcessStatus = "cancelled"
)

// InterviewStatus represents the lifecycle state of one interview session.
type InterviewStatus string

const (
	InterviewStatusScheduled  InterviewStatus = "scheduled"
	InterviewStatusInProgress InterviewStatus = "in_progress"
	InterviewStatusCompleted  InterviewStatus = "completed"
	InterviewStatusCancelled  InterviewStatus = "cancelled"
)

// Question is one generated interview question with its scoring rubric.
// Score and Feedback are filled in by answer analysis.
type Question struct {
	ID             string   `json:"id,omitempty"`
	Text           string   `json:"text"`
	Category       string   `json:"category"`
	ExpectedAnswer string   `json:"expectedAnswer"`
	Score          *float64 `json:"score,omitempty"`
	Feedback       string   `json:"feedback,omitempty"`
}

// InterviewStage is one named step within an interview process.
//
// Passed is nil until the stage completes; once Status is
// StageStatusCompleted it always carries the recorded verdict.
type InterviewStage struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      StageType   `json:"type"`
	Order     int         `json:"order"`
	Status    StageStatus `json:"status"`
	Passed    *bool       `json:"passed,omitempty"`
	Questions []Question  `json:"questions,omitempty"`
}

// Completed reports whether the stage has a recorded verdict.
func (s *InterviewStage) Completed() bool {
	return s.Status == StageStatusCompleted
}

// InterviewProcess is the ordered pipeline a candidate follows for one
// job posting. Stages is the single source of truth for per-stage state;
// interview records only carry projections of it.
type InterviewProcess struct {
	ID           string           `json:"id"`
	CandidateID  string           `json:"candidateId"`
	JobPostingID string           `json:"jobPostingId"`
	Stages       []InterviewStage `json:"stages"`
	CurrentStage int              `json:"currentStage"`
	Status       ProcessStatus    `json:"status"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// StageByID returns the index of the stage with the given id, or -1.
func (p *InterviewProcess) StageByID(stageID string) int {
	for i := range p.Stages {
		if p.Stages[i].ID == stageID {
			return i
		}
	}
	return -1
}

// Interviewer identifies who conducts an interview session.
type Interviewer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Interview is one concrete attempt at answering a stage's questions.
//
// Stage is a snapshot of the process stage being conducted, refreshed from
// the owning process at controller entry and written back through the
// process state machine. It must never be mutated independently.
type Interview struct {
	ID            string          `json:"id"`
	CandidateID   string          `json:"candidateId"`
	JobPostingID  string          `json:"jobPostingId"`
	ProcessID     string          `json:"processId"`
	Stage         InterviewStage  `json:"stage"`
	Status        InterviewStatus `json:"status"`
	ScheduledDate time.Time       `json:"scheduledDate"`
	Interviewer   Interviewer     `json:"interviewer"`
	Answers       []string        `json:"answers,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Terminal reports whether the interview accepts no further mutation.
func (iv *Interview) Terminal() bool {
	return iv.Status == InterviewStatusCompleted || iv.Status == InterviewStatusCancelled
}
