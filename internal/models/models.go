// Package models defines the core data structures for TalentPipe.
//
// It includes job posting and candidate records, the interview process state
// model, and API response types shared across modules.
package models

import "time"

// PostingStatus represents the publication status of a job posting.
type PostingStatus string

const (
	// PostingStatusDraft indicates the posting is not yet visible to matching.
	PostingStatusDraft PostingStatus = "draft"
	// PostingStatusPublished indicates the posting is open and matchable.
	PostingStatusPublished PostingStatus = "published"
	// PostingStatusClosed indicates the posting no longer accepts candidates.
	PostingStatusClosed PostingStatus = "closed"
)

// IsValidPostingStatus checks if the given posting status is supported.
func IsValidPostingStatus(s PostingStatus) bool {
	switch s {
	case PostingStatusDraft, PostingStatusPublished, PostingStatusClosed:
		return true
	default:
		return false
	}
}

// Salary describes the advertised salary range of a posting.
type Salary struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// JobPosting represents an open position a candidate can interview for.
type JobPosting struct {
	ID                   string        `json:"id"`
	Title                string        `json:"title"`
	Department           string        `json:"department"`
	Location             string        `json:"location"`
	Description          string        `json:"description"`
	Status               PostingStatus `json:"status"`
	EmploymentType       string        `json:"employmentType,omitempty"` // full-time, part-time, contract
	Shift                string        `json:"shift,omitempty"`          // day, night, flexible
	Salary               Salary        `json:"salary"`
	Experience           string        `json:"experience,omitempty"` // entry, intermediate, manager
	StoreType            string        `json:"storeType,omitempty"`
	PhysicalRequirements []string      `json:"physicalRequirements,omitempty"`
	Benefits             []string      `json:"benefits,omitempty"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

// CandidateStatus represents where a candidate sits in the hiring funnel.
type CandidateStatus string

const (
	CandidateStatusNew          CandidateStatus = "new"
	CandidateStatusReviewing    CandidateStatus = "reviewing"
	CandidateStatusInterviewing CandidateStatus = "interviewing"
	CandidateStatusOffered      CandidateStatus = "offered"
	CandidateStatusRejected     CandidateStatus = "rejected"
)

// IsValidCandidateStatus checks if the given candidate status is supported.
func IsValidCandidateStatus(s CandidateStatus) bool {
	switch s {
	case CandidateStatusNew, CandidateStatusReviewing, CandidateStatusInterviewing, CandidateStatusOffered, CandidateStatusRejected:
		return true
	default:
		return false
	}
}

// Experience is one prior role on a candidate's record.
type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description,omitempty"`
}

// Education is one degree or program on a candidate's record.
type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	GraduationDate string `json:"graduationDate"`
}

// Candidate represents a person moving through the recruitment pipeline.
type Candidate struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	Location       string          `json:"location,omitempty"`
	Position       string          `json:"position"`
	Status         CandidateStatus `json:"status"`
	MatchScore     float64         `json:"matchScore"`
	Experience     []Experience    `json:"experience,omitempty"`
	Education      []Education     `json:"education,omitempty"`
	Skills         []string        `json:"skills,omitempty"`
	Languages      []string        `json:"languages,omitempty"`
	Certifications []string        `json:"certifications,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// MatchResult is the outcome of an AI compatibility analysis between a
// candidate and a job posting.
type MatchResult struct {
	Score           float64  `json:"score"`
	Explanation     string   `json:"explanation"`
	Strengths       []string `json:"strengths"`
	Gaps            []string `json:"gaps"`
	Recommendations []string `json:"recommendations"`
}

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`            // status of the API response
	Message string      `json:"message,omitempty"` // optional message for error responses or additional info
	Result  interface{} `json:"result,omitempty"`  // optional result data for successful responses
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message and optional result data.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
