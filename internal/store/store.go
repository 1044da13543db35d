// Package store provides storage backends for TalentPipe.
//
// Records round-trip through plain JSON; each backend keeps one document
// table per entity kind keyed by id. SQLite is the default backend, with
// PostgreSQL for shared deployments and an in-memory store for tests.
package store

import (
	"github.com/BTreeMap/TalentPipe/internal/models"
)

// Store defines the persistence contract consumed by the process state
// machine, the session controller, and the API layer.
//
// Get methods return (nil, nil) when the id is unknown; callers decide
// whether absence is an error.
type Store interface {
	ListJobPostings() ([]models.JobPosting, error)
	GetJobPosting(id string) (*models.JobPosting, error)
	SaveJobPosting(p models.JobPosting) error
	DeleteJobPosting(id string) (bool, error)

	ListCandidates() ([]models.Candidate, error)
	GetCandidate(id string) (*models.Candidate, error)
	SaveCandidate(c models.Candidate) error
	DeleteCandidate(id string) (bool, error)

	ListInterviews() ([]models.Interview, error)
	GetInterview(id string) (*models.Interview, error)
	SaveInterview(iv models.Interview) error
	DeleteInterview(id string) (bool, error)

	ListProcesses() ([]models.InterviewProcess, error)
	GetProcess(id string) (*models.InterviewProcess, error)
	SaveProcess(p models.InterviewProcess) error

	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	// DSN is the database connection string: a file path for SQLite, a
	// connection URL for PostgreSQL.
	DSN string
}

// Option configures store backends.
type Option func(*Opts)

// WithDSN sets the database DSN.
func WithDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}
