// Package store provides storage backends for TalentPipe.
//
// This file implements the PostgreSQL-backed store for shared deployments.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "embed"

	"github.com/BTreeMap/TalentPipe/internal/models"
	_ "github.com/lib/pq"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store with the given DSN and
// applies the embedded migrations.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	if cfg.DSN == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run Postgres migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied")

	return &PostgresStore{db: db}, nil
}

const (
	pgUpsert = `INSERT INTO %s (id, data, updated_at) VALUES ($1, $2::jsonb, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	pgSelect = `SELECT data FROM %s WHERE id = $1`
	pgList   = `SELECT data FROM %s ORDER BY id`
	pgDelete = `DELETE FROM %s WHERE id = $1`
)

func (s *PostgresStore) ListJobPostings() ([]models.JobPosting, error) {
	return listDocs[models.JobPosting](s.db, fmt.Sprintf(pgList, "job_postings"))
}

func (s *PostgresStore) GetJobPosting(id string) (*models.JobPosting, error) {
	var p models.JobPosting
	found, err := getDoc(s.db, fmt.Sprintf(pgSelect, "job_postings"), id, &p)
	if err != nil {
		slog.Error("PostgresStore GetJobPosting failed", "error", err, "id", id)
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (s *PostgresStore) SaveJobPosting(p models.JobPosting) error {
	if err := putDoc(s.db, fmt.Sprintf(pgUpsert, "job_postings"), p.ID, p); err != nil {
		slog.Error("PostgresStore SaveJobPosting failed", "error", err, "id", p.ID)
		return err
	}
	return nil
}

func (s *PostgresStore) DeleteJobPosting(id string) (bool, error) {
	return deleteDoc(s.db, fmt.Sprintf(pgDelete, "job_postings"), id)
}

func (s *PostgresStore) ListCandidates() ([]models.Candidate, error) {
	return listDocs[models.Candidate](s.db, fmt.Sprintf(pgList, "candidates"))
}

func (s *PostgresStore) GetCandidate(id string) (*models.Candidate, error) {
	var c models.Candidate
	found, err := getDoc(s.db, fmt.Sprintf(pgSelect, "candidates"), id, &c)
	if err != nil {
		slog.Error("PostgresStore GetCandidate failed", "error", err, "id", id)
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &c, nil
}

func (s *PostgresStore) SaveCandidate(c models.Candidate) error {
	if err := putDoc(s.db, fmt.Sprintf(pgUpsert, "candidates"), c.ID, c); err != nil {
		slog.Error("PostgresStore SaveCandidate failed", "error", err, "id", c.ID)
		return err
	}
	return nil
}

func (s *PostgresStore) DeleteCandidate(id string) (bool, error) {
	return deleteDoc(s.db, fmt.Sprintf(pgDelete, "candidates"), id)
}

func (s *PostgresStore) ListInterviews() ([]models.Interview, error) {
	return listDocs[models.Interview](s.db, fmt.Sprintf(pgList, "interviews"))
}

func (s *PostgresStore) GetInterview(id string) (*models.Interview, error) {
	var iv models.Interview
	found, err := getDoc(s.db, fmt.Sprintf(pgSelect, "interviews"), id, &iv)
	if err != nil {
		slog.Error("PostgresStore GetInterview failed", "error", err, "id", id)
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &iv, nil
}

func (s *PostgresStore) SaveInterview(iv models.Interview) error {
	if err := putDoc(s.db, fmt.Sprintf(pgUpsert, "interviews"), iv.ID, iv); err != nil {
		slog.Error("PostgresStore SaveInterview failed", "error", err, "id", iv.ID)
		return err
	}
	return nil
}

func (s *PostgresStore) DeleteInterview(id string) (bool, error) {
	return deleteDoc(s.db, fmt.Sprintf(pgDelete, "interviews"), id)
}

func (s *PostgresStore) ListProcesses() ([]models.InterviewProcess, error) {
	return listDocs[models.InterviewProcess](s.db, fmt.Sprintf(pgList, "interview_processes"))
}

func (s *PostgresStore) GetProcess(id string) (*models.InterviewProcess, error) {
	var p models.InterviewProcess
	found, err := getDoc(s.db, fmt.Sprintf(pgSelect, "interview_processes"), id, &p)
	if err != nil {
		slog.Error("PostgresStore GetProcess failed", "error", err, "id", id)
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (s *PostgresStore) SaveProcess(p models.InterviewProcess) error {
	if err := putDoc(s.db, fmt.Sprintf(pgUpsert, "interview_processes"), p.ID, p); err != nil {
		slog.Error("PostgresStore SaveProcess failed", "error", err, "id", p.ID)
		return err
	}
	return nil
}

// Close closes the PostgreSQL database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}
