// Package store provides storage backends for TalentPipe.
//
// This file implements the SQLite-backed store, the default for single-node
// deployments.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/BTreeMap/TalentPipe/internal/models"
	_ "github.com/mattn/go-sqlite3"

	"database/sql"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run SQLite migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied")

	return &SQLiteStore{db: db}, nil
}

const (
	sqliteUpsert = `INSERT INTO %s (id, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`
	sqliteSelect = `SELECT data FROM %s WHERE id = ?`
	sqliteList   = `SELECT data FROM %s ORDER BY id`
	sqliteDelete = `DELETE FROM %s WHERE id = ?`
)

func (s *SQLiteStore) ListJobPostings() ([]models.JobPosting, error) {
	return listDocs[models.JobPosting](s.db, fmt.Sprintf(sqliteList, "job_postings"))
}

func (s *SQLiteStore) GetJobPosting(id string) (*models.JobPosting, error) {
	var p models.JobPosting
	found, err := getDoc(s.db, fmt.Sprintf(sqliteSelect, "job_postings"), id, &p)
	if err != nil {
		slog.Error("SQLiteStore GetJobPosting failed", "error", err, "id", id)
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (s *SQLiteStore) SaveJobPosting(p models.JobPosting) error {
	if err := putDoc(s.db, fmt.Sprintf(sqliteUpsert, "job_postings"), p.ID, p); err != nil {
		slog.Error("SQLiteStore SaveJobPosting failed", "error", err, "id", p.ID)
		return err
	}
	slog.Debug("SQLiteStore SaveJobPosting succeeded", "id", p.ID)
	return nil
}

func (s *SQLiteStore) DeleteJobPosting(id string) (bool, error) {
	return deleteDoc(s.db, fmt.Sprintf(sqliteDelete, "job_postings"), id)
}

func (s *SQLiteStore) ListCandidates() ([]models.Candidate, error) {
	return listDocs[models.Candidate](s.db, fmt.Sprintf(sqliteList, "candidates"))
}

func (s *SQLiteStore) GetCandidate(id string) (*models.Candidate, error) {
	var c models.Candidate
	found, err := getDoc(s.db, fmt.Sprintf(sqliteSelect, "candidates"), id, &c)
	if err != nil {
		slog.Error("SQLiteStore GetCandidate failed", "error", err, "id", id)
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &c, nil
}

func (s *SQLiteStore) SaveCandidate(c models.Candidate) error {
	if err := putDoc(s.db, fmt.Sprintf(sqliteUpsert, "candidates"), c.ID, c); err != nil {
		slog.Error("SQLiteStore SaveCandidate failed", "error", err, "id", c.ID)
		return err
	}
	slog.Debug("SQLiteStore SaveCandidate succeeded", "id", c.ID)
	return nil
}

func (s *SQLiteStore) DeleteCandidate(id string) (bool, error) {
	return deleteDoc(s.db, fmt.Sprintf(sqliteDelete, "candidates"), id)
}

func (s *SQLiteStore) ListInterviews() ([]models.Interview, error) {
	return listDocs[models.Interview](s.db, fmt.Sprintf(sqliteList, "interviews"))
}

func (s *SQLiteStore) GetInterview(id string) (*models.Interview, error) {
	var iv models.Interview
	found, err := getDoc(s.db, fmt.Sprintf(sqliteSelect, "interviews"), id, &iv)
	if err != nil {
		slog.Error("SQLiteStore GetInterview failed", "error", err, "id", id)
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &iv, nil
}

func (s *SQLiteStore) SaveInterview(iv models.Interview) error {
	if err := putDoc(s.db, fmt.Sprintf(sqliteUpsert, "interviews"), iv.ID, iv); err != nil {
		slog.Error("SQLiteStore SaveInterview failed", "error", err, "id", iv.ID)
		return err
	}
	slog.Debug("SQLiteStore SaveInterview succeeded", "id", iv.ID)
	return nil
}

func (s *SQLiteStore) DeleteInterview(id string) (bool, error) {
	return deleteDoc(s.db, fmt.Sprintf(sqliteDelete, "interviews"), id)
}

func (s *SQLiteStore) ListProcesses() ([]models.InterviewProcess, error) {
	return listDocs[models.InterviewProcess](s.db, fmt.Sprintf(sqliteList, "interview_processes"))
}

func (s *SQLiteStore) GetProcess(id string) (*models.InterviewProcess, error) {
	var p models.InterviewProcess
	found, err := getDoc(s.db, fmt.Sprintf(sqliteSelect, "interview_processes"), id, &p)
	if err != nil {
		slog.Error("SQLiteStore GetProcess failed", "error", err, "id", id)
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (s *SQLiteStore) SaveProcess(p models.InterviewProcess) error {
	if err := putDoc(s.db, fmt.Sprintf(sqliteUpsert, "interview_processes"), p.ID, p); err != nil {
		slog.Error("SQLiteStore SaveProcess failed", "error", err, "id", p.ID)
		return err
	}
	slog.Debug("SQLiteStore SaveProcess succeeded", "id", p.ID, "status", p.Status, "currentStage", p.CurrentStage)
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close SQLite database", "error", err)
	}
	return err
}
