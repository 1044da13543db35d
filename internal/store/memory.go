// Package store provides storage backends for TalentPipe.
//
// This file implements an in-memory store used by tests and by ephemeral
// development runs. It is safe for concurrent use.
package store

import (
	"sync"

	"github.com/BTreeMap/TalentPipe/internal/models"
)

// InMemoryStore keeps all records in maps guarded by a single mutex.
type InMemoryStore struct {
	mu         sync.RWMutex
	postings   map[string]models.JobPosting
	candidates map[string]models.Candidate
	interviews map[string]models.Interview
	processes  map[string]models.InterviewProcess
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		postings:   make(map[string]models.JobPosting),
		candidates: make(map[string]models.Candidate),
		interviews: make(map[string]models.Interview),
		processes:  make(map[string]models.InterviewProcess),
	}
}

func (s *InMemoryStore) ListJobPostings() ([]models.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.JobPosting, 0, len(s.postings))
	for _, p := range s.postings {
		out = append(out, p)
	}
	return out, nil
}

func (s *InMemoryStore) GetJobPosting(id string) (*models.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.postings[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *InMemoryStore) SaveJobPosting(p models.JobPosting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postings[p.ID] = p
	return nil
}

func (s *InMemoryStore) DeleteJobPosting(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.postings[id]; !ok {
		return false, nil
	}
	delete(s.postings, id)
	return true, nil
}

func (s *InMemoryStore) ListCandidates() ([]models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		out = append(out, c)
	}
	return out, nil
}

func (s *InMemoryStore) GetCandidate(id string) (*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *InMemoryStore) SaveCandidate(c models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[c.ID] = c
	return nil
}

func (s *InMemoryStore) DeleteCandidate(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[id]; !ok {
		return false, nil
	}
	delete(s.candidates, id)
	return true, nil
}

func (s *InMemoryStore) ListInterviews() ([]models.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Interview, 0, len(s.interviews))
	for _, iv := range s.interviews {
		out = append(out, iv)
	}
	return out, nil
}

func (s *InMemoryStore) GetInterview(id string) (*models.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	iv, ok := s.interviews[id]
	if !ok {
		return nil, nil
	}
	return &iv, nil
}

func (s *InMemoryStore) SaveInterview(iv models.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interviews[iv.ID] = iv
	return nil
}

func (s *InMemoryStore) DeleteInterview(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.interviews[id]; !ok {
		return false, nil
	}
	delete(s.interviews, id)
	return true, nil
}

func (s *InMemoryStore) ListProcesses() ([]models.InterviewProcess, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.InterviewProcess, 0, len(s.processes))
	for _, p := range s.processes {
		out = append(out, p)
	}
	return out, nil
}

func (s *InMemoryStore) GetProcess(id string) (*models.InterviewProcess, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.processes[id]
	if !ok {
		return nil, nil
	}
	// Deep-ish copy: stages are the mutable part of a process.
	cp := p
	cp.Stages = append([]models.InterviewStage(nil), p.Stages...)
	return &cp, nil
}

func (s *InMemoryStore) SaveProcess(p models.InterviewProcess) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	cp.Stages = append([]models.InterviewStage(nil), p.Stages...)
	s.processes[p.ID] = cp
	return nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
