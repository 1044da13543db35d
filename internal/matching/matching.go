// Package matching scores candidates against job postings using the content
// service and ranks the results.
package matching

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/BTreeMap/TalentPipe/internal/content"
	"github.com/BTreeMap/TalentPipe/internal/models"
	"github.com/BTreeMap/TalentPipe/internal/store"
)

// JobMatch pairs a posting with its match result for a candidate.
type JobMatch struct {
	JobPosting models.JobPosting  `json:"jobPosting"`
	Result     models.MatchResult `json:"result"`
}

// CandidateMatch pairs a candidate with its match result for a posting.
type CandidateMatch struct {
	Candidate models.Candidate   `json:"candidate"`
	Result    models.MatchResult `json:"result"`
}

// cacheEntry holds a match result with the update stamps it was computed
// from, so a stale entry is detected and replaced in place.
type cacheEntry struct {
	candStamp int64
	jobStamp  int64
	result    models.MatchResult
}

// Engine evaluates candidate/posting matches. Results are cached per
// candidate/posting pair; an edit to either record replaces the pair's entry
// on the next lookup, so the cache holds at most one result per pair.
type Engine struct {
	store   store.Store
	content content.Service

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewEngine creates a matching engine.
func NewEngine(st store.Store, svc content.Service) *Engine {
	slog.Debug("Creating matching Engine")
	return &Engine{store: st, content: svc, cache: make(map[string]cacheEntry)}
}

// MatchCandidate scores a single candidate against a single posting.
func (e *Engine) MatchCandidate(ctx context.Context, candidateID, jobPostingID string) (*models.MatchResult, error) {
	slog.Debug("Engine MatchCandidate", "candidateID", candidateID, "jobPostingID", jobPostingID)

	cand, err := e.store.GetCandidate(candidateID)
	if err != nil {
		slog.Error("Engine MatchCandidate get candidate failed", "error", err, "candidateID", candidateID)
		return nil, err
	}
	if cand == nil {
		return nil, fmt.Errorf("candidate %s: %w", candidateID, models.ErrNotFound)
	}

	job, err := e.store.GetJobPosting(jobPostingID)
	if err != nil {
		slog.Error("Engine MatchCandidate get posting failed", "error", err, "jobPostingID", jobPostingID)
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job posting %s: %w", jobPostingID, models.ErrNotFound)
	}

	return e.match(ctx, *cand, *job)
}

// FindMatchingJobs ranks published postings for a candidate, best first.
// Postings that score zero are dropped.
func (e *Engine) FindMatchingJobs(ctx context.Context, candidateID string) ([]JobMatch, error) {
	slog.Debug("Engine FindMatchingJobs", "candidateID", candidateID)

	cand, err := e.store.GetCandidate(candidateID)
	if err != nil {
		return nil, err
	}
	if cand == nil {
		return nil, fmt.Errorf("candidate %s: %w", candidateID, models.ErrNotFound)
	}

	jobs, err := e.store.ListJobPostings()
	if err != nil {
		slog.Error("Engine FindMatchingJobs list postings failed", "error", err)
		return nil, err
	}

	matches := make([]JobMatch, 0, len(jobs))
	for _, job := range jobs {
		if job.Status != models.PostingStatusPublished {
			continue
		}
		result, err := e.match(ctx, *cand, job)
		if err != nil {
			return nil, err
		}
		if result.Score <= 0 {
			continue
		}
		matches = append(matches, JobMatch{JobPosting: job, Result: *result})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Result.Score > matches[j].Result.Score
	})
	slog.Info("Engine FindMatchingJobs succeeded", "candidateID", candidateID, "matches", len(matches))
	return matches, nil
}

// FindMatchingCandidates ranks candidates for a posting, best first.
// Candidates that score zero are dropped.
func (e *Engine) FindMatchingCandidates(ctx context.Context, jobPostingID string) ([]CandidateMatch, error) {
	slog.Debug("Engine FindMatchingCandidates", "jobPostingID", jobPostingID)

	job, err := e.store.GetJobPosting(jobPostingID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job posting %s: %w", jobPostingID, models.ErrNotFound)
	}

	cands, err := e.store.ListCandidates()
	if err != nil {
		slog.Error("Engine FindMatchingCandidates list candidates failed", "error", err)
		return nil, err
	}

	matches := make([]CandidateMatch, 0, len(cands))
	for _, cand := range cands {
		result, err := e.match(ctx, cand, *job)
		if err != nil {
			return nil, err
		}
		if result.Score <= 0 {
			continue
		}
		matches = append(matches, CandidateMatch{Candidate: cand, Result: *result})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Result.Score > matches[j].Result.Score
	})
	slog.Info("Engine FindMatchingCandidates succeeded", "jobPostingID", jobPostingID, "matches", len(matches))
	return matches, nil
}

func (e *Engine) match(ctx context.Context, cand models.Candidate, job models.JobPosting) (*models.MatchResult, error) {
	key := cand.ID + "|" + job.ID
	candStamp := cand.UpdatedAt.UnixNano()
	jobStamp := job.UpdatedAt.UnixNano()

	e.mu.Lock()
	cached, ok := e.cache[key]
	e.mu.Unlock()
	if ok && cached.candStamp == candStamp && cached.jobStamp == jobStamp {
		return &cached.result, nil
	}

	result, err := e.content.AnalyzeMatch(ctx, cand, job)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[key] = cacheEntry{candStamp: candStamp, jobStamp: jobStamp, result: *result}
	e.mu.Unlock()
	return result, nil
}
