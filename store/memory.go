package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"civicsync/models"
)

// MemoryIssueStore keeps issues in process memory. It is safe for concurrent
// use; ids come from a counter guarded by the same lock as the collection.
type MemoryIssueStore struct {
	mu     sync.RWMutex
	issues []models.Issue
	index  map[int64]int
	nextID int64
	now    Clock
}

func NewMemoryIssueStore(now Clock, seed ...models.Issue) *MemoryIssueStore {
	if now == nil {
		now = time.Now
	}
	s := &MemoryIssueStore{
		index:  make(map[int64]int),
		nextID: 1,
		now:    now,
	}
	for _, issue := range seed {
		if _, dup := s.index[issue.ID]; dup {
			continue
		}
		s.index[issue.ID] = len(s.issues)
		s.issues = append(s.issues, issue)
		if issue.ID >= s.nextID {
			s.nextID = issue.ID + 1
		}
	}
	return s
}

func (s *MemoryIssueStore) ListIssues(ctx context.Context) ([]models.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("list issues", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Issue, len(s.issues))
	for i, issue := range s.issues {
		out[i] = cloneIssue(issue)
	}
	return out, nil
}

func (s *MemoryIssueStore) GetIssue(ctx context.Context, id int64) (models.Issue, error) {
	if err := ctx.Err(); err != nil {
		return models.Issue{}, unavailable("get issue", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return models.Issue{}, fmt.Errorf("issue %d: %w", id, models.ErrNotFound)
	}
	return cloneIssue(s.issues[pos]), nil
}

func (s *MemoryIssueStore) CreateIssue(ctx context.Context, reporterID int64, draft models.IssueDraft) (models.Issue, error) {
	d, err := prepareDraft(draft)
	if err != nil {
		return models.Issue{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Issue{}, unavailable("create issue", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	issue := models.NewIssue(s.nextID, reporterID, d, s.now())
	s.nextID++
	s.index[issue.ID] = len(s.issues)
	s.issues = append(s.issues, issue)
	return cloneIssue(issue), nil
}

func (s *MemoryIssueStore) UpdateIssueStatus(ctx context.Context, id int64, status models.IssueStatus) (models.Issue, error) {
	if !status.Valid() {
		return models.Issue{}, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}
	if err := ctx.Err(); err != nil {
		return models.Issue{}, unavailable("update issue status", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return models.Issue{}, fmt.Errorf("issue %d: %w", id, models.ErrNotFound)
	}
	s.issues[pos].Status = status
	return cloneIssue(s.issues[pos]), nil
}

func cloneIssue(issue models.Issue) models.Issue {
	if issue.ImageURL != nil {
		u := *issue.ImageURL
		issue.ImageURL = &u
	}
	return issue
}
