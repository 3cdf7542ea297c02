package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsync/models"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func validDraft() models.IssueDraft {
	return models.IssueDraft{Title: "Pothole", Description: "Large hole", Category: "roads", Location: "Main St"}
}

func TestMemoryIssueStore_CreateIssue(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIssueStore(fixedClock, FixtureIssues()...)

	issue, err := s.CreateIssue(ctx, 9, validDraft())
	require.NoError(t, err)

	assert.Equal(t, models.Pending, issue.Status)
	assert.Equal(t, fixedNow, issue.CreatedAt)
	assert.Equal(t, int64(9), issue.ReporterID)
	assert.Equal(t, models.Roads, issue.Category)
	for _, existing := range FixtureIssues() {
		assert.NotEqual(t, existing.ID, issue.ID)
	}

	second, err := s.CreateIssue(ctx, 9, validDraft())
	require.NoError(t, err)
	assert.NotEqual(t, issue.ID, second.ID)
}

func TestMemoryIssueStore_CreateIssueInvalidDraftLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIssueStore(fixedClock)

	_, err := s.CreateIssue(ctx, 1, models.IssueDraft{Title: "Pothole"})
	require.ErrorIs(t, err, models.ErrInvalidDraft)

	var invalid *models.InvalidDraftError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"description", "category", "location"}, invalid.Missing)

	all, err := s.ListIssues(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryIssueStore_UnknownCategoryKeptVerbatim(t *testing.T) {
	d := validDraft()
	d.Category = "graffiti"
	issue, err := NewMemoryIssueStore(fixedClock).CreateIssue(context.Background(), 1, d)
	require.NoError(t, err)
	assert.Equal(t, models.IssueCategory("graffiti"), issue.Category)
}

func TestMemoryIssueStore_ListPreservesCreationOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIssueStore(fixedClock, FixtureIssues()...)
	created, err := s.CreateIssue(ctx, 1, validDraft())
	require.NoError(t, err)

	all, err := s.ListIssues(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []int64{1, 2, 3, created.ID}, []int64{all[0].ID, all[1].ID, all[2].ID, all[3].ID})
}

func TestMemoryIssueStore_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	url := "https://img.example/1.png"
	d := validDraft()
	d.ImageURL = &url
	s := NewMemoryIssueStore(fixedClock)
	_, err := s.CreateIssue(ctx, 1, d)
	require.NoError(t, err)

	all, _ := s.ListIssues(ctx)
	all[0].Title = "mutated"
	*all[0].ImageURL = "mutated"

	again, _ := s.ListIssues(ctx)
	assert.Equal(t, "Pothole", again[0].Title)
	assert.Equal(t, url, *again[0].ImageURL)
}

func TestMemoryIssueStore_UpdateIssueStatus(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIssueStore(fixedClock, FixtureIssues()...)

	updated, err := s.UpdateIssueStatus(ctx, 3, models.Pending)
	require.NoError(t, err)
	assert.Equal(t, models.Pending, updated.Status)
	assert.Equal(t, "Garbage Collection Missed", updated.Title)

	// any transition is allowed
	updated, err = s.UpdateIssueStatus(ctx, 3, models.Resolved)
	require.NoError(t, err)
	assert.Equal(t, models.Resolved, updated.Status)

	got, err := s.GetIssue(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, models.Resolved, got.Status)
}

func TestMemoryIssueStore_UpdateMissingIssue(t *testing.T) {
	_, err := NewMemoryIssueStore(fixedClock).UpdateIssueStatus(context.Background(), 99999, models.Resolved)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryIssueStore_UpdateRejectsUnknownStatus(t *testing.T) {
	s := NewMemoryIssueStore(fixedClock, FixtureIssues()...)
	_, err := s.UpdateIssueStatus(context.Background(), 1, models.IssueStatus("closed"))
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestMemoryIssueStore_GetIssueNotFound(t *testing.T) {
	_, err := NewMemoryIssueStore(fixedClock).GetIssue(context.Background(), 5)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryIssueStore_SeedSkipsDuplicateIDs(t *testing.T) {
	seed := append(FixtureIssues(), models.Issue{ID: 2, Title: "duplicate"})
	s := NewMemoryIssueStore(fixedClock, seed...)

	all, err := s.ListIssues(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Pothole on Highway", all[1].Title)
}

func TestMemoryIssueStore_ConcurrentCreatesGetUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIssueStore(fixedClock)

	const n = 50
	var wg sync.WaitGroup
	idsCh := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			issue, err := s.CreateIssue(ctx, 1, validDraft())
			if err == nil {
				idsCh <- issue.ID
			}
		}()
	}
	wg.Wait()
	close(idsCh)

	seen := make(map[int64]bool)
	for id := range idsCh {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestMemoryIssueStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := NewMemoryIssueStore(fixedClock, FixtureIssues()...)

	_, err := st.ListIssues(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, models.ErrSourceUnavailable)

	_, err = st.GetIssue(ctx, 1)
	assert.ErrorIs(t, err, models.ErrSourceUnavailable)

	_, err = st.CreateIssue(ctx, 1, validDraft())
	assert.ErrorIs(t, err, models.ErrSourceUnavailable)

	_, err = st.UpdateIssueStatus(ctx, 1, models.Resolved)
	assert.ErrorIs(t, err, models.ErrSourceUnavailable)
}
