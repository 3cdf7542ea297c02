// Package store holds the issue record sources and identity sources. Each
// store owns its collection; callers receive copies.
package store

import (
	"context"
	"time"

	"civicsync/models"
)

// IssueSource is the data-access boundary for issues.
type IssueSource interface {
	// ListIssues returns every issue in creation order.
	ListIssues(ctx context.Context) ([]models.Issue, error)
	GetIssue(ctx context.Context, id int64) (models.Issue, error)
	// CreateIssue validates the draft, assigns a fresh id, forces pending and
	// stamps the creation time.
	CreateIssue(ctx context.Context, reporterID int64, draft models.IssueDraft) (models.Issue, error)
	// UpdateIssueStatus replaces the status with no transition check.
	UpdateIssueStatus(ctx context.Context, id int64, status models.IssueStatus) (models.Issue, error)
}

// IdentitySource resolves identities for user-detail lookups.
type IdentitySource interface {
	GetIdentity(ctx context.Context, id int64) (models.Identity, error)
}

// Clock returns the current time; stores take one so tests can pin it.
type Clock func() time.Time

func prepareDraft(d models.IssueDraft) (models.IssueDraft, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return d, err
	}
	return d, nil
}
