// Package views derives what a listing shows from the full issue collection.
// Everything here is pure: no I/O, no errors, inputs are never mutated.
package views

import (
	"strings"

	"civicsync/models"
)

// ParseCriteria builds criteria from raw query values. Empty status or
// category means no filter. The search term is kept as typed.
func ParseCriteria(search, status, category string) models.FilterCriteria {
	c := models.FilterCriteria{
		SearchTerm: search,
		Status:     strings.TrimSpace(status),
		Category:   strings.TrimSpace(category),
	}
	if c.Status == "" {
		c.Status = models.FilterAll
	}
	if c.Category == "" {
		c.Category = models.FilterAll
	}
	return c
}

// ComputeVisible returns the issues matching every active filter, in the
// relative order of all. A blank search term is inactive; otherwise the term
// is matched as typed, surrounding spaces included.
func ComputeVisible(all []models.Issue, c models.FilterCriteria) []models.Issue {
	searching := strings.TrimSpace(c.SearchTerm) != ""
	term := strings.ToLower(c.SearchTerm)
	visible := make([]models.Issue, 0, len(all))
	for _, issue := range all {
		if searching && !matchesTerm(issue, term) {
			continue
		}
		if active(c.Status) && string(issue.Status) != c.Status {
			continue
		}
		if active(c.Category) && string(issue.Category) != c.Category {
			continue
		}
		visible = append(visible, issue)
	}
	return visible
}

// ByReporter keeps the issues filed by one reporter.
func ByReporter(all []models.Issue, reporterID int64) []models.Issue {
	mine := make([]models.Issue, 0)
	for _, issue := range all {
		if issue.ReporterID == reporterID {
			mine = append(mine, issue)
		}
	}
	return mine
}

func active(filter string) bool {
	return filter != "" && filter != models.FilterAll
}

// term is already lowercased
func matchesTerm(issue models.Issue, term string) bool {
	return strings.Contains(strings.ToLower(issue.Title), term) ||
		strings.Contains(strings.ToLower(issue.Description), term) ||
		strings.Contains(strings.ToLower(issue.Location), term)
}
