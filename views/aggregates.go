package views

import (
	"sort"

	"civicsync/models"
)

// ComputeAggregates tallies the whole collection by status. Callers pass the
// unfiltered list: the counts describe the system, not the current view.
func ComputeAggregates(all []models.Issue) models.Aggregates {
	agg := models.Aggregates{Total: len(all)}
	for _, issue := range all {
		switch issue.Status {
		case models.Pending:
			agg.Pending++
		case models.InProgress:
			agg.InProgress++
		case models.Resolved:
			agg.Resolved++
		}
	}
	return agg
}

// CountByCategory returns a count for every known category, in display
// order, followed by any unrecognized categories sorted by name.
func CountByCategory(all []models.Issue) []models.CategoryCount {
	counts := make(map[models.IssueCategory]int)
	for _, issue := range all {
		counts[issue.Category]++
	}

	known := models.KnownCategories()
	out := make([]models.CategoryCount, 0, len(known)+len(counts))
	for _, c := range known {
		out = append(out, models.CategoryCount{Category: c, Count: counts[c]})
		delete(counts, c)
	}

	extra := make([]models.IssueCategory, 0, len(counts))
	for c := range counts {
		extra = append(extra, c)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, c := range extra {
		out = append(out, models.CategoryCount{Category: c, Count: counts[c]})
	}
	return out
}
