package models

// FilterAll disables the status or category filter.
const FilterAll = "all"

// FilterCriteria is the search/status/category predicate a view applies.
type FilterCriteria struct {
	SearchTerm string `json:"search"`
	Status     string `json:"status"`
	Category   string `json:"category"`
}

// Aggregates are status tallies over the full issue collection.
type Aggregates struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
}

// CategoryCount is the number of issues filed under one category.
type CategoryCount struct {
	Category IssueCategory `json:"category"`
	Count    int           `json:"count"`
}
