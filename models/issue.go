package models

import (
	"fmt"
	"strings"
	"time"
)

// IssueCategory enum
type IssueCategory string

const (
	Infrastructure IssueCategory = "infrastructure"
	Roads          IssueCategory = "roads"
	Sanitation     IssueCategory = "sanitation"
	Lighting       IssueCategory = "lighting"
	Parks          IssueCategory = "parks"
	Utilities      IssueCategory = "utilities"
	Safety         IssueCategory = "safety"
	Other          IssueCategory = "other"
)

// KnownCategories returns the fixed category set in display order.
func KnownCategories() []IssueCategory {
	return []IssueCategory{Infrastructure, Roads, Sanitation, Lighting, Parks, Utilities, Safety, Other}
}

// IsKnown reports whether the category belongs to the fixed set.
// Unknown categories are still accepted and stored verbatim.
func (c IssueCategory) IsKnown() bool {
	for _, known := range KnownCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	Pending    IssueStatus = "pending"
	InProgress IssueStatus = "in-progress"
	Resolved   IssueStatus = "resolved"
)

// Valid reports whether the status is one of pending, in-progress or resolved.
func (s IssueStatus) Valid() bool {
	switch s {
	case Pending, InProgress, Resolved:
		return true
	}
	return false
}

// Issue represents a civic issue reported by a user
type Issue struct {
	ID          int64         `bson:"_id" json:"id"`
	ReporterID  int64         `bson:"reporterId" json:"userId"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Category    IssueCategory `bson:"category" json:"category"`
	Status      IssueStatus   `bson:"status" json:"status"`
	Location    string        `bson:"location" json:"location"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	ImageURL    *string       `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

// IssueDraft is the input of the report flow. Latitude and Longitude are only
// used to fill an empty location.
type IssueDraft struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// Normalize trims the text fields and fills an empty location from the
// coordinates when both are present.
func (d IssueDraft) Normalize() IssueDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Category = strings.TrimSpace(d.Category)
	d.Location = strings.TrimSpace(d.Location)
	if d.ImageURL != nil {
		u := strings.TrimSpace(*d.ImageURL)
		if u == "" {
			d.ImageURL = nil
		} else {
			d.ImageURL = &u
		}
	}
	if d.Location == "" && d.Latitude != nil && d.Longitude != nil {
		d.Location = Coordinates{Latitude: *d.Latitude, Longitude: *d.Longitude}.String()
	}
	return d
}

// Validate reports every missing required field of a normalized draft.
func (d IssueDraft) Validate() error {
	if err := draftValidator.Struct(d); err != nil {
		return newInvalidDraftError(err)
	}
	return nil
}

// NewIssue builds the persisted form of a validated draft.
func NewIssue(id, reporterID int64, d IssueDraft, now time.Time) Issue {
	return Issue{
		ID:          id,
		ReporterID:  reporterID,
		Title:       d.Title,
		Description: d.Description,
		Category:    IssueCategory(d.Category),
		Status:      Pending,
		Location:    d.Location,
		CreatedAt:   now,
		ImageURL:    d.ImageURL,
	}
}

// ParseStatus converts raw input into a status, rejecting values outside the
// enumerated set.
func ParseStatus(raw string) (IssueStatus, error) {
	s := IssueStatus(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}
