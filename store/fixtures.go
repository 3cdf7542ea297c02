package store

import (
	"time"

	"civicsync/models"
)

// DemoAvatar is the avatar of the seeded demo identity.
const DemoAvatar = "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face"

// FixtureIssues is the demo data set served when SEED_FIXTURES is on.
func FixtureIssues() []models.Issue {
	return []models.Issue{
		{
			ID:          1,
			ReporterID:  1,
			Title:       "Street Light Not Working",
			Description: "The street light on Main Street has been out for 3 days",
			Category:    models.Infrastructure,
			Status:      models.Pending,
			Location:    "Main Street, Block 5",
			CreatedAt:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:          2,
			ReporterID:  1,
			Title:       "Pothole on Highway",
			Description: "Large pothole causing traffic issues",
			Category:    models.Roads,
			Status:      models.InProgress,
			Location:    "Highway 101, Mile 23",
			CreatedAt:   time.Date(2024, 1, 14, 14, 20, 0, 0, time.UTC),
		},
		{
			ID:          3,
			ReporterID:  1,
			Title:       "Garbage Collection Missed",
			Description: "Weekly garbage collection was missed in our area",
			Category:    models.Sanitation,
			Status:      models.Resolved,
			Location:    "Oak Avenue, Sector 12",
			CreatedAt:   time.Date(2024, 1, 13, 8, 15, 0, 0, time.UTC),
		},
	}
}

// DemoIdentity is the account the mock login hands out.
func DemoIdentity(email string) models.Identity {
	avatar := DemoAvatar
	return models.Identity{
		ID:     1,
		Name:   "John Doe",
		Email:  email,
		Avatar: &avatar,
	}
}
