package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"civicsync/models"
)

func TestComputeAggregates_TotalsAddUp(t *testing.T) {
	all := sampleIssues()
	agg := ComputeAggregates(all)

	assert.Equal(t, len(all), agg.Total)
	assert.Equal(t, agg.Total, agg.Pending+agg.InProgress+agg.Resolved)
	assert.Equal(t, models.Aggregates{Total: 5, Pending: 3, InProgress: 1, Resolved: 1}, agg)
}

func TestComputeAggregates_IgnoresFilters(t *testing.T) {
	all := sampleIssues()
	visible := ComputeVisible(all, ParseCriteria("volcano", "", ""))

	assert.Empty(t, visible)
	assert.Equal(t, 5, ComputeAggregates(all).Total)
}

func TestCountByCategory(t *testing.T) {
	all := append(sampleIssues(),
		models.Issue{ID: 6, Category: "weather", Status: models.Pending},
		models.Issue{ID: 7, Category: "graffiti", Status: models.Pending},
		models.Issue{ID: 8, Category: "weather", Status: models.Resolved},
	)

	got := CountByCategory(all)
	want := []models.CategoryCount{
		{Category: models.Infrastructure, Count: 1},
		{Category: models.Roads, Count: 2},
		{Category: models.Sanitation, Count: 1},
		{Category: models.Lighting, Count: 0},
		{Category: models.Parks, Count: 1},
		{Category: models.Utilities, Count: 0},
		{Category: models.Safety, Count: 0},
		{Category: models.Other, Count: 0},
		{Category: "graffiti", Count: 1},
		{Category: "weather", Count: 2},
	}
	assert.Equal(t, want, got)
}

func TestCountByCategory_Empty(t *testing.T) {
	got := CountByCategory(nil)
	assert.Len(t, got, len(models.KnownCategories()))
	for _, c := range got {
		assert.Zero(t, c.Count)
	}
}
