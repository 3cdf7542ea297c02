package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsync/models"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.IssueCreated()
	c.IssueCreated()
	c.StatusUpdated(models.Resolved)
	c.ObserveRequest(http.MethodGet, "/api/issues", http.StatusOK, 5*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.issuesCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.statusUpdates.WithLabelValues("resolved")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.requests.WithLabelValues("GET", "/api/issues", "200")))
}

func TestCollector_ObserveAggregates(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.ObserveAggregates(models.Aggregates{Total: 3, Pending: 1, InProgress: 1, Resolved: 1})
	c.ObserveAggregates(models.Aggregates{Total: 4, Pending: 2, InProgress: 1, Resolved: 1})

	assert.Equal(t, float64(4), testutil.ToFloat64(c.issues.WithLabelValues("total")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.issues.WithLabelValues("pending")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.IssueCreated()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "civicsync_issues_created_total 1")
}
