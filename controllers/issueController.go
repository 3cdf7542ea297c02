package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"civicsync/metrics"
	"civicsync/middlewares"
	"civicsync/models"
	"civicsync/store"
	"civicsync/views"
)

// IssueController serves the issue listing, reporting and status endpoints.
type IssueController struct {
	issues  store.IssueSource
	metrics *metrics.Collector
	log     *logrus.Logger
}

func NewIssueController(issues store.IssueSource, collector *metrics.Collector, log *logrus.Logger) *IssueController {
	return &IssueController{issues: issues, metrics: collector, log: log}
}

func criteriaFromQuery(c *gin.Context) models.FilterCriteria {
	return views.ParseCriteria(c.Query("search"), c.Query("status"), c.Query("category"))
}

// GetAllIssues returns the issues matching the search/status/category query
// together with the counts over all issues.
func (ic *IssueController) GetAllIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	all, err := ic.issues.ListIssues(ctx)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}

	stats := views.ComputeAggregates(all)
	ic.metrics.ObserveAggregates(stats)

	c.JSON(http.StatusOK, gin.H{
		"issues": views.ComputeVisible(all, criteriaFromQuery(c)),
		"stats":  stats,
	})
}

// GetIssueStats returns the status counts and the per-category counts.
func (ic *IssueController) GetIssueStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	all, err := ic.issues.ListIssues(ctx)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":      views.ComputeAggregates(all),
		"categories": views.CountByCategory(all),
	})
}

// GetMyIssues lists the authenticated user's reports.
func (ic *IssueController) GetMyIssues(c *gin.Context) {
	identity, ok := middlewares.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	all, err := ic.issues.ListIssues(ctx)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}

	mine := views.ByReporter(all, identity.ID)
	c.JSON(http.StatusOK, gin.H{
		"issues": views.ComputeVisible(mine, criteriaFromQuery(c)),
		"stats":  views.ComputeAggregates(mine),
	})
}

func (ic *IssueController) GetIssue(c *gin.Context) {
	id, ok := parseID(c, "issue")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	issue, err := ic.issues.GetIssue(ctx, id)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// CreateIssue reports a new issue for the authenticated user. The new issue
// always starts pending.
func (ic *IssueController) CreateIssue(c *gin.Context) {
	identity, ok := middlewares.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var draft models.IssueDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	issue, err := ic.issues.CreateIssue(ctx, identity.ID, draft)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}

	ic.metrics.IssueCreated()
	ic.log.WithFields(logrus.Fields{
		"issue_id": issue.ID,
		"user_id":  identity.ID,
		"category": issue.Category,
	}).Info("issue reported")

	c.JSON(http.StatusCreated, issue)
}

// UpdateIssueStatus replaces the status of an issue. Any listed status may
// follow any other.
func (ic *IssueController) UpdateIssueStatus(c *gin.Context) {
	id, ok := parseID(c, "issue")
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := models.ParseStatus(input.Status)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	issue, err := ic.issues.UpdateIssueStatus(ctx, id, status)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}

	ic.metrics.StatusUpdated(status)
	ic.log.WithFields(logrus.Fields{"issue_id": id, "status": status}).Info("issue status updated")

	c.JSON(http.StatusOK, issue)
}
