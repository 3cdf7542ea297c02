package routes

import (
	"github.com/gin-gonic/gin"

	"civicsync/controllers"
)

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, auth, quota gin.HandlerFunc) {
	issue := r.Group("/api/issues")
	{
		issue.GET("", ic.GetAllIssues)
		issue.GET("/stats", ic.GetIssueStats)
		issue.GET("/mine", auth, ic.GetMyIssues)
		issue.GET("/:id", ic.GetIssue)
		issue.POST("", auth, quota, ic.CreateIssue)
		issue.PATCH("/:id/status", auth, ic.UpdateIssueStatus)
	}
}
