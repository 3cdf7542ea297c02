package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"civicsync/config"
	"civicsync/controllers"
	"civicsync/metrics"
	"civicsync/middlewares"
	"civicsync/session"
	"civicsync/store"
)

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	Config     *config.Config
	Log        *logrus.Logger
	Metrics    *metrics.Collector
	Sessions   *session.Manager
	Issues     store.IssueSource
	Directory  controllers.Registrar
	Identities store.IdentitySource
	Quota      middlewares.IssueQuota
}

// NewRouter wires middlewares, controllers and routes into a gin engine.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middlewares.RequestLogger(deps.Log),
		middlewares.RequestMetrics(deps.Metrics),
		middlewares.CORS(deps.Config.CORSAllowedOrigins),
	)

	auth := middlewares.AuthMiddleware(deps.Sessions, deps.Log)
	quota := middlewares.IssueRateLimiter(deps.Quota, deps.Log)

	IssueRoutes(r, controllers.NewIssueController(deps.Issues, deps.Metrics, deps.Log), auth, quota)
	AuthRoutes(r, controllers.NewAuthController(deps.Sessions, deps.Directory, deps.Config, deps.Log), auth)
	UserRoutes(r, controllers.NewUserController(deps.Identities, deps.Log))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	return r
}
