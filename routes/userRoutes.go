package routes

import (
	"github.com/gin-gonic/gin"

	"civicsync/controllers"
)

func UserRoutes(r *gin.Engine, uc *controllers.UserController) {
	users := r.Group("/api/users")
	{
		users.GET("/:id", uc.GetUser)
	}
}
