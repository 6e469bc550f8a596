package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/whyline-dev/whyline/internal/handlers"
	"github.com/whyline-dev/whyline/internal/middleware"
	"github.com/whyline-dev/whyline/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		rcas := api.Group("/rcas", middleware.AuthMiddleware())
		{
			rcas.GET("", handlers.ListRcas)
			rcas.POST("", handlers.CreateRca)
			rcas.GET("/:id", handlers.GetRca)
			rcas.PATCH("/:id", handlers.UpdateRca)
			rcas.DELETE("/:id", handlers.DeleteRca)
			rcas.POST("/:id/nodes", handlers.CreateNode)
		}

		nodes := api.Group("/nodes", middleware.AuthMiddleware())
		{
			nodes.PATCH("/:id", handlers.UpdateNode)
			nodes.DELETE("/:id", handlers.DeleteNode)
		}
	}

	return r
}
