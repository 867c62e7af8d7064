package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/currilab/curricula-backend/internal/handlers"
)

type RouterConfig struct {
	AllowOrigins     []string
	StandardsHandler *handlers.StandardsHandler
	PlanHandler      *handlers.PlanHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", handlers.SessionHeader},
		ExposeHeaders:    []string{handlers.SessionHeader},
		AllowCredentials: true,
	}))

	router.GET("/healthz", handlers.HealthCheck)

	api := router.Group("/api/v1")
	{
		api.POST("/standards/fgos", cfg.StandardsHandler.UploadFGOS)
		api.POST("/standards/prof", cfg.StandardsHandler.UploadProf)
		api.POST("/match", cfg.StandardsHandler.Match)

		api.POST("/plan/generate", cfg.PlanHandler.Generate)
		api.GET("/plan", cfg.PlanHandler.Get)
		api.POST("/plan/chat", cfg.PlanHandler.Chat)
		api.POST("/plan/command", cfg.PlanHandler.Command)
		api.GET("/plan/export", cfg.PlanHandler.Export)
	}

	return router
}
