package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/rolefit/rolefit-backend/internal/handlers"
	"github.com/rolefit/rolefit-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName     string
	AllowOrigins    []string
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	UserHandler     *handlers.UserHandler
	SkillHandler    *handlers.SkillHandler
	RoleHandler     *handlers.RoleHandler
	AnalysisHandler *handlers.AnalysisHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.POST("/logout", cfg.AuthHandler.Logout)
	protected.GET("/user", cfg.UserHandler.GetMe)

	protected.GET("/skills", cfg.SkillHandler.List)
	protected.POST("/skills", cfg.SkillHandler.Upsert)
	protected.POST("/skills/batch", cfg.SkillHandler.UpsertBatch)
	protected.DELETE("/skills/:id", cfg.SkillHandler.Delete)

	protected.POST("/roles", cfg.RoleHandler.Create)
	protected.GET("/roles", cfg.RoleHandler.List)
	protected.GET("/roles/:id", cfg.RoleHandler.Get)
	protected.GET("/roles/:id/requirements", cfg.RoleHandler.ListRequirements)

	protected.POST("/roles/:id/analysis", cfg.AnalysisHandler.Recompute)
	protected.GET("/roles/:id/analysis", cfg.AnalysisHandler.GetLatest)

	return router
}
