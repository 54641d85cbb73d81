package app

import (
	"github.com/gin-gonic/gin"

	"github.com/rolefit/rolefit-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:     cfg.ServiceName,
		AllowOrigins:    cfg.AllowOrigins,
		AuthHandler:     handlerset.Auth,
		AuthMiddleware:  mw.Auth,
		UserHandler:     handlerset.User,
		SkillHandler:    handlerset.Skill,
		RoleHandler:     handlerset.Role,
		AnalysisHandler: handlerset.Analysis,
	})
}
