package app

import (
	"github.com/rolefit/rolefit-backend/internal/handlers"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Skill    *handlers.SkillHandler
	Role     *handlers.RoleHandler
	Analysis *handlers.AnalysisHandler
}

func wireHandlers(serviceset Services) Handlers {
	return Handlers{
		Auth:     handlers.NewAuthHandler(serviceset.Auth),
		User:     handlers.NewUserHandler(serviceset.User),
		Skill:    handlers.NewSkillHandler(serviceset.Skill),
		Role:     handlers.NewRoleHandler(serviceset.Role),
		Analysis: handlers.NewAnalysisHandler(serviceset.Analysis),
	}
}
