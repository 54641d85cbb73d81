package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/rolefit/rolefit-backend/internal/logger"
	"github.com/rolefit/rolefit-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	User     services.UserService
	Skill    services.SkillProfileService
	Role     services.RoleService
	Analysis services.AnalysisService
	Cache    services.AnalysisCache
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	aiClient, err := services.NewAIClient(log)
	if err != nil {
		return Services{}, fmt.Errorf("init ai client: %w", err)
	}
	reqGen := services.NewAIRequirementGenerator(log, aiClient)
	recGen := services.NewAIRecommendationGenerator(log, aiClient)

	// The store stays authoritative; no Redis just means every read hits it.
	cache, err := services.NewRedisAnalysisCache(log)
	if err != nil {
		log.Warn("Analysis cache disabled", "error", err)
		cache = nil
	}

	authService := services.NewAuthService(
		db, log,
		reposet.User, reposet.Token,
		cfg.JWTSecretKey, cfg.AccessTTL, cfg.RefreshTTL,
	)
	analysisService := services.NewAnalysisService(
		db, log,
		reposet.Role, reposet.Required, reposet.Skill, reposet.Analysis,
		reqGen, recGen, cache,
	)

	return Services{
		Auth:     authService,
		User:     services.NewUserService(db, log, reposet.User),
		Skill:    services.NewSkillProfileService(db, log, reposet.Skill),
		Role:     services.NewRoleService(db, log, reposet.Role, reposet.Required),
		Analysis: analysisService,
		Cache:    cache,
	}, nil
}
