package app

import (
	"gorm.io/gorm"

	"github.com/rolefit/rolefit-backend/internal/logger"
	"github.com/rolefit/rolefit-backend/internal/repos"
)

type Repos struct {
	User     repos.UserRepo
	Token    repos.UserTokenRepo
	Skill    repos.SkillRecordRepo
	Role     repos.TargetRoleRepo
	Required repos.RequiredSkillRepo
	Analysis repos.SkillGapAnalysisRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		User:     repos.NewUserRepo(db, log),
		Token:    repos.NewUserTokenRepo(db, log),
		Skill:    repos.NewSkillRecordRepo(db, log),
		Role:     repos.NewTargetRoleRepo(db, log),
		Required: repos.NewRequiredSkillRepo(db, log),
		Analysis: repos.NewSkillGapAnalysisRepo(db, log),
	}
}
