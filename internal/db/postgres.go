package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rolefit/rolefit-backend/internal/logger"
	"github.com/rolefit/rolefit-backend/internal/types"
	"github.com/rolefit/rolefit-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "rolefit", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.SkillRecord{},
		&types.TargetRole{},
		&types.RequiredSkill{},
		&types.SkillGapAnalysis{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	constraints := []struct {
		name string
		stmt string
	}{
		{"fk_user_token_user_id", `
			ALTER TABLE "user_token"
			ADD CONSTRAINT "fk_user_token_user_id"
			FOREIGN KEY ("user_id") REFERENCES "user"("id")
			ON DELETE CASCADE`},
		{"fk_skill_record_user_id", `
			ALTER TABLE "skill_record"
			ADD CONSTRAINT "fk_skill_record_user_id"
			FOREIGN KEY ("user_id") REFERENCES "user"("id")
			ON DELETE CASCADE`},
		{"fk_target_role_user_id", `
			ALTER TABLE "target_role"
			ADD CONSTRAINT "fk_target_role_user_id"
			FOREIGN KEY ("user_id") REFERENCES "user"("id")
			ON DELETE CASCADE`},
		{"fk_required_skill_role_id", `
			ALTER TABLE "required_skill"
			ADD CONSTRAINT "fk_required_skill_role_id"
			FOREIGN KEY ("role_id") REFERENCES "target_role"("id")
			ON DELETE CASCADE`},
		{"fk_skill_gap_analysis_role_id", `
			ALTER TABLE "skill_gap_analysis"
			ADD CONSTRAINT "fk_skill_gap_analysis_role_id"
			FOREIGN KEY ("role_id") REFERENCES "target_role"("id")
			ON DELETE CASCADE`},
	}
	for _, con := range constraints {
		exists, err := s.constraintExists(con.name)
		if err != nil {
			return fmt.Errorf("check constraint %s: %w", con.name, err)
		}
		if exists {
			continue
		}
		if err := s.db.Exec(con.stmt).Error; err != nil {
			return fmt.Errorf("add %s: %w", con.name, err)
		}
	}
	return nil
}

func (s *PostgresService) constraintExists(name string) (bool, error) {
	var count int64
	err := s.db.Raw(
		`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`, name,
	).Scan(&count).Error
	return count > 0, err
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
