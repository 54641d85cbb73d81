package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rolefit/rolefit-backend/internal/logger"
	"github.com/rolefit/rolefit-backend/internal/types"
)

type SkillGapAnalysisRepo interface {
	// Upsert writes the single analysis row for (role, user), overwriting any
	// prior row in place. The write is one statement, so concurrent writers
	// for the same pair resolve last-writer-wins by commit order.
	Upsert(ctx context.Context, tx *gorm.DB, analysis *types.SkillGapAnalysis) error
	// GetByRoleAndUser returns the stored analysis, or nil when the pair has
	// never been analyzed. Reads never mutate the row.
	GetByRoleAndUser(ctx context.Context, tx *gorm.DB, roleID uuid.UUID, userID uuid.UUID) (*types.SkillGapAnalysis, error)
}

type skillGapAnalysisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillGapAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) SkillGapAnalysisRepo {
	repoLog := baseLog.With("repo", "SkillGapAnalysisRepo")
	return &skillGapAnalysisRepo{db: db, log: repoLog}
}

func (ar *skillGapAnalysisRepo) Upsert(ctx context.Context, tx *gorm.DB, analysis *types.SkillGapAnalysis) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if analysis == nil || analysis.UserID == uuid.Nil || analysis.RoleID == uuid.Nil {
		return nil
	}
	if analysis.ID == uuid.Nil {
		analysis.ID = uuid.New()
	}
	now := time.Now().UTC()
	if analysis.AnalyzedAt.IsZero() {
		analysis.AnalyzedAt = now
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = now
	}
	analysis.UpdatedAt = now
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "role_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"overall_readiness", "critical_gaps", "recommendations",
				"skill_matches", "analyzed_at", "updated_at",
			}),
		}).
		Create(analysis).Error
}

func (ar *skillGapAnalysisRepo) GetByRoleAndUser(ctx context.Context, tx *gorm.DB, roleID uuid.UUID, userID uuid.UUID) (*types.SkillGapAnalysis, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if roleID == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	var row types.SkillGapAnalysis
	err := transaction.WithContext(ctx).
		Where("role_id = ? AND user_id = ?", roleID, userID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}
