package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rolefit/rolefit-backend/internal/logger"
	"github.com/rolefit/rolefit-backend/internal/types"
)

type RequiredSkillRepo interface {
	// ListByRoleID returns the role's requirements in the order they were
	// supplied (Position ascending).
	ListByRoleID(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) ([]*types.RequiredSkill, error)
	// CreateBatch persists a generated requirement list. Positions are
	// assigned from slice order.
	CreateBatch(ctx context.Context, tx *gorm.DB, roleID uuid.UUID, skills []*types.RequiredSkill) error
}

type requiredSkillRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRequiredSkillRepo(db *gorm.DB, baseLog *logger.Logger) RequiredSkillRepo {
	repoLog := baseLog.With("repo", "RequiredSkillRepo")
	return &requiredSkillRepo{db: db, log: repoLog}
}

func (rr *requiredSkillRepo) ListByRoleID(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) ([]*types.RequiredSkill, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.RequiredSkill
	if roleID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("role_id = ?", roleID).
		Order("position ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *requiredSkillRepo) CreateBatch(ctx context.Context, tx *gorm.DB, roleID uuid.UUID, skills []*types.RequiredSkill) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if roleID == uuid.Nil || len(skills) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i, rs := range skills {
		if rs.ID == uuid.Nil {
			rs.ID = uuid.New()
		}
		rs.RoleID = roleID
		rs.Position = i
		if rs.CreatedAt.IsZero() {
			rs.CreatedAt = now
		}
		rs.UpdatedAt = now
	}
	return transaction.WithContext(ctx).Create(&skills).Error
}
