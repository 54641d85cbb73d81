package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rolefit/rolefit-backend/internal/logger"
	"github.com/rolefit/rolefit-backend/internal/types"
)

type TargetRoleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, role *types.TargetRole) error
	GetByID(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) (*types.TargetRole, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TargetRole, error)
}

type targetRoleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTargetRoleRepo(db *gorm.DB, baseLog *logger.Logger) TargetRoleRepo {
	repoLog := baseLog.With("repo", "TargetRoleRepo")
	return &targetRoleRepo{db: db, log: repoLog}
}

func (tr *targetRoleRepo) Create(ctx context.Context, tx *gorm.DB, role *types.TargetRole) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if role == nil {
		return nil
	}
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(role).Error; err != nil {
		return classifyErr(err)
	}
	return nil
}

func (tr *targetRoleRepo) GetByID(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) (*types.TargetRole, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if roleID == uuid.Nil {
		return nil, nil
	}
	var row types.TargetRole
	err := transaction.WithContext(ctx).
		Where("id = ?", roleID).
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

func (tr *targetRoleRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TargetRole, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.TargetRole
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
