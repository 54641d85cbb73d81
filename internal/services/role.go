package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rolefit/rolefit-backend/internal/logger"
	apperrors "github.com/rolefit/rolefit-backend/internal/pkg/errors"
	"github.com/rolefit/rolefit-backend/internal/repos"
	"github.com/rolefit/rolefit-backend/internal/types"
)

// RoleService manages a user's target-role instances. A requirement list may
// be supplied at creation; otherwise the first analysis request triggers
// generation.
type RoleService interface {
	CreateRole(ctx context.Context, userID uuid.UUID, title, description string, requirements []*types.RequiredSkill) (*types.TargetRole, error)
	GetRole(ctx context.Context, userID, roleID uuid.UUID) (*types.TargetRole, error)
	ListRoles(ctx context.Context, userID uuid.UUID) ([]*types.TargetRole, error)
	ListRequirements(ctx context.Context, userID, roleID uuid.UUID) ([]*types.RequiredSkill, error)
}

type roleService struct {
	db           *gorm.DB
	log          *logger.Logger
	roleRepo     repos.TargetRoleRepo
	requiredRepo repos.RequiredSkillRepo
}

func NewRoleService(db *gorm.DB, log *logger.Logger, roleRepo repos.TargetRoleRepo, requiredRepo repos.RequiredSkillRepo) RoleService {
	serviceLog := log.With("service", "RoleService")
	return &roleService{
		db:           db,
		log:          serviceLog,
		roleRepo:     roleRepo,
		requiredRepo: requiredRepo,
	}
}

func (rs *roleService) CreateRole(ctx context.Context, userID uuid.UUID, title, description string, requirements []*types.RequiredSkill) (*types.TargetRole, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrInvalidArgument
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: role title required", apperrors.ErrInvalidArgument)
	}

	role := &types.TargetRole{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(description),
	}

	cleaned := make([]*types.RequiredSkill, 0, len(requirements))
	for _, req := range requirements {
		name := strings.TrimSpace(req.SkillName)
		if name == "" {
			continue
		}
		level := req.RequiredLevel
		if level < 1 {
			level = 1
		}
		if level > 5 {
			level = 5
		}
		priority := strings.ToLower(strings.TrimSpace(req.Priority))
		if !types.ValidPriority(priority) {
			priority = types.PriorityMedium
		}
		cleaned = append(cleaned, &types.RequiredSkill{
			SkillName:     name,
			RequiredLevel: level,
			Priority:      priority,
		})
	}

	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rs.roleRepo.Create(ctx, tx, role); err != nil {
			return fmt.Errorf("create role: %w", err)
		}
		if len(cleaned) > 0 {
			if err := rs.requiredRepo.CreateBatch(ctx, tx, role.ID, cleaned); err != nil {
				return fmt.Errorf("persist requirements: %w", err)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return role, nil
}

func (rs *roleService) GetRole(ctx context.Context, userID, roleID uuid.UUID) (*types.TargetRole, error) {
	if userID == uuid.Nil || roleID == uuid.Nil {
		return nil, apperrors.ErrInvalidArgument
	}
	role, err := rs.roleRepo.GetByID(ctx, nil, roleID)
	if err != nil {
		return nil, fmt.Errorf("fetch role: %w", err)
	}
	if role == nil || role.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return role, nil
}

func (rs *roleService) ListRoles(ctx context.Context, userID uuid.UUID) ([]*types.TargetRole, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrInvalidArgument
	}
	return rs.roleRepo.ListByUserID(ctx, nil, userID)
}

func (rs *roleService) ListRequirements(ctx context.Context, userID, roleID uuid.UUID) ([]*types.RequiredSkill, error) {
	if _, err := rs.GetRole(ctx, userID, roleID); err != nil {
		return nil, err
	}
	return rs.requiredRepo.ListByRoleID(ctx, nil, roleID)
}
