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

// SkillProfileService is the user-facing skill inventory: list, add/update,
// re-rate and remove. Adding a skill whose normalized name the user already
// has updates the existing record instead of creating a duplicate.
type SkillProfileService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.SkillRecord, error)
	UpsertSkill(ctx context.Context, userID uuid.UUID, skillName string, proficiencyLevel int, source string) (*types.SkillRecord, error)
	UpsertSkills(ctx context.Context, userID uuid.UUID, records []*types.SkillRecord) error
	RemoveSkill(ctx context.Context, userID uuid.UUID, recordID uuid.UUID) error
}

type skillProfileService struct {
	db        *gorm.DB
	log       *logger.Logger
	skillRepo repos.SkillRecordRepo
}

func NewSkillProfileService(db *gorm.DB, log *logger.Logger, skillRepo repos.SkillRecordRepo) SkillProfileService {
	serviceLog := log.With("service", "SkillProfileService")
	return &skillProfileService{
		db:        db,
		log:       serviceLog,
		skillRepo: skillRepo,
	}
}

var validSkillSources = map[string]struct{}{
	types.SkillSourceManual:          {},
	types.SkillSourceDocumentImport:  {},
	types.SkillSourceProfileImport:   {},
	types.SkillSourceRoleRequirement: {},
	types.SkillSourceAssessment:      {},
}

func (sp *skillProfileService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.SkillRecord, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrInvalidArgument
	}
	return sp.skillRepo.ListByUserID(ctx, nil, userID)
}

func (sp *skillProfileService) UpsertSkill(ctx context.Context, userID uuid.UUID, skillName string, proficiencyLevel int, source string) (*types.SkillRecord, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrInvalidArgument
	}
	name := strings.TrimSpace(skillName)
	if name == "" {
		return nil, fmt.Errorf("%w: skill name required", apperrors.ErrInvalidArgument)
	}
	if proficiencyLevel < 0 || proficiencyLevel > 5 {
		return nil, fmt.Errorf("%w: proficiency level must be 0-5", apperrors.ErrInvalidArgument)
	}
	if source == "" {
		source = types.SkillSourceManual
	}
	if _, ok := validSkillSources[source]; !ok {
		return nil, fmt.Errorf("%w: unknown skill source %q", apperrors.ErrInvalidArgument, source)
	}

	record := &types.SkillRecord{
		UserID:           userID,
		SkillName:        name,
		ProficiencyLevel: proficiencyLevel,
		Source:           source,
	}
	if err := sp.skillRepo.Upsert(ctx, nil, record); err != nil {
		return nil, fmt.Errorf("upsert skill: %w", err)
	}
	return record, nil
}

func (sp *skillProfileService) UpsertSkills(ctx context.Context, userID uuid.UUID, records []*types.SkillRecord) error {
	if userID == uuid.Nil {
		return apperrors.ErrInvalidArgument
	}
	if len(records) == 0 {
		return nil
	}
	return sp.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			record.UserID = userID
			record.SkillName = strings.TrimSpace(record.SkillName)
			if record.SkillName == "" {
				continue
			}
			if record.ProficiencyLevel < 0 {
				record.ProficiencyLevel = 0
			}
			if record.ProficiencyLevel > 5 {
				record.ProficiencyLevel = 5
			}
			if record.Source == "" {
				record.Source = types.SkillSourceManual
			}
			if err := sp.skillRepo.Upsert(ctx, tx, record); err != nil {
				return fmt.Errorf("upsert skill %q: %w", record.SkillName, err)
			}
		}
		return nil
	})
}

func (sp *skillProfileService) RemoveSkill(ctx context.Context, userID uuid.UUID, recordID uuid.UUID) error {
	if userID == uuid.Nil || recordID == uuid.Nil {
		return apperrors.ErrInvalidArgument
	}
	return sp.skillRepo.Delete(ctx, nil, userID, recordID)
}
