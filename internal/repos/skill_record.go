package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rolefit/rolefit-backend/internal/logger"
	"github.com/rolefit/rolefit-backend/internal/normalization"
	"github.com/rolefit/rolefit-backend/internal/types"
)

type SkillRecordRepo interface {
	// ListByUserID returns the user's skills in stable insertion order.
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SkillRecord, error)
	// Upsert writes a record; a second write for the same (user, normalized
	// name) updates the existing row instead of creating another, including
	// a soft-deleted one, which it restores.
	Upsert(ctx context.Context, tx *gorm.DB, record *types.SkillRecord) error
	// EnsureExists inserts the record only when no live row exists for the
	// (user, normalized name) pair. Live rows are left untouched; a
	// soft-deleted row is restored with the record's values.
	EnsureExists(ctx context.Context, tx *gorm.DB, record *types.SkillRecord) error
	// Delete removes a record. Only explicit user action reaches this.
	Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID, recordID uuid.UUID) error
}

type skillRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillRecordRepo(db *gorm.DB, baseLog *logger.Logger) SkillRecordRepo {
	repoLog := baseLog.With("repo", "SkillRecordRepo")
	return &skillRecordRepo{db: db, log: repoLog}
}

func (sr *skillRecordRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SkillRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.SkillRecord
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

func (sr *skillRecordRepo) Upsert(ctx context.Context, tx *gorm.DB, record *types.SkillRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if record == nil || record.UserID == uuid.Nil {
		return nil
	}
	prepareSkillRecord(record)
	// The unique index also covers soft-deleted rows, so a re-added skill
	// conflicts with its own tombstone; the update must clear deleted_at or
	// the row stays invisible.
	assignments := clause.AssignmentColumns([]string{
		"proficiency_level", "source", "updated_at",
	})
	assignments = append(assignments, clause.Assignment{
		Column: clause.Column{Name: "deleted_at"},
		Value:  nil,
	})
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "normalized_name"}},
			DoUpdates: assignments,
		}).
		Create(record).Error
}

func (sr *skillRecordRepo) EnsureExists(ctx context.Context, tx *gorm.DB, record *types.SkillRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if record == nil || record.UserID == uuid.Nil {
		return nil
	}
	prepareSkillRecord(record)
	// Live rows are left untouched (the WHERE guard), but a tombstoned row is
	// resurrected with the seeded values so the skill re-enters the profile.
	assignments := clause.AssignmentColumns([]string{
		"proficiency_level", "source", "updated_at",
	})
	assignments = append(assignments, clause.Assignment{
		Column: clause.Column{Name: "deleted_at"},
		Value:  nil,
	})
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "normalized_name"}},
			DoUpdates: assignments,
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "skill_record.deleted_at IS NOT NULL"},
			}},
		}).
		Create(record).Error
}

func (sr *skillRecordRepo) Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID, recordID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if userID == uuid.Nil || recordID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, recordID).
		Delete(&types.SkillRecord{}).Error
}

func prepareSkillRecord(record *types.SkillRecord) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.NormalizedName == "" {
		record.NormalizedName = normalization.NormalizeSkillName(record.SkillName)
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
}
