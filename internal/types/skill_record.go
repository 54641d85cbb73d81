package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SkillRecord provenance values.
const (
	SkillSourceManual          = "manual"
	SkillSourceDocumentImport  = "document_import"
	SkillSourceProfileImport   = "profile_import"
	SkillSourceRoleRequirement = "role_requirement"
	SkillSourceAssessment      = "assessment"
)

// SkillRecord is one self-reported skill for a user. SkillName keeps the
// user's original formatting; NormalizedName exists only to enforce the
// one-record-per-(user, normalized name) invariant. ProficiencyLevel 0 means
// the skill was required by a role but not yet self-rated; 1-5 is
// Beginner through Expert.
type SkillRecord struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index;index:idx_user_normalized_skill,unique" json:"user_id"`
	User             *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	SkillName        string         `gorm:"column:skill_name;not null" json:"skill_name"`
	NormalizedName   string         `gorm:"column:normalized_name;not null;index:idx_user_normalized_skill,unique" json:"-"`
	ProficiencyLevel int            `gorm:"column:proficiency_level;not null;default:0" json:"proficiency_level"`
	Source           string         `gorm:"column:source;not null" json:"source"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SkillRecord) TableName() string { return "skill_record" }
