package types

import (
	"time"

	"github.com/google/uuid"
)

// RequiredSkill priority tiers.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// PriorityRank maps a priority tier to its sort rank. Critical sorts first.
// Unknown values rank with low.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// ValidPriority reports whether priority is one of the four known tiers.
func ValidPriority(priority string) bool {
	switch priority {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// RequiredSkill is one skill a TargetRole demands. Rows are written once per
// role instance and treated as immutable afterward; Position preserves the
// order the requirement list was supplied in.
type RequiredSkill struct {
	ID            uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoleID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"role_id"`
	Role          *TargetRole `gorm:"constraint:OnDelete:CASCADE;foreignKey:RoleID;references:ID" json:"role,omitempty"`
	SkillName     string      `gorm:"column:skill_name;not null" json:"skill_name"`
	RequiredLevel int         `gorm:"column:required_level;not null" json:"required_level"`
	Priority      string      `gorm:"column:priority;not null" json:"priority"`
	Position      int         `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt     time.Time   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (RequiredSkill) TableName() string { return "required_skill" }
