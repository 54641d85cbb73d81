package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Match tiers recorded on gaps and in the skill-match audit trail.
const (
	MatchTypeExact        = "exact"
	MatchTypeSimilar      = "similar"
	MatchTypeTransferable = "transferable"
)

// SkillGap is one unmet requirement inside an analysis. It is embedded in
// the analysis row as jsonb, never stored as its own table. MatchedUserSkill
// is set only when credit came from a differently-named user skill.
type SkillGap struct {
	SkillName        string   `json:"skill_name"`
	CurrentLevel     int      `json:"current_level"`
	RequiredLevel    int      `json:"required_level"`
	Gap              int      `json:"gap"`
	Priority         string   `json:"priority"`
	MatchedUserSkill string   `json:"matched_user_skill,omitempty"`
	Recommendations  []string `json:"recommendations,omitempty"`
}

// SkillMatch is one audit-trail entry for a non-exact match, kept for
// display and debugging.
type SkillMatch struct {
	RequiredSkill string `json:"required_skill"`
	UserSkill     string `json:"user_skill"`
	MatchType     string `json:"match_type"`
	CreditedLevel int    `json:"credited_level"`
}

// SkillGapAnalysis is the persisted outcome of one readiness computation.
// Exactly one row exists per (role, user); recomputes overwrite in place.
type SkillGapAnalysis struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index:idx_role_user_analysis,unique" json:"user_id"`
	User             *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	RoleID           uuid.UUID      `gorm:"type:uuid;not null;index:idx_role_user_analysis,unique" json:"role_id"`
	Role             *TargetRole    `gorm:"constraint:OnDelete:CASCADE;foreignKey:RoleID;references:ID" json:"role,omitempty"`
	OverallReadiness int            `gorm:"column:overall_readiness;not null" json:"overall_readiness"`
	CriticalGaps     datatypes.JSON `gorm:"type:jsonb;column:critical_gaps" json:"critical_gaps"`
	Recommendations  datatypes.JSON `gorm:"type:jsonb;column:recommendations" json:"recommendations"`
	SkillMatches     datatypes.JSON `gorm:"type:jsonb;column:skill_matches" json:"skill_matches"`
	AnalyzedAt       time.Time      `gorm:"column:analyzed_at;not null" json:"analyzed_at"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (SkillGapAnalysis) TableName() string { return "skill_gap_analysis" }
