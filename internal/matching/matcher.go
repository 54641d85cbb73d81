package matching

import (
	"strings"

	"github.com/rolefit/rolefit-backend/internal/normalization"
	"github.com/rolefit/rolefit-backend/internal/types"
)

// Match is the outcome of matching one required skill against a user's
// skill set. MatchedSkillName is the user skill's display name; transferable
// matches carry a " (transferable)" qualifier. Contribution is the
// proficiency level credited toward the requirement.
type Match struct {
	UserSkill        *types.SkillRecord
	MatchedSkillName string
	MatchType        string
	Contribution     int
}

// MatchSkill finds the user skill that best corresponds to requiredName,
// evaluating three tiers in strict order: exact normalized equality, then
// similar (substring or shared alias-table entry), then transferable
// (shared category, half credit rounded down). The first hit in a tier wins
// and later tiers are not consulted. Returns nil when no tier matches;
// absence of a match is a normal outcome, not an error.
func MatchSkill(requiredName string, userSkills []*types.SkillRecord) *Match {
	normRequired := normalization.NormalizeSkillName(requiredName)
	if normRequired == "" {
		return nil
	}

	// Tier 1: exact.
	for _, us := range userSkills {
		if normalization.NormalizeSkillName(us.SkillName) == normRequired {
			return &Match{
				UserSkill:        us,
				MatchedSkillName: us.SkillName,
				MatchType:        types.MatchTypeExact,
				Contribution:     us.ProficiencyLevel,
			}
		}
	}

	// Tier 2: similar. Substring in either direction, or both names in the
	// same alias-table entry. Full credit.
	for _, us := range userSkills {
		normUser := normalization.NormalizeSkillName(us.SkillName)
		if normUser == "" {
			continue
		}
		if strings.Contains(normUser, normRequired) ||
			strings.Contains(normRequired, normUser) ||
			sameAliasGroup(normRequired, normUser) {
			return &Match{
				UserSkill:        us,
				MatchedSkillName: us.SkillName,
				MatchType:        types.MatchTypeSimilar,
				Contribution:     us.ProficiencyLevel,
			}
		}
	}

	// Tier 3: transferable. The first user skill sharing a category with the
	// requirement wins; there is no scan for the best candidate among
	// several. Credit is half the donor's level, rounded down.
	for _, us := range userSkills {
		normUser := normalization.NormalizeSkillName(us.SkillName)
		if normUser == "" {
			continue
		}
		if sharedCategory(normRequired, normUser) {
			return &Match{
				UserSkill:        us,
				MatchedSkillName: us.SkillName + " (transferable)",
				MatchType:        types.MatchTypeTransferable,
				Contribution:     us.ProficiencyLevel / 2,
			}
		}
	}

	return nil
}
