package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rolefit/rolefit-backend/internal/logger"
	"github.com/rolefit/rolefit-backend/internal/matching"
	apperrors "github.com/rolefit/rolefit-backend/internal/pkg/errors"
	"github.com/rolefit/rolefit-backend/internal/repos"
	"github.com/rolefit/rolefit-backend/internal/types"
)

// AnalysisService is the readiness engine: it matches a user's skills
// against a role's requirements, scores the result and persists exactly one
// analysis per (role, user) pair.
type AnalysisService interface {
	// Recompute runs the full pipeline and overwrites the stored analysis
	// for the pair. Concurrent recomputes for the same pair are coalesced.
	Recompute(ctx context.Context, userID, roleID uuid.UUID) (*types.SkillGapAnalysis, error)
	// GetLatest returns the most recently stored analysis without any
	// computation, or ErrNotFound when the pair was never analyzed.
	GetLatest(ctx context.Context, userID, roleID uuid.UUID) (*types.SkillGapAnalysis, error)
}

type analysisService struct {
	db           *gorm.DB
	log          *logger.Logger
	roleRepo     repos.TargetRoleRepo
	requiredRepo repos.RequiredSkillRepo
	skillRepo    repos.SkillRecordRepo
	analysisRepo repos.SkillGapAnalysisRepo
	reqGen       RequirementGenerator
	recGen       RecommendationGenerator
	cache        AnalysisCache

	inflight singleflight.Group
}

func NewAnalysisService(
	db *gorm.DB,
	log *logger.Logger,
	roleRepo repos.TargetRoleRepo,
	requiredRepo repos.RequiredSkillRepo,
	skillRepo repos.SkillRecordRepo,
	analysisRepo repos.SkillGapAnalysisRepo,
	reqGen RequirementGenerator,
	recGen RecommendationGenerator,
	cache AnalysisCache,
) AnalysisService {
	serviceLog := log.With("service", "AnalysisService")
	return &analysisService{
		db:           db,
		log:          serviceLog,
		roleRepo:     roleRepo,
		requiredRepo: requiredRepo,
		skillRepo:    skillRepo,
		analysisRepo: analysisRepo,
		reqGen:       reqGen,
		recGen:       recGen,
		cache:        cache,
	}
}

func (as *analysisService) Recompute(ctx context.Context, userID, roleID uuid.UUID) (*types.SkillGapAnalysis, error) {
	if userID == uuid.Nil || roleID == uuid.Nil {
		return nil, apperrors.ErrInvalidArgument
	}
	// Coalesce concurrent recomputes for the same pair so partial writes
	// cannot interleave in-process; the store upsert itself is atomic.
	key := roleID.String() + ":" + userID.String()
	result, err, _ := as.inflight.Do(key, func() (interface{}, error) {
		return as.recompute(ctx, userID, roleID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*types.SkillGapAnalysis), nil
}

func (as *analysisService) recompute(ctx context.Context, userID, roleID uuid.UUID) (*types.SkillGapAnalysis, error) {
	role, err := as.roleRepo.GetByID(ctx, nil, roleID)
	if err != nil {
		return nil, fmt.Errorf("fetch role: %w", err)
	}
	if role == nil || role.UserID != userID {
		return nil, apperrors.ErrNotFound
	}

	required, err := as.ensureRequirements(ctx, role)
	if err != nil {
		return nil, err
	}

	userSkills, err := as.skillRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user skills: %w", err)
	}

	// An empty skill set is not an error: every requirement simply gaps at
	// its full level and readiness lands at 0.
	gaps := make([]types.SkillGap, 0, len(required))
	matches := make([]types.SkillMatch, 0)

	creditSum := 0
	requiredSum := 0
	for _, rs := range required {
		match := matching.MatchSkill(rs.SkillName, userSkills)

		currentLevel := 0
		matchedUserSkill := ""
		if match != nil {
			currentLevel = match.Contribution
			if match.MatchType != types.MatchTypeExact {
				matchedUserSkill = match.MatchedSkillName
				matches = append(matches, types.SkillMatch{
					RequiredSkill: rs.SkillName,
					UserSkill:     match.MatchedSkillName,
					MatchType:     match.MatchType,
					CreditedLevel: match.Contribution,
				})
			}
		}

		requiredSum += rs.RequiredLevel
		credit := currentLevel
		if credit > rs.RequiredLevel {
			credit = rs.RequiredLevel
		}
		creditSum += credit

		gap := rs.RequiredLevel - currentLevel
		if gap < 0 {
			gap = 0
		}
		if gap > 0 {
			gaps = append(gaps, types.SkillGap{
				SkillName:        rs.SkillName,
				CurrentLevel:     currentLevel,
				RequiredLevel:    rs.RequiredLevel,
				Gap:              gap,
				Priority:         rs.Priority,
				MatchedUserSkill: matchedUserSkill,
			})
		}

		// A requirement nothing in the profile covers is seeded into the
		// profile at level 0 so it is the first thing the user is prompted
		// to self-rate. Matched requirements are left alone: seeding them
		// would hand the next run a zero-level exact hit that shadows the
		// credited match. Existing records are never touched.
		if match == nil {
			autoAdd := &types.SkillRecord{
				UserID:           userID,
				SkillName:        rs.SkillName,
				ProficiencyLevel: 0,
				Source:           types.SkillSourceRoleRequirement,
			}
			if err := as.skillRepo.EnsureExists(ctx, nil, autoAdd); err != nil {
				return nil, fmt.Errorf("auto-add required skill %q: %w", rs.SkillName, err)
			}
		}
	}

	readiness := computeReadiness(creditSum, requiredSum)
	orderGaps(gaps)

	roleLevelRecs := as.enrichWithRecommendations(ctx, role, gaps)

	analysis := &types.SkillGapAnalysis{
		UserID:           userID,
		RoleID:           roleID,
		OverallReadiness: readiness,
		AnalyzedAt:       time.Now().UTC(),
	}
	if analysis.CriticalGaps, err = marshalJSONField(gaps); err != nil {
		return nil, err
	}
	if analysis.SkillMatches, err = marshalJSONField(matches); err != nil {
		return nil, err
	}
	if analysis.Recommendations, err = marshalJSONField(roleLevelRecs); err != nil {
		return nil, err
	}

	// A failed write is surfaced as-is: the previous stored analysis, if
	// any, stays authoritative.
	if err := as.analysisRepo.Upsert(ctx, nil, analysis); err != nil {
		return nil, fmt.Errorf("persist analysis: %w", err)
	}

	if as.cache != nil {
		if err := as.cache.Invalidate(ctx, roleID, userID); err != nil {
			as.log.Warn("Cache invalidate failed", "role_id", roleID, "user_id", userID, "error", err)
		}
		if err := as.cache.Set(ctx, analysis); err != nil {
			as.log.Warn("Cache set failed", "role_id", roleID, "user_id", userID, "error", err)
		}
	}

	as.log.Info("Analysis recomputed",
		"role_id", roleID,
		"user_id", userID,
		"readiness", readiness,
		"gap_count", len(gaps),
	)
	return analysis, nil
}

// ensureRequirements returns the role's stored requirement list, generating
// and persisting one first when the role has none. Generation failure is a
// retryable "requirements unavailable" condition; no partial analysis is
// stored and an empty stored list is never fabricated.
func (as *analysisService) ensureRequirements(ctx context.Context, role *types.TargetRole) ([]*types.RequiredSkill, error) {
	required, err := as.requiredRepo.ListByRoleID(ctx, nil, role.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch requirements: %w", err)
	}
	if len(required) > 0 {
		return required, nil
	}

	if as.reqGen == nil {
		return nil, apperrors.ErrRequirementsUnavailable
	}
	generated, err := as.reqGen.GenerateForRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRequirementsUnavailable, err)
	}
	if len(generated) == 0 {
		return nil, apperrors.ErrRequirementsUnavailable
	}

	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return as.requiredRepo.CreateBatch(ctx, tx, role.ID, generated)
	}); err != nil {
		return nil, fmt.Errorf("persist requirements: %w", err)
	}
	return generated, nil
}

// enrichWithRecommendations merges per-skill remediation text into the gap
// list by exact skill-name lookup and returns the role-level list. Failures
// degrade to empty recommendations; remediation text is enrichment, not a
// correctness dependency.
func (as *analysisService) enrichWithRecommendations(ctx context.Context, role *types.TargetRole, gaps []types.SkillGap) []string {
	if as.recGen == nil || len(gaps) == 0 {
		return []string{}
	}
	recs, err := as.recGen.GenerateForGaps(ctx, role, gaps)
	if err != nil || recs == nil {
		as.log.Warn("Recommendation generation failed, continuing without", "role_id", role.ID, "error", err)
		return []string{}
	}
	for i := range gaps {
		if suggestions, ok := recs.PerSkill[gaps[i].SkillName]; ok {
			gaps[i].Recommendations = suggestions
		}
	}
	if recs.RoleLevel == nil {
		return []string{}
	}
	return recs.RoleLevel
}

func (as *analysisService) GetLatest(ctx context.Context, userID, roleID uuid.UUID) (*types.SkillGapAnalysis, error) {
	if userID == uuid.Nil || roleID == uuid.Nil {
		return nil, apperrors.ErrInvalidArgument
	}
	if as.cache != nil {
		cached, err := as.cache.Get(ctx, roleID, userID)
		if err != nil {
			as.log.Warn("Cache get failed, falling back to store", "role_id", roleID, "user_id", userID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	stored, err := as.analysisRepo.GetByRoleAndUser(ctx, nil, roleID, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch analysis: %w", err)
	}
	if stored == nil {
		return nil, apperrors.ErrNotFound
	}
	if as.cache != nil {
		if err := as.cache.Set(ctx, stored); err != nil {
			as.log.Warn("Cache set failed", "role_id", roleID, "user_id", userID, "error", err)
		}
	}
	return stored, nil
}

// computeReadiness is the 0-100 "% of required capability present" score.
// Per-skill credit caps at the requirement so over-qualification on one
// skill cannot offset a deficit on another.
func computeReadiness(creditSum, requiredSum int) int {
	if requiredSum <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(creditSum) / float64(requiredSum)))
}

// orderGaps sorts by priority rank ascending, then gap magnitude descending.
// The sort is stable, so ties keep requirement insertion order and repeated
// analyses with unchanged inputs produce identical ordering.
func orderGaps(gaps []types.SkillGap) {
	sort.SliceStable(gaps, func(i, j int) bool {
		ri, rj := types.PriorityRank(gaps[i].Priority), types.PriorityRank(gaps[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return gaps[i].Gap > gaps[j].Gap
	})
}

func marshalJSONField(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode analysis field: %w", err)
	}
	return datatypes.JSON(raw), nil
}
