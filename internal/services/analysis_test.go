package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rolefit/rolefit-backend/internal/logger"
	apperrors "github.com/rolefit/rolefit-backend/internal/pkg/errors"
	"github.com/rolefit/rolefit-backend/internal/repos"
	"github.com/rolefit/rolefit-backend/internal/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	ddl := []string{
		`DROP TABLE IF EXISTS skill_record`,
		`DROP TABLE IF EXISTS skill_gap_analysis`,
		`DROP TABLE IF EXISTS required_skill`,
		`DROP TABLE IF EXISTS target_role`,
		`CREATE TABLE skill_record (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			skill_name TEXT NOT NULL,
			normalized_name TEXT NOT NULL,
			proficiency_level INTEGER NOT NULL DEFAULT 0,
			source TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME,
			UNIQUE(user_id, normalized_name)
		)`,
		`CREATE TABLE skill_gap_analysis (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			role_id TEXT NOT NULL,
			overall_readiness INTEGER NOT NULL,
			critical_gaps TEXT,
			recommendations TEXT,
			skill_matches TEXT,
			analyzed_at DATETIME NOT NULL,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE(user_id, role_id)
		)`,
		`CREATE TABLE required_skill (
			id TEXT PRIMARY KEY,
			role_id TEXT NOT NULL,
			skill_name TEXT NOT NULL,
			required_level INTEGER NOT NULL,
			priority TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE target_role (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

type stubRequirementGenerator struct {
	calls  int
	skills []*types.RequiredSkill
	err    error
}

func (s *stubRequirementGenerator) GenerateForRole(ctx context.Context, role *types.TargetRole) ([]*types.RequiredSkill, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.skills, nil
}

type stubRecommendationGenerator struct {
	calls int
	recs  *GapRecommendations
	err   error
}

func (s *stubRecommendationGenerator) GenerateForGaps(ctx context.Context, role *types.TargetRole, gaps []types.SkillGap) (*GapRecommendations, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.recs, nil
}

type engineFixture struct {
	db       *gorm.DB
	log      *logger.Logger
	roles    repos.TargetRoleRepo
	required repos.RequiredSkillRepo
	skill    repos.SkillRecordRepo
	analysis repos.SkillGapAnalysisRepo
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	db := openTestDB(t)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return &engineFixture{
		db:       db,
		log:      log,
		roles:    repos.NewTargetRoleRepo(db, log),
		required: repos.NewRequiredSkillRepo(db, log),
		skill:    repos.NewSkillRecordRepo(db, log),
		analysis: repos.NewSkillGapAnalysisRepo(db, log),
	}
}

func (f *engineFixture) service(t *testing.T, reqGen RequirementGenerator, recGen RecommendationGenerator) AnalysisService {
	t.Helper()
	return NewAnalysisService(f.db, f.log, f.roles, f.required, f.skill, f.analysis, reqGen, recGen, nil)
}

func (f *engineFixture) seedRole(t *testing.T, userID uuid.UUID, title string, reqs []*types.RequiredSkill) *types.TargetRole {
	t.Helper()
	ctx := context.Background()
	role := &types.TargetRole{UserID: userID, Title: title}
	if err := f.roles.Create(ctx, nil, role); err != nil {
		t.Fatalf("create role: %v", err)
	}
	if len(reqs) > 0 {
		if err := f.required.CreateBatch(ctx, nil, role.ID, reqs); err != nil {
			t.Fatalf("create requirements: %v", err)
		}
	}
	return role
}

func (f *engineFixture) seedSkill(t *testing.T, userID uuid.UUID, name string, level int) {
	t.Helper()
	record := &types.SkillRecord{
		UserID:           userID,
		SkillName:        name,
		ProficiencyLevel: level,
		Source:           types.SkillSourceManual,
	}
	if err := f.skill.Upsert(context.Background(), nil, record); err != nil {
		t.Fatalf("seed skill %q: %v", name, err)
	}
}

func decodeGaps(t *testing.T, analysis *types.SkillGapAnalysis) []types.SkillGap {
	t.Helper()
	var gaps []types.SkillGap
	if err := json.Unmarshal(analysis.CriticalGaps, &gaps); err != nil {
		t.Fatalf("decode gaps: %v", err)
	}
	return gaps
}

func decodeMatches(t *testing.T, analysis *types.SkillGapAnalysis) []types.SkillMatch {
	t.Helper()
	var matches []types.SkillMatch
	if err := json.Unmarshal(analysis.SkillMatches, &matches); err != nil {
		t.Fatalf("decode matches: %v", err)
	}
	return matches
}

func TestRecomputeExampleScenario(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	role := f.seedRole(t, userID, "Data Engineer", []*types.RequiredSkill{
		{SkillName: "SQL", RequiredLevel: 4, Priority: types.PriorityCritical},
		{SkillName: "Leadership", RequiredLevel: 3, Priority: types.PriorityHigh},
	})
	f.seedSkill(t, userID, "sql", 2)
	f.seedSkill(t, userID, "Team Management", 4)

	svc := f.service(t, nil, nil)
	analysis, err := svc.Recompute(ctx, userID, role.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}

	// round(100 * (2 + 2) / (4 + 3)) = 57
	if analysis.OverallReadiness != 57 {
		t.Fatalf("readiness = %d, want 57", analysis.OverallReadiness)
	}

	gaps := decodeGaps(t, analysis)
	if len(gaps) != 2 {
		t.Fatalf("gap count = %d, want 2", len(gaps))
	}
	sqlGap := gaps[0]
	if sqlGap.SkillName != "SQL" || sqlGap.CurrentLevel != 2 || sqlGap.Gap != 2 || sqlGap.Priority != types.PriorityCritical {
		t.Fatalf("unexpected first gap: %+v", sqlGap)
	}
	if sqlGap.MatchedUserSkill != "" {
		t.Fatalf("exact match must not record matchedUserSkill, got %q", sqlGap.MatchedUserSkill)
	}
	leadGap := gaps[1]
	if leadGap.SkillName != "Leadership" || leadGap.CurrentLevel != 2 || leadGap.Gap != 1 || leadGap.Priority != types.PriorityHigh {
		t.Fatalf("unexpected second gap: %+v", leadGap)
	}
	if leadGap.MatchedUserSkill != "Team Management (transferable)" {
		t.Fatalf("matchedUserSkill = %q", leadGap.MatchedUserSkill)
	}

	matches := decodeMatches(t, analysis)
	if len(matches) != 1 {
		t.Fatalf("audit trail = %d entries, want 1", len(matches))
	}
	if matches[0].RequiredSkill != "Leadership" || matches[0].MatchType != types.MatchTypeTransferable || matches[0].CreditedLevel != 2 {
		t.Fatalf("unexpected audit entry: %+v", matches[0])
	}

	// Both requirements were covered by a match, so nothing gets seeded into
	// the profile and a second run scores identically.
	records, err := f.skill.ListByUserID(ctx, nil, userID)
	if err != nil {
		t.Fatalf("list skills: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("skill records = %d, matched requirements must not be auto-added", len(records))
	}
	again, err := svc.Recompute(ctx, userID, role.ID)
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	if again.OverallReadiness != 57 {
		t.Fatalf("readiness after recompute = %d, want 57", again.OverallReadiness)
	}
}

func TestRecomputeEmptySkillSetAutoAdds(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	role := f.seedRole(t, userID, "Backend Developer", []*types.RequiredSkill{
		{SkillName: "Python", RequiredLevel: 5, Priority: types.PriorityCritical},
	})

	svc := f.service(t, nil, nil)
	analysis, err := svc.Recompute(ctx, userID, role.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if analysis.OverallReadiness != 0 {
		t.Fatalf("readiness = %d, want 0", analysis.OverallReadiness)
	}

	gaps := decodeGaps(t, analysis)
	if len(gaps) != 1 {
		t.Fatalf("gap count = %d, want 1", len(gaps))
	}
	if gaps[0].SkillName != "Python" || gaps[0].CurrentLevel != 0 || gaps[0].Gap != 5 {
		t.Fatalf("unexpected gap: %+v", gaps[0])
	}

	records, err := f.skill.ListByUserID(ctx, nil, userID)
	if err != nil {
		t.Fatalf("list skills: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("skill records = %d, want auto-added Python", len(records))
	}
	if records[0].SkillName != "Python" || records[0].ProficiencyLevel != 0 || records[0].Source != types.SkillSourceRoleRequirement {
		t.Fatalf("unexpected auto-added record: %+v", records[0])
	}
}

func TestRecomputeReseedsDeletedAutoAdd(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	role := f.seedRole(t, userID, "Backend Developer", []*types.RequiredSkill{
		{SkillName: "Python", RequiredLevel: 5, Priority: types.PriorityCritical},
	})

	svc := f.service(t, nil, nil)
	if _, err := svc.Recompute(ctx, userID, role.ID); err != nil {
		t.Fatalf("first recompute: %v", err)
	}

	records, err := f.skill.ListByUserID(ctx, nil, userID)
	if err != nil {
		t.Fatalf("list skills: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("skill records = %d, want 1", len(records))
	}
	if err := f.skill.Delete(ctx, nil, userID, records[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Deleting the seeded record must not lock the skill out of the profile;
	// the next recompute restores it through the soft-delete tombstone.
	if _, err := svc.Recompute(ctx, userID, role.ID); err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	records, err = f.skill.ListByUserID(ctx, nil, userID)
	if err != nil {
		t.Fatalf("list skills: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("skill records after reseed = %d, want 1", len(records))
	}
	if records[0].SkillName != "Python" || records[0].ProficiencyLevel != 0 || records[0].Source != types.SkillSourceRoleRequirement {
		t.Fatalf("unexpected reseeded record: %+v", records[0])
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	role := f.seedRole(t, userID, "Platform Engineer", []*types.RequiredSkill{
		{SkillName: "Kubernetes", RequiredLevel: 4, Priority: types.PriorityCritical},
		{SkillName: "Terraform", RequiredLevel: 3, Priority: types.PriorityHigh},
		{SkillName: "Communication", RequiredLevel: 3, Priority: types.PriorityMedium},
	})
	f.seedSkill(t, userID, "k8s", 2)
	f.seedSkill(t, userID, "Public Speaking", 4)

	svc := f.service(t, nil, nil)
	first, err := svc.Recompute(ctx, userID, role.ID)
	if err != nil {
		t.Fatalf("first recompute: %v", err)
	}
	second, err := svc.Recompute(ctx, userID, role.ID)
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}

	if first.OverallReadiness != second.OverallReadiness {
		t.Fatalf("readiness differs: %d vs %d", first.OverallReadiness, second.OverallReadiness)
	}
	if !bytes.Equal(first.CriticalGaps, second.CriticalGaps) {
		t.Fatalf("gap payload differs:\n%s\n%s", first.CriticalGaps, second.CriticalGaps)
	}
	if !bytes.Equal(first.SkillMatches, second.SkillMatches) {
		t.Fatalf("match payload differs:\n%s\n%s", first.SkillMatches, second.SkillMatches)
	}

	var count int64
	if err := f.db.Model(&types.SkillGapAnalysis{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("analysis rows = %d, recompute must update not append", count)
	}
}

func TestRecomputeFullySatisfiedIsHundred(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	role := f.seedRole(t, userID, "Analyst", []*types.RequiredSkill{
		{SkillName: "Excel", RequiredLevel: 3, Priority: types.PriorityMedium},
		{SkillName: "SQL", RequiredLevel: 2, Priority: types.PriorityHigh},
	})
	// Over-qualified on one skill; credit caps at the requirement.
	f.seedSkill(t, userID, "Excel", 5)
	f.seedSkill(t, userID, "SQL", 2)

	svc := f.service(t, nil, nil)
	analysis, err := svc.Recompute(ctx, userID, role.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if analysis.OverallReadiness != 100 {
		t.Fatalf("readiness = %d, want 100", analysis.OverallReadiness)
	}
	if gaps := decodeGaps(t, analysis); len(gaps) != 0 {
		t.Fatalf("satisfied skills must not appear in criticalGaps: %+v", gaps)
	}
	// Empty is a real, stored result, distinct from never-analyzed.
	if string(analysis.CriticalGaps) != "[]" {
		t.Fatalf("empty gap list must encode as [], got %s", analysis.CriticalGaps)
	}
}

func TestRecomputeOverqualificationDoesNotOffset(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	role := f.seedRole(t, userID, "Analyst", []*types.RequiredSkill{
		{SkillName: "Excel", RequiredLevel: 2, Priority: types.PriorityMedium},
		{SkillName: "Statistics", RequiredLevel: 4, Priority: types.PriorityHigh},
	})
	f.seedSkill(t, userID, "Excel", 5)

	svc := f.service(t, nil, nil)
	analysis, err := svc.Recompute(ctx, userID, role.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	// credit = min(5,2) + 0 = 2 of 6 -> 33, not (5+0)/6.
	if analysis.OverallReadiness != 33 {
		t.Fatalf("readiness = %d, want 33", analysis.OverallReadiness)
	}
}

func TestRecomputeGeneratesRequirementsOnce(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	role := f.seedRole(t, userID, "SRE", nil)

	gen := &stubRequirementGenerator{skills: []*types.RequiredSkill{
		{SkillName: "Linux", RequiredLevel: 4, Priority: types.PriorityCritical},
		{SkillName: "Monitoring", RequiredLevel: 3, Priority: types.PriorityHigh},
	}}
	svc := f.service(t, gen, nil)

	if _, err := svc.Recompute(ctx, userID, role.ID); err != nil {
		t.Fatalf("first recompute: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}

	stored, err := f.required.ListByRoleID(ctx, nil, role.ID)
	if err != nil {
		t.Fatalf("list requirements: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("persisted requirements = %d, want 2", len(stored))
	}

	// Requirements are immutable once stored; no regeneration.
	if _, err := svc.Recompute(ctx, userID, role.ID); err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("generator called again (%d), requirements must be reused", gen.calls)
	}
}

func TestRecomputeRequirementsUnavailable(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	role := f.seedRole(t, userID, "Unknown Role", nil)

	gen := &stubRequirementGenerator{err: errors.New("provider timeout")}
	svc := f.service(t, gen, nil)

	_, err := svc.Recompute(ctx, userID, role.ID)
	if !errors.Is(err, apperrors.ErrRequirementsUnavailable) {
		t.Fatalf("err = %v, want ErrRequirementsUnavailable", err)
	}

	// No partial analysis may be stored.
	if _, err := svc.GetLatest(ctx, userID, role.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("GetLatest after failed recompute = %v, want ErrNotFound", err)
	}
}

func TestRecomputeRecommendationFailureDegrades(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	role := f.seedRole(t, userID, "Data Scientist", []*types.RequiredSkill{
		{SkillName: "Python", RequiredLevel: 4, Priority: types.PriorityCritical},
	})

	recGen := &stubRecommendationGenerator{err: errors.New("malformed response")}
	svc := f.service(t, nil, recGen)

	analysis, err := svc.Recompute(ctx, userID, role.ID)
	if err != nil {
		t.Fatalf("recompute must not fail on recommendation errors: %v", err)
	}
	if string(analysis.Recommendations) != "[]" {
		t.Fatalf("recommendations = %s, want []", analysis.Recommendations)
	}
	gaps := decodeGaps(t, analysis)
	if len(gaps) != 1 || len(gaps[0].Recommendations) != 0 {
		t.Fatalf("gaps must carry empty recommendations, got %+v", gaps)
	}
}

func TestRecomputeMergesRecommendationsBySkillName(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	role := f.seedRole(t, userID, "Data Scientist", []*types.RequiredSkill{
		{SkillName: "Python", RequiredLevel: 4, Priority: types.PriorityCritical},
		{SkillName: "Statistics", RequiredLevel: 3, Priority: types.PriorityHigh},
	})

	recGen := &stubRecommendationGenerator{recs: &GapRecommendations{
		RoleLevel: []string{"Build a small end-to-end project."},
		PerSkill: map[string][]string{
			"Python": {"Finish an intermediate Python course."},
			// No entry for Statistics: it must stay empty, not fail.
		},
	}}
	svc := f.service(t, nil, recGen)

	analysis, err := svc.Recompute(ctx, userID, role.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}

	var roleLevel []string
	if err := json.Unmarshal(analysis.Recommendations, &roleLevel); err != nil {
		t.Fatalf("decode recommendations: %v", err)
	}
	if len(roleLevel) != 1 {
		t.Fatalf("role-level recs = %v", roleLevel)
	}

	gaps := decodeGaps(t, analysis)
	byName := map[string]types.SkillGap{}
	for _, gap := range gaps {
		byName[gap.SkillName] = gap
	}
	if len(byName["Python"].Recommendations) != 1 {
		t.Fatalf("Python recs = %v", byName["Python"].Recommendations)
	}
	if len(byName["Statistics"].Recommendations) != 0 {
		t.Fatalf("Statistics recs = %v, want empty", byName["Statistics"].Recommendations)
	}
}

func TestGetLatestReturnsStoredWithoutRecompute(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	role := f.seedRole(t, userID, "Data Engineer", []*types.RequiredSkill{
		{SkillName: "SQL", RequiredLevel: 4, Priority: types.PriorityCritical},
	})
	f.seedSkill(t, userID, "SQL", 2)

	svc := f.service(t, nil, nil)
	computed, err := svc.Recompute(ctx, userID, role.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}

	// Changing inputs afterward must not affect the stored result.
	f.seedSkill(t, userID, "SQL", 5)

	latest, err := svc.GetLatest(ctx, userID, role.ID)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if latest.OverallReadiness != computed.OverallReadiness {
		t.Fatalf("readiness = %d, want stored %d", latest.OverallReadiness, computed.OverallReadiness)
	}
	if !bytes.Equal(latest.CriticalGaps, computed.CriticalGaps) {
		t.Fatalf("stored gaps changed without recompute")
	}
}

func TestRecomputeUnknownRole(t *testing.T) {
	f := newEngineFixture(t)
	svc := f.service(t, nil, nil)

	_, err := svc.Recompute(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRecomputeRoleOwnedByAnotherUser(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	role := f.seedRole(t, owner, "Architect", []*types.RequiredSkill{
		{SkillName: "System Design", RequiredLevel: 5, Priority: types.PriorityCritical},
	})

	svc := f.service(t, nil, nil)
	if _, err := svc.Recompute(ctx, uuid.New(), role.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for foreign role", err)
	}
}

func TestOrderGaps(t *testing.T) {
	gaps := []types.SkillGap{
		{SkillName: "a", Priority: types.PriorityLow, Gap: 5},
		{SkillName: "b", Priority: types.PriorityCritical, Gap: 1},
		{SkillName: "c", Priority: types.PriorityHigh, Gap: 2},
		{SkillName: "d", Priority: types.PriorityHigh, Gap: 4},
		{SkillName: "e", Priority: types.PriorityHigh, Gap: 4},
		{SkillName: "f", Priority: types.PriorityMedium, Gap: 3},
	}
	orderGaps(gaps)

	want := []string{"b", "d", "e", "c", "f", "a"}
	for i, name := range want {
		if gaps[i].SkillName != name {
			got := make([]string, len(gaps))
			for j := range gaps {
				got[j] = gaps[j].SkillName
			}
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestComputeReadinessBounds(t *testing.T) {
	cases := []struct {
		name     string
		credit   int
		required int
		want     int
	}{
		{name: "zero_requirements", credit: 0, required: 0, want: 0},
		{name: "no_credit", credit: 0, required: 7, want: 0},
		{name: "partial", credit: 4, required: 7, want: 57},
		{name: "full", credit: 7, required: 7, want: 100},
		{name: "rounds_half_up", credit: 1, required: 8, want: 13},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := computeReadiness(tc.credit, tc.required)
			if got != tc.want {
				t.Fatalf("computeReadiness(%d, %d) = %d, want %d", tc.credit, tc.required, got, tc.want)
			}
			if got < 0 || got > 100 {
				t.Fatalf("readiness %d out of bounds", got)
			}
		})
	}
}

func TestRecomputeConcurrentSamePair(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	role := f.seedRole(t, userID, "Data Engineer", []*types.RequiredSkill{
		{SkillName: "SQL", RequiredLevel: 4, Priority: types.PriorityCritical},
	})
	f.seedSkill(t, userID, "SQL", 3)

	svc := f.service(t, nil, nil)
	const workers = 8
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := svc.Recompute(ctx, userID, role.ID)
			errCh <- err
		}()
	}
	for i := 0; i < workers; i++ {
		if err := <-errCh; err != nil {
			t.Fatalf("concurrent recompute: %v", err)
		}
	}

	var count int64
	if err := f.db.Model(&types.SkillGapAnalysis{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("analysis rows = %d, want 1", count)
	}
}
