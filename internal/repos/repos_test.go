package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rolefit/rolefit-backend/internal/logger"
	"github.com/rolefit/rolefit-backend/internal/types"
)

// openTestDB opens an in-memory sqlite handle with the subset of schema the
// repo tests touch. The postgres uuid defaults do not exist on sqlite, so
// tables are created explicitly; repos assign ids in Go before insert.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
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

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestSkillRecordUpsertIsUpdateNotInsert(t *testing.T) {
	db := openTestDB(t)
	repo := NewSkillRecordRepo(db, testLogger(t))
	ctx := context.Background()
	userID := uuid.New()

	first := &types.SkillRecord{
		UserID:           userID,
		SkillName:        "Node.js",
		ProficiencyLevel: 2,
		Source:           types.SkillSourceManual,
	}
	if err := repo.Upsert(ctx, nil, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Same skill under a differently formatted name must update, not add.
	second := &types.SkillRecord{
		UserID:           userID,
		SkillName:        "nodejs",
		ProficiencyLevel: 4,
		Source:           types.SkillSourceAssessment,
	}
	if err := repo.Upsert(ctx, nil, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := repo.ListByUserID(ctx, nil, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].ProficiencyLevel != 4 {
		t.Fatalf("proficiency = %d, want 4", rows[0].ProficiencyLevel)
	}
	if rows[0].Source != types.SkillSourceAssessment {
		t.Fatalf("source = %q, want %q", rows[0].Source, types.SkillSourceAssessment)
	}
	// Original display formatting stays; normalization is comparison-only.
	if rows[0].SkillName != "Node.js" {
		t.Fatalf("skill name = %q, want original %q", rows[0].SkillName, "Node.js")
	}
}

func TestSkillRecordEnsureExistsNeverDowngrades(t *testing.T) {
	db := openTestDB(t)
	repo := NewSkillRecordRepo(db, testLogger(t))
	ctx := context.Background()
	userID := uuid.New()

	rated := &types.SkillRecord{
		UserID:           userID,
		SkillName:        "Python",
		ProficiencyLevel: 3,
		Source:           types.SkillSourceManual,
	}
	if err := repo.Upsert(ctx, nil, rated); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	autoAdd := &types.SkillRecord{
		UserID:           userID,
		SkillName:        "python",
		ProficiencyLevel: 0,
		Source:           types.SkillSourceRoleRequirement,
	}
	if err := repo.EnsureExists(ctx, nil, autoAdd); err != nil {
		t.Fatalf("ensure exists: %v", err)
	}

	rows, err := repo.ListByUserID(ctx, nil, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].ProficiencyLevel != 3 || rows[0].Source != types.SkillSourceManual {
		t.Fatalf("existing record modified: level=%d source=%q", rows[0].ProficiencyLevel, rows[0].Source)
	}
}

func TestSkillRecordUpsertRestoresDeletedRecord(t *testing.T) {
	db := openTestDB(t)
	repo := NewSkillRecordRepo(db, testLogger(t))
	ctx := context.Background()
	userID := uuid.New()

	original := &types.SkillRecord{
		UserID:           userID,
		SkillName:        "SQL",
		ProficiencyLevel: 2,
		Source:           types.SkillSourceManual,
	}
	if err := repo.Upsert(ctx, nil, original); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Delete(ctx, nil, userID, original.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Re-adding the skill conflicts with the soft-deleted row; the row must
	// come back, not stay tombstoned behind a successful-looking write.
	readd := &types.SkillRecord{
		UserID:           userID,
		SkillName:        "SQL",
		ProficiencyLevel: 3,
		Source:           types.SkillSourceManual,
	}
	if err := repo.Upsert(ctx, nil, readd); err != nil {
		t.Fatalf("re-add upsert: %v", err)
	}

	rows, err := repo.ListByUserID(ctx, nil, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("re-added skill invisible: got %d rows, want 1", len(rows))
	}
	if rows[0].ProficiencyLevel != 3 {
		t.Fatalf("proficiency = %d, want 3", rows[0].ProficiencyLevel)
	}
}

func TestSkillRecordEnsureExistsRestoresDeletedRecord(t *testing.T) {
	db := openTestDB(t)
	repo := NewSkillRecordRepo(db, testLogger(t))
	ctx := context.Background()
	userID := uuid.New()

	rated := &types.SkillRecord{
		UserID:           userID,
		SkillName:        "Python",
		ProficiencyLevel: 3,
		Source:           types.SkillSourceManual,
	}
	if err := repo.Upsert(ctx, nil, rated); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Delete(ctx, nil, userID, rated.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	seed := &types.SkillRecord{
		UserID:           userID,
		SkillName:        "Python",
		ProficiencyLevel: 0,
		Source:           types.SkillSourceRoleRequirement,
	}
	if err := repo.EnsureExists(ctx, nil, seed); err != nil {
		t.Fatalf("ensure exists: %v", err)
	}

	rows, err := repo.ListByUserID(ctx, nil, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want resurrected record", len(rows))
	}
	if rows[0].ProficiencyLevel != 0 || rows[0].Source != types.SkillSourceRoleRequirement {
		t.Fatalf("resurrected record = level %d source %q, want seeded values",
			rows[0].ProficiencyLevel, rows[0].Source)
	}
}

func TestSkillGapAnalysisUpsertReplacesInPlace(t *testing.T) {
	db := openTestDB(t)
	repo := NewSkillGapAnalysisRepo(db, testLogger(t))
	ctx := context.Background()
	userID := uuid.New()
	roleID := uuid.New()

	first := &types.SkillGapAnalysis{
		UserID:           userID,
		RoleID:           roleID,
		OverallReadiness: 40,
		CriticalGaps:     []byte(`[{"skill_name":"SQL","gap":2}]`),
		AnalyzedAt:       time.Now().UTC().Add(-time.Hour),
	}
	if err := repo.Upsert(ctx, nil, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := &types.SkillGapAnalysis{
		UserID:           userID,
		RoleID:           roleID,
		OverallReadiness: 57,
		CriticalGaps:     []byte(`[]`),
		AnalyzedAt:       time.Now().UTC(),
	}
	if err := repo.Upsert(ctx, nil, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int64
	if err := db.Model(&types.SkillGapAnalysis{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("analysis rows = %d, want exactly 1 per (role, user)", count)
	}

	got, err := repo.GetByRoleAndUser(ctx, nil, roleID, userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("get returned nil after upsert")
	}
	if got.OverallReadiness != 57 {
		t.Fatalf("readiness = %d, want 57", got.OverallReadiness)
	}
	if !got.AnalyzedAt.After(first.AnalyzedAt) {
		t.Fatalf("analyzedAt not refreshed: %v <= %v", got.AnalyzedAt, first.AnalyzedAt)
	}
}

func TestSkillGapAnalysisGetMissingIsNil(t *testing.T) {
	db := openTestDB(t)
	repo := NewSkillGapAnalysisRepo(db, testLogger(t))

	got, err := repo.GetByRoleAndUser(context.Background(), nil, uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil for never-analyzed pair", got)
	}
}

func TestRequiredSkillListPreservesInsertionOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequiredSkillRepo(db, testLogger(t))
	ctx := context.Background()
	roleID := uuid.New()

	batch := []*types.RequiredSkill{
		{SkillName: "SQL", RequiredLevel: 4, Priority: types.PriorityCritical},
		{SkillName: "Leadership", RequiredLevel: 3, Priority: types.PriorityHigh},
		{SkillName: "Docker", RequiredLevel: 2, Priority: types.PriorityMedium},
	}
	if err := repo.CreateBatch(ctx, nil, roleID, batch); err != nil {
		t.Fatalf("create batch: %v", err)
	}

	rows, err := repo.ListByRoleID(ctx, nil, roleID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for i, want := range []string{"SQL", "Leadership", "Docker"} {
		if rows[i].SkillName != want {
			t.Fatalf("row %d = %q, want %q", i, rows[i].SkillName, want)
		}
		if rows[i].Position != i {
			t.Fatalf("row %d position = %d, want %d", i, rows[i].Position, i)
		}
	}
}
