package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/rolefit/rolefit-backend/internal/logger"
	"github.com/rolefit/rolefit-backend/internal/types"
	"github.com/rolefit/rolefit-backend/internal/utils"
)

// AnalysisCache is a read-through cache for the latest stored analysis per
// (role, user). The store stays authoritative: cache failures are logged and
// ignored by callers, and running without a cache is a supported mode.
type AnalysisCache interface {
	Get(ctx context.Context, roleID, userID uuid.UUID) (*types.SkillGapAnalysis, error)
	Set(ctx context.Context, analysis *types.SkillGapAnalysis) error
	Invalidate(ctx context.Context, roleID, userID uuid.UUID) error
	Close() error
}

type redisAnalysisCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisAnalysisCache connects to REDIS_ADDR. Callers that get an error
// back should run without a cache rather than fail startup.
func NewRedisAnalysisCache(log *logger.Logger) (AnalysisCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSeconds := utils.GetEnvAsInt("ANALYSIS_CACHE_TTL_SECONDS", 600, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisAnalysisCache{
		log: log.With("service", "RedisAnalysisCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func analysisCacheKey(roleID, userID uuid.UUID) string {
	return fmt.Sprintf("analysis:%s:%s", roleID, userID)
}

func (c *redisAnalysisCache) Get(ctx context.Context, roleID, userID uuid.UUID) (*types.SkillGapAnalysis, error) {
	raw, err := c.rdb.Get(ctx, analysisCacheKey(roleID, userID)).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var analysis types.SkillGapAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		// A bad payload is treated as a miss and evicted.
		c.log.Warn("Evicting undecodable cache entry", "role_id", roleID, "user_id", userID, "error", err)
		_ = c.rdb.Del(ctx, analysisCacheKey(roleID, userID)).Err()
		return nil, nil
	}
	return &analysis, nil
}

func (c *redisAnalysisCache) Set(ctx context.Context, analysis *types.SkillGapAnalysis) error {
	if analysis == nil {
		return nil
	}
	raw, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.rdb.Set(ctx, analysisCacheKey(analysis.RoleID, analysis.UserID), raw, c.ttl).Err()
}

func (c *redisAnalysisCache) Invalidate(ctx context.Context, roleID, userID uuid.UUID) error {
	return c.rdb.Del(ctx, analysisCacheKey(roleID, userID)).Err()
}

func (c *redisAnalysisCache) Close() error {
	return c.rdb.Close()
}
