package app

import (
	"strings"
	"time"

	"github.com/rolefit/rolefit-backend/internal/logger"
	"github.com/rolefit/rolefit-backend/internal/utils"
)

type Config struct {
	ServiceName  string
	Environment  string
	Version      string
	Port         string
	AllowOrigins []string

	JWTSecretKey string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	accessTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	rawOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)
	var origins []string
	for _, origin := range strings.Split(rawOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	return Config{
		ServiceName:  utils.GetEnv("SERVICE_NAME", "rolefit-backend", log),
		Environment:  utils.GetEnv("ENVIRONMENT", "development", log),
		Version:      utils.GetEnv("SERVICE_VERSION", "dev", log),
		Port:         utils.GetEnv("PORT", "8080", log),
		AllowOrigins: origins,
		JWTSecretKey: utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTTL:    time.Duration(accessTTL) * time.Second,
		RefreshTTL:   time.Duration(refreshTTL) * time.Second,
	}
}
