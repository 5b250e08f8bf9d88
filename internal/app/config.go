package app

import (
	"github.com/coursebridge/coursebridge-backend/internal/logger"
	"github.com/coursebridge/coursebridge-backend/internal/utils"
	"time"
)

type Config struct {
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	RedisAddr      string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	return Config{
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		RedisAddr:      redisAddr,
	}
}
