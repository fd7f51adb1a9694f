package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
	"github.com/lumalingo/lumalingo-backend/internal/utils"
)

type Config struct {
	Port         string
	PostgresDSN  string
	RedisAddr    string
	JWTSecretKey string
	TokenTTL     time.Duration

	PassThreshold     int
	TuitionGenerateAt string
	TuitionSweepAt    string
	CORSOrigins       []string
}

// fileConfig is the optional YAML overlay loaded from CONFIG_PATH.
// Environment variables override anything set here.
type fileConfig struct {
	Port              string   `yaml:"port"`
	RedisAddr         string   `yaml:"redis_addr"`
	PassThreshold     int      `yaml:"pass_threshold"`
	TuitionGenerateAt string   `yaml:"tuition_generate_at"`
	TuitionSweepAt    string   `yaml:"tuition_sweep_at"`
	CORSOrigins       []string `yaml:"cors_origins"`
}

func LoadConfig(log *logger.Logger) Config {
	var fc fileConfig
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Warn("config file unreadable, using env only", "path", path, "error", err)
		} else if err := yaml.Unmarshal(raw, &fc); err != nil {
			log.Warn("config file invalid, using env only", "path", path, "error", err)
		} else {
			log.Info("config file loaded", "path", path)
		}
	}

	pgHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	pgPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	pgUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	pgPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	pgName := utils.GetEnv("POSTGRES_NAME", "lumalingo", log)
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgName)

	tokenTTLSeconds := utils.GetEnvAsInt("TOKEN_TTL", 86400, log)

	cfg := Config{
		Port:              utils.GetEnv("PORT", fallback(fc.Port, "8080"), log),
		PostgresDSN:       dsn,
		RedisAddr:         utils.GetEnv("REDIS_ADDR", fc.RedisAddr, log),
		JWTSecretKey:      utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		TokenTTL:          time.Duration(tokenTTLSeconds) * time.Second,
		PassThreshold:     utils.GetEnvAsInt("PASS_THRESHOLD", fallbackInt(fc.PassThreshold, 75), log),
		TuitionGenerateAt: utils.GetEnv("TUITION_GENERATE_AT", fallback(fc.TuitionGenerateAt, "01:00"), log),
		TuitionSweepAt:    utils.GetEnv("TUITION_SWEEP_AT", fallback(fc.TuitionSweepAt, "02:00"), log),
		CORSOrigins:       fc.CORSOrigins,
	}
	return cfg
}

func fallback(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func fallbackInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}
