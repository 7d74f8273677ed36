package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig is a DTO for environment parsing. Unset variables leave the
// current Config value in place.
type envConfig struct {
	HTTPAddr        string         `env:"HTTP_ADDR"`
	LogLevel        string         `env:"LOG_LEVEL"`
	CacheBackend    string         `env:"CACHE_BACKEND"`
	CacheDir        string         `env:"CACHE_DIR"`
	RedisAddr       string         `env:"REDIS_ADDR"`
	RedisPassword   string         `env:"REDIS_PASSWORD"`
	RedisDB         *int           `env:"REDIS_DB"`
	S3Region        string         `env:"S3_REGION"`
	S3BaseEndpoint  string         `env:"S3_BASE_ENDPOINT"`
	S3AccessKey     string         `env:"S3_ACCESS_KEY"`
	S3SecretKey     string         `env:"S3_SECRET_KEY"`
	S3Bucket        string         `env:"S3_BUCKET"`
	S3PublicBaseURL string         `env:"S3_PUBLIC_BASE_URL"`
	RemoteTimeout   *time.Duration `env:"REMOTE_TIMEOUT"`
}

// parseEnv overlays cfg from the process environment, loading a .env
// file first when one is present in the working directory.
func parseEnv(cfg *Config) {
	// Missing .env is the normal case outside of deployments.
	_ = godotenv.Load()

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	setIfNotEmpty(&cfg.HTTPAddr, ec.HTTPAddr)
	setIfNotEmpty(&cfg.LogLevel, ec.LogLevel)
	setIfNotEmpty(&cfg.CacheBackend, ec.CacheBackend)
	setIfNotEmpty(&cfg.CacheDir, ec.CacheDir)
	setIfNotEmpty(&cfg.RedisAddr, ec.RedisAddr)
	setIfNotEmpty(&cfg.RedisPassword, ec.RedisPassword)
	if ec.RedisDB != nil {
		cfg.RedisDB = *ec.RedisDB
	}
	setIfNotEmpty(&cfg.S3Region, ec.S3Region)
	setIfNotEmpty(&cfg.S3BaseEndpoint, ec.S3BaseEndpoint)
	setIfNotEmpty(&cfg.S3AccessKey, ec.S3AccessKey)
	setIfNotEmpty(&cfg.S3SecretKey, ec.S3SecretKey)
	setIfNotEmpty(&cfg.S3Bucket, ec.S3Bucket)
	setIfNotEmpty(&cfg.S3PublicBaseURL, ec.S3PublicBaseURL)
	if ec.RemoteTimeout != nil {
		cfg.RemoteTimeout = *ec.RemoteTimeout
	}
}
