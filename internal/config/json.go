package config

import (
	"encoding/json"
	"os"

	"github.com/EMNTV/excellencemedianumerique/internal/flagx"
	"github.com/EMNTV/excellencemedianumerique/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Empty
// fields leave the current Config value in place.
type jsonConfig struct {
	HTTPAddr        string          `json:"http_addr"`
	LogLevel        string          `json:"log_level"`
	CacheBackend    string          `json:"cache_backend"`
	CacheDir        string          `json:"cache_dir"`
	RedisAddr       string          `json:"redis_addr"`
	RedisPassword   string          `json:"redis_password"`
	RedisDB         *int            `json:"redis_db"`
	S3Region        string          `json:"s3_region"`
	S3BaseEndpoint  string          `json:"s3_base_endpoint"`
	S3AccessKey     string          `json:"s3_access_key"`
	S3SecretKey     string          `json:"s3_secret_key"`
	S3Bucket        string          `json:"s3_bucket"`
	S3PublicBaseURL string          `json:"s3_public_base_url"`
	RemoteTimeout   *timex.Duration `json:"remote_timeout"`
}

// parseJSON overlays cfg with values loaded from the JSON file named by
// the -c/-config flag. No flag, no JSON. Read or decode errors panic;
// a broken config file should stop the server before it serves
// anything.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIfNotEmpty(&cfg.HTTPAddr, jc.HTTPAddr)
	setIfNotEmpty(&cfg.LogLevel, jc.LogLevel)
	setIfNotEmpty(&cfg.CacheBackend, jc.CacheBackend)
	setIfNotEmpty(&cfg.CacheDir, jc.CacheDir)
	setIfNotEmpty(&cfg.RedisAddr, jc.RedisAddr)
	setIfNotEmpty(&cfg.RedisPassword, jc.RedisPassword)
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	setIfNotEmpty(&cfg.S3Region, jc.S3Region)
	setIfNotEmpty(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setIfNotEmpty(&cfg.S3AccessKey, jc.S3AccessKey)
	setIfNotEmpty(&cfg.S3SecretKey, jc.S3SecretKey)
	setIfNotEmpty(&cfg.S3Bucket, jc.S3Bucket)
	setIfNotEmpty(&cfg.S3PublicBaseURL, jc.S3PublicBaseURL)
	if jc.RemoteTimeout != nil {
		cfg.RemoteTimeout = jc.RemoteTimeout.Duration
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
