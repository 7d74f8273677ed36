package config

import "time"

// Cache backend selectors.
const (
	CacheBackendSQLite = "sqlite"
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

// Config holds runtime settings for the content server.
type Config struct {
	// HTTPAddr is the listen address of the fiber app.
	HTTPAddr string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// CacheBackend selects the local cache tier: sqlite, redis or
	// memory.
	CacheBackend string
	// CacheDir is where the sqlite cache database lives.
	CacheDir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Remote document host (S3-compatible).
	S3Region        string
	S3BaseEndpoint  string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3PublicBaseURL string

	// RemoteTimeout bounds every remote save/load attempt; past it the
	// persistence layer degrades to the next tier.
	RemoteTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults for local
// development against a MinIO instance.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.LogLevel = "info"
	c.CacheBackend = CacheBackendSQLite
	c.CacheDir = "data"
	c.RedisAddr = "127.0.0.1:6379"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000"
	c.S3Bucket = "excellence-media"
	c.RemoteTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays
// values from JSON (if a config file was given), environment variables
// and command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
