package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Catalog limits, enforced by the validation layer.
	MaxTags           int // max tags per item
	MaxTagLength      int // max length of a single tag
	MaxTitleLength    int // max title length
	MaxPlatformLength int // max platform length

	SeedFile       string        // path to an optional YAML seed catalog ("" = seeding disabled)
	PurgeInterval  time.Duration // how often to purge old soft-deleted items (default: 24h)
	PurgeRetention time.Duration // how long soft-deleted items are kept before purge (default: 30d)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedOrigins []string // CORS allowed origins for the public API
	AllowedHosts   []string // optional, restrict admin routes to specific Host headers
	AllowedCIDRS   []string // optional, restrict admin routes to specific IPs/CIDRs
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	WriteRateLimit int // max write requests per IP per minute (0 = unlimited)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SPINSHELF_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SPINSHELF_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SPINSHELF_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SPINSHELF_PRETTY_LOG", true),

		// Catalog limits
		MaxTags:           getenvInt("SPINSHELF_MAX_TAGS", 10),
		MaxTagLength:      getenvInt("SPINSHELF_MAX_TAG_LENGTH", 30),
		MaxTitleLength:    getenvInt("SPINSHELF_MAX_TITLE_LENGTH", 200),
		MaxPlatformLength: getenvInt("SPINSHELF_MAX_PLATFORM_LENGTH", 50),

		// Seed + purge
		SeedFile:       getenv("SPINSHELF_SEED_FILE", ""),
		PurgeInterval:  mustDuration("SPINSHELF_PURGE_INTERVAL", 24*time.Hour),
		PurgeRetention: mustDuration("SPINSHELF_PURGE_RETENTION", 30*24*time.Hour),

		// Redis settings
		RedisAddr:             requireEnv("SPINSHELF_REDIS_ADDR"),
		RedisUser:             getenv("SPINSHELF_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("SPINSHELF_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("SPINSHELF_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("SPINSHELF_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedOrigins: splitAndTrim(getenv("SPINSHELF_ALLOWED_ORIGINS", "*")),
		AllowedHosts:   splitAndTrim(getenv("SPINSHELF_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   splitAndTrim(getenv("SPINSHELF_ALLOWED_CIDRS", "")),
		TrustProxy:     mustBool("SPINSHELF_TRUST_PROXY", false),

		WriteRateLimit: getenvInt("SPINSHELF_WRITE_RATE_LIMIT", 60),
	}

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("FATAL: SPINSHELF_REDIS_PASSWORD is required when SPINSHELF_REDIS_PASSWORD_REQUIRED=true")
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
