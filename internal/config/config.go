package config

import (
	"fmt"
	"log"
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

	ConfigFile         string        // path to the nav.yaml document
	FallbackConfigFile string        // bundled document served when ConfigFile is missing
	ReloadInterval     time.Duration // interval to reload ConfigFile from disk (default: 1h)
	WatchConfig        bool          // reload on filesystem events as well

	// Auth
	Password     string        // plain password, hashed at startup (PasswordHash wins)
	PasswordHash string        // bcrypt hash
	JWTSecret    string        // HS256 signing key
	TokenTTL     time.Duration // token lifetime (default: 720h)
	LoginBurst   int           // login attempts allowed in a burst per client IP
	LoginRefill  int           // login attempts regained per minute

	// Redis (optional, empty address disables the mirror)
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

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict the ops endpoints to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("NAVDESK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("NAVDESK_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("NAVDESK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("NAVDESK_PRETTY_LOG", true),

		// Document
		ConfigFile:         getenv("NAVDESK_CONFIG_FILE", "/app/nav.yaml"),
		FallbackConfigFile: getenv("NAVDESK_FALLBACK_CONFIG_FILE", "/app/dist/nav.yaml"),
		ReloadInterval:     mustDuration("NAVDESK_RELOAD_INTERVAL", time.Hour),
		WatchConfig:        mustBool("NAVDESK_WATCH_CONFIG", true),

		// Auth
		Password:     os.Getenv("NAVDESK_PASSWORD"),
		PasswordHash: os.Getenv("NAVDESK_PASSWORD_HASH"),
		JWTSecret:    requireEnv("NAVDESK_JWT_SECRET"),
		TokenTTL:     mustDuration("NAVDESK_TOKEN_TTL", 720*time.Hour),
		LoginBurst:   getenvInt("NAVDESK_LOGIN_BURST", 5),
		LoginRefill:  getenvInt("NAVDESK_LOGIN_REFILL_PER_MIN", 5),

		// Redis settings
		RedisAddr:             getenv("NAVDESK_REDIS_ADDR", ""),
		RedisUser:             getenv("NAVDESK_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("NAVDESK_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("NAVDESK_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("NAVDESK_REDIS_DB", 0),
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
		AllowedHosts: splitAndTrim(getenv("NAVDESK_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("NAVDESK_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("NAVDESK_TRUST_PROXY", true),
	}

	if cfg.Password == "" && cfg.PasswordHash == "" {
		panic("❌ FATAL: one of NAVDESK_PASSWORD_HASH or NAVDESK_PASSWORD must be set")
	}

	// Validate Redis password configuration
	if cfg.RedisEnabled() && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: NAVDESK_REDIS_PASSWORD is required when NAVDESK_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// RedisEnabled reports whether the Redis mirror is configured.
func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

// Redacted returns a copy safe to log.
func (c *Config) Redacted() Config {
	out := *c
	for _, s := range []*string{&out.RedisPassword, &out.Password, &out.PasswordHash, &out.JWTSecret} {
		if *s != "" {
			*s = "***REDACTED***"
		}
	}
	if out.RedisUser != "" {
		out.RedisUser = "***REDACTED***"
	}
	return out
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
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
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

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
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
