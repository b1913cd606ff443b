package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheURLTTL        time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Input limits.
	MaxInlineSize int64
	MaxURLSize    int64

	// AllowPrivateIPs disables the SSRF guard on URL spec fetches.
	AllowPrivateIPs bool

	// Pagination defaults for mismatch lists.
	CheckLimit int
	MaxLimit   int

	// Check tool defaults.
	CheckStrict     bool
	CheckNoWarnings bool
	CheckCase       string
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASTEST_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("OASTEST_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("OASTEST_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("OASTEST_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:        envDuration("OASTEST_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL:    envDuration("OASTEST_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("OASTEST_CACHE_SWEEP_INTERVAL", 60*time.Second),
		MaxInlineSize:      envInt64("OASTEST_MAX_INLINE_SIZE", 4*1024*1024),
		MaxURLSize:         envInt64("OASTEST_MAX_URL_SIZE", 20*1024*1024),
		AllowPrivateIPs:    envBool("OASTEST_ALLOW_PRIVATE_IPS", false),
		CheckLimit:         envInt("OASTEST_CHECK_LIMIT", 100),
		MaxLimit:           envInt("OASTEST_MAX_LIMIT", 1000),
		CheckStrict:        envBool("OASTEST_CHECK_STRICT", false),
		CheckNoWarnings:    envBool("OASTEST_CHECK_NO_WARNINGS", false),
		CheckCase:          envCase("OASTEST_CHECK_CASE"),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid size env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

// validCaseConventions is the set of recognised payload key conventions.
// Must stay in sync with the tester.CaseConvention constants.
var validCaseConventions = map[string]bool{
	"camelCase": true, "PascalCase": true,
	"snake_case": true, "kebab-case": true,
}

func envCase(key string) string {
	v := os.Getenv(key)
	if v == "" {
		return ""
	}
	if !validCaseConventions[v] {
		slog.Warn("invalid case convention env var, ignoring", "key", key, "value", v) //nolint:gosec // G706: values are structured log fields, not format strings
		return ""
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
