package middleware

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/erraggy/oastest/parser"
)

// Config controls what the middleware validates and how it reports.
type Config struct {
	// ValidateResponse compares every response body against the document.
	ValidateResponse bool

	// ValidateRequestBody compares request bodies against the operation's
	// documented request schema.
	ValidateRequestBody bool

	// RejectInvalidRequestBodies answers invalid request bodies with a 400
	// and a JSON issue list instead of forwarding them to the handler.
	// Requires ValidateRequestBody; New returns a configuration error
	// otherwise.
	RejectInvalidRequestBodies bool

	// ExemptURLs holds regular expressions matched against request paths.
	// Matching requests bypass validation entirely.
	ExemptURLs []string

	// LogLevel sets the default logger's minimum level: "debug", "info",
	// "warn", or "error". Ignored when Logger is set.
	LogLevel string

	// Logger receives validation outcomes. Defaults to a slog text logger
	// on stderr at LogLevel.
	Logger parser.Logger

	// Registerer receives the middleware's Prometheus collectors. Nil
	// leaves the collectors unregistered but still functional.
	Registerer prometheus.Registerer
}

// DefaultConfig returns the configuration used when nothing is overridden:
// response validation on, request validation off, logging at info.
func DefaultConfig() Config {
	return Config{
		ValidateResponse: true,
		LogLevel:         "info",
	}
}

// LoadConfig builds a Config from OASTEST_* environment variables, starting
// from DefaultConfig. A .env file in the working directory is loaded first
// when one exists; variables already set in the environment win. Invalid
// values log a warning and fall back to the default.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.ValidateResponse = envBool("OASTEST_VALIDATE_RESPONSE", cfg.ValidateResponse)
	cfg.ValidateRequestBody = envBool("OASTEST_VALIDATE_REQUEST_BODY", false)
	cfg.RejectInvalidRequestBodies = envBool("OASTEST_REJECT_INVALID_REQUEST_BODIES", false)
	cfg.ExemptURLs = splitPatterns(os.Getenv("OASTEST_VALIDATION_EXEMPT_URLS"))
	cfg.LogLevel = envLevel("OASTEST_LOG_LEVEL", cfg.LogLevel)
	return cfg
}

// logger returns the configured logger, or a stderr slog logger honoring
// LogLevel.
func (c Config) logger() parser.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelFor(c.LogLevel)})
	return parser.NewSlogAdapter(slog.New(handler))
}

// levelFor maps a level name to a slog level, defaulting to info.
func levelFor(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "", "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("invalid log level, using info", "value", name) //nolint:gosec // G706: values are structured log fields, not format strings
		return slog.LevelInfo
	}
}

// splitPatterns parses a comma-separated pattern list, dropping empty
// entries.
func splitPatterns(v string) []string {
	if v == "" {
		return nil
	}
	var patterns []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
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

func envLevel(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "debug", "info", "warn", "warning", "error":
		return v
	}
	slog.Warn("invalid log level env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
	return fallback
}
