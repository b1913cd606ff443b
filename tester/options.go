package tester

import (
	"github.com/erraggy/oastest/oaserrors"
	"github.com/erraggy/oastest/parser"
)

// Option is a function that configures a Tester.
type Option func(*config) error

// config holds the Tester's settings.
type config struct {
	includeWarnings bool
	strict          bool
	failFast        bool
	caseConvention  CaseConvention
	caseWhitelist   map[string]bool
	redactValues    bool
	logger          parser.Logger
}

// defaultConfig returns the settings used when no options are given.
func defaultConfig() config {
	return config{
		includeWarnings: true,
		logger:          parser.NopLogger{},
	}
}

// WithIncludeWarnings controls whether warning-severity mismatches (format
// hints, undocumented content types) are collected in Result.Warnings.
// Enabled by default.
func WithIncludeWarnings(include bool) Option {
	return func(cfg *config) error {
		cfg.includeWarnings = include
		return nil
	}
}

// WithStrictMode upgrades write-only property leaks to errors and reports
// payload keys the schema does not document. Responses with status codes
// not defined in the HTTP RFCs draw a warning. Disabled by default.
func WithStrictMode(strict bool) Option {
	return func(cfg *config) error {
		cfg.strict = strict
		return nil
	}
}

// WithFailFast keeps only the first error mismatch per comparison. By
// default every mismatch is reported, which suits test output; fail-fast
// suits hot paths that only need a verdict.
func WithFailFast(failFast bool) Option {
	return func(cfg *config) error {
		cfg.failFast = failFast
		return nil
	}
}

// WithCase enforces a key naming convention on every response payload key.
// The zero value CaseNone (the default) disables the check.
func WithCase(convention CaseConvention) Option {
	return func(cfg *config) error {
		if !convention.valid() {
			return &oaserrors.ConfigError{
				Option:  "WithCase",
				Value:   string(convention),
				Message: "unknown case convention (want camelCase, PascalCase, snake_case, or kebab-case)",
			}
		}
		cfg.caseConvention = convention
		return nil
	}
}

// WithCaseWhitelist exempts the given keys from the casing check wherever
// they appear in a payload. Repeated calls accumulate.
func WithCaseWhitelist(keys ...string) Option {
	return func(cfg *config) error {
		if cfg.caseWhitelist == nil {
			cfg.caseWhitelist = make(map[string]bool, len(keys))
		}
		for _, key := range keys {
			cfg.caseWhitelist[key] = true
		}
		return nil
	}
}

// WithRedactValues omits payload values from mismatch messages. Enable this
// when responses may carry sensitive data that must not reach test logs.
func WithRedactValues(redact bool) Option {
	return func(cfg *config) error {
		cfg.redactValues = redact
		return nil
	}
}

// WithLogger sets the logger for debug output (route resolution, response
// definition selection). Defaults to no logging; parser.NewSlogAdapter
// bridges to log/slog.
func WithLogger(logger parser.Logger) Option {
	return func(cfg *config) error {
		if logger == nil {
			return &oaserrors.ConfigError{
				Option:  "WithLogger",
				Message: "logger cannot be nil",
			}
		}
		cfg.logger = logger
		return nil
	}
}
