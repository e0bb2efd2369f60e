package mobile

import (
	"log/slog"

	"github.com/dmitrymomot/mobileview/pkg/logger"
)

// Option configures the middleware.
type Option func(*middlewareConfig)

type middlewareConfig struct {
	classifier      *Classifier
	fallback        string
	disableFallback bool
	override        OverrideSource
	skipXHR         bool
	deviceFormats   bool
	logger          *slog.Logger
}

func defaultMiddlewareConfig() *middlewareConfig {
	return &middlewareConfig{
		classifier: defaultClassifier,
		override:   CookieOverride(DefaultOverrideCookie),
		skipXHR:    true,
		logger:     logger.Discard(),
	}
}

// WithClassifier sets the classifier. Nil is ignored.
func WithClassifier(c *Classifier) Option {
	return func(cfg *middlewareConfig) {
		if c != nil {
			cfg.classifier = c
		}
	}
}

// WithFallback sets the format appended after the mobile format.
// By default the originally requested format is used.
func WithFallback(format string) Option {
	return func(cfg *middlewareConfig) {
		cfg.fallback = format
		cfg.disableFallback = false
	}
}

// WithoutFallback appends no fallback format to mobile requests.
func WithoutFallback() Option {
	return func(cfg *middlewareConfig) { cfg.disableFallback = true }
}

// WithOverrideSource sets where visitor overrides come from.
// Nil disables overrides.
func WithOverrideSource(src OverrideSource) Option {
	return func(cfg *middlewareConfig) { cfg.override = src }
}

// WithSkipXHR controls whether XHR, htmx and Datastar requests keep their
// format. Enabled by default.
func WithSkipXHR(skip bool) Option {
	return func(cfg *middlewareConfig) { cfg.skipXHR = skip }
}

// WithDeviceFormats makes a matched device name the active format
// (iphone instead of mobile), so per-device fallback chains apply.
func WithDeviceFormats(enabled bool) Option {
	return func(cfg *middlewareConfig) { cfg.deviceFormats = enabled }
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *middlewareConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}
