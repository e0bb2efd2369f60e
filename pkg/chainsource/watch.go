package chainsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/mobileview/pkg/logger"
)

// DefaultInterval is how often Watch reloads a source.
const DefaultInterval = 30 * time.Second

// Replacer swaps the fallback table of a resolver.
type Replacer interface {
	ReplaceFallbackChains(chains map[string][]string) error
}

// Option configures Watch.
type Option func(*watchConfig)

type watchConfig struct {
	interval time.Duration
	logger   *slog.Logger
	onChange func(map[string][]string)
}

// WithInterval sets the reload interval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(c *watchConfig) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *watchConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOnChange registers a callback run after every applied table.
func WithOnChange(fn func(chains map[string][]string)) Option {
	return func(c *watchConfig) { c.onChange = fn }
}

// Apply loads src once and hands the result to target.
func Apply(ctx context.Context, src Source, target Replacer) (map[string][]string, error) {
	if src == nil || target == nil {
		return nil, ErrNilSource
	}
	chains, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(chains) == 0 {
		return nil, ErrEmptySource
	}
	if err := target.ReplaceFallbackChains(chains); err != nil {
		return nil, err
	}
	return chains, nil
}

// Watch loads src right away and then on every interval, replacing the
// target's table whenever the loaded chains differ from the last applied
// ones. A failed load or a rejected table is logged and the previous table
// stays in place. Watch blocks until ctx is done.
func Watch(ctx context.Context, src Source, target Replacer, opts ...Option) error {
	if src == nil || target == nil {
		return ErrNilSource
	}

	cfg := &watchConfig{
		interval: DefaultInterval,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	w := &watcher{src: src, target: target, cfg: cfg}
	w.reload(ctx)

	ticker := time.NewTicker(cfg.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.reload(ctx)
		}
	}
}

type watcher struct {
	src     Source
	target  Replacer
	cfg     *watchConfig
	current map[string][]string
}

func (w *watcher) reload(ctx context.Context) {
	chains, err := w.src.Load(ctx)
	if err == nil && len(chains) == 0 {
		err = ErrEmptySource
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			w.cfg.logger.ErrorContext(ctx, "failed to load fallback chains, keeping previous table",
				slog.Any("error", err))
		}
		return
	}

	if w.current != nil && equalChains(w.current, chains) {
		return
	}

	if err := w.target.ReplaceFallbackChains(chains); err != nil {
		w.cfg.logger.ErrorContext(ctx, "rejected fallback chains, keeping previous table",
			slog.Any("error", fmt.Errorf("%w: %w", ErrInvalidChains, err)))
		return
	}

	w.current = cloneChains(chains)
	w.cfg.logger.InfoContext(ctx, "fallback chains replaced", slog.Int("formats", len(chains)))
	if w.cfg.onChange != nil {
		w.cfg.onChange(cloneChains(chains))
	}
}
