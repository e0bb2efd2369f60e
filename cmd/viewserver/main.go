// Command viewserver serves templates from a directory or an S3 bucket,
// switching to mobile variants for phones and tablets.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/mobileview/pkg/chainsource"
	"github.com/dmitrymomot/mobileview/pkg/config"
	"github.com/dmitrymomot/mobileview/pkg/httpserver"
	"github.com/dmitrymomot/mobileview/pkg/locale"
	"github.com/dmitrymomot/mobileview/pkg/logger"
	"github.com/dmitrymomot/mobileview/pkg/mobile"
	"github.com/dmitrymomot/mobileview/pkg/redis"
	"github.com/dmitrymomot/mobileview/pkg/requestid"
	"github.com/dmitrymomot/mobileview/pkg/view"
	"github.com/dmitrymomot/mobileview/pkg/viewresolver"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg settings
	if err := config.Load(&cfg); err != nil {
		slog.Error("failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	logOpts, err := cfg.Log.Options()
	if err != nil {
		slog.Error("invalid logger configuration", logger.Error(err))
		os.Exit(1)
	}
	log := logger.New(append(logOpts, logger.WithContextExtractors(
		requestid.LoggerExtractor(),
		locale.LoggerExtractor(),
		mobile.LoggerExtractor(),
	))...)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("viewserver stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg settings, log *slog.Logger) error {
	store, err := newStore(ctx, cfg.App, log)
	if err != nil {
		return err
	}

	chains, err := fallbackChains(ctx, cfg)
	if err != nil {
		return err
	}

	resolver, err := viewresolver.New(store,
		viewresolver.WithFallbackChains(chains),
		viewresolver.WithLogger(log),
	)
	if err != nil {
		return err
	}

	renderer, err := view.New(resolver, store, view.WithLogger(log))
	if err != nil {
		return err
	}

	mobileOpts, err := cfg.Mobile.Options(mobile.WithLogger(log))
	if err != nil {
		return err
	}

	var checks []httpserver.Check
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()

		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})

		go func() {
			err := chainsource.Watch(ctx, chainsource.Redis(client, cfg.chainsKey()), resolver,
				chainsource.WithInterval(cfg.App.ChainsPollInterval),
				chainsource.WithLogger(log),
				chainsource.WithOnChange(func(chains map[string][]string) {
					log.InfoContext(ctx, "fallback chains updated", slog.Int("formats", len(chains)))
				}),
			)
			if err != nil {
				log.ErrorContext(ctx, "fallback chain watcher stopped", logger.Error(err))
			}
		}()
	}

	router := newRouter(routerDeps{
		renderer:       renderer,
		mobile:         mobileOpts,
		locales:        cfg.App.Locales,
		overrideCookie: cfg.Mobile.OverrideCookie,
		checks:         checks,
		logger:         log,
	})

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(addr string) {
			log.Info("viewserver listening", slog.String("addr", addr))
		}),
	)
	return srv.Run(ctx, router)
}

// fallbackChains loads the chains file when one is configured and derives
// the chains from the mobile settings otherwise.
func fallbackChains(ctx context.Context, cfg settings) (map[string][]string, error) {
	var chains map[string][]string
	if cfg.App.ChainsFile != "" {
		var err error
		if chains, err = chainsource.File(cfg.App.ChainsFile).Load(ctx); err != nil {
			return nil, err
		}
	}
	return mobile.Chains(cfg.Mobile.Fallback, cfg.Mobile.DisableFallback, chains), nil
}

type templateStore interface {
	viewresolver.Store
	viewresolver.Opener
}

func newStore(ctx context.Context, cfg appConfig, log *slog.Logger) (templateStore, error) {
	var opts []viewresolver.StoreOption
	if cfg.ViewPattern != "" {
		opts = append(opts, viewresolver.WithPattern(cfg.ViewPattern))
	}

	if cfg.S3.enabled() {
		log.Info("serving templates from s3",
			slog.String("bucket", cfg.S3.Bucket),
			slog.Any("roots", cfg.S3.Roots),
		)
		store, err := viewresolver.NewS3Store(ctx, cfg.S3.storeConfig(cfg.ViewPattern))
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	log.Info("serving templates from disk", slog.Any("paths", cfg.ViewPaths))
	store, err := viewresolver.NewFileSystemStore(cfg.ViewPaths, opts...)
	if err != nil {
		return nil, err
	}
	return store, nil
}
