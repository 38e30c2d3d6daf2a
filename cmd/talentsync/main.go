// Command talentsync resolves a LinkedIn page against the recruiting
// backend and prints the outcome as JSON.
//
// Usage:
//
//	talentsync https://www.linkedin.com/in/johndoe/
//	talentsync -refresh   # re-sync the most outdated stored profiles
//
// The backend origin comes from TALENTSYNC_BACKEND_URL; session cookies
// are read from TALENTSYNC_SESSION, LINKEDIN_* env vars or the local
// browser. A .env file in the working directory is honored.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/talentsync/talentsync"
	"github.com/talentsync/talentsync/aggregate"
	"github.com/talentsync/talentsync/backend"
	"github.com/talentsync/talentsync/config"
	"github.com/talentsync/talentsync/dom"
	"github.com/talentsync/talentsync/enrich"
	"github.com/talentsync/talentsync/httpcache"
	"github.com/talentsync/talentsync/reconcile"
	"github.com/talentsync/talentsync/session"
	"github.com/talentsync/talentsync/telemetry"
	"github.com/talentsync/talentsync/voyager"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	refresh := flag.Bool("refresh", false, "refresh the stored candidates with the most outdated profile data")
	watch := flag.Bool("watch", false, "with -refresh, keep refreshing on the configured interval")
	noCache := flag.Bool("no-cache", false, "disable response caching")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	logLevel := slog.LevelInfo
	if *debug || cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !*refresh && flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: talentsync [options] <linkedin-url>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx := context.Background()
	if err := run(ctx, cfg, logger, runOptions{
		refresh: *refresh,
		watch:   *watch,
		noCache: *noCache,
		tabURL:  flag.Arg(0),
	}); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	refresh bool
	watch   bool
	noCache bool
	tabURL  string
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts runOptions) error {
	cache := httpcache.NewNull()
	if !opts.noCache {
		opened, err := openCache(cfg)
		if err != nil {
			logger.Warn("cache unavailable, continuing without it", "error", err)
		} else {
			cache = opened
		}
	}

	voyagerOpts := []voyager.Option{voyager.WithLogger(logger), voyager.WithCache(cache)}
	backendOpts := []backend.Option{backend.WithLogger(logger)}
	if cfg.Backend.UseBrowserCookies {
		voyagerOpts = append(voyagerOpts, voyager.WithBrowserCookies())
		backendOpts = append(backendOpts, backend.WithBrowserCookies())
	}

	gate, err := backend.NewGate(cfg.Cache.DataPath, logger)
	if err != nil {
		logger.Warn("no-access flag not persisted", "error", err)
	} else {
		backendOpts = append(backendOpts, backend.WithGate(gate))
	}

	client, err := backend.New(ctx, cfg.Backend.BaseURL, backendOpts...)
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}
	voy, err := voyager.New(ctx, voyagerOpts...)
	if err != nil {
		return fmt.Errorf("voyager client: %w", err)
	}

	reporter := telemetry.New(client, cfg.Telemetry.Version, logger)
	collector := aggregate.NewCollector(voy, client, logger)
	queue := enrich.NewQueue(client, collector, reporter, logger)

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	go queue.Run(workerCtx)

	if opts.refresh {
		if !cfg.Refresh.Enabled {
			return errors.New("refresh is disabled by TALENTSYNC_REFRESH_ENABLED")
		}
		refresher := enrich.NewRefresher(client, collector, queue, reporter, logger)
		if err := refresher.Run(ctx); err != nil || !opts.watch {
			return err
		}
		ticker := time.NewTicker(cfg.Refresh.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := refresher.Run(ctx); err != nil {
					logger.Warn("refresh pass failed", "error", err)
				}
			}
		}
	}

	tabURL := opts.tabURL
	sessions := session.NewStore(func() string { return tabURL }, logger)
	pipeline := talentsync.NewPipeline(talentsync.PipelineConfig{
		Searcher:   client,
		Collector:  collector,
		Gate:       client.Gate(),
		Sessions:   sessions,
		Reconciler: reconcile.New(queue, logger),
		Reporter:   reporter,
		NewSource: func(u string) dom.Source {
			return dom.NewLiveSource(u, cfg.Browser.NavTimeout)
		},
		Logger: logger,
	})

	outcome := pipeline.HandleNavigation(ctx, tabURL)
	if outcome == nil {
		return fmt.Errorf("not a recognized LinkedIn page: %s", tabURL)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}

func openCache(cfg *config.Config) (*httpcache.Cache, error) {
	if cfg.Cache.DataPath != "" {
		return httpcache.NewWithPath(cfg.Cache.TTL, cfg.Cache.DataPath)
	}
	return httpcache.New(cfg.Cache.TTL)
}
