package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/popshare/popshare/internal/config"
	"github.com/popshare/popshare/internal/watch"
)

func main() {
	configPath := flag.String("config", "", "path to config file; empty uses built-in defaults")
	input := flag.String("input", "", "input CSV path (overrides input.path)")
	format := flag.String("format", "", "output format: table|csv|prom (overrides output.format)")
	watchMode := flag.Bool("watch", false, "re-run whenever the input file changes")
	flag.Parse()

	var level slog.LevelVar
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: &level}))
	slog.SetDefault(logger)

	o := overrides{input: *input, format: *format, watch: *watchMode}
	cfg, err := loadConfig(*configPath, o)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	level.Set(cfg.Log.SlogLevel())
	slog.Debug("config loaded",
		"input", cfg.Input.Path,
		"format", cfg.Output.Format,
		"on_zero_total", cfg.Compute.OnZeroTotal,
		"watch", cfg.Watch,
	)

	if err := run(os.Stdout, cfg); err != nil {
		slog.Error("popshare failed", "input", cfg.Input.Path, "err", err)
		if !cfg.Watch {
			os.Exit(1)
		}
	}
	if !cfg.Watch {
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Both watchers funnel into the loop below so stdout has a single writer.
	rerun := make(chan struct{}, 1)
	reloaded := make(chan *config.Config, 1)
	watchErr := make(chan error, 1)

	go func() {
		if err := watch.File(ctx, cfg.Input.Path, func() { notify(rerun) }); err != nil {
			watchErr <- err
		}
	}()

	if *configPath != "" {
		go func() {
			if err := watch.File(ctx, *configPath, func() {
				updated, err := loadConfig(*configPath, o)
				if err != nil {
					slog.Error("config reload failed, keeping previous config", "err", err)
					return
				}
				select {
				case reloaded <- updated:
				case <-ctx.Done():
				}
			}); err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("popshare shutting down")
			return

		case err := <-watchErr:
			slog.Error("input watcher stopped", "err", err)
			cancel()
			os.Exit(1)

		case updated := <-reloaded:
			if updated.Input.Path != cfg.Input.Path {
				slog.Warn("input.path change needs a restart, keeping current path",
					"current", cfg.Input.Path, "requested", updated.Input.Path)
				updated.Input.Path = cfg.Input.Path
			}
			cfg = updated
			level.Set(cfg.Log.SlogLevel())
			slog.Info("config hot-reloaded", "format", cfg.Output.Format)
			notify(rerun)

		case <-rerun:
			if err := run(os.Stdout, cfg); err != nil {
				slog.Error("re-run failed", "input", cfg.Input.Path, "err", err)
			}
		}
	}
}

// notify queues a re-run without blocking; bursts of events collapse into one.
func notify(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
