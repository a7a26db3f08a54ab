package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/popshare/popshare/internal/compute"
	"github.com/popshare/popshare/internal/config"
	"github.com/popshare/popshare/internal/dataset"
	"github.com/popshare/popshare/internal/render"
)

// run performs one load → compute → render pass and writes the result to w.
func run(w io.Writer, cfg *config.Config) error {
	df, err := dataset.Load(cfg.Input.Path, dataset.Options{Delimiter: cfg.Input.DelimiterRune()})
	if err != nil {
		return err
	}
	slog.Debug("dataset loaded", "path", cfg.Input.Path, "rows", df.Nrow(), "cols", df.Ncol())

	res, err := compute.Shares(df, compute.Options{OnZeroTotal: cfg.Compute.OnZeroTotal})
	if err != nil {
		return err
	}
	slog.Debug("shares computed",
		"total", res.Summary.Total,
		"male_share", res.Summary.MaleShare,
		"female_share", res.Summary.FemaleShare,
		"max_share", res.Summary.MaxShare,
	)

	if err := render.Write(w, res, render.Options{
		Format:  cfg.Output.Format,
		Summary: cfg.Output.Summary,
	}); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// overrides holds the command-line values that take precedence over the
// config file. Empty strings leave the config value alone.
type overrides struct {
	input  string
	format string
	watch  bool
}

// loadConfig reads path (or the defaults when path is empty) and applies o.
func loadConfig(path string, o overrides) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if o.input != "" {
		cfg.Input.Path = o.input
	}
	if o.format != "" {
		cfg.Output.Format = o.format
	}
	if o.watch {
		cfg.Watch = true
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
