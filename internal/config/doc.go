// Package config loads the optional popshare configuration file (popshare.yaml).
//
// Top-level types:
//   - Config{Input, Compute, Output, Log, Watch}: full tree parsed from YAML
//   - InputConfig: path (default data/final.csv), delimiter (default ",")
//   - ComputeConfig: on_zero_total (error|propagate)
//   - OutputConfig: format (table|csv|prom), summary
//   - LogConfig: level (debug|info|warn|error), mapped to slog by SlogLevel()
//
// Load(path) reads the YAML file, applies defaults, then validates enums.
// Default() returns the same defaults without touching the filesystem, for
// runs that pass no -config flag.
package config
