package config

import (
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/popshare/popshare/internal/compute"
	"github.com/popshare/popshare/internal/render"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultInputPath   = "data/final.csv"
	DefaultDelimiter   = ","
	DefaultOnZeroTotal = ZeroTotalError
	DefaultFormat      = FormatTable
	DefaultLogLevel    = "info"
)

// Zero-total policies accepted by compute.on_zero_total.
const (
	ZeroTotalError     = compute.ZeroTotalError
	ZeroTotalPropagate = compute.ZeroTotalPropagate
)

// Output formats accepted by output.format.
const (
	FormatTable = render.FormatTable
	FormatCSV   = render.FormatCSV
	FormatProm  = render.FormatProm
)

// Config is the top-level popshare configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Compute ComputeConfig `yaml:"compute"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`

	// Watch re-runs the pipeline whenever the input file changes.
	Watch bool `yaml:"watch"`
}

// InputConfig describes where the population CSV lives.
type InputConfig struct {
	// Path is the CSV file, relative to the working directory.
	Path string `yaml:"path"`

	// Delimiter is the single field separator character.
	Delimiter string `yaml:"delimiter"`
}

// DelimiterRune returns the delimiter as a rune, or ',' if unset.
func (i InputConfig) DelimiterRune() rune {
	if i.Delimiter == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(i.Delimiter)
	return r
}

// ComputeConfig holds percentage calculator settings.
type ComputeConfig struct {
	// OnZeroTotal is one of: error | propagate.
	OnZeroTotal string `yaml:"on_zero_total"`
}

// OutputConfig controls how the derived dataset is rendered.
type OutputConfig struct {
	// Format is one of: table | csv | prom.
	Format string `yaml:"format"`

	// Summary appends the total population line to table output.
	Summary bool `yaml:"summary"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`
}

// SlogLevel maps Level onto a slog.Level. Unknown values map to Info.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config pre-populated with default values.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path:      DefaultInputPath,
			Delimiter: DefaultDelimiter,
		},
		Compute: ComputeConfig{
			OnZeroTotal: DefaultOnZeroTotal,
		},
		Output: OutputConfig{
			Format:  DefaultFormat,
			Summary: true,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Validate checks required fields and enum values. It is exported so the
// binary can re-check a config after applying flag overrides.
func Validate(cfg *Config) error {
	if cfg.Input.Path == "" {
		return fmt.Errorf("input.path is required")
	}
	if utf8.RuneCountInString(cfg.Input.Delimiter) > 1 {
		return fmt.Errorf("input.delimiter %q must be a single character", cfg.Input.Delimiter)
	}
	switch cfg.Input.DelimiterRune() {
	case '\r', '\n', '"', utf8.RuneError:
		return fmt.Errorf("input.delimiter %q is not a valid separator", cfg.Input.Delimiter)
	}
	switch cfg.Compute.OnZeroTotal {
	case ZeroTotalError, ZeroTotalPropagate:
	default:
		return fmt.Errorf("compute.on_zero_total %q unknown: want error|propagate", cfg.Compute.OnZeroTotal)
	}
	switch cfg.Output.Format {
	case FormatTable, FormatCSV, FormatProm:
	default:
		return fmt.Errorf("output.format %q unknown: want table|csv|prom", cfg.Output.Format)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q unknown: want debug|info|warn|error", cfg.Log.Level)
	}
	return nil
}
