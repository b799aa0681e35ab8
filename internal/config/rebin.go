package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/banshee-data/gridrebin/internal/grid"
)

// DefaultConfigPath is the path to the canonical rebin defaults file.
const DefaultConfigPath = "config/rebin.defaults.json"

// RebinConfig holds the tunable thresholds of the rebinning engine and the
// grid predicates. Every field is optional; the Get* methods supply the
// defaults for anything left unset, so partial files are safe.
type RebinConfig struct {
	// Boundary comparison
	RelativeTolerance *float64 `json:"relative_tolerance,omitempty"`
	MinSampleRows     *int     `json:"min_sample_rows,omitempty"`
	MaxSampleRows     *int     `json:"max_sample_rows,omitempty"`
	SampleDivisor     *int     `json:"sample_divisor,omitempty"`

	// Engine
	Workers          *int `json:"workers,omitempty"` // 0 means GOMAXPROCS
	ProgressLogEvery *int `json:"progress_log_every,omitempty"`

	// Binning parameter expansion
	LastBinFraction *float64 `json:"last_bin_fraction,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyRebinConfig returns a RebinConfig with all fields set to nil.
func EmptyRebinConfig() *RebinConfig {
	return &RebinConfig{}
}

// DefaultRebinConfig returns a RebinConfig with every field set to its
// default.
func DefaultRebinConfig() *RebinConfig {
	m := grid.DefaultMatchOptions()
	return &RebinConfig{
		RelativeTolerance: ptrFloat64(m.Tolerance),
		MinSampleRows:     ptrInt(m.MinSampleRows),
		MaxSampleRows:     ptrInt(m.MaxSampleRows),
		SampleDivisor:     ptrInt(m.SampleDivisor),
		Workers:           ptrInt(0),
		ProgressLogEvery:  ptrInt(0),
		LastBinFraction:   ptrFloat64(0.25),
	}
}

// LoadRebinConfig loads a RebinConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadRebinConfig(path string) (*RebinConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRebinConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. Panics if the file cannot be loaded; intended
// for test setup.
func MustLoadDefaultConfig() *RebinConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/tools/gen-grid/
	}
	for _, path := range candidates {
		if cfg, err := LoadRebinConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *RebinConfig) Validate() error {
	if c.RelativeTolerance != nil {
		if !(*c.RelativeTolerance > 0 && *c.RelativeTolerance < 1) {
			return fmt.Errorf("relative_tolerance must be in (0, 1), got %g", *c.RelativeTolerance)
		}
	}
	if c.MinSampleRows != nil && *c.MinSampleRows < 1 {
		return fmt.Errorf("min_sample_rows must be positive, got %d", *c.MinSampleRows)
	}
	if c.MaxSampleRows != nil && *c.MaxSampleRows < 1 {
		return fmt.Errorf("max_sample_rows must be positive, got %d", *c.MaxSampleRows)
	}
	if c.GetMaxSampleRows() < c.GetMinSampleRows() {
		return fmt.Errorf("max_sample_rows (%d) must not be below min_sample_rows (%d)",
			c.GetMaxSampleRows(), c.GetMinSampleRows())
	}
	if c.SampleDivisor != nil && *c.SampleDivisor < 1 {
		return fmt.Errorf("sample_divisor must be positive, got %d", *c.SampleDivisor)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.ProgressLogEvery != nil && *c.ProgressLogEvery < 0 {
		return fmt.Errorf("progress_log_every must be non-negative, got %d", *c.ProgressLogEvery)
	}
	if c.LastBinFraction != nil {
		if *c.LastBinFraction < 0 || *c.LastBinFraction > 1 {
			return fmt.Errorf("last_bin_fraction must be between 0 and 1, got %g", *c.LastBinFraction)
		}
	}
	return nil
}

// GetRelativeTolerance returns the relative_tolerance value or the default.
func (c *RebinConfig) GetRelativeTolerance() float64 {
	if c.RelativeTolerance == nil {
		return 1e-7
	}
	return *c.RelativeTolerance
}

// GetMinSampleRows returns the min_sample_rows value or the default.
func (c *RebinConfig) GetMinSampleRows() int {
	if c.MinSampleRows == nil {
		return 10
	}
	return *c.MinSampleRows
}

// GetMaxSampleRows returns the max_sample_rows value or the default.
func (c *RebinConfig) GetMaxSampleRows() int {
	if c.MaxSampleRows == nil {
		return 100
	}
	return *c.MaxSampleRows
}

// GetSampleDivisor returns the sample_divisor value or the default.
func (c *RebinConfig) GetSampleDivisor() int {
	if c.SampleDivisor == nil {
		return 10
	}
	return *c.SampleDivisor
}

// GetWorkers returns the number of rebin workers. Zero or unset resolves to
// runtime.GOMAXPROCS(0).
func (c *RebinConfig) GetWorkers() int {
	if c.Workers == nil || *c.Workers == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return *c.Workers
}

// GetProgressLogEvery returns how many completed rows separate progress log
// lines; 0 disables them.
func (c *RebinConfig) GetProgressLogEvery() int {
	if c.ProgressLogEvery == nil {
		return 0
	}
	return *c.ProgressLogEvery
}

// GetLastBinFraction returns the last_bin_fraction value or the default.
func (c *RebinConfig) GetLastBinFraction() float64 {
	if c.LastBinFraction == nil {
		return 0.25
	}
	return *c.LastBinFraction
}

// MatchOptions converts the boundary comparison settings for use with the
// grid predicates.
func (c *RebinConfig) MatchOptions() grid.MatchOptions {
	return grid.MatchOptions{
		Tolerance:     c.GetRelativeTolerance(),
		MinSampleRows: c.GetMinSampleRows(),
		MaxSampleRows: c.GetMaxSampleRows(),
		SampleDivisor: c.GetSampleDivisor(),
	}
}
