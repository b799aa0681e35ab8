package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/banshee-data/gridrebin/internal/grid"
)

func TestDefaultRebinConfig(t *testing.T) {
	cfg := DefaultRebinConfig()

	if cfg.RelativeTolerance == nil || *cfg.RelativeTolerance != 1e-7 {
		t.Errorf("Expected RelativeTolerance 1e-7, got %v", cfg.RelativeTolerance)
	}
	if cfg.MinSampleRows == nil || *cfg.MinSampleRows != 10 {
		t.Errorf("Expected MinSampleRows 10, got %v", cfg.MinSampleRows)
	}
	if cfg.MaxSampleRows == nil || *cfg.MaxSampleRows != 100 {
		t.Errorf("Expected MaxSampleRows 100, got %v", cfg.MaxSampleRows)
	}
	if cfg.LastBinFraction == nil || *cfg.LastBinFraction != 0.25 {
		t.Errorf("Expected LastBinFraction 0.25, got %v", cfg.LastBinFraction)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if got := cfg.MatchOptions(); got != grid.DefaultMatchOptions() {
		t.Errorf("MatchOptions() = %+v, want %+v", got, grid.DefaultMatchOptions())
	}
}

func TestLoadRebinConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "relative_tolerance": 1e-5,
  "min_sample_rows": 20,
  "max_sample_rows": 200,
  "sample_divisor": 5,
  "workers": 3,
  "progress_log_every": 50,
  "last_bin_fraction": 0.5
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadRebinConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	want := grid.MatchOptions{Tolerance: 1e-5, MinSampleRows: 20, MaxSampleRows: 200, SampleDivisor: 5}
	if got := cfg.MatchOptions(); got != want {
		t.Errorf("MatchOptions() = %+v, want %+v", got, want)
	}
	if cfg.GetWorkers() != 3 {
		t.Errorf("GetWorkers() = %d, want 3", cfg.GetWorkers())
	}
	if cfg.GetProgressLogEvery() != 50 {
		t.Errorf("GetProgressLogEvery() = %d, want 50", cfg.GetProgressLogEvery())
	}
	if cfg.GetLastBinFraction() != 0.5 {
		t.Errorf("GetLastBinFraction() = %g, want 0.5", cfg.GetLastBinFraction())
	}
}

func TestLoadRebinConfigMissing(t *testing.T) {
	_, err := LoadRebinConfig("/nonexistent/path/to/config.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadRebinConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.json")

	invalidJSON := `{
  "relative_tolerance": "invalid"
`
	if err := os.WriteFile(configPath, []byte(invalidJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadRebinConfig(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestLoadRebinConfigRejectsNonJSON(t *testing.T) {
	_, err := LoadRebinConfig("/some/path/config.yaml")
	if err == nil {
		t.Error("Expected error for non-.json extension, got nil")
	}
}

func TestLoadRebinConfigRejectsLargeFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "large.json")

	largeData := make([]byte, 2*1024*1024) // 2MB
	if err := os.WriteFile(configPath, largeData, 0644); err != nil {
		t.Fatalf("Failed to write large file: %v", err)
	}

	_, err := LoadRebinConfig(configPath)
	if err == nil {
		t.Error("Expected error for file size > 1MB, got nil")
	}
}

func TestLoadRebinConfigPartial(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.json")

	if err := os.WriteFile(configPath, []byte(`{"max_sample_rows": 50}`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadRebinConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load partial config: %v", err)
	}

	if cfg.GetMaxSampleRows() != 50 {
		t.Errorf("Expected overridden MaxSampleRows 50, got %d", cfg.GetMaxSampleRows())
	}
	if cfg.GetRelativeTolerance() != 1e-7 {
		t.Errorf("Expected default RelativeTolerance 1e-7, got %g", cfg.GetRelativeTolerance())
	}
	if cfg.GetMinSampleRows() != 10 {
		t.Errorf("Expected default MinSampleRows 10, got %d", cfg.GetMinSampleRows())
	}
}

func TestLoadDefaultConfigFile(t *testing.T) {
	cfg, err := LoadRebinConfig("../../config/rebin.defaults.json")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}
	if cfg.MatchOptions() != grid.DefaultMatchOptions() {
		t.Errorf("defaults file disagrees with grid.DefaultMatchOptions: %+v", cfg.MatchOptions())
	}
	if cfg.GetLastBinFraction() != 0.25 {
		t.Errorf("Expected 0.25, got %g", cfg.GetLastBinFraction())
	}
}

func TestLoadExampleConfigFile(t *testing.T) {
	cfg, err := LoadRebinConfig("../../config/rebin.example.json")
	if err != nil {
		t.Fatalf("Failed to load example: %v", err)
	}
	if cfg.GetRelativeTolerance() != 1e-6 {
		t.Errorf("Expected 1e-6, got %g", cfg.GetRelativeTolerance())
	}
	if cfg.GetWorkers() != 4 {
		t.Errorf("Expected 4, got %d", cfg.GetWorkers())
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if cfg.GetSampleDivisor() != 10 {
		t.Errorf("Expected 10, got %d", cfg.GetSampleDivisor())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *RebinConfig
		wantErr bool
	}{
		{"empty", EmptyRebinConfig(), false},
		{"defaults", DefaultRebinConfig(), false},
		{"zero tolerance", &RebinConfig{RelativeTolerance: ptrFloat64(0)}, true},
		{"tolerance of one", &RebinConfig{RelativeTolerance: ptrFloat64(1)}, true},
		{"zero min rows", &RebinConfig{MinSampleRows: ptrInt(0)}, true},
		{"zero max rows", &RebinConfig{MaxSampleRows: ptrInt(0)}, true},
		{"max below min", &RebinConfig{MinSampleRows: ptrInt(50), MaxSampleRows: ptrInt(20)}, true},
		{"max below default min", &RebinConfig{MaxSampleRows: ptrInt(5)}, true},
		{"zero divisor", &RebinConfig{SampleDivisor: ptrInt(0)}, true},
		{"negative workers", &RebinConfig{Workers: ptrInt(-1)}, true},
		{"negative progress", &RebinConfig{ProgressLogEvery: ptrInt(-1)}, true},
		{"last bin fraction above one", &RebinConfig{LastBinFraction: ptrFloat64(1.5)}, true},
		{"last bin fraction zero", &RebinConfig{LastBinFraction: ptrFloat64(0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetterDefaults(t *testing.T) {
	cfg := EmptyRebinConfig()

	if got := cfg.GetRelativeTolerance(); got != 1e-7 {
		t.Errorf("GetRelativeTolerance() = %g, want 1e-7", got)
	}
	if got := cfg.GetMinSampleRows(); got != 10 {
		t.Errorf("GetMinSampleRows() = %d, want 10", got)
	}
	if got := cfg.GetMaxSampleRows(); got != 100 {
		t.Errorf("GetMaxSampleRows() = %d, want 100", got)
	}
	if got := cfg.GetSampleDivisor(); got != 10 {
		t.Errorf("GetSampleDivisor() = %d, want 10", got)
	}
	if got := cfg.GetWorkers(); got != runtime.GOMAXPROCS(0) {
		t.Errorf("GetWorkers() = %d, want GOMAXPROCS %d", got, runtime.GOMAXPROCS(0))
	}
	if got := cfg.GetProgressLogEvery(); got != 0 {
		t.Errorf("GetProgressLogEvery() = %d, want 0", got)
	}
	if got := cfg.GetLastBinFraction(); got != 0.25 {
		t.Errorf("GetLastBinFraction() = %g, want 0.25", got)
	}
}
