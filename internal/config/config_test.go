package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected
// default values. This test ensures that defaults are documented through
// tests and that changes to defaults are intentional (tests will fail if
// defaults change unexpectedly).
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default BaseURL is the statute index", func(t *testing.T) {
		t.Parallel()
		if cfg.BaseURL != "https://malegislature.gov/Laws/GeneralLaws" {
			t.Errorf("expected BaseURL to be the statute index, got %q", cfg.BaseURL)
		}
	})

	t.Run("default OutputPath is general_laws.json", func(t *testing.T) {
		t.Parallel()
		if cfg.OutputPath != "general_laws.json" {
			t.Errorf("expected OutputPath to be 'general_laws.json', got %q", cfg.OutputPath)
		}
	})

	t.Run("default MaxRetries is 3", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxRetries != 3 {
			t.Errorf("expected MaxRetries to be 3, got %d", cfg.MaxRetries)
		}
	})

	t.Run("default RetryDelay is 5 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.RetryDelay != 5*time.Second {
			t.Errorf("expected RetryDelay to be 5s, got %v", cfg.RetryDelay)
		}
	})

	t.Run("default StepTimeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.StepTimeout != 30*time.Second {
			t.Errorf("expected StepTimeout to be 30s, got %v", cfg.StepTimeout)
		}
	})

	t.Run("default PaceDelay is 1 second", func(t *testing.T) {
		t.Parallel()
		if cfg.PaceDelay != time.Second {
			t.Errorf("expected PaceDelay to be 1s, got %v", cfg.PaceDelay)
		}
	})

	t.Run("default ExpandTimeout is 10 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.ExpandTimeout != 10*time.Second {
			t.Errorf("expected ExpandTimeout to be 10s, got %v", cfg.ExpandTimeout)
		}
	})

	t.Run("default PollInterval is 500ms", func(t *testing.T) {
		t.Parallel()
		if cfg.PollInterval != 500*time.Millisecond {
			t.Errorf("expected PollInterval to be 500ms, got %v", cfg.PollInterval)
		}
	})

	t.Run("default MaxBodyBytes is 10MB", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxBodyBytes != 10*1024*1024 {
			t.Errorf("expected MaxBodyBytes to be 10MB, got %d", cfg.MaxBodyBytes)
		}
	})

	t.Run("default SaveArchive is true", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveArchive {
			t.Error("expected SaveArchive to be true")
		}
	})

	t.Run("default ArchiveDir is the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.ArchiveDir != XDGDataDir() {
			t.Errorf("expected ArchiveDir %q, got %q", XDGDataDir(), cfg.ArchiveDir)
		}
	})

	t.Run("default report format is human-readable", func(t *testing.T) {
		t.Parallel()
		if cfg.JSONReport || cfg.MarkdownReport {
			t.Error("expected plain report format by default")
		}
	})

	t.Run("default config validates", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected default config to validate, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr error
	}{
		{
			name:    "empty base URL",
			mutate:  func(cfg *Config) { cfg.BaseURL = "" },
			wantErr: ErrInvalidBaseURL,
		},
		{
			name:    "relative base URL",
			mutate:  func(cfg *Config) { cfg.BaseURL = "/Laws/GeneralLaws" },
			wantErr: ErrInvalidBaseURL,
		},
		{
			name:    "non-http base URL",
			mutate:  func(cfg *Config) { cfg.BaseURL = "ftp://malegislature.gov/Laws" },
			wantErr: ErrInvalidBaseURL,
		},
		{
			name:    "empty output path",
			mutate:  func(cfg *Config) { cfg.OutputPath = "" },
			wantErr: ErrNoOutputPath,
		},
		{
			name:    "zero max retries",
			mutate:  func(cfg *Config) { cfg.MaxRetries = 0 },
			wantErr: ErrInvalidMaxRetries,
		},
		{
			name:    "negative max retries",
			mutate:  func(cfg *Config) { cfg.MaxRetries = -1 },
			wantErr: ErrInvalidMaxRetries,
		},
		{
			name:    "negative retry delay",
			mutate:  func(cfg *Config) { cfg.RetryDelay = -time.Second },
			wantErr: ErrInvalidRetryDelay,
		},
		{
			name:    "zero step timeout",
			mutate:  func(cfg *Config) { cfg.StepTimeout = 0 },
			wantErr: ErrInvalidStepTimeout,
		},
		{
			name:    "negative pace delay",
			mutate:  func(cfg *Config) { cfg.PaceDelay = -time.Millisecond },
			wantErr: ErrInvalidPaceDelay,
		},
		{
			name:    "zero expand timeout",
			mutate:  func(cfg *Config) { cfg.ExpandTimeout = 0 },
			wantErr: ErrInvalidExpandTimeout,
		},
		{
			name:    "zero poll interval",
			mutate:  func(cfg *Config) { cfg.PollInterval = 0 },
			wantErr: ErrInvalidPollInterval,
		},
		{
			name: "poll interval exceeds expand timeout",
			mutate: func(cfg *Config) {
				cfg.ExpandTimeout = time.Second
				cfg.PollInterval = 2 * time.Second
			},
			wantErr: ErrInvalidPollInterval,
		},
		{
			name:    "zero max body bytes",
			mutate:  func(cfg *Config) { cfg.MaxBodyBytes = 0 },
			wantErr: ErrInvalidMaxBodyBytes,
		},
		{
			name: "json and markdown both enabled",
			mutate: func(cfg *Config) {
				cfg.JSONReport = true
				cfg.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name: "archiving without a directory",
			mutate: func(cfg *Config) {
				cfg.SaveArchive = true
				cfg.ArchiveDir = ""
			},
			wantErr: ErrNoArchiveDir,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, expected %v", err, tt.wantErr)
			}
		})
	}

	t.Run("zero retry delay is valid", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.RetryDelay = 0

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("zero pace delay is valid", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.PaceDelay = 0

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("json only is valid", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.JSONReport = true

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("markdown only is valid", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.MarkdownReport = true

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty archive dir is valid when archiving is off", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.SaveArchive = false
		cfg.ArchiveDir = ""

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		f, err := LoadConfigFile("/nonexistent/path/malaw.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if f != nil {
			t.Error("expected nil file when not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `base_url: "https://statutes.test/Laws"
output_path: "laws.json"
max_retries: 5
retry_delay: "2s"
pace_delay: "250ms"
archive: false
markdown_report: true
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		f, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if f.BaseURL != "https://statutes.test/Laws" {
			t.Errorf("BaseURL = %q", f.BaseURL)
		}
		if f.MaxRetries != 5 {
			t.Errorf("MaxRetries = %d, expected 5", f.MaxRetries)
		}
		if f.RetryDelay != "2s" {
			t.Errorf("RetryDelay = %q, expected '2s'", f.RetryDelay)
		}
		if f.Archive == nil || *f.Archive {
			t.Errorf("Archive = %v, expected explicit false", f.Archive)
		}
		if f.MarkdownReport == nil || !*f.MarkdownReport {
			t.Errorf("MarkdownReport = %v, expected explicit true", f.MarkdownReport)
		}
		if f.Verbose != nil {
			t.Errorf("Verbose = %v, expected unset", f.Verbose)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte("base_url: [}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFileApply tests layering a config file over defaults.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("set values override defaults, unset values survive", func(t *testing.T) {
		t.Parallel()

		off := false
		f := &File{
			BaseURL:     "https://statutes.test/Laws",
			MaxRetries:  7,
			StepTimeout: "45s",
			PaceDelay:   "0s",
			Archive:     &off,
		}

		cfg := NewConfig()
		if err := f.apply(cfg); err != nil {
			t.Fatalf("apply() error = %v", err)
		}

		if cfg.BaseURL != "https://statutes.test/Laws" {
			t.Errorf("BaseURL = %q", cfg.BaseURL)
		}
		if cfg.MaxRetries != 7 {
			t.Errorf("MaxRetries = %d, expected 7", cfg.MaxRetries)
		}
		if cfg.StepTimeout != 45*time.Second {
			t.Errorf("StepTimeout = %v, expected 45s", cfg.StepTimeout)
		}
		if cfg.PaceDelay != 0 {
			t.Errorf("PaceDelay = %v, expected 0 from explicit '0s'", cfg.PaceDelay)
		}
		if cfg.SaveArchive {
			t.Error("SaveArchive = true, expected explicit false to apply")
		}

		// Untouched knobs keep their defaults
		if cfg.OutputPath != DefaultOutputPath {
			t.Errorf("OutputPath = %q, expected default", cfg.OutputPath)
		}
		if cfg.RetryDelay != DefaultRetryDelay {
			t.Errorf("RetryDelay = %v, expected default", cfg.RetryDelay)
		}
	})

	t.Run("empty file changes nothing", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := (&File{}).apply(cfg); err != nil {
			t.Fatalf("apply() error = %v", err)
		}
		if *cfg != *NewConfig() {
			t.Errorf("config changed by empty file: %+v", cfg)
		}
	})

	t.Run("bad duration string fails", func(t *testing.T) {
		t.Parallel()

		f := &File{RetryDelay: "five seconds"}
		err := f.apply(NewConfig())
		if err == nil {
			t.Fatal("expected error for unparseable duration")
		}
		if !strings.Contains(err.Error(), "retry_delay") {
			t.Errorf("error %q does not name the bad knob", err)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("max_retries: 2"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("finds malaw.yaml in the working directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte("max_retries: 2"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		t.Chdir(tmpDir)
		if got := FindConfigFile(""); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})
}

// skipIfUserConfigPresent skips tests that assert default-path loading when
// the machine running the tests has a real config at the XDG location.
func skipIfUserConfigPresent(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(DefaultConfigPath()); err == nil {
		t.Skipf("config present at %s", DefaultConfigPath())
	}
}

// TestLoad tests the layered loader end to end.
func TestLoad(t *testing.T) {
	t.Run("explicit missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("no config file yields defaults", func(t *testing.T) {
		skipIfUserConfigPresent(t)
		t.Chdir(t.TempDir())

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.BaseURL != DefaultBaseURL {
			t.Errorf("BaseURL = %q, expected default", cfg.BaseURL)
		}
		if cfg.ConfigFilePath != "" {
			t.Errorf("ConfigFilePath = %q, expected empty", cfg.ConfigFilePath)
		}
	})

	t.Run("explicit file is applied and recorded", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "crawl.yaml")
		content := "max_retries: 6\npace_delay: \"100ms\"\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := Load(configPath)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.MaxRetries != 6 {
			t.Errorf("MaxRetries = %d, expected 6", cfg.MaxRetries)
		}
		if cfg.PaceDelay != 100*time.Millisecond {
			t.Errorf("PaceDelay = %v, expected 100ms", cfg.PaceDelay)
		}
		if cfg.ConfigFilePath != configPath {
			t.Errorf("ConfigFilePath = %q, expected %q", cfg.ConfigFilePath, configPath)
		}
	})

	t.Run("environment overrides the config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "crawl.yaml")
		if err := os.WriteFile(configPath, []byte("max_retries: 6\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		t.Setenv("MALAW_MAX_RETRIES", "9")
		t.Setenv("MALAW_VERBOSE", "true")
		t.Setenv("MALAW_PACE_DELAY", "2s")

		cfg, err := Load(configPath)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.MaxRetries != 9 {
			t.Errorf("MaxRetries = %d, expected env override 9", cfg.MaxRetries)
		}
		if !cfg.Verbose {
			t.Error("Verbose = false, expected env override true")
		}
		if cfg.PaceDelay != 2*time.Second {
			t.Errorf("PaceDelay = %v, expected env override 2s", cfg.PaceDelay)
		}
	})

	t.Run("unparseable environment value fails", func(t *testing.T) {
		t.Setenv("MALAW_MAX_RETRIES", "many")

		if _, err := Load(""); err == nil {
			t.Error("expected error for unparseable MALAW_MAX_RETRIES")
		}
	})

	t.Run("dotenv file feeds the environment layer", func(t *testing.T) {
		skipIfUserConfigPresent(t)
		tmpDir := t.TempDir()

		// Reserve the variable so the test restores it, then clear it so
		// godotenv sees it as absent and applies the .env value.
		t.Setenv("MALAW_USER_AGENT", "placeholder")
		os.Unsetenv("MALAW_USER_AGENT")

		dotenv := "MALAW_USER_AGENT=malaw-ci/1.0\n"
		if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(dotenv), 0600); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}

		t.Chdir(tmpDir)
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.UserAgent != "malaw-ci/1.0" {
			t.Errorf("UserAgent = %q, expected .env value", cfg.UserAgent)
		}
	})

	t.Run("real environment beats dotenv", func(t *testing.T) {
		skipIfUserConfigPresent(t)
		tmpDir := t.TempDir()

		dotenv := "MALAW_MAX_RETRIES=9\n"
		if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(dotenv), 0600); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}

		t.Setenv("MALAW_MAX_RETRIES", "4")
		t.Chdir(tmpDir)

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.MaxRetries != 4 {
			t.Errorf("MaxRetries = %d, expected real environment to win", cfg.MaxRetries)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	t.Run("XDGDataDir returns non-empty path", func(t *testing.T) {
		t.Parallel()
		if XDGDataDir() == "" {
			t.Error("expected non-empty XDG data dir")
		}
	})

	t.Run("XDGConfigDir returns non-empty path", func(t *testing.T) {
		t.Parallel()
		if XDGConfigDir() == "" {
			t.Error("expected non-empty XDG config dir")
		}
	})

	t.Run("DefaultConfigPath lives under the config dir", func(t *testing.T) {
		t.Parallel()
		p := DefaultConfigPath()
		if !strings.HasPrefix(p, XDGConfigDir()) {
			t.Errorf("DefaultConfigPath %q not under %q", p, XDGConfigDir())
		}
		if filepath.Base(p) != DefaultConfigFile {
			t.Errorf("DefaultConfigPath base = %q, expected %q", filepath.Base(p), DefaultConfigFile)
		}
	})
}
