package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name. It is looked
// up in the working directory first, then in the XDG config directory.
const DefaultConfigFile = "malaw.yaml"

// ErrConfigNotFound is returned when an explicitly requested configuration
// file does not exist. A missing default-location file is not an error.
var ErrConfigNotFound = errors.New("configuration file not found")

// File mirrors the YAML configuration file. Duration knobs are strings in
// Go duration syntax ("30s", "500ms") because yaml.v3 has no native
// time.Duration decoding. Booleans are pointers so an explicit `false`
// survives layering.
type File struct {
	BaseURL        string `yaml:"base_url,omitempty"`
	OutputPath     string `yaml:"output_path,omitempty"`
	MaxRetries     int    `yaml:"max_retries,omitempty"`
	RetryDelay     string `yaml:"retry_delay,omitempty"`
	StepTimeout    string `yaml:"step_timeout,omitempty"`
	PaceDelay      string `yaml:"pace_delay,omitempty"`
	ExpandTimeout  string `yaml:"expand_timeout,omitempty"`
	PollInterval   string `yaml:"poll_interval,omitempty"`
	UserAgent      string `yaml:"user_agent,omitempty"`
	MaxBodyBytes   int64  `yaml:"max_body_bytes,omitempty"`
	Archive        *bool  `yaml:"archive,omitempty"`
	ArchiveDir     string `yaml:"archive_dir,omitempty"`
	JSONReport     *bool  `yaml:"json_report,omitempty"`
	MarkdownReport *bool  `yaml:"markdown_report,omitempty"`
	ReportFile     string `yaml:"report_file,omitempty"`
	Verbose        *bool  `yaml:"verbose,omitempty"`
}

// LoadConfigFile loads a configuration file from the given path.
// If the file does not exist, it returns ErrConfigNotFound. Callers decide
// how to treat that based on whether the path was explicitly requested.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &f, nil
}

// apply copies the file's set values onto cfg, leaving unset values alone.
// Duration strings are parsed here so a typo fails the load, not the crawl.
func (f *File) apply(cfg *Config) error {
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.OutputPath != "" {
		cfg.OutputPath = f.OutputPath
	}
	if f.MaxRetries != 0 {
		cfg.MaxRetries = f.MaxRetries
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.MaxBodyBytes != 0 {
		cfg.MaxBodyBytes = f.MaxBodyBytes
	}
	if f.ArchiveDir != "" {
		cfg.ArchiveDir = f.ArchiveDir
	}
	if f.ReportFile != "" {
		cfg.ReportFile = f.ReportFile
	}
	if f.Archive != nil {
		cfg.SaveArchive = *f.Archive
	}
	if f.JSONReport != nil {
		cfg.JSONReport = *f.JSONReport
	}
	if f.MarkdownReport != nil {
		cfg.MarkdownReport = *f.MarkdownReport
	}
	if f.Verbose != nil {
		cfg.Verbose = *f.Verbose
	}

	durations := []struct {
		raw  string
		key  string
		dest *time.Duration
	}{
		{f.RetryDelay, "retry_delay", &cfg.RetryDelay},
		{f.StepTimeout, "step_timeout", &cfg.StepTimeout},
		{f.PaceDelay, "pace_delay", &cfg.PaceDelay},
		{f.ExpandTimeout, "expand_timeout", &cfg.ExpandTimeout},
		{f.PollInterval, "poll_interval", &cfg.PollInterval},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("failed to parse %s %q: %w", d.key, d.raw, err)
		}
		*d.dest = parsed
	}

	return nil
}

// FindConfigFile resolves which configuration file to load:
// 1. If explicitPath is specified, use it directly
// 2. Look for malaw.yaml in the current directory
// 3. Look for malaw.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(explicitPath string) string {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err == nil {
			return explicitPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := DefaultConfigPath()
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// Load builds a Config by layering, lowest precedence first:
// defaults, the YAML config file, a .env file in the working directory,
// then MALAW_* environment variables. CLI flags layer on top in the
// command, where flag change detection lives.
//
// A missing default-location config file or .env is fine; an explicitly
// requested config file that is missing is an error.
func Load(explicitPath string) (*Config, error) {
	cfg := NewConfig()

	path := FindConfigFile(explicitPath)
	if path == "" && explicitPath != "" {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, explicitPath)
	}
	if path != "" {
		f, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := f.apply(cfg); err != nil {
			return nil, err
		}
		cfg.ConfigFilePath = path
	}

	// godotenv populates the process environment without overriding
	// variables already set, so real environment beats .env.
	_ = godotenv.Load()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv copies MALAW_* environment variables onto cfg. Presence is the
// signal: an empty-valued variable is ignored, anything else must parse.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("MALAW_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("MALAW_OUTPUT_PATH"); v != "" {
		cfg.OutputPath = v
	}
	if v := os.Getenv("MALAW_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("MALAW_ARCHIVE_DIR"); v != "" {
		cfg.ArchiveDir = v
	}
	if v := os.Getenv("MALAW_REPORT_FILE"); v != "" {
		cfg.ReportFile = v
	}

	ints := []struct {
		key  string
		dest *int
	}{
		{"MALAW_MAX_RETRIES", &cfg.MaxRetries},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse %s %q: %w", e.key, v, err)
		}
		*e.dest = parsed
	}

	if v := os.Getenv("MALAW_MAX_BODY_BYTES"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse MALAW_MAX_BODY_BYTES %q: %w", v, err)
		}
		cfg.MaxBodyBytes = parsed
	}

	durations := []struct {
		key  string
		dest *time.Duration
	}{
		{"MALAW_RETRY_DELAY", &cfg.RetryDelay},
		{"MALAW_STEP_TIMEOUT", &cfg.StepTimeout},
		{"MALAW_PACE_DELAY", &cfg.PaceDelay},
		{"MALAW_EXPAND_TIMEOUT", &cfg.ExpandTimeout},
		{"MALAW_POLL_INTERVAL", &cfg.PollInterval},
	}
	for _, e := range durations {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("failed to parse %s %q: %w", e.key, v, err)
		}
		*e.dest = parsed
	}

	bools := []struct {
		key  string
		dest *bool
	}{
		{"MALAW_ARCHIVE", &cfg.SaveArchive},
		{"MALAW_JSON_REPORT", &cfg.JSONReport},
		{"MALAW_MARKDOWN_REPORT", &cfg.MarkdownReport},
		{"MALAW_VERBOSE", &cfg.Verbose},
	}
	for _, e := range bools {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("failed to parse %s %q: %w", e.key, v, err)
		}
		*e.dest = parsed
	}

	return nil
}
