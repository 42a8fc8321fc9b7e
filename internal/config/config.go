// Package config loads the PageBuilder configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/resolve"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "pagebuilder.yaml"

// Config is the complete PageBuilder configuration.
type Config struct {
	// Content is the content root directory.
	Content string `yaml:"content"`
	// Output is the directory the pages are written to.
	Output string `yaml:"output"`

	Deploy  DeployConfig  `yaml:"deploy"`
	Build   BuildConfig   `yaml:"build"`
	Theme   ThemeConfig   `yaml:"theme,omitempty"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Notify  NotifyConfig  `yaml:"notify,omitempty"`
	Watch   WatchConfig   `yaml:"watch,omitempty"`

	// FieldAliases adds aliases to the built-in field alias table, keyed by
	// canonical field name.
	FieldAliases map[string][]string `yaml:"field_aliases,omitempty"`
}

// DeployConfig describes where the content is published.
type DeployConfig struct {
	// Repository is the "owner/name" identifier. Empty means the
	// environment variable, then the git origin remote.
	Repository    string `yaml:"repository,omitempty"`
	RepositoryEnv string `yaml:"repository_env"`
	Branch        string `yaml:"branch"`
	// ContentPath is the content root's path inside the repository.
	ContentPath string `yaml:"content_path,omitempty"`
}

// BuildConfig holds build behavior switches.
type BuildConfig struct {
	Marker      string `yaml:"marker"`
	Strict      bool   `yaml:"strict"`
	Manifest    string `yaml:"manifest,omitempty"`
	VerifyLinks bool   `yaml:"verify_links"`
}

// ThemeConfig customizes the page layout.
type ThemeConfig struct {
	Template string `yaml:"template,omitempty"`
	Color    string `yaml:"color,omitempty"`
}

// LoggingConfig selects log verbosity and format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables metrics export.
type MetricsConfig struct {
	// Textfile is written after each build in Prometheus text format.
	Textfile string `yaml:"textfile,omitempty"`
	// Listen is the address of the /metrics endpoint in watch mode.
	Listen string `yaml:"listen,omitempty"`
}

// NotifyConfig enables NATS build notifications.
type NotifyConfig struct {
	URL       string `yaml:"url,omitempty"`
	Subject   string `yaml:"subject,omitempty"`
	JetStream bool   `yaml:"jetstream,omitempty"`
	Timeout   string `yaml:"timeout,omitempty"`
}

// Enabled reports whether notifications are configured.
func (n NotifyConfig) Enabled() bool {
	return n.URL != ""
}

// TimeoutDuration returns the parsed publish timeout. Validate has already
// rejected malformed values.
func (n NotifyConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(n.Timeout)
	return d
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce,omitempty"`
	// Schedule is a cron expression for periodic rebuilds.
	Schedule string `yaml:"schedule,omitempty"`
}

// DebounceDuration returns the parsed debounce period.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(w.Debounce)
	return d
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads, expands and validates the configuration file at path.
// Environment variables from .env files are loaded first so the file can
// reference them.
func Load(path string) (*Config, error) {
	LoadEnvFiles()

	// #nosec G304 -- path is the user's own configuration file
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read configuration file").
			WithContext("path", path).
			Build()
	}
	return Parse(data)
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, bool, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		LoadEnvFiles()
		return Default(), false, nil
	}
	cfg, err := Load(path)
	return cfg, err == nil, err
}

// Parse decodes configuration YAML after expanding ${VAR} references.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse configuration").Build()
	}

	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AliasTable returns the built-in alias table extended with FieldAliases.
func (c *Config) AliasTable() (*resolve.AliasTable, error) {
	table := resolve.DefaultAliasTable()
	if len(c.FieldAliases) == 0 {
		return table, nil
	}
	extra := make(map[resolve.Field][]string, len(c.FieldAliases))
	for field, aliases := range c.FieldAliases {
		extra[resolve.Field(strings.TrimSpace(field))] = aliases
	}
	table, err := table.Extend(extra)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid field_aliases").Build()
	}
	return table, nil
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).
			WithContext("path", path).
			Build()
	}

	example := Default()
	example.Deploy.Repository = "${GITHUB_REPOSITORY}"
	example.Build.Manifest = "build-manifest.json"
	example.Watch.Schedule = "0 */6 * * *"
	example.FieldAliases = map[string][]string{
		string(resolve.Phone): {"office_phone"},
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return ferrors.InternalError("failed to marshal example configuration").WithCause(err).Build()
	}
	header := "# PageBuilder configuration. ${VAR} references are expanded from the environment.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o600); err != nil {
		return ferrors.FileSystemError("failed to write configuration file").WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
