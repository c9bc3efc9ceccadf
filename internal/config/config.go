// Package config loads knowledgelib.yaml.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
)

// DefaultFileName is the configuration file looked up when none is given.
const DefaultFileName = "knowledgelib.yaml"

// Config represents the application configuration.
type Config struct {
	Library LibraryConfig `yaml:"library"`
	Output  OutputConfig  `yaml:"output"`
	Site    SiteConfig    `yaml:"site"`
	Build   BuildConfig   `yaml:"build"`
	State   StateConfig   `yaml:"state"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
}

// LibraryConfig locates the corpus. File paths are relative to Root unless absolute.
type LibraryConfig struct {
	Root           string `yaml:"root"`
	MetadataFile   string `yaml:"metadata_file"`
	NavigationFile string `yaml:"navigation_file"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`      // remove the output directory before a build
	StaticDir string `yaml:"static_dir"` // relative to the library root
}

// SiteConfig holds the site-wide page values.
type SiteConfig struct {
	Title        string `yaml:"title"`
	Organization string `yaml:"organization"`
	Copyright    string `yaml:"copyright"`
	BaseURL      string `yaml:"base_url"`
}

// BuildConfig tunes the document pipeline.
type BuildConfig struct {
	Workers            int      `yaml:"workers"`
	PageExtension      string   `yaml:"page_extension"`
	MinContentLength   int      `yaml:"min_content_length"`
	RequiredSections   []string `yaml:"required_sections"`
	ResourceExtensions []string `yaml:"resource_extensions"`
	HighlightStyle     string   `yaml:"highlight_style"`
}

// StateConfig points at the build history database. Empty disables it.
type StateConfig struct {
	Database string `yaml:"database"`
}

// MetricsConfig names the Prometheus textfile written after each build. Empty disables it.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// WatchConfig controls rebuild triggers in watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	Interval time.Duration `yaml:"interval"` // zero disables periodic rebuilds
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration at path. An empty path falls back to
// DefaultFileName in the working directory, and to defaults when that is absent.
// Variables from .env are loaded first and ${VAR} references are expanded.
func Load(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user supplied config path
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.ConfigError("configuration file not found").WithContext("path", path).Fatal().Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read configuration").WithContext("path", path).Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration").WithContext("path", path).Fatal().Build()
	}
	return cfg, nil
}

// Parse decodes YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MetadataPath is the library metadata file.
func (c *Config) MetadataPath() string { return c.underRoot(c.Library.MetadataFile) }

// NavigationPath is the navigation table file.
func (c *Config) NavigationPath() string { return c.underRoot(c.Library.NavigationFile) }

// StaticPath is the static asset directory copied into the output.
func (c *Config) StaticPath() string { return c.underRoot(c.Output.StaticDir) }

func (c *Config) underRoot(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Library.Root, p)
}
