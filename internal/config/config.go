package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config keys, shared by the YAML file, viper and the CLI flags bound to them.
const (
	KeyOrgExtensions   = "org_extensions"
	KeyMdExtensions    = "md_extensions"
	KeyIgnoredFolders  = "ignored_folders"
	KeyHeaderSeparator = "header_separator"
	KeyWorkers         = "workers"
	KeyColor           = "color"
	KeySearchFilename  = "search_filename"
)

type Config struct {
	OrgExtensions      []string `yaml:"org_extensions"   json:"org_extensions"`
	MarkdownExtensions []string `yaml:"md_extensions"    json:"md_extensions"`
	IgnoredFolders     []string `yaml:"ignored_folders"  json:"ignored_folders"`
	HeaderSeparator    string   `yaml:"header_separator" json:"header_separator"`
	Workers            int      `yaml:"workers"          json:"workers"`
	Color              string   `yaml:"color"            json:"color"`
	SearchFilename     bool     `yaml:"search_filename"  json:"search_filename"`

	path string `yaml:"-"`
}

var ValidColorModes = map[string]bool{
	"auto":   true,
	"always": true,
	"never":  true,
}

// Default returns the settings used when the config file is empty.
func Default() *Config {
	return &Config{
		OrgExtensions:      []string{"org"},
		MarkdownExtensions: []string{"md", "markdown"},
		IgnoredFolders:     []string{},
		HeaderSeparator:    "/",
		Workers:            0,
		Color:              "auto",
	}
}

func (cfg *Config) ensureDefaults() {
	def := Default()
	if len(cfg.OrgExtensions) == 0 {
		cfg.OrgExtensions = def.OrgExtensions
	}
	if len(cfg.MarkdownExtensions) == 0 {
		cfg.MarkdownExtensions = def.MarkdownExtensions
	}
	if cfg.IgnoredFolders == nil {
		cfg.IgnoredFolders = def.IgnoredFolders
	}
	if cfg.HeaderSeparator == "" {
		cfg.HeaderSeparator = def.HeaderSeparator
	}
	cfg.Color = strings.ToLower(strings.TrimSpace(cfg.Color))
	if cfg.Color == "" {
		cfg.Color = def.Color
	}
}

// Validate reports settings that cannot be used.
func (cfg *Config) Validate() error {
	if _, ok := ValidColorModes[cfg.Color]; !ok {
		return &ConfigInitError{
			msg: fmt.Sprintf("invalid color mode: %q. Please choose from 'auto', 'always', or 'never'", cfg.Color),
		}
	}
	if cfg.Workers < 0 {
		return &ConfigInitError{
			msg: fmt.Sprintf("workers must not be negative, got %d", cfg.Workers),
		}
	}
	for _, ext := range append(append([]string{}, cfg.OrgExtensions...), cfg.MarkdownExtensions...) {
		if strings.TrimSpace(strings.TrimPrefix(ext, ".")) == "" {
			return &ConfigInitError{msg: "file extensions must not be empty"}
		}
	}
	return nil
}

// Load reads the config file at path. An empty file yields Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	cfg.ensureDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.path = path
	return cfg, nil
}

// Path is the file the config was loaded from.
func (cfg *Config) Path() string {
	return cfg.path
}

// Save writes the config back to the file it was loaded from, or to the
// default location under the user's home directory.
func (cfg *Config) Save() error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	path := cfg.path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = GetConfigPath(home)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	cfg.path = path
	return os.WriteFile(path, data, 0o644)
}

// Bind registers the file values as viper defaults so that bound flags and
// MARKS_* environment variables take precedence over them.
func (cfg *Config) Bind(v *viper.Viper) {
	v.SetDefault(KeyOrgExtensions, cfg.OrgExtensions)
	v.SetDefault(KeyMdExtensions, cfg.MarkdownExtensions)
	v.SetDefault(KeyIgnoredFolders, cfg.IgnoredFolders)
	v.SetDefault(KeyHeaderSeparator, cfg.HeaderSeparator)
	v.SetDefault(KeyWorkers, cfg.Workers)
	v.SetDefault(KeyColor, cfg.Color)
	v.SetDefault(KeySearchFilename, cfg.SearchFilename)
}

// Resolve returns the effective settings after flag and environment
// overrides.
func Resolve(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		OrgExtensions:      v.GetStringSlice(KeyOrgExtensions),
		MarkdownExtensions: v.GetStringSlice(KeyMdExtensions),
		IgnoredFolders:     v.GetStringSlice(KeyIgnoredFolders),
		HeaderSeparator:    v.GetString(KeyHeaderSeparator),
		Workers:            v.GetInt(KeyWorkers),
		Color:              v.GetString(KeyColor),
		SearchFilename:     v.GetBool(KeySearchFilename),
	}

	cfg.ensureDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
