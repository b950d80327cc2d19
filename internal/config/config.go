// Package config loads the settings used by the postal command.
//
// Settings come from three layers, each overriding the last: built in
// defaults, an optional YAML file (which may include other files), and
// POSTAL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Providers that may be named in the configuration.
const (
	ProviderSMTP   = "smtp"
	ProviderSES    = "ses"
	ProviderPickup = "pickup"
)

// EnvPrefix starts the name of every environment variable read.
const EnvPrefix = "POSTAL_"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config holds every setting.
type Config struct {
	// Includes name more YAML files to merge in. Relative paths are resolved
	// against the including file and may be glob patterns.
	Includes []string `yaml:"includes,omitempty"`

	Provider string       `yaml:"provider"`
	Views    ViewsConfig  `yaml:"views"`
	SMTP     SMTPConfig   `yaml:"smtp"`
	SES      SESConfig    `yaml:"ses"`
	Pickup   PickupConfig `yaml:"pickup"`
	Log      LogConfig    `yaml:"log"`
}

// ViewsConfig says where templates and images live.
type ViewsConfig struct {
	Dir      string `yaml:"dir"`
	ImageDir string `yaml:"image_dir"`
}

// SMTPConfig holds SMTP server settings.
type SMTPConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Security  string `yaml:"security"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	LocalName string `yaml:"local_name"`
}

// SESConfig holds Amazon SES settings.
type SESConfig struct {
	Region           string `yaml:"region"`
	AccessKeyID      string `yaml:"access_key_id"`
	SecretAccessKey  string `yaml:"secret_access_key"`
	ConfigurationSet string `yaml:"configuration_set"`
}

// PickupConfig holds pickup directory settings.
type PickupConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built in settings.
func Default() *Config {
	return &Config{
		Provider: ProviderPickup,
		Views: ViewsConfig{
			Dir: "views",
		},
		SMTP: SMTPConfig{
			Host:     "localhost",
			Port:     25,
			Security: "none",
		},
		Pickup: PickupConfig{
			Dir: "pickup",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load returns the defaults overlaid with the file at path, if path is not
// blank, and then with the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}

		if err := mergo.Merge(cfg, fileCfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge config file: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile reads a single YAML file and the files it includes. Settings in
// the file win over settings in its includes. A file that includes itself,
// directly or through other files, is an error.
func LoadFile(path string) (*Config, error) {
	return loadFile(path, map[string]bool{})
}

// loadFile does the work of LoadFile. loading holds the absolute paths of the
// files whose includes are being read.
func loadFile(path string, loading map[string]bool) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config file %s: %w", path, err)
	}
	if loading[abs] {
		return nil, fmt.Errorf("%w: include cycle at %s", ErrInvalid, path)
	}
	loading[abs] = true
	defer delete(loading, abs)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	for _, include := range cfg.Includes {
		includePath := include
		if !filepath.IsAbs(includePath) {
			includePath = filepath.Join(baseDir, include)
		}

		matches, err := filepath.Glob(includePath)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %s: %w", include, err)
		}

		for _, match := range matches {
			includeCfg, err := loadFile(match, loading)
			if err != nil {
				return nil, fmt.Errorf("failed to load include %s: %w", match, err)
			}

			if err := mergo.Merge(&cfg, includeCfg); err != nil {
				return nil, fmt.Errorf("failed to merge include %s: %w", match, err)
			}
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides settings with environment variables found by lookup,
// which is usually os.LookupEnv. Empty variables are ignored. A value that
// cannot be parsed is an error and leaves the setting alone.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	str("PROVIDER", &c.Provider)
	str("VIEWS_DIR", &c.Views.Dir)
	str("IMAGE_DIR", &c.Views.ImageDir)
	str("SMTP_HOST", &c.SMTP.Host)
	str("SMTP_SECURITY", &c.SMTP.Security)
	str("SMTP_USERNAME", &c.SMTP.Username)
	str("SMTP_PASSWORD", &c.SMTP.Password)
	str("SMTP_LOCAL_NAME", &c.SMTP.LocalName)
	str("SES_REGION", &c.SES.Region)
	str("SES_ACCESS_KEY_ID", &c.SES.AccessKeyID)
	str("SES_SECRET_ACCESS_KEY", &c.SES.SecretAccessKey)
	str("SES_CONFIGURATION_SET", &c.SES.ConfigurationSet)
	str("PICKUP_DIR", &c.Pickup.Dir)
	str("LOG_LEVEL", &c.Log.Level)

	c.Provider = strings.ToLower(c.Provider)
	c.SMTP.Security = strings.ToLower(c.SMTP.Security)
	c.Log.Level = strings.ToLower(c.Log.Level)

	if v, ok := lookup(EnvPrefix + "SMTP_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sSMTP_PORT %q is not a number", ErrInvalid, EnvPrefix, v)
		}
		c.SMTP.Port = port
	}

	return nil
}

// Validate checks that the selected provider has what it needs.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderSMTP:
		if c.SMTP.Host == "" {
			return fmt.Errorf("%w: smtp host is required", ErrInvalid)
		}
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			return fmt.Errorf("%w: smtp port %d is out of range", ErrInvalid, c.SMTP.Port)
		}
	case ProviderSES:
	case ProviderPickup:
		if c.Pickup.Dir == "" {
			return fmt.Errorf("%w: pickup dir is required", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalid, c.Provider)
	}

	return nil
}
