package startup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "CATALOG_"

	// ConfigFileEnv names an explicit TOML config file.
	ConfigFileEnv = EnvPrefix + "CONFIG"

	// DefaultConfigFile is read from the working directory when present.
	DefaultConfigFile = "catalog.toml"
)

// ErrMediaRootRequired is returned when no media root is configured.
var ErrMediaRootRequired = errors.New("media_root is required (set CATALOG_MEDIA_ROOT)")

// Config holds all application configuration
type Config struct {
	MediaRoot       string        `koanf:"media_root"`
	CacheDir        string        `koanf:"cache_dir"`
	Port            string        `koanf:"port"`
	MetricsPort     string        `koanf:"metrics_port"`
	MetricsEnabled  bool          `koanf:"metrics_enabled"`
	PollInterval    time.Duration `koanf:"poll_interval"`
	ScanMode        string        `koanf:"scan_mode"`
	IncludeHidden   bool          `koanf:"include_hidden"`
	ProbeDimensions bool          `koanf:"probe_dimensions"`
	HashContent     bool          `koanf:"hash_content"`
	LogLevel        string        `koanf:"log_level"`
	LogHealthChecks bool          `koanf:"log_health_checks"`

	// ConfigFile is the TOML file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// DefaultCacheDir returns the per-user cache directory for the catalog.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, "media-catalog")
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"media_root":        "",
		"cache_dir":         DefaultCacheDir(),
		"port":              "8080",
		"metrics_port":      "9090",
		"metrics_enabled":   true,
		"poll_interval":     "30s",
		"scan_mode":         "filename",
		"include_hidden":    false,
		"probe_dimensions":  false,
		"hash_content":      false,
		"log_level":         "info",
		"log_health_checks": false,
	}
}

// Load reads configuration from defaults, an optional TOML file and
// CATALOG_* environment variables, in increasing priority. It performs no
// filesystem setup; see LoadConfig.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFile := configFilePath()
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", configFile, err)
		}
	}

	envToKey := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	cfg.ConfigFile = configFile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required values and resolves paths to absolute form.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MediaRoot) == "" {
		return ErrMediaRootRequired
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %v", c.PollInterval)
	}

	mediaRoot, err := filepath.Abs(expandPath(c.MediaRoot))
	if err != nil {
		return fmt.Errorf("failed to resolve media root path: %w", err)
	}
	c.MediaRoot = mediaRoot

	cacheDir, err := filepath.Abs(expandPath(c.CacheDir))
	if err != nil {
		return fmt.Errorf("failed to resolve cache directory path: %w", err)
	}
	c.CacheDir = cacheDir

	return nil
}

// configFilePath returns the explicit config file or ./catalog.toml when it
// exists. An explicit path is returned even if missing so Load reports it.
func configFilePath() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return expandPath(path)
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
