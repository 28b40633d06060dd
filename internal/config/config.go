// Package config loads and validates the TOML configuration file
// (.mcpscout.toml) that controls sources, scanning, persistence, and the
// daemon API server.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultRegistryURL is the community MCP registry.
	DefaultRegistryURL = "https://registry.modelcontextprotocol.io"

	// DefaultHubURL is the container image hub API.
	DefaultHubURL = "https://hub.docker.com"

	// DefaultHubNamespace is the hub namespace holding official MCP server images.
	DefaultHubNamespace = "mcp"

	// DefaultCodeHostURL is the code-hosting search API.
	DefaultCodeHostURL = "https://api.github.com"

	// DefaultStorePath is where the catalog database lives.
	DefaultStorePath = ".mcpscout/catalog.db"

	// DefaultAPIAddr is the daemon API bind address.
	DefaultAPIAddr = "0.0.0.0:8090"

	// DefaultMaxConcurrent bounds concurrent introspection probes.
	DefaultMaxConcurrent = 5

	// DefaultCacheMaxAgeHours is how long a stored catalog stays fresh.
	DefaultCacheMaxAgeHours = 24
)

// Loader loads application configuration from a file path.
type Loader interface {
	Load(path string) (*Config, error)
}

// DefaultLoader loads configuration from a TOML file on disk.
type DefaultLoader struct{}

// SourcesConfig selects and configures the upstream sources.
type SourcesConfig struct {
	Registry RegistryConfig `toml:"registry"`
	Hub      HubConfig      `toml:"container_hub"`
	CodeHost CodeHostConfig `toml:"code_host"`
}

// RegistryConfig configures the community registry client.
type RegistryConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
}

// HubConfig configures the container hub client. Credentials are referenced
// by environment variable name, never stored in the file.
type HubConfig struct {
	Enabled     bool   `toml:"enabled"`
	URL         string `toml:"url"`
	Namespace   string `toml:"namespace"`
	UsernameEnv string `toml:"username_env"`
	PasswordEnv string `toml:"password_env"`
}

// CodeHostConfig configures the code-host discovery client.
type CodeHostConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	TokenEnv string `toml:"token_env"`
	Query    string `toml:"query"`
	MaxRepos int    `toml:"max_repositories"`
}

// ScanConfig controls scanning and introspection behavior.
type ScanConfig struct {
	MaxConcurrent   int `toml:"max_concurrent"`
	StartupTimeout  int `toml:"startup_timeout_seconds"`
	CallTimeout     int `toml:"call_timeout_seconds"`
	CacheMaxAgeHour int `toml:"cache_max_age_hours"`
}

// StoreConfig controls catalog persistence.
type StoreConfig struct {
	Path string `toml:"path"`
}

// APIConfig controls the daemon API server.
type APIConfig struct {
	Addr         string   `toml:"addr"`
	CORSOrigins  []string `toml:"cors_origins"`
	CORSEnabled  bool     `toml:"cors_enabled"`
	ShutdownSecs int      `toml:"shutdown_timeout_seconds"`
}

// Config is the root of the .mcpscout.toml file.
type Config struct {
	Sources SourcesConfig `toml:"sources"`
	Scan    ScanConfig    `toml:"scan"`
	Store   StoreConfig   `toml:"store"`
	API     APIConfig     `toml:"api"`

	configFilePath string
}

// Default returns a configuration with every default applied and all sources
// enabled. Used when no config file exists.
func Default() *Config {
	return &Config{
		Sources: SourcesConfig{
			Registry: RegistryConfig{Enabled: true, URL: DefaultRegistryURL},
			Hub: HubConfig{
				Enabled:   true,
				URL:       DefaultHubURL,
				Namespace: DefaultHubNamespace,
			},
			CodeHost: CodeHostConfig{Enabled: true, URL: DefaultCodeHostURL},
		},
		Scan: ScanConfig{
			MaxConcurrent:   DefaultMaxConcurrent,
			StartupTimeout:  30,
			CallTimeout:     15,
			CacheMaxAgeHour: DefaultCacheMaxAgeHours,
		},
		Store: StoreConfig{Path: DefaultStorePath},
		API: APIConfig{
			Addr:         DefaultAPIAddr,
			CORSEnabled:  false,
			ShutdownSecs: 5,
		},
	}
}

// Load reads and validates the configuration at path. A missing file is not
// an error; defaults apply so the CLI works without any setup.
func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	// Track the path that loaded this file.
	cfg.configFilePath = path

	return cfg, nil
}

// FilePath returns the path this configuration was loaded from, or empty when
// defaults were used.
func (c *Config) FilePath() string {
	return c.configFilePath
}

// StartupTimeout returns the probe startup timeout as a duration.
func (c *Config) StartupTimeout() time.Duration {
	return time.Duration(c.Scan.StartupTimeout) * time.Second
}

// CallTimeout returns the per-call timeout as a duration.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.Scan.CallTimeout) * time.Second
}

// CacheMaxAge returns how long a stored catalog is considered fresh.
func (c *Config) CacheMaxAge() time.Duration {
	return time.Duration(c.Scan.CacheMaxAgeHour) * time.Hour
}

// ShutdownTimeout returns the daemon graceful shutdown window.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.API.ShutdownSecs) * time.Second
}

// HubCredentials resolves the container hub credentials from the configured
// environment variables. Both empty means unauthenticated access.
func (c *Config) HubCredentials() (username, password string) {
	if c.Sources.Hub.UsernameEnv != "" {
		username = os.Getenv(c.Sources.Hub.UsernameEnv)
	}
	if c.Sources.Hub.PasswordEnv != "" {
		password = os.Getenv(c.Sources.Hub.PasswordEnv)
	}
	return username, password
}

// CodeHostToken resolves the code-host API token from the configured
// environment variable.
func (c *Config) CodeHostToken() string {
	if c.Sources.CodeHost.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.Sources.CodeHost.TokenEnv)
}

func (c *Config) validate() error {
	if c.Sources.Registry.Enabled && strings.TrimSpace(c.Sources.Registry.URL) == "" {
		return fmt.Errorf("%w: sources.registry.url cannot be empty when enabled", ErrConfigInvalid)
	}
	if c.Sources.Hub.Enabled {
		if strings.TrimSpace(c.Sources.Hub.URL) == "" {
			return fmt.Errorf("%w: sources.container_hub.url cannot be empty when enabled", ErrConfigInvalid)
		}
		if strings.TrimSpace(c.Sources.Hub.Namespace) == "" {
			return fmt.Errorf("%w: sources.container_hub.namespace cannot be empty when enabled", ErrConfigInvalid)
		}
	}
	if c.Sources.CodeHost.Enabled && strings.TrimSpace(c.Sources.CodeHost.URL) == "" {
		return fmt.Errorf("%w: sources.code_host.url cannot be empty when enabled", ErrConfigInvalid)
	}
	if c.Scan.MaxConcurrent < 0 {
		return fmt.Errorf("%w: scan.max_concurrent cannot be negative", ErrConfigInvalid)
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("%w: store.path cannot be empty", ErrConfigInvalid)
	}
	if strings.TrimSpace(c.API.Addr) == "" {
		return fmt.Errorf("%w: api.addr cannot be empty", ErrConfigInvalid)
	}
	return nil
}
