package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/mcpscout/mcpscout/internal/config"
	"github.com/mcpscout/mcpscout/internal/contracts"
	"github.com/mcpscout/mcpscout/internal/flags"
	"github.com/mcpscout/mcpscout/internal/introspect"
	"github.com/mcpscout/mcpscout/internal/perms"
	"github.com/mcpscout/mcpscout/internal/source"
	"github.com/mcpscout/mcpscout/internal/store"
)

type BaseCmd struct {
	logger hclog.Logger
}

// SetLogger updates the command's logger
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.logger = logger
}

// Logger returns the current logger for the command
func (c *BaseCmd) Logger() hclog.Logger {
	if c.logger != nil {
		return c.logger
	}

	// Get log level from flags first, then environment, then default
	logLevel := flags.LogLevel
	if logLevel == "" {
		logLevel = strings.ToLower(os.Getenv(flags.EnvVarLogLevel))
		if logLevel == "" {
			logLevel = flags.DefaultLogLevel
		}
	}

	// Get log path from flags first, then environment
	logPath := flags.LogPath
	if logPath == "" {
		logPath = strings.TrimSpace(os.Getenv(flags.EnvVarLogPath))
	}

	// Configure logger output
	var output io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, perms.RegularFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file (%s): %v, using stderr\n", logPath, err)
		} else {
			output = f
		}
	}

	// Using flags/env for fallback logger
	c.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "mcpscout-default",
		Level:  hclog.LevelFromString(logLevel),
		Output: output,
	})

	return c.logger
}

// LoadConfig loads the configuration from the configured file path, falling
// back to defaults when no file exists.
func (c *BaseCmd) LoadConfig() (*config.Config, error) {
	loader := &config.DefaultLoader{}
	return loader.Load(flags.ConfigFile)
}

// CreateFetchers builds the source clients enabled by the configuration.
func (c *BaseCmd) CreateFetchers(cfg *config.Config) ([]contracts.SourceFetcher, error) {
	l := c.Logger()

	var fetchers []contracts.SourceFetcher

	if cfg.Sources.Registry.Enabled {
		registry, err := source.NewRegistryClient(l, cfg.Sources.Registry.URL)
		if err != nil {
			return nil, err
		}
		fetchers = append(fetchers, registry)
	}

	if cfg.Sources.Hub.Enabled {
		var opts []source.HubOption
		if username, password := cfg.HubCredentials(); username != "" && password != "" {
			opts = append(opts, source.WithHubCredentials(username, password))
		}
		hub, err := source.NewDockerHubClient(l, cfg.Sources.Hub.URL, cfg.Sources.Hub.Namespace, opts...)
		if err != nil {
			return nil, err
		}
		fetchers = append(fetchers, hub)
	}

	if cfg.Sources.CodeHost.Enabled {
		opts := []source.GitHubOption{
			source.WithGitHubToken(cfg.CodeHostToken()),
			source.WithSearchQuery(cfg.Sources.CodeHost.Query),
		}
		if cfg.Sources.CodeHost.MaxRepos > 0 {
			opts = append(opts, source.WithMaxRepositories(cfg.Sources.CodeHost.MaxRepos))
		}
		codeHost, err := source.NewGitHubClient(l, cfg.Sources.CodeHost.URL, opts...)
		if err != nil {
			return nil, err
		}
		fetchers = append(fetchers, codeHost)
	}

	if len(fetchers) == 0 {
		return nil, fmt.Errorf("no sources are enabled, check the configuration")
	}

	return fetchers, nil
}

// CreateScheduler builds the batch introspection scheduler with a prober
// configured from timeouts in the configuration.
func (c *BaseCmd) CreateScheduler(cfg *config.Config) contracts.BatchIntrospector {
	l := c.Logger()
	prober := introspect.NewProber(
		l,
		introspect.WithStartupTimeout(cfg.StartupTimeout()),
		introspect.WithCallTimeout(cfg.CallTimeout()),
	)
	return introspect.NewScheduler(l, prober)
}

// OpenStore opens the catalog store at the configured path.
func (c *BaseCmd) OpenStore(cfg *config.Config) (*store.Store, error) {
	return store.Open(c.Logger(), cfg.Store.Path)
}
