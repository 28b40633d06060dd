// Package cmd wires up the mcpscout CLI commands.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mcpscout/mcpscout/internal/cmd"
	"github.com/mcpscout/mcpscout/internal/flags"
	"github.com/mcpscout/mcpscout/internal/perms"
)

type RootCmd struct {
	*cmd.BaseCmd
}

func Execute() error {
	logger, err := configureLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error executing root command: %s", err)
		os.Exit(1)
	}

	rootCmd := NewRootCmd(logger)

	return rootCmd.Execute()
}

func NewRootCmd(logger hclog.Logger) *cobra.Command {
	c := &RootCmd{
		BaseCmd: &cmd.BaseCmd{},
	}
	c.SetLogger(logger)

	rootCmd := &cobra.Command{
		Use:          "mcpscout <command> [args]",
		Short:        "'mcpscout' discovers and catalogs MCP servers across public sources.",
		Long:         c.longDescription(),
		SilenceUsage: true,
		Version:      cmd.Version(),
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(NewScanCmd(logger))
	rootCmd.AddCommand(NewSearchCmd(logger))
	rootCmd.AddCommand(NewStatsCmd(logger))
	rootCmd.AddCommand(NewDaemonCmd(logger))

	return rootCmd
}

func (c *RootCmd) longDescription() string {
	return `The 'mcpscout' CLI discovers MCP servers across the community registry, container
image hubs, and code-hosting search, reconciles them into a single catalog, and
optionally introspects each server for its live capabilities.`
}

func configureLogger() (hclog.Logger, error) {
	logPath := strings.TrimSpace(os.Getenv(flags.EnvVarLogPath))

	// If MCPSCOUT_LOG_PATH is not set, don't log anywhere.
	var logOutput io.Writer = io.Discard

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, perms.RegularFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", logPath, err)
		}
		logOutput = f
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "mcpscout",
		Level:  hclog.LevelFromString(getLogLevel()),
		Output: logOutput,
	})

	return logger, nil
}

func getLogLevel() string {
	lvl := strings.ToLower(os.Getenv(flags.EnvVarLogLevel))
	switch lvl {
	case "trace", "debug", "info", "warn", "error", "off":
		return lvl
	default:
		return "info"
	}
}
