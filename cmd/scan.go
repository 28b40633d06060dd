package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mcpscout/mcpscout/internal/catalog"
	"github.com/mcpscout/mcpscout/internal/cmd"
	"github.com/mcpscout/mcpscout/internal/reconcile"
)

// ScanCmd should be used to represent the 'scan' command.
type ScanCmd struct {
	*cmd.BaseCmd
	Introspect    bool
	UseCache      bool
	MaxConcurrent int
	Format        cmd.OutputFormat
	OutputFile    string
}

// NewScanCmd creates a newly configured (Cobra) command.
func NewScanCmd(logger hclog.Logger) *cobra.Command {
	c := &ScanCmd{
		BaseCmd: &cmd.BaseCmd{},
		Format:  cmd.FormatText,
	}
	c.SetLogger(logger)

	cobraCommand := &cobra.Command{
		Use:   "scan [--introspect] [--use-cache]",
		Short: "Discovers MCP servers across all configured sources",
		Long: `Discovers MCP servers across all configured sources, reconciles duplicates into
a single catalog, and persists the result. With --introspect each server is
probed for its live tools, resources, and prompts.`,
		RunE: c.run,
	}

	cobraCommand.Flags().BoolVar(
		&c.Introspect,
		"introspect",
		false,
		"Probe each discovered server for its live capabilities",
	)

	cobraCommand.Flags().BoolVar(
		&c.UseCache,
		"use-cache",
		false,
		"Serve the stored catalog when it is still fresh",
	)

	cobraCommand.Flags().IntVar(
		&c.MaxConcurrent,
		"max-concurrent",
		0,
		"Maximum concurrent introspection probes (0 uses the configured default)",
	)

	cobraCommand.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Output format, one of: %s", cmd.AllowedOutputFormats().String()),
	)

	cobraCommand.Flags().StringVarP(
		&c.OutputFile,
		"output",
		"o",
		"",
		"Write results to a file instead of stdout",
	)

	return cobraCommand
}

// run is configured (via NewScanCmd) to be called by the Cobra framework when the command is executed.
func (c *ScanCmd) run(_ *cobra.Command, _ []string) error {
	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	fetchers, err := c.CreateFetchers(cfg)
	if err != nil {
		return err
	}

	st, err := c.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()

	opts := []reconcile.Option{reconcile.WithStore(st)}
	if c.Introspect {
		opts = append(opts, reconcile.WithScheduler(c.CreateScheduler(cfg)))
	}

	aggregator, err := reconcile.NewAggregator(c.Logger(), fetchers, opts...)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	maxConcurrent := c.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = cfg.Scan.MaxConcurrent
	}

	records, err := aggregator.Run(ctx, reconcile.RunOptions{
		Introspect:    c.Introspect,
		MaxConcurrent: maxConcurrent,
		UseCache:      c.UseCache,
		Stale:         reconcile.StaleAfter(cfg.CacheMaxAge()),
	})
	if err != nil {
		// Persistence failed but the scan itself completed; still show results.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	// Introspection completes in arbitrary order; sort for stable output.
	slices.SortFunc(records, func(a, b catalog.ServerRecord) int {
		return strings.Compare(a.ID, b.ID)
	})

	out := os.Stdout
	if c.OutputFile != "" {
		f, err := os.Create(c.OutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file (%s): %w", c.OutputFile, err)
		}
		defer func() {
			_ = f.Close()
		}()
		out = f
	}

	return recordHandler(c.Format, out).HandleResults(records)
}
