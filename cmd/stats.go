package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mcpscout/mcpscout/internal/catalog"
	"github.com/mcpscout/mcpscout/internal/cmd"
	"github.com/mcpscout/mcpscout/internal/cmd/output"
)

// StatsCmd should be used to represent the 'stats' command.
type StatsCmd struct {
	*cmd.BaseCmd
	Format cmd.OutputFormat
}

// NewStatsCmd creates a newly configured (Cobra) command.
func NewStatsCmd(logger hclog.Logger) *cobra.Command {
	c := &StatsCmd{
		BaseCmd: &cmd.BaseCmd{},
		Format:  cmd.FormatText,
	}
	c.SetLogger(logger)

	cobraCommand := &cobra.Command{
		Use:   "stats",
		Short: "Summarizes the stored catalog",
		Long:  "Summarizes the stored catalog by source, health status, and discovered capabilities.",
		RunE:  c.run,
	}

	cobraCommand.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Output format, one of: %s", cmd.AllowedOutputFormats().String()),
	)

	return cobraCommand
}

// run is configured (via NewStatsCmd) to be called by the Cobra framework when the command is executed.
func (c *StatsCmd) run(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := c.LoadConfig()
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

	summary, err := st.Stats()
	if err != nil {
		return err
	}

	var handler output.Handler[catalog.Summary]
	switch c.Format {
	case cmd.FormatJSON:
		handler = output.NewJSONHandler[catalog.Summary](cobraCmd.OutOrStdout(), 2)
	case cmd.FormatYAML:
		handler = output.NewYAMLHandler[catalog.Summary](cobraCmd.OutOrStdout(), 2)
	default:
		handler = output.NewTextHandler(cobraCmd.OutOrStdout(), printSummary)
	}

	return handler.HandleResults([]catalog.Summary{summary})
}

// printSummary writes the catalog summary in human-readable form.
func printSummary(w io.Writer, s catalog.Summary) error {
	fmt.Fprintf(w, "Total servers: %d\n\n", s.Total)

	fmt.Fprintln(w, "By source:")
	for _, key := range sortedKeys(s.BySource) {
		fmt.Fprintf(w, "  %-20s %d\n", key, s.BySource[key])
	}

	fmt.Fprintln(w, "\nBy health:")
	for _, key := range sortedKeys(s.ByHealth) {
		fmt.Fprintf(w, "  %-20s %d\n", key, s.ByHealth[key])
	}

	fmt.Fprintln(w, "\nCapabilities:")
	fmt.Fprintf(w, "  %-20s %d\n", "with tools", s.WithTools)
	fmt.Fprintf(w, "  %-20s %d\n", "with resources", s.WithResources)
	fmt.Fprintf(w, "  %-20s %d\n", "with prompts", s.WithPrompts)
	fmt.Fprintf(w, "  %-20s %d\n", "with image", s.WithImage)

	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
