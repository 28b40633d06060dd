package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mcpscout/mcpscout/internal/catalog"
	"github.com/mcpscout/mcpscout/internal/cmd"
)

// SearchCmd should be used to represent the 'search' command.
type SearchCmd struct {
	*cmd.BaseCmd
	Source string
	Health string
	Limit  int
	Format cmd.OutputFormat
}

// NewSearchCmd creates a newly configured (Cobra) command.
func NewSearchCmd(logger hclog.Logger) *cobra.Command {
	c := &SearchCmd{
		BaseCmd: &cmd.BaseCmd{},
		Format:  cmd.FormatText,
	}
	c.SetLogger(logger)

	cobraCommand := &cobra.Command{
		Use:   "search <query>",
		Short: "Searches the stored catalog for matching MCP servers",
		Long: `Searches the stored catalog for servers whose name or description matches the
query. Run 'mcpscout scan' first to populate the catalog.`,
		RunE: c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Source,
		"source",
		"",
		"Optional, restrict results to one discovery source (e.g. registry, container_hub)",
	)

	cobraCommand.Flags().StringVar(
		&c.Health,
		"health",
		"",
		"Optional, restrict results to one health status (e.g. healthy)",
	)

	cobraCommand.Flags().IntVar(
		&c.Limit,
		"limit",
		0,
		"Maximum number of results to show (0 shows all)",
	)

	cobraCommand.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Output format, one of: %s", cmd.AllowedOutputFormats().String()),
	)

	return cobraCommand
}

// run is configured (via NewSearchCmd) to be called by the Cobra framework when the command is executed.
func (c *SearchCmd) run(cobraCmd *cobra.Command, args []string) error {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("query is required and cannot be empty")
	}
	query := strings.TrimSpace(args[0])

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

	filters := map[string]string{"search": query}
	if c.Source != "" {
		filters["source"] = c.Source
	}
	if c.Health != "" {
		filters["health"] = c.Health
	}

	records, err := st.Query(filters)
	if err != nil {
		return err
	}

	slices.SortFunc(records, func(a, b catalog.ServerRecord) int {
		return strings.Compare(a.ID, b.ID)
	})

	if c.Limit > 0 && len(records) > c.Limit {
		records = records[:c.Limit]
	}

	return recordHandler(c.Format, cobraCmd.OutOrStdout()).HandleResults(records)
}
