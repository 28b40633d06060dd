package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/mcpscout/mcpscout/internal/catalog"
	"github.com/mcpscout/mcpscout/internal/cmd"
	"github.com/mcpscout/mcpscout/internal/cmd/output"
)

// recordHandler returns the output handler for server records in the
// requested format.
func recordHandler(format cmd.OutputFormat, w io.Writer) output.Handler[catalog.ServerRecord] {
	switch format {
	case cmd.FormatJSON:
		return output.NewJSONHandler[catalog.ServerRecord](w, 2)
	case cmd.FormatYAML:
		return output.NewYAMLHandler[catalog.ServerRecord](w, 2)
	default:
		return output.NewTextHandler(w, printRecord)
	}
}

// printRecord writes one record in human-readable form.
func printRecord(w io.Writer, r catalog.ServerRecord) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)\n", r.Name, r.ID)
	fmt.Fprintf(&b, "  source: %s", r.Source)
	if r.Namespace != "" {
		fmt.Fprintf(&b, "  namespace: %s", r.Namespace)
	}
	fmt.Fprintf(&b, "  health: %s\n", r.Health.Status)

	if r.Description != "" {
		fmt.Fprintf(&b, "  %s\n", r.Description)
	}
	if r.URL != "" {
		fmt.Fprintf(&b, "  url: %s\n", r.URL)
	}
	if r.ImageReference != "" {
		fmt.Fprintf(&b, "  image: %s\n", r.ImageReference)
	}
	if len(r.Tools) > 0 || len(r.Resources) > 0 || len(r.Prompts) > 0 {
		fmt.Fprintf(&b, "  capabilities: %d tool(s), %d resource(s), %d prompt(s)\n",
			len(r.Tools), len(r.Resources), len(r.Prompts))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
