package introspect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mcpscout/mcpscout/internal/catalog"
)

const transportHTTP = "http"

// methodNotFoundMessage is the JSON-RPC error text servers return for
// unimplemented capability listings. Treated as an empty collection, not a
// transport failure.
// TODO: Replace string matching with JSON-RPC error code checking once
// mcp-go preserves error codes (https://github.com/mark3labs/mcp-go/issues/593).
const methodNotFoundMessage = "Method not found"

// httpTransport introspects a server over streamable HTTP using the mcp-go
// client.
type httpTransport struct {
	logger  hclog.Logger
	timeout time.Duration
}

func newHTTPTransport(logger hclog.Logger, timeout time.Duration) *httpTransport {
	return &httpTransport{
		logger:  logger.Named(transportHTTP),
		timeout: timeout,
	}
}

func (t *httpTransport) name() string {
	return transportHTTP
}

func (t *httpTransport) eligible(record catalog.ServerRecord) bool {
	return record.URL != ""
}

func (t *httpTransport) introspect(ctx context.Context, record catalog.ServerRecord) (listing, error) {
	mcpClient, err := client.NewStreamableHttpClient(record.URL)
	if err != nil {
		return listing{}, fmt.Errorf("failed to create HTTP MCP client for '%s': %w", record.URL, err)
	}
	defer func() {
		if closeErr := mcpClient.Close(); closeErr != nil {
			t.logger.Debug("Error closing HTTP MCP client", "server", record.Name, "error", closeErr)
		}
	}()

	sessionCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if err := mcpClient.Start(sessionCtx); err != nil {
		return listing{}, fmt.Errorf("failed to start HTTP MCP client: %w", err)
	}

	if _, err := mcpClient.Initialize(sessionCtx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcp.Implementation{Name: clientName, Version: clientVersion},
		},
	}); err != nil {
		return listing{}, fmt.Errorf("error initializing MCP client: %w", err)
	}

	var result listing

	toolsResult, err := mcpClient.ListTools(sessionCtx, mcp.ListToolsRequest{})
	switch {
	case err == nil && toolsResult != nil:
		result.tools = toolDescriptors(toolsResult.Tools)
	case err != nil && !strings.Contains(err.Error(), methodNotFoundMessage):
		return listing{}, fmt.Errorf("%s: %w", methodListTools, err)
	}

	resourcesResult, err := mcpClient.ListResources(sessionCtx, mcp.ListResourcesRequest{})
	switch {
	case err == nil && resourcesResult != nil:
		result.resources = resourceDescriptors(resourcesResult.Resources)
	case err != nil && !strings.Contains(err.Error(), methodNotFoundMessage):
		return listing{}, fmt.Errorf("%s: %w", methodListResources, err)
	}

	promptsResult, err := mcpClient.ListPrompts(sessionCtx, mcp.ListPromptsRequest{})
	switch {
	case err == nil && promptsResult != nil:
		result.prompts = promptDescriptors(promptsResult.Prompts)
	case err != nil && !strings.Contains(err.Error(), methodNotFoundMessage):
		return listing{}, fmt.Errorf("%s: %w", methodListPrompts, err)
	}

	return result, nil
}

func toolDescriptors(tools []mcp.Tool) []catalog.ToolDescriptor {
	out := make([]catalog.ToolDescriptor, 0, len(tools))
	for _, tool := range tools {
		desc := catalog.ToolDescriptor{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: catalog.JSONSchema{
				Type:       tool.InputSchema.Type,
				Properties: tool.InputSchema.Properties,
				Required:   tool.InputSchema.Required,
			},
		}
		if tool.Annotations.DestructiveHint != nil {
			desc.IsDestructive = *tool.Annotations.DestructiveHint
		}
		out = append(out, desc)
	}
	return out
}

func resourceDescriptors(resources []mcp.Resource) []catalog.ResourceDescriptor {
	out := make([]catalog.ResourceDescriptor, 0, len(resources))
	for _, res := range resources {
		out = append(out, catalog.ResourceDescriptor{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MIMEType:    res.MIMEType,
		})
	}
	return out
}

func promptDescriptors(prompts []mcp.Prompt) []catalog.PromptDescriptor {
	out := make([]catalog.PromptDescriptor, 0, len(prompts))
	for _, prompt := range prompts {
		args := make([]catalog.PromptArgument, 0, len(prompt.Arguments))
		for _, a := range prompt.Arguments {
			args = append(args, catalog.PromptArgument{
				Name:        a.Name,
				Description: a.Description,
				Required:    a.Required,
			})
		}
		out = append(out, catalog.PromptDescriptor{
			Name:        prompt.Name,
			Description: prompt.Description,
			Arguments:   args,
		})
	}
	return out
}
