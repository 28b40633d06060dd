package api

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcpscout/mcpscout/internal/catalog"
	"github.com/mcpscout/mcpscout/internal/contracts"
)

// ServersRequest represents the incoming API request for listing catalog servers.
type ServersRequest struct {
	Source    string `doc:"Filter by discovery source"                example:"registry" query:"source"`
	Search    string `doc:"Substring match on name or description"    example:"github"   query:"search"`
	Namespace string `doc:"Filter by namespace"                       example:"mcp"      query:"namespace"`
	Health    string `doc:"Filter by health status"                   example:"healthy"  query:"health"`
	Limit     int    `doc:"Maximum number of results, 0 for no limit" example:"50"       query:"limit" minimum:"0"`
}

// ServersResponse represents the wrapped API response for a list of servers.
type ServersResponse struct {
	Body []catalog.ServerRecord
}

// ServerLookupRequest represents the incoming API request for one server record.
type ServerLookupRequest struct {
	ID string `doc:"ID of the server record" example:"mcp/github-mcp-server" path:"id"`
}

// ServerResponse represents the wrapped API response for a single server.
type ServerResponse struct {
	Body catalog.ServerRecord
}

// RegisterServerRoutes sets up the catalog server endpoints.
func RegisterServerRoutes(routerAPI huma.API, reader contracts.CatalogReader, apiPathPrefix string) {
	serversAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Servers"}

	// Add route at the root of the group (no path specified).
	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "listServers",
			Method:      http.MethodGet,
			Summary:     "List catalog servers",
			Tags:        tags,
		},
		func(ctx context.Context, input *ServersRequest) (*ServersResponse, error) {
			return handleServers(reader, input)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "getServer",
			Method:      http.MethodGet,
			Path:        "/{id}",
			Summary:     "Get one catalog server",
			Tags:        tags,
		},
		func(ctx context.Context, input *ServerLookupRequest) (*ServerResponse, error) {
			return handleServer(reader, input.ID)
		},
	)
}

// handleServers returns the catalog records matching the request filters,
// sorted by ID for stable output.
func handleServers(reader contracts.CatalogReader, input *ServersRequest) (*ServersResponse, error) {
	filters := map[string]string{}
	if strings.TrimSpace(input.Source) != "" {
		filters["source"] = input.Source
	}
	if strings.TrimSpace(input.Search) != "" {
		filters["search"] = input.Search
	}
	if strings.TrimSpace(input.Namespace) != "" {
		filters["namespace"] = input.Namespace
	}
	if strings.TrimSpace(input.Health) != "" {
		filters["health"] = input.Health
	}

	records, err := reader.Query(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}

	slices.SortFunc(records, func(a, b catalog.ServerRecord) int {
		return strings.Compare(a.ID, b.ID)
	})

	if input.Limit > 0 && len(records) > input.Limit {
		records = records[:input.Limit]
	}

	return &ServersResponse{Body: records}, nil
}

// handleServer returns one record by ID.
func handleServer(reader contracts.CatalogReader, id string) (*ServerResponse, error) {
	record, err := reader.Get(id)
	if err != nil {
		return nil, err
	}
	return &ServerResponse{Body: record}, nil
}
