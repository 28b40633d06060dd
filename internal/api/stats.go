package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcpscout/mcpscout/internal/catalog"
	"github.com/mcpscout/mcpscout/internal/contracts"
)

// StatsResponse represents the wrapped API response for catalog statistics.
type StatsResponse struct {
	Body catalog.Summary
}

// RegisterStatsRoutes sets up the catalog statistics endpoint.
func RegisterStatsRoutes(routerAPI huma.API, reader contracts.CatalogReader, apiPathPrefix string) {
	statsAPI := huma.NewGroup(routerAPI, apiPathPrefix)

	huma.Register(
		statsAPI,
		huma.Operation{
			OperationID: "getStats",
			Method:      http.MethodGet,
			Summary:     "Get catalog statistics",
			Tags:        []string{"Stats"},
		},
		func(ctx context.Context, _ *struct{}) (*StatsResponse, error) {
			return handleStats(reader)
		},
	)
}

func handleStats(reader contracts.CatalogReader) (*StatsResponse, error) {
	summary, err := reader.Stats()
	if err != nil {
		return nil, fmt.Errorf("failed to compute catalog statistics: %w", err)
	}
	return &StatsResponse{Body: summary}, nil
}
