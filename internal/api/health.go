package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcpscout/mcpscout/internal/catalog"
	"github.com/mcpscout/mcpscout/internal/contracts"
)

// ServerHealth is the per-record slice of health data the health endpoint returns.
type ServerHealth struct {
	ID     string               `json:"id"`
	Name   string               `json:"name"`
	Status catalog.HealthStatus `json:"status"`
	Error  string               `json:"error,omitempty"`
}

// HealthSummary aggregates introspection health across the catalog.
type HealthSummary struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	Servers  []ServerHealth `json:"servers"`
}

// HealthResponse represents the wrapped API response for the health summary.
type HealthResponse struct {
	Body HealthSummary
}

// RegisterHealthRoutes sets up the introspection health endpoint.
func RegisterHealthRoutes(routerAPI huma.API, reader contracts.CatalogReader, apiPathPrefix string) {
	healthAPI := huma.NewGroup(routerAPI, apiPathPrefix)

	huma.Register(
		healthAPI,
		huma.Operation{
			OperationID: "getHealth",
			Method:      http.MethodGet,
			Summary:     "Get introspection health for all catalog servers",
			Tags:        []string{"Health"},
		},
		func(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
			return handleHealth(reader)
		},
	)
}

func handleHealth(reader contracts.CatalogReader) (*HealthResponse, error) {
	records, err := reader.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	summary := HealthSummary{
		Total:    len(records),
		ByStatus: map[string]int{},
		Servers:  make([]ServerHealth, 0, len(records)),
	}
	for _, record := range records {
		summary.ByStatus[string(record.Health.Status)]++
		summary.Servers = append(summary.Servers, ServerHealth{
			ID:     record.ID,
			Name:   record.Name,
			Status: record.Health.Status,
			Error:  record.Health.ErrorMessage,
		})
	}

	return &HealthResponse{Body: summary}, nil
}
