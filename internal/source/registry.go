// Package source contains the upstream clients that discover raw server
// records: the community registry, the container image hub, and the
// code-hosting search API. Each client is a best-effort fetcher; partial
// upstream payloads decay to records with missing optional fields.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mcpscout/mcpscout/internal/catalog"
)

const (
	sourceNameRegistry = "registry"

	// registryPageLimit is the maximum page size the registry accepts.
	registryPageLimit = 100
)

// RegistryClient fetches server records from the community MCP registry,
// following cursor pagination until exhausted.
// NewRegistryClient should be used to create instances of RegistryClient.
type RegistryClient struct {
	logger     hclog.Logger
	baseURL    string
	httpClient *http.Client
}

// NewRegistryClient creates a client for the registry at baseURL.
func NewRegistryClient(logger hclog.Logger, baseURL string) (*RegistryClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("empty registry URL is invalid")
	}

	return &RegistryClient{
		logger:     logger.Named(sourceNameRegistry),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *RegistryClient) ID() string {
	return sourceNameRegistry
}

// registryServer is the wire shape of one registry entry.
type registryServer struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type registryPage struct {
	Servers  []registryServer `json:"servers"`
	Metadata struct {
		NextCursor string `json:"next_cursor,omitempty"`
	} `json:"metadata"`
}

// FetchRecords retrieves every record the registry knows about.
func (c *RegistryClient) FetchRecords(ctx context.Context) ([]catalog.ServerRecord, error) {
	var all []catalog.ServerRecord
	cursor := ""

	for {
		page, err := c.listServers(ctx, cursor)
		if err != nil {
			return nil, err
		}

		for _, s := range page.Servers {
			record, ok := c.parseServer(s)
			if !ok {
				continue
			}
			all = append(all, record)
		}

		cursor = page.Metadata.NextCursor
		if cursor == "" {
			break
		}
	}

	c.logger.Debug("Fetched registry servers", "count", len(all))
	return all, nil
}

func (c *RegistryClient) listServers(ctx context.Context, cursor string) (registryPage, error) {
	endpoint := fmt.Sprintf("%s/v0/servers", c.baseURL)

	params := url.Values{}
	params.Set("limit", strconv.Itoa(registryPageLimit))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return registryPage{}, fmt.Errorf("failed to build registry request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return registryPage{}, fmt.Errorf("failed to fetch registry servers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return registryPage{}, fmt.Errorf("received non-OK HTTP status from registry '%s': %d", c.baseURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return registryPage{}, fmt.Errorf("failed to read registry response body: %w", err)
	}

	var page registryPage
	if err := json.Unmarshal(body, &page); err != nil {
		return registryPage{}, fmt.Errorf("failed to unmarshal registry JSON: %w", err)
	}
	return page, nil
}

// parseServer converts a wire entry to a canonical record. Entries without an
// id or name carry no usable identity and are skipped.
func (c *RegistryClient) parseServer(s registryServer) (catalog.ServerRecord, bool) {
	if s.ID == "" || s.Name == "" {
		c.logger.Debug("Skipping registry entry without identity", "id", s.ID, "name", s.Name)
		return catalog.ServerRecord{}, false
	}

	return catalog.ServerRecord{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		URL:         s.URL,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Source:      catalog.SourceRegistry,
		Health:      catalog.NewHealthState(),
	}, true
}
