package source

import (
	"bytes"
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
	sourceNameContainerHub = "container_hub"

	hubPageSize = 100
)

// DockerHubClient fetches the repositories of a container hub namespace and
// presents them as server records carrying an image reference.
// NewDockerHubClient should be used to create instances of DockerHubClient.
type DockerHubClient struct {
	logger     hclog.Logger
	baseURL    string
	namespace  string
	username   string
	password   string
	token      string
	httpClient *http.Client
}

// HubOption configures a DockerHubClient.
type HubOption func(*DockerHubClient)

// WithHubCredentials enables JWT authentication for rate-limit relief.
func WithHubCredentials(username, password string) HubOption {
	return func(c *DockerHubClient) {
		c.username = username
		c.password = password
	}
}

// NewDockerHubClient creates a client listing the given hub namespace.
func NewDockerHubClient(logger hclog.Logger, baseURL, namespace string, opt ...HubOption) (*DockerHubClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("empty container hub URL is invalid")
	}
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return nil, fmt.Errorf("empty container hub namespace is invalid")
	}

	c := &DockerHubClient{
		logger:     logger.Named(sourceNameContainerHub),
		baseURL:    baseURL,
		namespace:  namespace,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opt {
		if o != nil {
			o(c)
		}
	}
	return c, nil
}

func (c *DockerHubClient) ID() string {
	return sourceNameContainerHub
}

type hubRepository struct {
	Name        string     `json:"name"`
	Namespace   string     `json:"namespace"`
	Description string     `json:"description,omitempty"`
	StarCount   int64      `json:"star_count"`
	PullCount   int64      `json:"pull_count"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

type hubPage struct {
	Count   int             `json:"count"`
	Next    string          `json:"next,omitempty"`
	Results []hubRepository `json:"results"`
}

// FetchRecords lists every repository in the configured namespace.
func (c *DockerHubClient) FetchRecords(ctx context.Context) ([]catalog.ServerRecord, error) {
	if c.username != "" && c.password != "" {
		if err := c.authenticate(ctx); err != nil {
			// Unauthenticated listing still works, only rate limits differ.
			c.logger.Warn("Container hub authentication failed, continuing unauthenticated", "error", err)
		}
	}

	var all []catalog.ServerRecord
	for page := 1; ; page++ {
		result, err := c.listRepositories(ctx, page)
		if err != nil {
			return nil, err
		}

		for _, repo := range result.Results {
			record, ok := c.parseRepository(repo)
			if !ok {
				continue
			}
			all = append(all, record)
		}

		if result.Next == "" {
			break
		}
	}

	c.logger.Debug("Fetched container hub repositories", "namespace", c.namespace, "count", len(all))
	return all, nil
}

func (c *DockerHubClient) authenticate(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/v2/users/login/", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received non-OK HTTP status from login endpoint: %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	if body.Token == "" {
		return fmt.Errorf("login response contained no token")
	}

	c.token = body.Token
	return nil
}

func (c *DockerHubClient) listRepositories(ctx context.Context, page int) (hubPage, error) {
	endpoint := fmt.Sprintf("%s/v2/repositories/%s/", c.baseURL, url.PathEscape(c.namespace))

	params := url.Values{}
	params.Set("page_size", strconv.Itoa(hubPageSize))
	params.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return hubPage{}, fmt.Errorf("failed to build container hub request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "JWT "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return hubPage{}, fmt.Errorf("failed to fetch container hub repositories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return hubPage{}, fmt.Errorf("received non-OK HTTP status from container hub '%s': %d", c.baseURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return hubPage{}, fmt.Errorf("failed to read container hub response body: %w", err)
	}

	var result hubPage
	if err := json.Unmarshal(body, &result); err != nil {
		return hubPage{}, fmt.Errorf("failed to unmarshal container hub JSON: %w", err)
	}
	return result, nil
}

func (c *DockerHubClient) parseRepository(repo hubRepository) (catalog.ServerRecord, bool) {
	if repo.Name == "" || repo.Namespace == "" {
		c.logger.Debug("Skipping repository without identity", "name", repo.Name, "namespace", repo.Namespace)
		return catalog.ServerRecord{}, false
	}

	imageRef := fmt.Sprintf("%s/%s", repo.Namespace, repo.Name)
	return catalog.ServerRecord{
		ID:             imageRef,
		Name:           repo.Name,
		Description:    repo.Description,
		ImageReference: imageRef,
		Namespace:      repo.Namespace,
		Source:         catalog.SourceContainerHub,
		CreatedAt:      repo.LastUpdated,
		UpdatedAt:      repo.LastUpdated,
		PullCount:      repo.PullCount,
		StarCount:      repo.StarCount,
		Health:         catalog.NewHealthState(),
	}, true
}
