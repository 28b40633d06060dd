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
	sourceNameCodeHost = "code_host"

	searchPageSize = 100

	// defaultSearchQuery narrows repository search to MCP server projects.
	defaultSearchQuery = `"mcp server" OR "model context protocol" in:name,description,readme,topics`
)

// RepoAnalyzer decides whether a searched repository actually is an MCP
// server. Implementations are pattern-matching heuristics; the fetcher only
// consumes their verdict and confidence.
type RepoAnalyzer interface {
	Analyze(ctx context.Context, repo Repository) (isServer bool, confidence float64)
}

// Repository is the subset of the code-host search result the fetcher and
// analyzers care about.
type Repository struct {
	Name        string
	FullName    string
	Description string
	HTMLURL     string
	Language    string
	Stars       int64
	Forks       int64
	Topics      []string
	Owner       string
	HasLicense  bool
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}

// GitHubClient discovers candidate MCP servers through the code-host
// repository search API and filters them through a RepoAnalyzer.
// NewGitHubClient should be used to create instances of GitHubClient.
type GitHubClient struct {
	logger     hclog.Logger
	baseURL    string
	token      string
	query      string
	maxRepos   int
	analyzer   RepoAnalyzer
	httpClient *http.Client
}

// GitHubOption configures a GitHubClient.
type GitHubOption func(*GitHubClient)

// WithGitHubToken sets the API token used for authenticated search.
func WithGitHubToken(token string) GitHubOption {
	return func(c *GitHubClient) {
		c.token = strings.TrimSpace(token)
	}
}

// WithSearchQuery overrides the repository search query.
func WithSearchQuery(query string) GitHubOption {
	return func(c *GitHubClient) {
		if strings.TrimSpace(query) != "" {
			c.query = query
		}
	}
}

// WithMaxRepositories caps how many search results are analyzed.
func WithMaxRepositories(n int) GitHubOption {
	return func(c *GitHubClient) {
		if n > 0 {
			c.maxRepos = n
		}
	}
}

// WithAnalyzer overrides the repository analyzer.
func WithAnalyzer(a RepoAnalyzer) GitHubOption {
	return func(c *GitHubClient) {
		if a != nil {
			c.analyzer = a
		}
	}
}

// NewGitHubClient creates a client for the code-host API at baseURL.
func NewGitHubClient(logger hclog.Logger, baseURL string, opt ...GitHubOption) (*GitHubClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("empty code host URL is invalid")
	}

	c := &GitHubClient{
		logger:     logger.Named(sourceNameCodeHost),
		baseURL:    baseURL,
		query:      defaultSearchQuery,
		maxRepos:   1000,
		analyzer:   keywordAnalyzer{},
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opt {
		if o != nil {
			o(c)
		}
	}
	return c, nil
}

func (c *GitHubClient) ID() string {
	return sourceNameCodeHost
}

type searchItem struct {
	Name        string     `json:"name"`
	FullName    string     `json:"full_name"`
	Description string     `json:"description"`
	HTMLURL     string     `json:"html_url"`
	Language    string     `json:"language"`
	Stars       int64      `json:"stargazers_count"`
	Forks       int64      `json:"forks_count"`
	Topics      []string   `json:"topics"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
	License *struct {
		Key string `json:"key"`
	} `json:"license"`
}

type searchPage struct {
	TotalCount int          `json:"total_count"`
	Items      []searchItem `json:"items"`
}

// FetchRecords searches for candidate repositories and converts the ones the
// analyzer accepts. Analysis failures on individual repositories are skipped,
// never fatal.
func (c *GitHubClient) FetchRecords(ctx context.Context) ([]catalog.ServerRecord, error) {
	maxPages := c.maxRepos / searchPageSize
	if maxPages < 1 {
		maxPages = 1
	}

	var records []catalog.ServerRecord
	analyzed := 0

	for page := 1; page <= maxPages; page++ {
		result, err := c.searchRepositories(ctx, page)
		if err != nil {
			if len(records) > 0 {
				// Partial results beat none; later pages often hit rate limits.
				c.logger.Warn("Search page failed, returning partial results", "page", page, "error", err)
				break
			}
			return nil, err
		}
		if len(result.Items) == 0 {
			break
		}

		for _, item := range result.Items {
			repo := repositoryFromItem(item)
			analyzed++

			isServer, confidence := c.analyzer.Analyze(ctx, repo)
			if !isServer {
				continue
			}
			records = append(records, recordFromRepository(repo, confidence))
		}
	}

	c.logger.Debug("Code host discovery complete", "analyzed", analyzed, "servers", len(records))
	return records, nil
}

func (c *GitHubClient) searchRepositories(ctx context.Context, page int) (searchPage, error) {
	params := url.Values{}
	params.Set("q", c.query)
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(searchPageSize))
	params.Set("page", strconv.Itoa(page))

	endpoint := fmt.Sprintf("%s/search/repositories?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return searchPage{}, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "mcpscout/0.1")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return searchPage{}, fmt.Errorf("failed to search repositories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return searchPage{}, fmt.Errorf("received non-OK HTTP status from code host search: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return searchPage{}, fmt.Errorf("failed to read search response body: %w", err)
	}

	var result searchPage
	if err := json.Unmarshal(body, &result); err != nil {
		return searchPage{}, fmt.Errorf("failed to unmarshal search JSON: %w", err)
	}
	return result, nil
}

func repositoryFromItem(item searchItem) Repository {
	return Repository{
		Name:        item.Name,
		FullName:    item.FullName,
		Description: item.Description,
		HTMLURL:     item.HTMLURL,
		Language:    item.Language,
		Stars:       item.Stars,
		Forks:       item.Forks,
		Topics:      item.Topics,
		Owner:       item.Owner.Login,
		HasLicense:  item.License != nil,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// recordFromRepository converts an accepted repository to a canonical record,
// deriving trust from host metrics and analyzer confidence.
func recordFromRepository(repo Repository, confidence float64) catalog.ServerRecord {
	categories := make([]string, 0, len(repo.Topics)+1)
	categories = append(categories, repo.Topics...)
	if repo.Language != "" {
		categories = append(categories, strings.ToLower(repo.Language))
	}

	licenseBonus := 0.0
	if repo.HasLicense {
		licenseBonus = 50
	}
	trust := min(1.0, (float64(repo.Stars)*0.1+float64(repo.Forks)*0.2+licenseBonus+confidence*500)/1000)
	popularity := min(1.0, float64(repo.Stars)/1000)

	return catalog.ServerRecord{
		ID:              "github/" + repo.FullName,
		Name:            repo.Name,
		Description:     repo.Description,
		URL:             repo.HTMLURL,
		Tags:            repo.Topics,
		Categories:      categories,
		CreatedAt:       repo.CreatedAt,
		UpdatedAt:       repo.UpdatedAt,
		Source:          catalog.SourceCodeHost,
		Namespace:       repo.Owner,
		StarCount:       repo.Stars,
		TrustScore:      &trust,
		PopularityScore: &popularity,
		Health:          catalog.NewHealthState(),
	}
}

// keywordAnalyzer is the default RepoAnalyzer: a cheap keyword heuristic over
// name, description, and topics. It deliberately avoids extra API calls.
type keywordAnalyzer struct{}

func (keywordAnalyzer) Analyze(_ context.Context, repo Repository) (bool, float64) {
	haystack := strings.ToLower(repo.FullName + " " + repo.Description + " " + strings.Join(repo.Topics, " "))

	score := 0.0
	for _, indicator := range []string{"mcp server", "mcp-server", "model context protocol", "modelcontextprotocol"} {
		if strings.Contains(haystack, indicator) {
			score += 0.4
		}
	}
	if strings.Contains(haystack, "mcp") {
		score += 0.2
	}

	confidence := min(1.0, score)
	return confidence >= 0.4, confidence
}
