package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/mcpscout/mcpscout/internal/catalog"
)

// acceptAllAnalyzer accepts every repository with fixed confidence.
type acceptAllAnalyzer struct {
	confidence float64
}

func (a acceptAllAnalyzer) Analyze(_ context.Context, _ Repository) (bool, float64) {
	return true, a.confidence
}

func TestGitHubClient_FetchRecords(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/repositories", r.URL.Path)
		require.Equal(t, "token secret", r.Header.Get("Authorization"))

		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `{"total_count": 2, "items": []}`)
			return
		}
		fmt.Fprint(w, `{
			"total_count": 2,
			"items": [
				{
					"name": "weather-mcp",
					"full_name": "octo/weather-mcp",
					"description": "MCP server for weather data",
					"html_url": "https://github.com/octo/weather-mcp",
					"language": "Go",
					"stargazers_count": 500,
					"forks_count": 50,
					"topics": ["mcp", "weather"],
					"owner": {"login": "octo"},
					"license": {"key": "mit"}
				},
				{
					"name": "notes",
					"full_name": "octo/notes",
					"description": "a note taking app",
					"html_url": "https://github.com/octo/notes",
					"stargazers_count": 3,
					"forks_count": 0,
					"owner": {"login": "octo"}
				}
			]
		}`)
	}))
	defer srv.Close()

	c, err := NewGitHubClient(
		hclog.NewNullLogger(),
		srv.URL,
		WithGitHubToken("secret"),
		WithMaxRepositories(200),
		WithAnalyzer(acceptAllAnalyzer{confidence: 0.9}),
	)
	require.NoError(t, err)

	got, err := c.FetchRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	require.Equal(t, "github/octo/weather-mcp", first.ID)
	require.Equal(t, catalog.SourceCodeHost, first.Source)
	require.Equal(t, "octo", first.Namespace)
	require.Contains(t, first.Categories, "go")
	require.Contains(t, first.Categories, "weather")

	// trust = min(1, (stars*0.1 + forks*0.2 + 50 + confidence*500) / 1000)
	require.NotNil(t, first.TrustScore)
	require.InDelta(t, 0.56, *first.TrustScore, 1e-9)

	// popularity = min(1, stars/1000)
	require.NotNil(t, first.PopularityScore)
	require.InDelta(t, 0.5, *first.PopularityScore, 1e-9)
}

func TestGitHubClient_FetchRecords_PartialResultsOnLaterPageFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `{
				"total_count": 150,
				"items": [{"name": "one", "full_name": "o/one", "owner": {"login": "o"}}]
			}`)
			return
		}
		// Simulated rate limit on the second page.
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, err := NewGitHubClient(
		hclog.NewNullLogger(),
		srv.URL,
		WithMaxRepositories(200),
		WithAnalyzer(acceptAllAnalyzer{confidence: 1}),
	)
	require.NoError(t, err)

	got, err := c.FetchRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestGitHubClient_FetchRecords_FirstPageFailureIsFatal(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, err := NewGitHubClient(hclog.NewNullLogger(), srv.URL)
	require.NoError(t, err)

	_, err = c.FetchRecords(context.Background())
	require.Error(t, err)
}

func TestKeywordAnalyzer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		repo     Repository
		isServer bool
	}{
		{
			name: "explicit mcp server phrase",
			repo: Repository{
				FullName:    "octo/time",
				Description: "an MCP server for time",
			},
			isServer: true,
		},
		{
			name: "topic match",
			repo: Repository{
				FullName: "octo/thing",
				Topics:   []string{"mcp-server"},
			},
			isServer: true,
		},
		{
			name: "weak mcp mention only",
			repo: Repository{
				FullName:    "octo/misc",
				Description: "mentions mcp once",
			},
			isServer: false,
		},
		{
			name:     "unrelated repository",
			repo:     Repository{FullName: "octo/webapp", Description: "a web app"},
			isServer: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			isServer, confidence := keywordAnalyzer{}.Analyze(context.Background(), tc.repo)
			require.Equal(t, tc.isServer, isServer)
			if isServer {
				require.GreaterOrEqual(t, confidence, 0.4)
			}
		})
	}
}
