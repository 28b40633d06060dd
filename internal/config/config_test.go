package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".mcpscout.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	loader := &DefaultLoader{}
	cfg, err := loader.Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)

	require.True(t, cfg.Sources.Registry.Enabled)
	require.Equal(t, DefaultRegistryURL, cfg.Sources.Registry.URL)
	require.Equal(t, DefaultHubNamespace, cfg.Sources.Hub.Namespace)
	require.Equal(t, DefaultMaxConcurrent, cfg.Scan.MaxConcurrent)
	require.Equal(t, DefaultStorePath, cfg.Store.Path)
	require.Equal(t, 24*time.Hour, cfg.CacheMaxAge())
	require.Empty(t, cfg.FilePath())
}

func TestLoad_EmptyPath(t *testing.T) {
	t.Parallel()

	loader := &DefaultLoader{}
	_, err := loader.Load("  ")
	require.ErrorIs(t, err, ErrConfigLoadFailed)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[sources.registry]
enabled = false

[sources.container_hub]
namespace = "custom"

[sources.code_host]
query = "mcp in:name"
max_repositories = 250

[scan]
max_concurrent = 10
startup_timeout_seconds = 60
cache_max_age_hours = 6

[store]
path = "/tmp/custom/catalog.db"

[api]
addr = "127.0.0.1:9999"
cors_enabled = true
cors_origins = ["https://app.example.com"]
`)

	loader := &DefaultLoader{}
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	require.False(t, cfg.Sources.Registry.Enabled)
	require.Equal(t, "custom", cfg.Sources.Hub.Namespace)
	require.Equal(t, "mcp in:name", cfg.Sources.CodeHost.Query)
	require.Equal(t, 250, cfg.Sources.CodeHost.MaxRepos)
	require.Equal(t, 10, cfg.Scan.MaxConcurrent)
	require.Equal(t, 60*time.Second, cfg.StartupTimeout())
	require.Equal(t, 6*time.Hour, cfg.CacheMaxAge())
	require.Equal(t, "/tmp/custom/catalog.db", cfg.Store.Path)
	require.Equal(t, "127.0.0.1:9999", cfg.API.Addr)
	require.True(t, cfg.API.CORSEnabled)
	require.Equal(t, path, cfg.FilePath())

	// Unset sections keep their defaults.
	require.Equal(t, DefaultHubURL, cfg.Sources.Hub.URL)
	require.Equal(t, 15*time.Second, cfg.CallTimeout())
}

func TestLoad_ValidationFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name: "enabled registry with empty url",
			content: `
[sources.registry]
enabled = true
url = ""
`,
		},
		{
			name: "enabled hub with empty namespace",
			content: `
[sources.container_hub]
enabled = true
namespace = ""
`,
		},
		{
			name: "negative concurrency",
			content: `
[scan]
max_concurrent = -1
`,
		},
		{
			name: "empty store path",
			content: `
[store]
path = ""
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			loader := &DefaultLoader{}
			_, err := loader.Load(writeConfig(t, tc.content))
			require.ErrorIs(t, err, ErrConfigLoadFailed)
		})
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	t.Parallel()

	loader := &DefaultLoader{}
	_, err := loader.Load(writeConfig(t, `this is not toml = = =`))
	require.ErrorIs(t, err, ErrConfigLoadFailed)
}

func TestHubCredentials_ResolvedFromEnvironment(t *testing.T) {
	t.Setenv("TEST_HUB_USER", "scout")
	t.Setenv("TEST_HUB_PASS", "secret")

	cfg := Default()
	cfg.Sources.Hub.UsernameEnv = "TEST_HUB_USER"
	cfg.Sources.Hub.PasswordEnv = "TEST_HUB_PASS"

	username, password := cfg.HubCredentials()
	require.Equal(t, "scout", username)
	require.Equal(t, "secret", password)
}

func TestHubCredentials_UnsetEnvNamesMeanUnauthenticated(t *testing.T) {
	t.Parallel()

	username, password := Default().HubCredentials()
	require.Empty(t, username)
	require.Empty(t, password)
}

func TestCodeHostToken(t *testing.T) {
	t.Setenv("TEST_GH_TOKEN", "gh-secret")

	cfg := Default()
	require.Empty(t, cfg.CodeHostToken())

	cfg.Sources.CodeHost.TokenEnv = "TEST_GH_TOKEN"
	require.Equal(t, "gh-secret", cfg.CodeHostToken())
}
