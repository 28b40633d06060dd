package daemon

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/mcpscout/mcpscout/internal/catalog"
	"github.com/mcpscout/mcpscout/internal/errors"
)

type stubReader struct{}

func (stubReader) LoadAll() ([]catalog.ServerRecord, error) {
	return nil, nil
}

func (stubReader) Get(_ string) (catalog.ServerRecord, error) {
	return catalog.ServerRecord{}, errors.ErrServerNotFound
}

func (stubReader) Query(_ map[string]string) ([]catalog.ServerRecord, error) {
	return nil, nil
}

func (stubReader) Stats() (catalog.Summary, error) {
	return catalog.Summary{}, nil
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "bad request", err: errors.ErrBadRequest, expectedStatus: http.StatusBadRequest},
		{name: "server not found", err: errors.ErrServerNotFound, expectedStatus: http.StatusNotFound},
		{name: "catalog empty", err: errors.ErrCatalogEmpty, expectedStatus: http.StatusNotFound},
		{name: "scan in progress", err: errors.ErrScanInProgress, expectedStatus: http.StatusConflict},
		{name: "source fetch failed", err: errors.ErrSourceFetchFailed, expectedStatus: http.StatusBadGateway},
		{name: "store unavailable", err: errors.ErrStoreUnavailable, expectedStatus: http.StatusInternalServerError},
		{name: "unknown error", err: fmt.Errorf("boom"), expectedStatus: http.StatusInternalServerError},
		{
			name:           "wrapped error unwraps",
			err:            fmt.Errorf("looking up 'abc': %w", errors.ErrServerNotFound),
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := mapError(hclog.NewNullLogger(), tc.err)
			require.Equal(t, tc.expectedStatus, got.GetStatus())
		})
	}
}

func TestNewAPIServer_Validation(t *testing.T) {
	t.Parallel()

	logger := hclog.NewNullLogger()

	t.Run("valid dependencies", func(t *testing.T) {
		t.Parallel()

		deps, err := NewAPIDependencies(logger, stubReader{}, "0.0.0.0:8090")
		require.NoError(t, err)

		srv, err := NewAPIServer(deps)
		require.NoError(t, err)
		require.NotNil(t, srv)
	})

	t.Run("invalid address", func(t *testing.T) {
		t.Parallel()

		_, err := NewAPIDependencies(logger, stubReader{}, "not-an-address")
		require.Error(t, err)
	})

	t.Run("nil reader", func(t *testing.T) {
		t.Parallel()

		_, err := NewAPIDependencies(logger, nil, "0.0.0.0:8090")
		require.Error(t, err)
	})

	t.Run("invalid shutdown timeout", func(t *testing.T) {
		t.Parallel()

		deps, err := NewAPIDependencies(logger, stubReader{}, "0.0.0.0:8090")
		require.NoError(t, err)

		_, err = NewAPIServer(deps, WithShutdownTimeout(-time.Second))
		require.Error(t, err)
	})
}

func TestNewAPIOptions_Defaults(t *testing.T) {
	t.Parallel()

	opts, err := NewAPIOptions()
	require.NoError(t, err)

	require.False(t, opts.CORS.Enabled)
	require.Equal(t, DefaultAPIShutdownTimeout(), opts.ShutdownTimeout)
	require.Equal(t, DefaultCORSAllowMethods(), opts.CORS.AllowMethods)
}

func TestNewAPIOptions_Overrides(t *testing.T) {
	t.Parallel()

	opts, err := NewAPIOptions(
		WithCORSEnabled(true),
		WithCORSAllowOrigins([]string{"https://app.example.com"}),
		WithShutdownTimeout(10*time.Second),
	)
	require.NoError(t, err)

	require.True(t, opts.CORS.Enabled)
	require.Equal(t, []string{"https://app.example.com"}, opts.CORS.AllowOrigins)
	require.Equal(t, 10*time.Second, opts.ShutdownTimeout)
}
