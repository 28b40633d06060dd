package api

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcpscout/mcpscout/internal/errors"
)

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	t.Run("aggregates statuses", func(t *testing.T) {
		t.Parallel()

		resp, err := handleHealth(&fakeReader{records: testRecords()})
		require.NoError(t, err)

		summary := resp.Body
		require.Equal(t, 3, summary.Total)
		require.Equal(t, 1, summary.ByStatus["healthy"])
		require.Equal(t, 1, summary.ByStatus["unreachable"])
		require.Equal(t, 1, summary.ByStatus["unknown"])
		require.Len(t, summary.Servers, 3)

		var unreachableErr string
		for _, s := range summary.Servers {
			if s.ID == "mcp/github-mcp-server" {
				unreachableErr = s.Error
			}
		}
		require.Equal(t, "All introspection methods failed", unreachableErr)
	})

	t.Run("empty catalog", func(t *testing.T) {
		t.Parallel()

		resp, err := handleHealth(&fakeReader{})
		require.NoError(t, err)
		require.Equal(t, 0, resp.Body.Total)
		require.Empty(t, resp.Body.Servers)
	})

	t.Run("reader failure propagates", func(t *testing.T) {
		t.Parallel()

		_, err := handleHealth(&fakeReader{err: errors.ErrStoreUnavailable})
		require.ErrorIs(t, err, errors.ErrStoreUnavailable)
	})
}

func TestHandleStats(t *testing.T) {
	t.Parallel()

	resp, err := handleStats(&fakeReader{records: testRecords()})
	require.NoError(t, err)

	require.Equal(t, 3, resp.Body.Total)
	require.Equal(t, 1, resp.Body.BySource["registry"])
	require.Equal(t, 1, resp.Body.BySource["container_hub"])
	require.Equal(t, 1, resp.Body.BySource["code_host"])
}
