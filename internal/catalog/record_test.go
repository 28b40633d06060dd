package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNameKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercases", input: "GitHub Server", expected: "github server"},
		{name: "trims whitespace", input: "  fetch  ", expected: "fetch"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := ServerRecord{Name: tc.input}
			require.Equal(t, tc.expected, r.NameKey())
		})
	}
}

func TestHasTransport(t *testing.T) {
	t.Parallel()

	r := ServerRecord{SupportedTransports: []Transport{TransportHTTP, TransportWebSocket}}

	require.True(t, r.HasTransport(TransportHTTP))
	require.True(t, r.HasTransport(TransportWebSocket))
	require.False(t, r.HasTransport(TransportStdio))
}

func TestClone_IsDeep(t *testing.T) {
	t.Parallel()

	now := time.Now()
	score := 0.5
	original := ServerRecord{
		ID:                  "a",
		Name:                "one",
		Tags:                []string{"tag"},
		CreatedAt:           &now,
		Tools:               []ToolDescriptor{{Name: "t"}},
		IntrospectionErrors: []string{"http: failed"},
		TrustScore:          &score,
		Labels:              map[string]string{"k": "v"},
		Health: HealthState{
			Status:      HealthHealthy,
			LastChecked: &now,
		},
	}

	clone := original.Clone()

	clone.Tags[0] = "mutated"
	clone.Tools[0].Name = "mutated"
	clone.IntrospectionErrors[0] = "mutated"
	clone.Labels["k"] = "mutated"
	*clone.CreatedAt = now.Add(time.Hour)
	*clone.TrustScore = 0.9
	*clone.Health.LastChecked = now.Add(time.Hour)

	require.Equal(t, "tag", original.Tags[0])
	require.Equal(t, "t", original.Tools[0].Name)
	require.Equal(t, "http: failed", original.IntrospectionErrors[0])
	require.Equal(t, "v", original.Labels["k"])
	require.True(t, original.CreatedAt.Equal(now))
	require.Equal(t, 0.5, *original.TrustScore)
	require.True(t, original.Health.LastChecked.Equal(now))
}

func TestRefreshCapabilityFlags(t *testing.T) {
	t.Parallel()

	r := ServerRecord{
		Tools:        []ToolDescriptor{{Name: "t"}},
		Capabilities: CapabilityFlags{Prompts: true, Logging: true},
	}

	r.RefreshCapabilityFlags()

	require.True(t, r.Capabilities.Tools)
	require.False(t, r.Capabilities.Resources)
	// Prompts recomputed from the (empty) collection.
	require.False(t, r.Capabilities.Prompts)
	// Logging is declared, not observed; it survives untouched.
	require.True(t, r.Capabilities.Logging)
}

func TestTransportsFromStrings(t *testing.T) {
	t.Parallel()

	got := TransportsFromStrings([]string{"stdio", "HTTP", " websocket ", "bogus", ""})
	require.Equal(t, []Transport{TransportStdio, TransportHTTP, TransportWebSocket}, got)
}

func TestToolDescriptor_ValidateSchema(t *testing.T) {
	t.Parallel()

	valid := ToolDescriptor{
		Name: "get_time",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]any{
				"timezone": map[string]any{"type": "string"},
			},
			Required: []string{"timezone"},
		},
	}
	require.NoError(t, valid.ValidateSchema())

	invalid := ToolDescriptor{
		Name: "broken",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]any{
				"arg": map[string]any{"type": 12345},
			},
		},
	}
	require.Error(t, invalid.ValidateSchema())
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	records := []ServerRecord{
		{
			ID:     "a",
			Source: SourceRegistry,
			Health: HealthState{Status: HealthHealthy},
			Tools:  []ToolDescriptor{{Name: "t"}},
		},
		{
			ID:             "b",
			Source:         SourceContainerHub,
			ImageReference: "ns/img",
			Health:         HealthState{Status: HealthUnknown},
		},
		{
			ID:     "c",
			Source: SourceRegistry,
			Health: HealthState{Status: HealthUnhealthy},
		},
	}

	s := Summarize(records)

	require.Equal(t, 3, s.Total)
	require.Equal(t, 2, s.BySource["registry"])
	require.Equal(t, 1, s.BySource["container_hub"])
	require.Equal(t, 1, s.ByHealth["healthy"])
	require.Equal(t, 1, s.ByHealth["unhealthy"])
	require.Equal(t, 1, s.WithTools)
	require.Equal(t, 1, s.WithImage)
	require.Equal(t, 0, s.WithPrompts)
}
