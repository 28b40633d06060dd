package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcpscout/mcpscout/internal/catalog"
)

func TestCompletenessScore(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name     string
		record   catalog.ServerRecord
		expected int
	}{
		{
			name:     "empty record",
			record:   catalog.ServerRecord{},
			expected: 0,
		},
		{
			name:     "description only",
			record:   catalog.ServerRecord{Description: "d"},
			expected: 2,
		},
		{
			name:     "url only",
			record:   catalog.ServerRecord{URL: "https://example.com"},
			expected: 2,
		},
		{
			name:     "image reference only",
			record:   catalog.ServerRecord{ImageReference: "ns/img"},
			expected: 3,
		},
		{
			name:     "tags count directly",
			record:   catalog.ServerRecord{Tags: []string{"a", "b", "c"}},
			expected: 3,
		},
		{
			name:     "timestamps",
			record:   catalog.ServerRecord{CreatedAt: &now, UpdatedAt: &now},
			expected: 2,
		},
		{
			name: "tools weighted five plus count",
			record: catalog.ServerRecord{
				Tools: []catalog.ToolDescriptor{{Name: "a"}, {Name: "b"}},
			},
			expected: 7,
		},
		{
			name: "resources weighted three plus count",
			record: catalog.ServerRecord{
				Resources: []catalog.ResourceDescriptor{{URI: "file:///a"}},
			},
			expected: 4,
		},
		{
			name: "prompts weighted three plus count",
			record: catalog.ServerRecord{
				Prompts: []catalog.PromptDescriptor{{Name: "p"}, {Name: "q"}, {Name: "r"}},
			},
			expected: 6,
		},
		{
			name:     "protocol version",
			record:   catalog.ServerRecord{ProtocolVersion: "2024-11-05"},
			expected: 2,
		},
		{
			name:     "labels",
			record:   catalog.ServerRecord{Labels: map[string]string{"k": "v"}},
			expected: 2,
		},
		{
			name: "healthy status",
			record: catalog.ServerRecord{
				Health: catalog.HealthState{Status: catalog.HealthHealthy},
			},
			expected: 3,
		},
		{
			name:     "last introspected",
			record:   catalog.ServerRecord{LastIntrospected: &now},
			expected: 2,
		},
		{
			name: "container hub bonus requires image",
			record: catalog.ServerRecord{
				Source: catalog.SourceContainerHub,
			},
			expected: 0,
		},
		{
			name: "container hub bonus with image",
			record: catalog.ServerRecord{
				Source:         catalog.SourceContainerHub,
				ImageReference: "ns/img",
			},
			expected: 5,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.expected, CompletenessScore(tc.record))
		})
	}
}

func TestCompletenessScore_IntrospectedBeatsStatic(t *testing.T) {
	t.Parallel()

	now := time.Now()

	static := catalog.ServerRecord{
		Description:    "full static metadata",
		URL:            "https://example.com",
		ImageReference: "ns/img",
		Tags:           []string{"a", "b"},
		CreatedAt:      &now,
		UpdatedAt:      &now,
	}
	introspected := catalog.ServerRecord{
		Tools:            []catalog.ToolDescriptor{{Name: "t1"}, {Name: "t2"}, {Name: "t3"}},
		Resources:        []catalog.ResourceDescriptor{{URI: "file:///r"}},
		Prompts:          []catalog.PromptDescriptor{{Name: "p"}},
		Health:           catalog.HealthState{Status: catalog.HealthHealthy},
		LastIntrospected: &now,
	}

	require.Greater(t, CompletenessScore(introspected), CompletenessScore(static))
}
