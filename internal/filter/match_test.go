package filter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type item struct {
	name        string
	description string
	enabled     bool
}

func itemMatchers() map[string]Predicate[item] {
	return map[string]Predicate[item]{
		"name": Equals(func(i item) string { return i.name }),
		"desc": Partial(func(i item) string { return i.description }),
		"any": PartialAny(
			func(i item) string { return i.name },
			func(i item) string { return i.description },
		),
		"enabled": EqualsBool(func(i item) bool { return i.enabled }),
	}
}

func TestNormalizeString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "hello", NormalizeString("  HeLLo  "))
	require.Equal(t, "", NormalizeString("   "))
}

func TestMatch(t *testing.T) {
	t.Parallel()

	subject := item{name: "GitHub Server", description: "Source control tools", enabled: true}

	tests := []struct {
		name    string
		filters map[string]string
		want    bool
	}{
		{name: "nil filters match", filters: nil, want: true},
		{name: "exact name case-insensitive", filters: map[string]string{"name": "github server"}, want: true},
		{name: "exact name mismatch", filters: map[string]string{"name": "github"}, want: false},
		{name: "partial description", filters: map[string]string{"desc": "CONTROL"}, want: true},
		{name: "partial any hits name", filters: map[string]string{"any": "github"}, want: true},
		{name: "partial any hits description", filters: map[string]string{"any": "tools"}, want: true},
		{name: "partial any misses", filters: map[string]string{"any": "weather"}, want: false},
		{name: "bool true", filters: map[string]string{"enabled": "true"}, want: true},
		{name: "bool mismatch", filters: map[string]string{"enabled": "false"}, want: false},
		{name: "bool unparseable", filters: map[string]string{"enabled": "maybe"}, want: false},
		{name: "unknown key ignored", filters: map[string]string{"bogus": "zzz"}, want: true},
		{name: "blank key ignored", filters: map[string]string{"  ": "zzz"}, want: true},
		{
			name:    "all filters must match",
			filters: map[string]string{"name": "github server", "desc": "nope"},
			want:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, Match(subject, tc.filters, itemMatchers()))
		})
	}
}
