package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutputFormat_Set(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected OutputFormat
		wantErr  bool
	}{
		{name: "json", input: "json", expected: FormatJSON},
		{name: "yaml", input: "yaml", expected: FormatYAML},
		{name: "text", input: "text", expected: FormatText},
		{name: "mixed case", input: "JSON", expected: FormatJSON},
		{name: "surrounding whitespace", input: " yaml ", expected: FormatYAML},
		{name: "unknown", input: "xml", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var f OutputFormat
			err := f.Set(tc.input)

			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expected, f)
		})
	}
}

func TestOutputFormat_String(t *testing.T) {
	t.Parallel()

	f := OutputFormat("JSON")
	require.Equal(t, "json", f.String())
	require.Equal(t, "format", f.Type())
}

func TestAllowedOutputFormats(t *testing.T) {
	t.Parallel()

	formats := AllowedOutputFormats()
	require.Equal(t, OutputFormats{FormatJSON, FormatText, FormatYAML}, formats)
	require.Equal(t, "json, text, yaml", formats.String())
}
