package flags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// resetFlagVars clears the package-level flag targets so each test observes
// env/default resolution from scratch.
func resetFlagVars(t *testing.T) {
	t.Helper()

	ConfigFile = ""
	LogPath = ""
	LogLevel = ""
	t.Cleanup(func() {
		ConfigFile = ""
		LogPath = ""
		LogLevel = ""
	})
}

func TestInitFlags_Defaults(t *testing.T) {
	resetFlagVars(t)
	t.Setenv(EnvVarConfigFile, "")
	t.Setenv(EnvVarLogPath, "")
	t.Setenv(EnvVarLogLevel, "")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	InitFlags(fs)

	require.Equal(t, DefaultConfigFile, ConfigFile)
	require.Equal(t, DefaultLogPath, LogPath)
	require.Equal(t, DefaultLogLevel, LogLevel)
}

func TestInitFlags_EnvironmentOverrides(t *testing.T) {
	resetFlagVars(t)
	t.Setenv(EnvVarConfigFile, "  /etc/mcpscout/config.toml  ")
	t.Setenv(EnvVarLogPath, "/var/log/mcpscout.log")
	t.Setenv(EnvVarLogLevel, "DEBUG")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	InitFlags(fs)

	require.Equal(t, "/etc/mcpscout/config.toml", ConfigFile)
	require.Equal(t, "/var/log/mcpscout.log", LogPath)
	// Levels are normalized to lower case.
	require.Equal(t, "debug", LogLevel)
}

func TestInitFlags_FlagsOverrideEnvironment(t *testing.T) {
	resetFlagVars(t)
	t.Setenv(EnvVarConfigFile, "/etc/mcpscout/config.toml")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	InitFlags(fs)

	require.NoError(t, fs.Parse([]string{"--config-file", "/tmp/override.toml", "--log-level", "trace"}))

	require.Equal(t, "/tmp/override.toml", ConfigFile)
	require.Equal(t, "trace", LogLevel)
}

func TestInitFlags_RegistersAllFlags(t *testing.T) {
	resetFlagVars(t)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	InitFlags(fs)

	for _, name := range []string{FlagNameConfigFile, FlagNameLogPath, FlagNameLogLevel} {
		require.NotNil(t, fs.Lookup(name), "flag %q should be registered", name)
	}
}
