package cmd

// version is overridden at build time using -ldflags.
var version = "dev"

// Version returns the application version string.
func Version() string {
	return version
}
