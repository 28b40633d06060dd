package config

import "errors"

var (
	// ErrConfigLoadFailed indicates the configuration file could not be loaded or parsed.
	ErrConfigLoadFailed = errors.New("config load failed")

	// ErrConfigInvalid indicates the configuration file was loaded but failed validation.
	ErrConfigInvalid = errors.New("config invalid")
)
