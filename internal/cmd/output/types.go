// Package output renders command results in the formats the CLI supports.
package output

import "io"

// Handler renders a collection of results, or an error, to its writer.
type Handler[T any] interface {
	// Writer returns the io.Writer this Handler will write to.
	Writer() io.Writer

	// HandleResults takes a collection of data and renders it accordingly.
	HandleResults(items []T) error

	// HandleError renders the error.
	HandleError(err error) error
}

// ItemFunc writes one element in human-readable form.
type ItemFunc[T any] func(w io.Writer, elem T) error

// ResultsPayload is a generic wrapper for multiple result values.
// The payload is serialized with the key "results".
type ResultsPayload[T any] struct {
	Results []T `json:"results" yaml:"results"`
}

// ErrorPayload represents an error message.
// The payload is serialized with the key "error".
type ErrorPayload struct {
	Error string `json:"error" yaml:"error"`
}
