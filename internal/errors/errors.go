// Package errors defines domain-level errors used throughout the application.
// These errors represent business logic failures and are mapped to appropriate HTTP status codes at the API boundary.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider how it should be handled when returned from API endpoints.
//
// Unmapped errors will default to HTTP 500 Internal Server Error.
//
// Don't forget to:
// 1. Add your error to mapError (internal/daemon/api_server.go)
// 2. Add a test case to TestMapError (internal/daemon/api_server_test.go)
// 3. Consider if existing handler tests need updates
package errors

import (
	"errors"
)

var (
	// ErrBadRequest indicates that the client provided invalid input or made a malformed request.
	// This typically results from validation failures or incorrect request parameters.
	// Recommended to map to HTTP 400 Bad Request.
	ErrBadRequest = errors.New("bad request")

	// ErrServerNotFound indicates that the requested server record does not exist in the catalog.
	// This occurs when looking up a record by an ID that was never discovered or has been removed.
	// Recommended to map to HTTP 404 Not Found.
	ErrServerNotFound = errors.New("server not found")

	// ErrSourceFetchFailed indicates that fetching records from an upstream source failed.
	// This represents a communication or protocol error with the external source.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrSourceFetchFailed = errors.New("source fetch failed")

	// ErrCatalogEmpty indicates that the catalog holds no records.
	// This occurs when querying before any scan has been run.
	// Recommended to map to HTTP 404 Not Found.
	ErrCatalogEmpty = errors.New("catalog is empty")

	// ErrScanInProgress indicates that a scan is already running.
	// Only one scan may be in flight at a time.
	// Recommended to map to HTTP 409 Conflict.
	ErrScanInProgress = errors.New("scan already in progress")

	// ErrStoreUnavailable indicates that the catalog store could not be opened or accessed.
	// This represents a local persistence failure, not an upstream one.
	// Recommended to map to HTTP 500 Internal Server Error.
	ErrStoreUnavailable = errors.New("catalog store unavailable")
)
