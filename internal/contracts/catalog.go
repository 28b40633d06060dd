// Package contracts defines the interfaces that connect the reconciliation
// core to its collaborators: source fetchers, the introspection scheduler,
// and the persistent catalog store.
package contracts

import (
	"context"

	"github.com/mcpscout/mcpscout/internal/catalog"
)

// SourceFetcher is implemented by each upstream source client.
type SourceFetcher interface {
	// ID returns the stable identifier of this source, e.g. "registry".
	ID() string

	// FetchRecords retrieves all records the source currently knows about.
	// Implementations return best-effort records: partial upstream payloads
	// decay to records with missing optional fields rather than errors.
	FetchRecords(ctx context.Context) ([]catalog.ServerRecord, error)
}

// Introspector actively connects to one server and queries its capabilities.
type Introspector interface {
	// Introspect probes the server described by the record and returns the
	// enriched record. It never returns an error; failures are captured in
	// the record's health state and introspection errors.
	Introspect(ctx context.Context, record catalog.ServerRecord) catalog.ServerRecord
}

// BatchIntrospector runs an Introspector over many records with bounded concurrency.
type BatchIntrospector interface {
	// BatchIntrospect introspects all records with at most maxConcurrent
	// probes in flight. Results are returned in completion order.
	BatchIntrospect(ctx context.Context, records []catalog.ServerRecord, maxConcurrent int) []catalog.ServerRecord
}

// CatalogStore persists reconciled records for later querying.
type CatalogStore interface {
	// Save upserts the given records.
	Save(records []catalog.ServerRecord) error

	// LoadAll returns every persisted record.
	LoadAll() ([]catalog.ServerRecord, error)

	// Query returns the persisted records matching all supplied filters.
	Query(filters map[string]string) ([]catalog.ServerRecord, error)
}

// CatalogReader provides read access to the persisted catalog.
// It is the surface the API handlers depend on.
type CatalogReader interface {
	// LoadAll returns every persisted record.
	LoadAll() ([]catalog.ServerRecord, error)

	// Get returns the record with the given ID.
	Get(id string) (catalog.ServerRecord, error)

	// Query returns the persisted records matching all supplied filters.
	Query(filters map[string]string) ([]catalog.ServerRecord, error)

	// Stats summarizes the persisted catalog.
	Stats() (catalog.Summary, error)
}
