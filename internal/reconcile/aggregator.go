package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mcpscout/mcpscout/internal/catalog"
	"github.com/mcpscout/mcpscout/internal/contracts"
)

const (
	aggregatorName = "aggregator"

	// DefaultMaxConcurrent caps in-flight introspections per batch.
	DefaultMaxConcurrent = 5

	// DefaultStaleAfter is the default age beyond which cached introspection
	// data is considered stale.
	DefaultStaleAfter = 24 * time.Hour
)

// StalenessFunc decides whether a cached record set should be refetched.
type StalenessFunc func(records []catalog.ServerRecord) bool

// StaleAfter returns a StalenessFunc that reports the cached set stale when
// it is empty or when any introspected record is older than maxAge.
// Records that were never introspected do not trigger a refresh on their own.
func StaleAfter(maxAge time.Duration) StalenessFunc {
	return func(records []catalog.ServerRecord) bool {
		if len(records) == 0 {
			return true
		}
		cutoff := time.Now().Add(-maxAge)
		for _, r := range records {
			if r.LastIntrospected != nil && r.LastIntrospected.Before(cutoff) {
				return true
			}
		}
		return false
	}
}

// Aggregator combines multiple source fetchers and produces a single
// deduplicated catalog, optionally enriched by live introspection.
// This is intended to be the main entry point for server discovery.
// NewAggregator should be used to create instances of Aggregator.
type Aggregator struct {
	logger    hclog.Logger
	fetchers  []contracts.SourceFetcher
	scheduler contracts.BatchIntrospector
	store     contracts.CatalogStore
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithScheduler supplies the batch introspection scheduler used when a run
// requests introspection.
func WithScheduler(s contracts.BatchIntrospector) Option {
	return func(a *Aggregator) {
		a.scheduler = s
	}
}

// WithStore supplies the catalog store used for caching and persistence.
func WithStore(s contracts.CatalogStore) Option {
	return func(a *Aggregator) {
		a.store = s
	}
}

// NewAggregator creates an Aggregator over the supplied source fetchers.
// Fetcher IDs must be unique.
func NewAggregator(logger hclog.Logger, fetchers []contracts.SourceFetcher, opt ...Option) (*Aggregator, error) {
	seen := make(map[string]struct{}, len(fetchers))
	for _, f := range fetchers {
		id := f.ID()
		if _, exists := seen[id]; exists {
			return nil, fmt.Errorf("duplicate source fetcher ID detected: %s", id)
		}
		seen[id] = struct{}{}
	}

	a := &Aggregator{
		logger:   logger.Named(aggregatorName),
		fetchers: fetchers,
	}
	for _, o := range opt {
		if o != nil {
			o(a)
		}
	}
	return a, nil
}

// RunOptions controls a single aggregation run.
type RunOptions struct {
	// Introspect enables live capability probing of the deduplicated set.
	Introspect bool

	// MaxConcurrent caps in-flight introspections. Zero means DefaultMaxConcurrent.
	MaxConcurrent int

	// UseCache serves the persisted record set when it is present and fresh.
	UseCache bool

	// Stale decides whether the cached set needs refreshing.
	// Nil means StaleAfter(DefaultStaleAfter).
	Stale StalenessFunc
}

// Run fetches from all sources, reconciles, optionally introspects and
// re-reconciles, and persists the result.
//
// Per-source fetch failures and per-record introspection failures are
// absorbed; the returned error reports persistence problems only, and the
// record set accompanying it is still valid.
func (a *Aggregator) Run(ctx context.Context, opts RunOptions) ([]catalog.ServerRecord, error) {
	if opts.UseCache && a.store != nil {
		stale := opts.Stale
		if stale == nil {
			stale = StaleAfter(DefaultStaleAfter)
		}
		cached, err := a.store.LoadAll()
		if err != nil {
			a.logger.Warn("Failed to load cached records, fetching fresh", "error", err)
		} else if !stale(cached) {
			a.logger.Debug("Serving cached records", "count", len(cached))
			return cached, nil
		}
	}

	records := a.FetchAll(ctx)

	if opts.Introspect && a.scheduler != nil {
		maxConcurrent := opts.MaxConcurrent
		if maxConcurrent <= 0 {
			maxConcurrent = DefaultMaxConcurrent
		}
		records = a.scheduler.BatchIntrospect(ctx, records, maxConcurrent)

		// Completeness scores change once capabilities are known; a second
		// pass lets enriched records displace static duplicates.
		records = Reconcile(records)
	}

	if a.store != nil {
		if err := a.store.Save(records); err != nil {
			return records, fmt.Errorf("failed to persist %d record(s): %w", len(records), err)
		}
	}

	return records, nil
}

// FetchAll retrieves records from every configured source and reconciles
// them. A source failure is logged and its contribution is empty; one
// source's outage never blocks the others.
func (a *Aggregator) FetchAll(ctx context.Context) []catalog.ServerRecord {
	var all []catalog.ServerRecord

	for _, f := range a.fetchers {
		records, err := f.FetchRecords(ctx)
		if err != nil {
			a.logger.Warn("Error fetching from source ... continuing", "source", f.ID(), "error", err)
			continue
		}
		a.logger.Debug("Fetched records from source", "source", f.ID(), "count", len(records))
		all = append(all, records...)
	}

	return Reconcile(all)
}

// BySource groups records by their provenance.
func BySource(records []catalog.ServerRecord) map[catalog.Source][]catalog.ServerRecord {
	bySource := make(map[catalog.Source][]catalog.ServerRecord)
	for _, r := range records {
		bySource[r.Source] = append(bySource[r.Source], r)
	}
	return bySource
}

// Search returns the records whose name or description contains the query,
// case-insensitively.
func Search(records []catalog.ServerRecord, query string) []catalog.ServerRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}

	var results []catalog.ServerRecord
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.Description), q) {
			results = append(results, r)
		}
	}
	return results
}
