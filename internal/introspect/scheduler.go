package introspect

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/semaphore"

	"github.com/mcpscout/mcpscout/internal/catalog"
	"github.com/mcpscout/mcpscout/internal/contracts"
)

// Scheduler fans introspection out over many records with bounded
// concurrency. NewScheduler should be used to create instances of Scheduler.
type Scheduler struct {
	logger hclog.Logger
	prober contracts.Introspector
}

// NewScheduler creates a Scheduler that drives the given prober.
func NewScheduler(logger hclog.Logger, prober contracts.Introspector) *Scheduler {
	return &Scheduler{
		logger: logger.Named("scheduler"),
		prober: prober,
	}
}

// BatchIntrospect introspects all records with at most maxConcurrent probes
// in flight; excess tasks queue until a slot frees. Results are collected in
// completion order — callers needing stable ordering must sort downstream.
//
// This is a best-effort batch: a task that panics is logged and its record
// excluded from the result; one record's failure never affects the others or
// aborts the batch.
func (s *Scheduler) BatchIntrospect(
	ctx context.Context,
	records []catalog.ServerRecord,
	maxConcurrent int,
) []catalog.ServerRecord {
	if len(records) == 0 {
		return nil
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	s.logger.Info("Starting batch introspection", "records", len(records), "max_concurrent", maxConcurrent)

	sem := semaphore.NewWeighted(int64(maxConcurrent))
	results := make(chan catalog.ServerRecord)

	var wg sync.WaitGroup
	wg.Add(len(records))
	for _, record := range records {
		go func(record catalog.ServerRecord) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("Introspection task failed",
						"id", record.ID,
						"server", record.Name,
						"error", r,
					)
				}
			}()

			if err := sem.Acquire(ctx, 1); err != nil {
				s.logger.Warn("Batch introspection cancelled before record was admitted",
					"id", record.ID,
					"error", err,
				)
				return
			}
			defer sem.Release(1)

			results <- s.prober.Introspect(ctx, record)
		}(record)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := make([]catalog.ServerRecord, 0, len(records))
	healthy := 0
	for record := range results {
		completed = append(completed, record)
		if record.Health.Status == catalog.HealthHealthy {
			healthy++
		}
		s.logger.Info("Completed introspection",
			"progress", len(completed),
			"total", len(records),
			"server", record.Name,
			"status", record.Health.Status,
		)
	}

	s.logger.Info("Completed batch introspection",
		"total", len(records),
		"returned", len(completed),
		"healthy", healthy,
		"failed", len(completed)-healthy,
	)

	return completed
}
