// Package reconcile merges partially-overlapping server records fetched from
// multiple sources into a single deduplicated catalog.
package reconcile

import (
	"slices"

	"github.com/mcpscout/mcpscout/internal/catalog"
)

// Reconcile deduplicates records by exact id and by case-folded name,
// keeping the most complete record for each name.
//
// It is a pure function of its input: deterministic given input order, and it
// never mutates the input slice or the records within it. Output order is the
// insertion order of first-kept records.
//
// Records sharing an id are resolved first-wins, before any completeness
// comparison. Records sharing a name keep whichever scores strictly higher on
// CompletenessScore; ties keep the incumbent.
func Reconcile(records []catalog.ServerRecord) []catalog.ServerRecord {
	seenIDs := make(map[string]struct{}, len(records))
	byName := make(map[string]catalog.ServerRecord, len(records))
	deduplicated := make([]catalog.ServerRecord, 0, len(records))

	for _, rec := range records {
		if _, ok := seenIDs[rec.ID]; ok {
			continue
		}

		nameKey := rec.NameKey()
		kept, exists := byName[nameKey]
		if !exists {
			deduplicated = append(deduplicated, rec)
			seenIDs[rec.ID] = struct{}{}
			byName[nameKey] = rec
			continue
		}

		if CompletenessScore(rec) > CompletenessScore(kept) {
			// Replace the incumbent. Its id stays in seenIDs so a later
			// re-occurrence of the displaced record is still dropped.
			deduplicated = slices.DeleteFunc(deduplicated, func(r catalog.ServerRecord) bool {
				return r.ID == kept.ID
			})
			deduplicated = append(deduplicated, rec)
			seenIDs[rec.ID] = struct{}{}
			byName[nameKey] = rec
		}
	}

	return deduplicated
}
