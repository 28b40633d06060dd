// Package store persists the reconciled catalog in an embedded bbolt database
// so CLI invocations and the daemon can share one on-disk view of the fleet.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	bolt "go.etcd.io/bbolt"

	"github.com/mcpscout/mcpscout/internal/catalog"
	"github.com/mcpscout/mcpscout/internal/errors"
	"github.com/mcpscout/mcpscout/internal/filter"
	"github.com/mcpscout/mcpscout/internal/perms"
)

const bucketServers = "servers"

// Store is a bbolt-backed catalog store. Records are stored as JSON values
// keyed by record ID. Open should be used to create instances of Store.
type Store struct {
	mu     sync.RWMutex
	logger hclog.Logger
	db     *bolt.DB
	path   string

	matchers map[string]filter.Predicate[catalog.ServerRecord]
}

// Open opens (creating if necessary) the catalog database at path.
func Open(logger hclog.Logger, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty store path is invalid")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, perms.RegularDir); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := bolt.Open(path, perms.SecureFile, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open store '%s': %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketServers))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}

	return &Store{
		logger:   logger.Named("store"),
		db:       db,
		path:     path,
		matchers: recordMatchers(),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the location of the database file.
func (s *Store) Path() string {
	return s.path
}

// Save upserts the given records, keyed by ID.
func (s *Store) Save(records []catalog.ServerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketServers))
		for _, record := range records {
			if record.ID == "" {
				continue
			}
			data, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("failed to marshal record '%s': %w", record.ID, err)
			}
			if err := b.Put([]byte(record.ID), data); err != nil {
				return fmt.Errorf("failed to store record '%s': %w", record.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("Saved records", "count", len(records))
	return nil
}

// LoadAll returns every persisted record. Entries that fail to unmarshal are
// skipped with a warning rather than failing the whole load.
func (s *Store) LoadAll() ([]catalog.ServerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []catalog.ServerRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketServers)).ForEach(func(k, v []byte) error {
			var record catalog.ServerRecord
			if err := json.Unmarshal(v, &record); err != nil {
				s.logger.Warn("Skipping corrupt record", "id", string(k), "error", err)
				return nil
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	return records, nil
}

// Get returns the record with the given ID.
func (s *Store) Get(id string) (catalog.ServerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var record catalog.ServerRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketServers)).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("'%s': %w", id, errors.ErrServerNotFound)
		}
		return json.Unmarshal(v, &record)
	})
	if err != nil {
		return catalog.ServerRecord{}, err
	}
	return record, nil
}

// Query returns the persisted records matching all supplied filters.
// Unknown filter keys are ignored.
func (s *Store) Query(filters map[string]string) ([]catalog.ServerRecord, error) {
	records, err := s.LoadAll()
	if err != nil {
		return nil, err
	}

	matched := make([]catalog.ServerRecord, 0, len(records))
	for _, record := range records {
		if filter.Match(record, filters, s.matchers) {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

// Delete removes the record with the given ID. Deleting a missing record is
// not an error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketServers)).Delete([]byte(id))
	})
}

// Clear removes every record.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketServers)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketServers))
		return err
	})
}

// Stats summarizes the persisted catalog by source, health, and capabilities.
func (s *Store) Stats() (catalog.Summary, error) {
	records, err := s.LoadAll()
	if err != nil {
		return catalog.Summary{}, err
	}
	return catalog.Summarize(records), nil
}

// recordMatchers wires the filter keys the store understands to record fields.
func recordMatchers() map[string]filter.Predicate[catalog.ServerRecord] {
	return map[string]filter.Predicate[catalog.ServerRecord]{
		"source": filter.Equals(func(r catalog.ServerRecord) string {
			return string(r.Source)
		}),
		"health": filter.Equals(func(r catalog.ServerRecord) string {
			return string(r.Health.Status)
		}),
		"namespace": filter.Equals(func(r catalog.ServerRecord) string {
			return r.Namespace
		}),
		"name": filter.Partial(func(r catalog.ServerRecord) string {
			return r.Name
		}),
		"search": filter.PartialAny(
			func(r catalog.ServerRecord) string { return r.Name },
			func(r catalog.ServerRecord) string { return r.Description },
		),
		"has_tools": filter.EqualsBool(func(r catalog.ServerRecord) bool {
			return len(r.Tools) > 0
		}),
		"has_resources": filter.EqualsBool(func(r catalog.ServerRecord) bool {
			return len(r.Resources) > 0
		}),
		"has_prompts": filter.EqualsBool(func(r catalog.ServerRecord) bool {
			return len(r.Prompts) > 0
		}),
		"has_image": filter.EqualsBool(func(r catalog.ServerRecord) bool {
			return r.ImageReference != ""
		}),
	}
}
