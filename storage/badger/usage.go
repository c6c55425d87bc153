package badger

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/storage"
)

// UsageRepository implements storage.UsageRepository for BadgerDB.
type UsageRepository struct {
	backend *Backend
	mu      sync.Mutex // serializes read-modify-write increments
}

var _ storage.UsageRepository = (*UsageRepository)(nil)

// NewUsageRepository creates a new UsageRepository.
func NewUsageRepository(backend *Backend) *UsageRepository {
	return &UsageRepository{backend: backend}
}

// Close is a no-op; the backend is closed by its owner.
func (r *UsageRepository) Close() error {
	return nil
}

// IncrementUsage adds one use of key at the given instant.
func (r *UsageRepository) IncrementUsage(ctx context.Context, key string, at time.Time) (core.UsageRecord, error) {
	if key == "" {
		return core.UsageRecord{}, storage.ErrEmptyKey
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var record core.UsageRecord
	err := r.backend.Update(func(tx *badger.Txn) error {
		current, err := readUsage(tx, key)
		if err != nil {
			return err
		}
		if current == nil {
			current = &core.UsageRecord{Key: key}
		}
		current.Count++
		if at.After(current.LastUsed) {
			current.LastUsed = at.UTC()
		}
		record = *current
		return tx.Set(makeUsageKey(key), storage.MarshalUsageRecord(current))
	})
	return record, err
}

// GetUsage returns the stored records for keys. Missing keys are skipped.
func (r *UsageRepository) GetUsage(ctx context.Context, keys ...string) (map[string]core.UsageRecord, error) {
	results := make(map[string]core.UsageRecord, len(keys))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			record, err := readUsage(tx, key)
			if err != nil {
				return err
			}
			if record != nil {
				results[key] = *record
			}
		}
		return nil
	}, false)
	return results, err
}

// AllUsage returns every stored record ordered by descending count, then key.
func (r *UsageRepository) AllUsage(ctx context.Context) ([]core.UsageRecord, error) {
	var results []core.UsageRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(usagePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			err := item.Value(func(val []byte) error {
				record, err := storage.UnmarshalUsageRecord(val)
				if err != nil {
					return err
				}
				if record.Key == "" {
					record.Key = usageKeyName(item.Key())
				}
				results = append(results, *record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b core.UsageRecord) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return results, nil
}

func readUsage(tx *badger.Txn, key string) (*core.UsageRecord, error) {
	item, err := tx.Get(makeUsageKey(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *core.UsageRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalUsageRecord(val)
		return unmarshalErr
	})
	return record, err
}
