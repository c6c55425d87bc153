// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/storage"
)

// SelectionRepository implements storage.SelectionRepository for BadgerDB.
type SelectionRepository struct {
	backend *Backend
}

var _ storage.SelectionRepository = (*SelectionRepository)(nil)

// NewSelectionRepository creates a new SelectionRepository.
func NewSelectionRepository(backend *Backend) *SelectionRepository {
	return &SelectionRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend is closed by its owner.
func (r *SelectionRepository) Close() error {
	return nil
}

// AddSelection stores a selection keyed by its timestamp.
func (r *SelectionRepository) AddSelection(ctx context.Context, selection *core.Selection) (*core.Selection, error) {
	if selection.SelectedAt.IsZero() {
		selection.SelectedAt = time.Now().UTC()
	}
	selection.Id = core.IDFromContent(fmt.Sprintf("%s\x00%s\x00%s\x00%d",
		selection.Query, selection.Title, selection.Action, selection.SelectedAt.UnixMicro()))

	err := r.backend.Update(func(tx *badger.Txn) error {
		key := makeSelectionKey(selection.SelectedAt, selection.Id)
		return tx.Set(key, storage.MarshalSelection(selection))
	})
	if err != nil {
		return nil, err
	}
	return selection, nil
}

// RecentSelections returns up to limit selections, most recent first.
func (r *SelectionRepository) RecentSelections(ctx context.Context, limit int) ([]*core.Selection, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	var results []*core.Selection
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent records first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(selectionDatePrefix)
		for iter.Seek(makeSelectionSeekKey()); iter.Valid() && len(results) < limit; iter.Next() {
			if !bytes.HasPrefix(iter.Item().Key(), prefix) {
				break
			}

			err := iter.Item().Value(func(val []byte) error {
				selection, err := storage.UnmarshalSelection(val)
				if err != nil {
					return err
				}
				results = append(results, selection)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	return results, err
}
