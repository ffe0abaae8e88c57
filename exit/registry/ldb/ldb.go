// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ldb

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pbnjay/memory"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// exitTable prefixes the keys of processed exits.
const exitTable = 'e'

const (
	minCacheCapacity = 8 * opt.MiB
	maxCacheCapacity = 256 * opt.MiB
)

var processedMarker = []byte{1}

// Registry is a registry of processed exits persisted in a LevelDB
// instance.
type Registry struct {
	db *leveldb.DB
}

// Open opens the registry in the given directory, creating it if needed.
func Open(path string) (*Registry, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		BlockCacheCapacity: cacheCapacity(memory.TotalMemory()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open registry at %s: %w", path, err)
	}
	return &Registry{db: db}, nil
}

// OpenInMemory creates a registry kept in memory.
func OpenInMemory() (*Registry, error) {
	return openStorage(storage.NewMemStorage())
}

func openStorage(stor storage.Storage) (*Registry, error) {
	db, err := leveldb.Open(stor, nil)
	if err != nil {
		return nil, err
	}
	return &Registry{db: db}, nil
}

// cacheCapacity derives the block cache size from the available memory.
func cacheCapacity(totalMemory uint64) int {
	return int(min(max(totalMemory/256, minCacheCapacity), maxCacheCapacity))
}

func (r *Registry) MarkProcessed(hash common.Hash) (bool, error) {
	// only one transaction can be open at any time, which makes the check
	// and the insert atomic
	tx, err := r.db.OpenTransaction()
	if err != nil {
		return false, err
	}
	// no-op once committed, releases the write lock on failures
	defer tx.Discard()

	key := dbKey(hash)
	found, err := tx.Has(key, nil)
	if err != nil || found {
		return false, err
	}
	if err := tx.Put(key, processedMarker, nil); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit exit %x: %w", hash, err)
	}
	return true, nil
}

func (r *Registry) IsProcessed(hash common.Hash) (bool, error) {
	return r.db.Has(dbKey(hash), nil)
}

func (r *Registry) Close() error {
	return r.db.Close()
}

func dbKey(hash common.Hash) []byte {
	key := make([]byte, 1+common.HashLength)
	key[0] = exitTable
	copy(key[1:], hash[:])
	return key
}
