// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package memory

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Registry is an in-memory registry of processed exits.
type Registry struct {
	processed map[common.Hash]struct{}
	mu        sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		processed: map[common.Hash]struct{}{},
	}
}

func (r *Registry) MarkProcessed(hash common.Hash) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.processed[hash]; found {
		return false, nil
	}
	r.processed[hash] = struct{}{}
	return true, nil
}

func (r *Registry) IsProcessed(hash common.Hash) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, found := r.processed[hash]
	return found, nil
}

// Size returns the number of processed exits.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.processed)
}

func (r *Registry) Close() error {
	return nil
}
