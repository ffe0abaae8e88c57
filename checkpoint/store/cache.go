// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package store

import (
	"context"
	"fmt"

	"github.com/0xsoniclabs/exitproof/checkpoint"
	lru "github.com/hashicorp/golang-lru/v2"
)

// NewCachedOracle wraps an oracle into an LRU cache retaining up to size
// resolved checkpoints. Checkpoints are immutable, so cached entries never
// become stale. Failed lookups are not cached.
func NewCachedOracle(inner checkpoint.Oracle, size int) (checkpoint.Oracle, error) {
	cache, err := lru.New[uint64, checkpoint.Checkpoint](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &cachedOracle{inner: inner, cache: cache}, nil
}

type cachedOracle struct {
	inner checkpoint.Oracle
	cache *lru.Cache[uint64, checkpoint.Checkpoint]
}

func (o *cachedOracle) GetCheckpoint(ctx context.Context, id uint64) (checkpoint.Checkpoint, error) {
	if cp, found := o.cache.Get(id); found {
		return cp, nil
	}
	cp, err := o.inner.GetCheckpoint(ctx, id)
	if err != nil {
		return checkpoint.Checkpoint{}, err
	}
	o.cache.Add(id, cp)
	return cp, nil
}
