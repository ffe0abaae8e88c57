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
	"sync"

	"github.com/0xsoniclabs/exitproof/checkpoint"
)

// Memory is an in-memory checkpoint store.
type Memory struct {
	checkpoints map[uint64]checkpoint.Checkpoint
	latest      *checkpoint.Checkpoint
	mu          sync.RWMutex
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		checkpoints: map[uint64]checkpoint.Checkpoint{},
	}
}

func (m *Memory) Add(_ context.Context, cp checkpoint.Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := checkAppend(cp, m.latest); err != nil {
		return err
	}
	m.checkpoints[cp.ID] = cp
	m.latest = &cp
	return nil
}

func (m *Memory) GetCheckpoint(_ context.Context, id uint64) (checkpoint.Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp, found := m.checkpoints[id]
	if !found {
		return checkpoint.Checkpoint{}, unknown(id)
	}
	return cp, nil
}

func (m *Memory) Latest(context.Context) (checkpoint.Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.latest == nil {
		return checkpoint.Checkpoint{}, errEmpty
	}
	return *m.latest, nil
}
