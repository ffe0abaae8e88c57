// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package store provides checkpoint oracles backed by local storage. The
// stores are populated by whatever process observes checkpoints being
// anchored on the root chain.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/0xsoniclabs/exitproof/checkpoint"
)

// ErrInvalidCheckpoint is returned when adding a checkpoint with an empty
// block range or an id not exceeding the id of the latest checkpoint.
var ErrInvalidCheckpoint = errors.New("store: invalid checkpoint")

// Store is a checkpoint oracle checkpoints can be added to. Checkpoint ids
// are strictly increasing in the order checkpoints are added.
type Store interface {
	checkpoint.Oracle

	// Add appends a checkpoint to the store.
	Add(ctx context.Context, cp checkpoint.Checkpoint) error

	// Latest returns the checkpoint with the highest id, or an error
	// wrapping checkpoint.ErrUnknownCheckpoint if the store is empty.
	Latest(ctx context.Context) (checkpoint.Checkpoint, error)
}

// checkAppend tests whether cp may follow the latest checkpoint, if any.
func checkAppend(cp checkpoint.Checkpoint, latest *checkpoint.Checkpoint) error {
	if cp.EndBlock < cp.StartBlock {
		return fmt.Errorf("%w: empty block range [%d, %d]", ErrInvalidCheckpoint, cp.StartBlock, cp.EndBlock)
	}
	if latest != nil && cp.ID <= latest.ID {
		return fmt.Errorf("%w: id %d does not exceed latest id %d", ErrInvalidCheckpoint, cp.ID, latest.ID)
	}
	return nil
}

func unknown(id uint64) error {
	return fmt.Errorf("%w: %d", checkpoint.ErrUnknownCheckpoint, id)
}

var errEmpty = fmt.Errorf("%w: store is empty", checkpoint.ErrUnknownCheckpoint)
