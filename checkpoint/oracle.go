// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package checkpoint

//go:generate mockgen -source oracle.go -destination oracle_mocks.go -package checkpoint

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrUnknownCheckpoint is returned by oracles asked for a checkpoint they do
// not know.
var ErrUnknownCheckpoint = errors.New("checkpoint: unknown checkpoint")

// Oracle resolves checkpoint ids to the trusted checkpoints anchored on the
// root chain. Implementations must be safe for concurrent use.
type Oracle interface {
	GetCheckpoint(ctx context.Context, id uint64) (Checkpoint, error)
}

// RootHashOracle provides the checkpoint tree root over the header digests of
// an arbitrary inclusive block range. It is consulted while building proofs
// without access to every header. Implementations must be safe for
// concurrent use.
type RootHashOracle interface {
	GetRootHash(ctx context.Context, start, end uint64) (common.Hash, error)
}

// HeaderSource provides the header digest of individual blocks.
// Implementations must be safe for concurrent use.
type HeaderSource interface {
	HeaderDigest(ctx context.Context, number uint64) (common.Hash, error)
}
