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

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// BuildProof builds the proof of block target within the checkpoint covering
// [start, end] by fetching the header digest of every block in the range.
func BuildProof(ctx context.Context, source HeaderSource, start, end, target uint64) ([]common.Hash, error) {
	if err := checkRange(start, end, target); err != nil {
		return nil, err
	}
	tree, err := buildTree(ctx, source, start, end)
	if err != nil {
		return nil, err
	}
	return tree.Proof(target - start)
}

// NewLocalRootHashOracle creates a RootHashOracle computing roots from the
// header digests provided by the given source.
func NewLocalRootHashOracle(source HeaderSource) RootHashOracle {
	return &localRootHashOracle{source: source}
}

type localRootHashOracle struct {
	source HeaderSource
}

func (o *localRootHashOracle) GetRootHash(ctx context.Context, start, end uint64) (common.Hash, error) {
	if end < start || end-start+1 == 0 {
		return common.Hash{}, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, start, end)
	}
	tree, err := buildTree(ctx, o.source, start, end)
	if err != nil {
		return common.Hash{}, err
	}
	return tree.Root(), nil
}

func buildTree(ctx context.Context, source HeaderSource, start, end uint64) (*Tree, error) {
	leaves := make([]common.Hash, end-start+1)
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentQueries)
	for i := range leaves {
		group.Go(func() error {
			number := start + uint64(i)
			digest, err := source.HeaderDigest(ctx, number)
			if err != nil {
				return fmt.Errorf("failed to get header digest of block %d: %w", number, err)
			}
			leaves[i] = digest
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return NewTree(leaves)
}
