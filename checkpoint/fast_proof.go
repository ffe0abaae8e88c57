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
	"errors"
	"fmt"

	"github.com/0xsoniclabs/exitproof/common/keccak"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidRange       = errors.New("checkpoint: invalid block range")
	ErrTargetOutsideRange = errors.New("checkpoint: target block outside of range")
)

// maxConcurrentQueries bounds the number of requests issued in parallel to
// oracles and header sources.
const maxConcurrentQueries = 16

// rangeQuery is a request for the root of the sibling subtree at a given
// height, covering the blocks [from, to].
type rangeQuery struct {
	height   int
	from, to uint64
}

// FastProof builds the proof of block target within the checkpoint covering
// [start, end] without access to the individual header digests. Instead, the
// roots of the subtrees next to the path from the target to the root are
// requested from the oracle. The result is identical to the proof produced by
// a Tree built from all header digests of the range.
//
// Queries are independent and issued concurrently.
func FastProof(ctx context.Context, oracle RootHashOracle, start, end, target uint64) ([]common.Hash, error) {
	if err := checkRange(start, end, target); err != nil {
		return nil, err
	}
	depth := TreeDepth(end - start + 1)
	proof := make([]common.Hash, depth)

	// Walk down from the root, always keeping the window [lo, lo+2^height)
	// that contains the target. The half not containing the target is the
	// sibling at the current height.
	queries := make([]rangeQuery, 0, depth)
	lo := start
	for height := depth - 1; height >= 0; height-- {
		half := uint64(1) << height
		mid := lo + half
		if target < mid {
			if mid > end {
				proof[height] = ZeroHash(height)
			} else {
				queries = append(queries, rangeQuery{height: height, from: mid, to: min(mid+half-1, end)})
			}
		} else {
			queries = append(queries, rangeQuery{height: height, from: lo, to: mid - 1})
			lo = mid
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentQueries)
	for _, query := range queries {
		group.Go(func() error {
			root, err := oracle.GetRootHash(ctx, query.from, query.to)
			if err != nil {
				return fmt.Errorf("failed to get root hash of [%d, %d]: %w", query.from, query.to, err)
			}
			proof[query.height] = lift(root, TreeDepth(query.to-query.from+1), query.height)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	log.Trace("Built checkpoint proof from range queries", "start", start, "end", end, "target", target, "queries", len(queries))
	return proof, nil
}

// lift turns the root of a tree of height from into the root of the
// zero-padded tree of height to containing the same leaves.
func lift(root common.Hash, from, to int) common.Hash {
	for height := from; height < to; height++ {
		root = keccak.Pair(root, ZeroHash(height))
	}
	return root
}

func checkRange(start, end, target uint64) error {
	if end < start || end-start+1 == 0 {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, start, end)
	}
	// the zero-padded tree covers [start, start+2^depth-1]
	padding := ^uint64(0) >> (64 - TreeDepth(end-start+1))
	if start > ^uint64(0)-padding {
		return fmt.Errorf("%w: padded tree of [%d, %d] exceeds the block number range", ErrInvalidRange, start, end)
	}
	if target < start || target > end {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrTargetOutsideRange, target, start, end)
	}
	return nil
}
