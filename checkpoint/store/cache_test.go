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
	"testing"

	"github.com/0xsoniclabs/exitproof/checkpoint"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCachedOracle_ResolvesEachCheckpointOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := checkpoint.NewMockOracle(ctrl)
	cp := checkpoint.Checkpoint{ID: 7, StartBlock: 1, EndBlock: 2, Root: common.Hash{7}}
	inner.EXPECT().GetCheckpoint(gomock.Any(), uint64(7)).Return(cp, nil)

	oracle, err := NewCachedOracle(inner, 16)
	require.NoError(t, err)
	for range 3 {
		got, err := oracle.GetCheckpoint(context.Background(), 7)
		require.NoError(t, err)
		require.Equal(t, cp, got)
	}
}

func TestCachedOracle_FailuresAreNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := checkpoint.NewMockOracle(ctrl)
	injected := fmt.Errorf("injected error")
	cp := checkpoint.Checkpoint{ID: 7, StartBlock: 1, EndBlock: 2}
	gomock.InOrder(
		inner.EXPECT().GetCheckpoint(gomock.Any(), uint64(7)).Return(checkpoint.Checkpoint{}, injected),
		inner.EXPECT().GetCheckpoint(gomock.Any(), uint64(7)).Return(cp, nil),
	)

	oracle, err := NewCachedOracle(inner, 16)
	require.NoError(t, err)
	_, err = oracle.GetCheckpoint(context.Background(), 7)
	require.ErrorIs(t, err, injected)

	got, err := oracle.GetCheckpoint(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, cp, got)
}

func TestCachedOracle_EvictsLeastRecentlyUsed(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := checkpoint.NewMockOracle(ctrl)
	inner.EXPECT().GetCheckpoint(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, id uint64) (checkpoint.Checkpoint, error) {
			return checkpoint.Checkpoint{ID: id}, nil
		}).Times(4)

	oracle, err := NewCachedOracle(inner, 2)
	require.NoError(t, err)
	for _, id := range []uint64{1, 2, 1, 3, 1, 2} {
		cp, err := oracle.GetCheckpoint(context.Background(), id)
		require.NoError(t, err)
		require.Equal(t, id, cp.ID)
	}
}

func TestCachedOracle_RejectsInvalidSize(t *testing.T) {
	_, err := NewCachedOracle(NewMemory(), 0)
	require.Error(t, err)
}
