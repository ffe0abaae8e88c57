// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package exit

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/0xsoniclabs/exitproof/checkpoint"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	gethrlp "github.com/ethereum/go-ethereum/rlp"
	gethtrie "github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/triedb"
	"github.com/stretchr/testify/require"
)

const (
	fixtureStartBlock = 100
	fixtureEndBlock   = 110
	fixtureBlock      = 105
	fixtureTxIndex    = 2
)

// exitFixture is a valid exit of a log emitted in block 105, covered by
// checkpoint 3 spanning the blocks [100, 110].
type exitFixture struct {
	payload    *Payload
	checkpoint checkpoint.Checkpoint
	receipts   []*types.Receipt
}

func newExitFixture(t *testing.T, logIndex uint64) *exitFixture {
	t.Helper()
	random := rand.New(rand.NewSource(int64(logIndex)))
	receipts := make([]*types.Receipt, 5)
	for i := range receipts {
		receipts[i] = randomReceipt(random, types.DynamicFeeTxType, 3)
	}

	tr := gethtrie.NewEmpty(triedb.NewDatabase(rawdb.NewMemoryDatabase(), nil))
	for i, receipt := range receipts {
		value, err := receipt.MarshalBinary()
		require.NoError(t, err)
		require.NoError(t, tr.Update(indexKey(t, i), value))
	}
	key := indexKey(t, fixtureTxIndex)
	proof := &orderedProof{}
	require.NoError(t, tr.Prove(key, proof))
	receipt, err := receipts[fixtureTxIndex].MarshalBinary()
	require.NoError(t, err)

	txRoot := crypto.Keccak256Hash([]byte("transactions"))
	timestamp := uint64(1_700_000_210)
	leaves := make([]common.Hash, fixtureEndBlock-fixtureStartBlock+1)
	for i := range leaves {
		number := uint64(fixtureStartBlock + i)
		leaves[i] = checkpoint.HeaderDigest(number, 1_700_000_000+2*number, crypto.Keccak256Hash([]byte(fmt.Sprint(number))), common.Hash{})
	}
	leaves[fixtureBlock-fixtureStartBlock] = checkpoint.HeaderDigest(fixtureBlock, timestamp, txRoot, tr.Hash())
	tree, err := checkpoint.NewTree(leaves)
	require.NoError(t, err)
	blockProof, err := tree.Proof(fixtureBlock - fixtureStartBlock)
	require.NoError(t, err)

	return &exitFixture{
		payload: &Payload{
			CheckpointID:       3,
			BlockProof:         blockProof,
			BlockNumber:        fixtureBlock,
			BlockTimestamp:     timestamp,
			TxRoot:             txRoot,
			ReceiptsRoot:       tr.Hash(),
			Receipt:            receipt,
			ReceiptParentNodes: proof.nodes,
			Path:               key,
			LogIndex:           logIndex,
		},
		checkpoint: checkpoint.Checkpoint{
			ID:         3,
			StartBlock: fixtureStartBlock,
			EndBlock:   fixtureEndBlock,
			Root:       tree.Root(),
		},
		receipts: receipts,
	}
}

// claimedLog returns the log claimed by the fixture's payload.
func (f *exitFixture) claimedLog() *Log {
	return toLog(f.receipts[fixtureTxIndex].Logs[f.payload.LogIndex])
}

func toLog(log *types.Log) *Log {
	return &Log{Address: log.Address, Topics: log.Topics, Data: log.Data}
}

func randomReceipt(random *rand.Rand, txType uint8, numLogs int) *types.Receipt {
	receipt := &types.Receipt{
		Type:              txType,
		Status:            types.ReceiptStatusSuccessful,
		CumulativeGasUsed: uint64(21_000 + random.Intn(1_000_000)),
	}
	random.Read(receipt.Bloom[:])
	for range numLogs {
		log := &types.Log{Data: make([]byte, 1+random.Intn(128))}
		random.Read(log.Address[:])
		random.Read(log.Data)
		for range 1 + random.Intn(4) {
			var topic common.Hash
			random.Read(topic[:])
			log.Topics = append(log.Topics, topic)
		}
		receipt.Logs = append(receipt.Logs, log)
	}
	return receipt
}

func indexKey(t *testing.T, i int) []byte {
	t.Helper()
	key, err := gethrlp.EncodeToBytes(uint64(i))
	require.NoError(t, err)
	return key
}

// orderedProof collects proof nodes in the order they are emitted, which is
// root first.
type orderedProof struct {
	nodes [][]byte
}

func (p *orderedProof) Put(key []byte, value []byte) error {
	p.nodes = append(p.nodes, common.CopyBytes(value))
	return nil
}

func (p *orderedProof) Delete(key []byte) error {
	return fmt.Errorf("delete not supported")
}
