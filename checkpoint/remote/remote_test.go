// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package remote

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"testing"

	"github.com/0xsoniclabs/exitproof/checkpoint"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"
)

func TestClient_HeaderDigestsMatchServedHeaders(t *testing.T) {
	require := require.New(t)
	client := startNode(t)

	source := client.HeaderSource()
	for _, number := range []uint64{0, 1, 99} {
		digest, err := source.HeaderDigest(context.Background(), number)
		require.NoError(err)
		header := testHeader(number)
		require.Equal(checkpoint.HeaderDigest(number, header.Time, header.TxHash, header.ReceiptHash), digest)
	}

	_, err := source.HeaderDigest(context.Background(), 100)
	require.Error(err)
}

func TestClient_FastProofFromNodeMatchesLocalProof(t *testing.T) {
	require := require.New(t)
	client := startNode(t)
	ctxt := context.Background()

	want, err := checkpoint.BuildProof(ctxt, client.HeaderSource(), 10, 42, 17)
	require.NoError(err)
	got, err := checkpoint.FastProof(ctxt, client.RootHashOracle(), 10, 42, 17)
	require.NoError(err)
	require.Equal(want, got)
}

func TestRootHashOracle_AcceptsHashesWithAndWithoutPrefix(t *testing.T) {
	root := crypto.Keccak256Hash([]byte("root"))
	for _, encoded := range []string{hex.EncodeToString(root[:]), root.Hex()} {
		oracle := NewRootHashOracle(fixedCaller(encoded))
		got, err := oracle.GetRootHash(context.Background(), 1, 2)
		require.NoError(t, err)
		require.Equal(t, root, got)
	}
}

func TestRootHashOracle_RejectsInvalidHashes(t *testing.T) {
	for _, encoded := range []string{"", "0x1234", "zz"} {
		oracle := NewRootHashOracle(fixedCaller(encoded))
		_, err := oracle.GetRootHash(context.Background(), 1, 2)
		require.ErrorIs(t, err, ErrInvalidRootHash, "input %q", encoded)
	}
}

func TestHeaderSource_RejectsHeadersOfOtherBlocks(t *testing.T) {
	source := NewHeaderSource(headerReaderFunc(func(ctx context.Context, number *big.Int) (*types.Header, error) {
		return testHeader(number.Uint64() + 1), nil
	}))
	_, err := source.HeaderDigest(context.Background(), 5)
	require.Error(t, err)
}

// --- test node ---

const numTestBlocks = 100

func testHeader(number uint64) *types.Header {
	return &types.Header{
		Number:      new(big.Int).SetUint64(number),
		Time:        1_700_000_000 + 2*number,
		TxHash:      crypto.Keccak256Hash([]byte(fmt.Sprintf("tx-%d", number))),
		ReceiptHash: crypto.Keccak256Hash([]byte(fmt.Sprintf("receipts-%d", number))),
		Difficulty:  big.NewInt(0),
	}
}

type ethService struct{}

func (ethService) GetBlockByNumber(number rpc.BlockNumber, full bool) (*types.Header, error) {
	if number < 0 || number >= numTestBlocks {
		return nil, nil
	}
	return testHeader(uint64(number)), nil
}

type borService struct{}

func (borService) GetRootHash(start, end uint64) (string, error) {
	if end < start || end >= numTestBlocks {
		return "", fmt.Errorf("invalid range")
	}
	leaves := make([]common.Hash, end-start+1)
	for i := range leaves {
		header := testHeader(start + uint64(i))
		leaves[i] = checkpoint.HeaderDigest(header.Number.Uint64(), header.Time, header.TxHash, header.ReceiptHash)
	}
	tree, err := checkpoint.NewTree(leaves)
	if err != nil {
		return "", err
	}
	root := tree.Root()
	return hex.EncodeToString(root[:]), nil
}

func startNode(t *testing.T) *Client {
	t.Helper()
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", ethService{}))
	require.NoError(t, server.RegisterName("bor", borService{}))
	client := NewClient(rpc.DialInProc(server))
	t.Cleanup(func() {
		client.Close()
		server.Stop()
	})
	return client
}

type fixedCaller string

func (c fixedCaller) CallContext(ctx context.Context, result any, method string, args ...any) error {
	*(result.(*string)) = string(c)
	return nil
}

type headerReaderFunc func(ctx context.Context, number *big.Int) (*types.Header, error)

func (f headerReaderFunc) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return f(ctx, number)
}
