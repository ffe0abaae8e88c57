// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package remote provides header sources and root hash oracles backed by the
// JSON-RPC interface of a side-chain node.
package remote

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/0xsoniclabs/exitproof/checkpoint"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
)

// ErrInvalidRootHash is returned if a node reports a root hash that is not
// 32 bytes long.
var ErrInvalidRootHash = errors.New("remote: invalid root hash")

// rootHashMethod is the RPC method of side-chain nodes computing the
// checkpoint root of a block range.
const rootHashMethod = "bor_getRootHash"

// HeaderReader is the subset of ethclient.Client used to fetch headers.
type HeaderReader interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// Caller is the subset of rpc.Client used to issue raw calls.
type Caller interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

// NewHeaderSource creates a header source computing digests of the headers
// provided by the given reader.
func NewHeaderSource(reader HeaderReader) checkpoint.HeaderSource {
	return &headerSource{reader: reader}
}

type headerSource struct {
	reader HeaderReader
}

func (s *headerSource) HeaderDigest(ctx context.Context, number uint64) (common.Hash, error) {
	header, err := s.reader.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to fetch header of block %d: %w", number, err)
	}
	if header.Number == nil || header.Number.Uint64() != number {
		return common.Hash{}, fmt.Errorf("node returned header of block %v when asked for block %d", header.Number, number)
	}
	return checkpoint.HeaderDigest(number, header.Time, header.TxHash, header.ReceiptHash), nil
}

// NewRootHashOracle creates an oracle asking a side-chain node for the roots
// of block ranges. Roots are passed through unchanged, so they only agree with
// checkpoint.Tree if the node pads incomplete trees with ZeroHash subtrees.
// Bor nodes pad with 32 zero bytes instead of keccak256 of them, so their
// roots differ for ranges whose length is not a power of two; use the
// checkpoint.NewLocalRootHashOracle over the node's headers for those.
func NewRootHashOracle(caller Caller) checkpoint.RootHashOracle {
	return &rootHashOracle{caller: caller}
}

type rootHashOracle struct {
	caller Caller
}

func (o *rootHashOracle) GetRootHash(ctx context.Context, start, end uint64) (common.Hash, error) {
	var result string
	if err := o.caller.CallContext(ctx, &result, rootHashMethod, start, end); err != nil {
		return common.Hash{}, fmt.Errorf("failed to get root hash of [%d, %d]: %w", start, end, err)
	}
	// nodes report the hash with or without 0x prefix
	root := common.FromHex(result)
	if len(root) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: %q", ErrInvalidRootHash, result)
	}
	return common.Hash(root), nil
}

// Client bundles the connections to a side-chain node.
type Client struct {
	rpc *rpc.Client
	eth *ethclient.Client
}

// Dial connects to the node at the given URL.
func Dial(ctx context.Context, url string) (*Client, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	log.Debug("Connected to side-chain node", "url", url)
	return NewClient(client), nil
}

// NewClient wraps an established RPC connection.
func NewClient(client *rpc.Client) *Client {
	return &Client{rpc: client, eth: ethclient.NewClient(client)}
}

func (c *Client) Eth() *ethclient.Client {
	return c.eth
}

func (c *Client) HeaderSource() checkpoint.HeaderSource {
	return NewHeaderSource(c.eth)
}

func (c *Client) RootHashOracle() checkpoint.RootHashOracle {
	return NewRootHashOracle(c.rpc)
}

func (c *Client) Close() {
	c.rpc.Close()
}
