// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package predicate

import (
	"math/big"
	"testing"

	"github.com/0xsoniclabs/exitproof/exit"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

var (
	token = common.Address{0x70, 0x0c}
	user  = common.Address{0x05, 0xe5}
)

func pack(t *testing.T, kind Kind, args ...any) []byte {
	t.Helper()
	data, err := burnEvents.Events[kind.String()].Inputs.NonIndexed().Pack(args...)
	require.NoError(t, err)
	return data
}

func addressTopic(address common.Address) common.Hash {
	return common.BytesToHash(address.Bytes())
}

func TestKind_TopicsMatchEventSignatures(t *testing.T) {
	signatures := map[Kind]string{
		Transfer:             "Transfer(address,address,uint256)",
		WithdrawnBatch:       "WithdrawnBatch(address,uint256[])",
		TransferWithMetadata: "TransferWithMetadata(address,address,uint256,bytes)",
	}
	for kind, signature := range signatures {
		require.Equal(t, crypto.Keccak256Hash([]byte(signature)), kind.Topic(), "%v", kind)
	}
}

func TestParseKind(t *testing.T) {
	for _, kind := range Kinds {
		got, err := ParseKind(kind.String())
		require.NoError(t, err)
		require.Equal(t, kind, got)
	}
	got, err := ParseKind("withdrawnbatch")
	require.NoError(t, err)
	require.Equal(t, WithdrawnBatch, got)

	_, err = ParseKind("Approval")
	require.ErrorIs(t, err, ErrUnknownEvent)
	require.Equal(t, "Kind(9)", Kind(9).String())
}

func TestClassify_FungibleTransfer(t *testing.T) {
	require := require.New(t)
	event, err := Classify(&exit.Log{
		Address: token,
		Topics:  []common.Hash{Transfer.Topic(), addressTopic(user), {}},
		Data:    pack(t, Transfer, big.NewInt(1_000)),
	})
	require.NoError(err)
	require.Equal(Event{
		Kind:     Transfer,
		Contract: token,
		From:     user,
		Amount:   big.NewInt(1_000),
	}, event)
}

func TestClassify_NonFungibleTransfer(t *testing.T) {
	require := require.New(t)
	event, err := Classify(&exit.Log{
		Address: token,
		Topics:  []common.Hash{Transfer.Topic(), addressTopic(user), {}, common.BigToHash(big.NewInt(77))},
	})
	require.NoError(err)
	require.Equal(Transfer, event.Kind)
	require.Equal(user, event.From)
	require.Equal(common.Address{}, event.To)
	require.Equal(big.NewInt(77), event.Amount)
}

func TestClassify_WithdrawnBatch(t *testing.T) {
	require := require.New(t)
	ids := []*big.Int{big.NewInt(1), big.NewInt(5), big.NewInt(9)}
	event, err := Classify(&exit.Log{
		Address: token,
		Topics:  []common.Hash{WithdrawnBatch.Topic(), addressTopic(user)},
		Data:    pack(t, WithdrawnBatch, ids),
	})
	require.NoError(err)
	require.Equal(WithdrawnBatch, event.Kind)
	require.Equal(user, event.From)
	require.Equal(ids, event.TokenIDs)
	require.Nil(event.Amount)
}

func TestClassify_TransferWithMetadata(t *testing.T) {
	require := require.New(t)
	metadata := []byte("ipfs://metadata")
	event, err := Classify(&exit.Log{
		Address: token,
		Topics: []common.Hash{
			TransferWithMetadata.Topic(),
			addressTopic(user),
			{},
			common.BigToHash(big.NewInt(12)),
		},
		Data: pack(t, TransferWithMetadata, metadata),
	})
	require.NoError(err)
	require.Equal(TransferWithMetadata, event.Kind)
	require.Equal(token, event.Contract)
	require.Equal(user, event.From)
	require.Equal([]*big.Int{big.NewInt(12)}, event.TokenIDs)
	require.Equal(metadata, event.MetaData)
}

func TestClassify_RejectsUnknownEvents(t *testing.T) {
	tests := map[string]*exit.Log{
		"anonymous":     {Address: token},
		"unknown topic": {Address: token, Topics: []common.Hash{crypto.Keccak256Hash([]byte("Approval(address,address,uint256)"))}},
	}
	for name, log := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Classify(log)
			require.ErrorIs(t, err, ErrUnknownEvent)
		})
	}
}

func TestClassify_RejectsMalformedEvents(t *testing.T) {
	value := pack(t, Transfer, big.NewInt(1))
	tests := map[string]*exit.Log{
		"transfer without data":      {Topics: []common.Hash{Transfer.Topic(), {}, {}}},
		"transfer with short data":   {Topics: []common.Hash{Transfer.Topic(), {}, {}}, Data: value[:31]},
		"transfer missing recipient": {Topics: []common.Hash{Transfer.Topic(), {}}, Data: value},
		"nft transfer with data":     {Topics: []common.Hash{Transfer.Topic(), {}, {}, {}}, Data: value},
		"batch with extra topic":     {Topics: []common.Hash{WithdrawnBatch.Topic(), {}, {}}, Data: pack(t, WithdrawnBatch, []*big.Int{})},
		"batch with truncated ids":   {Topics: []common.Hash{WithdrawnBatch.Topic(), {}}, Data: pack(t, WithdrawnBatch, []*big.Int{big.NewInt(1), big.NewInt(2)})[:80]},
		"metadata missing token id":  {Topics: []common.Hash{TransferWithMetadata.Topic(), {}, {}}, Data: pack(t, TransferWithMetadata, []byte{1})},
	}
	for name, log := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Classify(log)
			require.ErrorIs(t, err, ErrMalformedEvent)
		})
	}
}
