// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"

	"github.com/0xsoniclabs/exitproof/checkpoint"
	"github.com/0xsoniclabs/exitproof/exit"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
)

var DecodeCmd = cli.Command{
	Action:    doDecode,
	Name:      "decode",
	Usage:     "print the content of an exit payload without verifying it",
	ArgsUsage: "<payload hex or file>",
}

func doDecode(context *cli.Context) error {
	data, err := readPayload(context)
	if err != nil {
		return err
	}
	payload, err := exit.DecodePayload(data)
	if err != nil {
		return err
	}

	out := context.App.Writer
	fmt.Fprintf(out, "Checkpoint: %d\n", payload.CheckpointID)
	fmt.Fprintf(out, "Block:      %d\n", payload.BlockNumber)
	fmt.Fprintf(out, "Timestamp:  %d\n", payload.BlockTimestamp)
	fmt.Fprintf(out, "Tx root:    %v\n", payload.TxRoot)
	fmt.Fprintf(out, "Receipts:   %v\n", payload.ReceiptsRoot)
	fmt.Fprintf(out, "Digest:     %v\n", checkpoint.HeaderDigest(payload.BlockNumber, payload.BlockTimestamp, payload.TxRoot, payload.ReceiptsRoot))
	fmt.Fprintf(out, "Proof:      %d hashes\n", len(payload.BlockProof))
	fmt.Fprintf(out, "Trie nodes: %d\n", len(payload.ReceiptParentNodes))
	fmt.Fprintf(out, "Path:       %v\n", hexutil.Encode(payload.Path))
	fmt.Fprintf(out, "Log index:  %d\n", payload.LogIndex)
	fmt.Fprintf(out, "Exit:       %v\n", exit.ExitHash(payload.BlockNumber, payload.Path, payload.LogIndex))

	receipt, err := exit.DecodeReceipt(payload.Receipt)
	if err != nil {
		fmt.Fprintf(out, "Receipt:    %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "Receipt:    %v, %d logs, cumulative gas %d\n", receipt.Kind, len(receipt.Logs), receipt.CumulativeGasUsed)
	if payload.LogIndex < uint64(len(receipt.Logs)) {
		printLog(context, &receipt.Logs[payload.LogIndex])
	}
	return nil
}
