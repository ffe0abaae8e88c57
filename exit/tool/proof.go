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
	"errors"
	"fmt"
	"os"

	"github.com/0xsoniclabs/exitproof/checkpoint"
	"github.com/0xsoniclabs/exitproof/exit/builder"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var (
	checkpointIdFlag = cli.Uint64Flag{
		Name:     "checkpoint",
		Usage:    "id of the checkpoint covering the block of the transaction",
		Required: true,
	}
	eventFlag = cli.StringFlag{
		Name:  "event",
		Usage: "claimed event, given by name (Transfer, WithdrawnBatch, TransferWithMetadata) or 0x-prefixed topic",
		Value: "Transfer",
	}
	fastFlag = cli.BoolFlag{
		Name:  "fast",
		Usage: "build the checkpoint proof from root hashes of block ranges served by the node instead of fetching every header; the node must pad incomplete trees with zero-subtree hashes",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "file to write the payload to, printed if empty",
	}
)

var ProofCmd = cli.Command{
	Action:    doProof,
	Name:      "proof",
	Usage:     "build the exit payload of an event emitted by a side-chain transaction",
	ArgsUsage: "<transaction hash>",
	Flags: []cli.Flag{
		&checkpointIdFlag,
		&eventFlag,
		&fastFlag,
		&outFlag,
		&checkpointsFlag,
		&rpcFlag,
	},
}

func doProof(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return errors.New("missing transaction hash parameter")
	}
	txHash, err := parseHash("transaction hash", context.Args().Get(0))
	if err != nil {
		return err
	}
	eventSig, err := parseEvent(context.String(eventFlag.Name))
	if err != nil {
		return err
	}
	cfg, err := loadConfig(context)
	if err != nil {
		return err
	}

	ctx, cancel := cancelOnInterrupt(context.Context)
	defer cancel()

	checkpoints, err := openCheckpoints(cfg)
	if err != nil {
		return err
	}
	cp, err := checkpoints.GetCheckpoint(ctx, context.Uint64(checkpointIdFlag.Name))
	if err != nil {
		return errors.Join(err, checkpoints.Close())
	}
	if err := checkpoints.Close(); err != nil {
		return err
	}

	client, err := dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	var roots checkpoint.RootHashOracle
	if context.Bool(fastFlag.Name) {
		roots = client.RootHashOracle()
	}
	payload, err := builder.New(client.Eth(), roots).Build(ctx, cp, txHash, eventSig)
	if err != nil {
		return err
	}
	encoded := hexutil.Encode(payload.Encode())
	log.Info("Built exit payload", "tx", txHash, "block", payload.BlockNumber, "checkpoint", cp.ID, "logIndex", payload.LogIndex)

	if out := context.String(outFlag.Name); out != "" {
		return os.WriteFile(out, []byte(encoded+"\n"), 0600)
	}
	fmt.Fprintln(context.App.Writer, encoded)
	return nil
}
