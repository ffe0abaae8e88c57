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
	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
)

var DigestCmd = cli.Command{
	Action: doDigest,
	Name:   "digest",
	Usage:  "compute the checkpoint leaf of a block header",
	ArgsUsage: "<number> <timestamp> <tx root> <receipts root>\n" +
		"   or: <number> --rpc <url>",
	Flags: []cli.Flag{
		&rpcFlag,
	},
}

func doDigest(context *cli.Context) error {
	args := context.Args()
	var digest common.Hash
	switch args.Len() {
	case 1:
		number, err := parseUint("block number", args.Get(0))
		if err != nil {
			return err
		}
		cfg, err := loadConfig(context)
		if err != nil {
			return err
		}
		ctx, cancel := cancelOnInterrupt(context.Context)
		defer cancel()
		client, err := dial(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		digest, err = client.HeaderSource().HeaderDigest(ctx, number)
		if err != nil {
			return err
		}
	case 4:
		number, err := parseUint("block number", args.Get(0))
		if err != nil {
			return err
		}
		timestamp, err := parseUint("timestamp", args.Get(1))
		if err != nil {
			return err
		}
		txRoot, err := parseHash("tx root", args.Get(2))
		if err != nil {
			return err
		}
		receiptsRoot, err := parseHash("receipts root", args.Get(3))
		if err != nil {
			return err
		}
		digest = checkpoint.HeaderDigest(number, timestamp, txRoot, receiptsRoot)
	default:
		return fmt.Errorf("expected 1 or 4 parameters, got %d", args.Len())
	}
	fmt.Fprintln(context.App.Writer, digest.Hex())
	return nil
}
