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

	"github.com/0xsoniclabs/exitproof/checkpoint"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var (
	startBlockFlag = cli.Uint64Flag{
		Name:     "start",
		Usage:    "first block covered by the checkpoint",
		Required: true,
	}
	endBlockFlag = cli.Uint64Flag{
		Name:     "end",
		Usage:    "last block covered by the checkpoint",
		Required: true,
	}
	rootFlag = cli.StringFlag{
		Name:  "root",
		Usage: "root of the checkpoint, computed from the headers served by --rpc if empty",
	}
)

var CheckpointCmd = cli.Command{
	Name:  "checkpoint",
	Usage: "manage the trusted checkpoints",
	Subcommands: []*cli.Command{
		&checkpointAddCmd,
		&checkpointShowCmd,
	},
}

var checkpointAddCmd = cli.Command{
	Action:    doCheckpointAdd,
	Name:      "add",
	Usage:     "add a checkpoint to the checkpoint database",
	ArgsUsage: "<checkpoint id>",
	Flags: []cli.Flag{
		&startBlockFlag,
		&endBlockFlag,
		&rootFlag,
		&fastFlag,
		&checkpointsFlag,
		&rpcFlag,
	},
}

var checkpointShowCmd = cli.Command{
	Action:    doCheckpointShow,
	Name:      "show",
	Usage:     "print a checkpoint, the latest if no id is given",
	ArgsUsage: "[checkpoint id]",
	Flags: []cli.Flag{
		&checkpointsFlag,
	},
}

func doCheckpointAdd(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return errors.New("missing checkpoint id parameter")
	}
	id, err := parseUint("checkpoint id", context.Args().Get(0))
	if err != nil {
		return err
	}
	cfg, err := loadConfig(context)
	if err != nil {
		return err
	}
	ctx, cancel := cancelOnInterrupt(context.Context)
	defer cancel()

	cp := checkpoint.Checkpoint{
		ID:         id,
		StartBlock: context.Uint64(startBlockFlag.Name),
		EndBlock:   context.Uint64(endBlockFlag.Name),
	}
	if root := context.String(rootFlag.Name); root != "" {
		cp.Root, err = parseHash("root", root)
		if err != nil {
			return err
		}
	} else {
		client, err := dial(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		roots := checkpoint.NewLocalRootHashOracle(client.HeaderSource())
		if context.Bool(fastFlag.Name) {
			roots = client.RootHashOracle()
		}
		cp.Root, err = roots.GetRootHash(ctx, cp.StartBlock, cp.EndBlock)
		if err != nil {
			return err
		}
	}

	checkpoints, err := openCheckpoints(cfg)
	if err != nil {
		return err
	}
	if err := checkpoints.Add(ctx, cp); err != nil {
		return errors.Join(err, checkpoints.Close())
	}
	log.Info("Added checkpoint", "id", cp.ID, "start", cp.StartBlock, "end", cp.EndBlock, "root", cp.Root)
	printCheckpoint(context, cp)
	return checkpoints.Close()
}

func doCheckpointShow(context *cli.Context) error {
	cfg, err := loadConfig(context)
	if err != nil {
		return err
	}
	checkpoints, err := openCheckpoints(cfg)
	if err != nil {
		return err
	}
	var cp checkpoint.Checkpoint
	switch context.Args().Len() {
	case 0:
		cp, err = checkpoints.Latest(context.Context)
	case 1:
		var id uint64
		id, err = parseUint("checkpoint id", context.Args().Get(0))
		if err == nil {
			cp, err = checkpoints.GetCheckpoint(context.Context, id)
		}
	default:
		err = fmt.Errorf("expected at most one parameter, got %d", context.Args().Len())
	}
	if err != nil {
		return errors.Join(err, checkpoints.Close())
	}
	printCheckpoint(context, cp)
	return checkpoints.Close()
}
