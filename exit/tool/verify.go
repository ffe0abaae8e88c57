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

	"github.com/0xsoniclabs/exitproof/exit"
	"github.com/urfave/cli/v2"
)

var processorFlags = []cli.Flag{
	&checkpointsFlag,
	&registryKindFlag,
	&registryFlag,
	&oracleTimeoutFlag,
}

var VerifyCmd = cli.Command{
	Action:    doVerify,
	Name:      "verify",
	Usage:     "verify an exit payload and record the exit as processed",
	ArgsUsage: "<payload hex or file>",
	Flags:     processorFlags,
}

var CheckCmd = cli.Command{
	Action:    doCheck,
	Name:      "check",
	Usage:     "verify an exit payload without recording it",
	ArgsUsage: "<payload hex or file>",
	Flags:     processorFlags,
}

func doVerify(context *cli.Context) error {
	data, err := readPayload(context)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(context)
	if err != nil {
		return err
	}
	processor, _, closeAll, err := openProcessor(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := cancelOnInterrupt(context.Context)
	defer cancel()

	log, err := processor.ValidateEncoded(ctx, data)
	if err != nil {
		return errors.Join(err, closeAll())
	}
	fmt.Fprintln(context.App.Writer, "Exit accepted")
	printLog(context, log)
	return closeAll()
}

func doCheck(context *cli.Context) error {
	data, err := readPayload(context)
	if err != nil {
		return err
	}
	payload, err := exit.DecodePayload(data)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(context)
	if err != nil {
		return err
	}
	processor, exits, closeAll, err := openProcessor(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := cancelOnInterrupt(context.Context)
	defer cancel()

	checked, err := processor.Check(ctx, payload)
	if err != nil {
		return errors.Join(err, closeAll())
	}
	processed, err := exits.IsProcessed(checked.Hash)
	if err != nil {
		return errors.Join(err, closeAll())
	}
	out := context.App.Writer
	fmt.Fprintln(out, "Exit valid")
	fmt.Fprintf(out, "Exit:       %v\n", checked.Hash)
	fmt.Fprintf(out, "Processed:  %t\n", processed)
	printCheckpoint(context, checked.Checkpoint)
	printLog(context, checked.Log)
	return closeAll()
}
