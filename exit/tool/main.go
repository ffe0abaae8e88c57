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
	"os"

	"github.com/0xsoniclabs/exitproof/common/diagnostics"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

// Run using
//  go run ./exit/tool <command> <flags>

var (
	diagnosticsFlag = cli.IntFlag{
		Name:  "diagnostic-port",
		Usage: "enable hosting of a realtime diagnostic server by providing a port",
		Value: 0,
	}
	cpuProfileFlag = cli.StringFlag{
		Name:  "cpuprofile",
		Usage: "sets the target file for storing CPU profiles to, disabled if empty",
		Value: "",
	}
	traceFlag = cli.StringFlag{
		Name:  "tracefile",
		Usage: "sets the target file for traces to, disabled if empty",
		Value: "",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file, flags override its values",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "log level, 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 3,
	}
)

var commands = withDiagnostics([]*cli.Command{
	&DigestCmd,
	&DecodeCmd,
	&VerifyCmd,
	&CheckCmd,
	&ProofCmd,
	&CheckpointCmd,
})

func newApp() *cli.App {
	return &cli.App{
		Name:      "exittool",
		Usage:     "builds, inspects and verifies checkpoint exit proofs",
		Copyright: "(c) 2025 Sonic Operations Ltd",
		Flags: []cli.Flag{
			&configFlag,
			&verbosityFlag,
			&diagnosticsFlag,
			&cpuProfileFlag,
			&traceFlag,
		},
		Before:   setupLogging,
		Commands: commands,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(context *cli.Context) error {
	handler := log.NewGlogHandler(log.NewTerminalHandlerWithLevel(os.Stderr, log.LevelTrace, true))
	handler.Verbosity(log.FromLegacyLevel(context.Int(verbosityFlag.Name)))
	log.SetDefault(log.NewLogger(handler))
	return nil
}

// withDiagnostics wraps the actions of all given commands and their
// sub-commands with the performance diagnostics requested on the command line.
func withDiagnostics(cmds []*cli.Command) []*cli.Command {
	for _, cmd := range cmds {
		if cmd.Action != nil {
			cmd.Action = diagnostics.AddPerformanceDiagnosticsAction(cmd.Action, &diagnosticsFlag, &cpuProfileFlag, &traceFlag)
		}
		withDiagnostics(cmd.Subcommands)
	}
	return cmds
}
