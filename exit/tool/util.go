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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/0xsoniclabs/exitproof/checkpoint"
	"github.com/0xsoniclabs/exitproof/checkpoint/remote"
	"github.com/0xsoniclabs/exitproof/checkpoint/store"
	"github.com/0xsoniclabs/exitproof/exit"
	"github.com/0xsoniclabs/exitproof/exit/predicate"
	"github.com/0xsoniclabs/exitproof/exit/registry"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

// cancelOnInterrupt derives a context cancelled on SIGINT or SIGTERM.
func cancelOnInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func parseUint(name, value string) (uint64, error) {
	res, err := strconv.ParseUint(value, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %v", name, value, err)
	}
	return res, nil
}

func parseHash(name, value string) (common.Hash, error) {
	data, err := hexutil.Decode(value)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid %s %q: %v", name, value, err)
	}
	if len(data) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid %s %q: expected %d bytes, got %d", name, value, common.HashLength, len(data))
	}
	return common.Hash(data), nil
}

// parseEvent resolves an event given by name or by its signature topic.
func parseEvent(value string) (common.Hash, error) {
	if strings.HasPrefix(value, "0x") {
		return parseHash("event topic", value)
	}
	kind, err := predicate.ParseKind(value)
	if err != nil {
		return common.Hash{}, err
	}
	return kind.Topic(), nil
}

// readPayload reads a hex encoded payload given directly as the first
// argument or, if the argument is not hex, from the file it names.
func readPayload(context *cli.Context) ([]byte, error) {
	if context.Args().Len() != 1 {
		return nil, errors.New("missing payload parameter, provide 0x-prefixed hex or a file")
	}
	arg := context.Args().Get(0)
	if !strings.HasPrefix(arg, "0x") {
		content, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		arg = strings.TrimSpace(string(content))
	}
	data, err := hexutil.Decode(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid payload encoding: %w", err)
	}
	return data, nil
}

// openCheckpoints opens the configured checkpoint store.
func openCheckpoints(cfg Config) (*store.Sqlite, error) {
	return store.OpenSqlite(cfg.Checkpoints.Path)
}

// openProcessor creates a processor over the configured checkpoint store and
// registry. The returned function releases both.
func openProcessor(cfg Config) (*exit.Processor, registry.Registry, func() error, error) {
	timeout, err := cfg.OracleTimeout()
	if err != nil {
		return nil, nil, nil, err
	}
	checkpoints, err := openCheckpoints(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	oracle, err := store.NewCachedOracle(checkpoints, cfg.Oracle.CacheSize)
	if err != nil {
		return nil, nil, nil, errors.Join(err, checkpoints.Close())
	}
	exits, err := registry.Open(registry.Kind(cfg.Registry.Kind), cfg.Registry.Path)
	if err != nil {
		return nil, nil, nil, errors.Join(err, checkpoints.Close())
	}
	log.Debug("Opened exit processor", "checkpoints", cfg.Checkpoints.Path, "registry", cfg.Registry.Kind, "path", cfg.Registry.Path)

	config := exit.DefaultProcessorConfig()
	config.OracleTimeout = timeout
	closeAll := func() error {
		return errors.Join(exits.Close(), checkpoints.Close())
	}
	return exit.NewProcessor(oracle, exits, config), exits, closeAll, nil
}

// dial connects to the configured side-chain node.
func dial(ctx context.Context, cfg Config) (*remote.Client, error) {
	if cfg.RPC.URL == "" {
		return nil, fmt.Errorf("no side-chain node configured, use --%s or the [rpc] section of the config", rpcFlag.Name)
	}
	return remote.Dial(ctx, cfg.RPC.URL)
}

// printLog writes a claimed log and, if recognized, its burn event.
func printLog(context *cli.Context, l *exit.Log) {
	out := context.App.Writer
	fmt.Fprintf(out, "Contract:   %v\n", l.Address)
	for i, topic := range l.Topics {
		fmt.Fprintf(out, "Topic %d:    %v\n", i, topic)
	}
	fmt.Fprintf(out, "Data:       %v\n", hexutil.Encode(l.Data))

	event, err := predicate.Classify(l)
	if err != nil {
		fmt.Fprintf(out, "Event:      %v\n", err)
		return
	}
	fmt.Fprintf(out, "Event:      %v\n", event.Kind)
	fmt.Fprintf(out, "From:       %v\n", event.From)
	fmt.Fprintf(out, "To:         %v\n", event.To)
	if event.Amount != nil {
		fmt.Fprintf(out, "Amount:     %v\n", event.Amount)
	}
	if len(event.TokenIDs) > 0 {
		fmt.Fprintf(out, "Token IDs:  %v\n", event.TokenIDs)
	}
	if len(event.MetaData) > 0 {
		fmt.Fprintf(out, "Metadata:   %v\n", hexutil.Encode(event.MetaData))
	}
}

// printCheckpoint writes the fields of a checkpoint.
func printCheckpoint(context *cli.Context, cp checkpoint.Checkpoint) {
	out := context.App.Writer
	fmt.Fprintf(out, "Checkpoint: %d\n", cp.ID)
	fmt.Fprintf(out, "Blocks:     [%d, %d]\n", cp.StartBlock, cp.EndBlock)
	fmt.Fprintf(out, "Root:       %v\n", cp.Root)
}
