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
	"time"

	"github.com/0xsoniclabs/exitproof/exit/registry"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"
)

// Config holds the tool configuration.
type Config struct {
	Checkpoints CheckpointsConfig `toml:"checkpoints"`
	Registry    RegistryConfig    `toml:"registry"`
	Oracle      OracleConfig      `toml:"oracle"`
	RPC         RPCConfig         `toml:"rpc"`
}

// CheckpointsConfig locates the checkpoint store.
type CheckpointsConfig struct {
	Path string `toml:"path"`
}

// RegistryConfig selects the processed exit registry.
type RegistryConfig struct {
	Kind string `toml:"kind"` // "memory", "leveldb" or "sqlite"
	Path string `toml:"path"`
}

type OracleConfig struct {
	Timeout   string `toml:"timeout"`
	CacheSize int    `toml:"cache_size"`
}

type RPCConfig struct {
	URL string `toml:"url"`
}

const (
	defaultCheckpointsPath = "checkpoints.sqlite"
	defaultRegistryPath    = "exits"
	defaultOracleTimeout   = "10s"
	defaultCacheSize       = 1024
)

// LoadConfig reads the TOML file at the given path. Values missing in the
// file are set to their defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	file, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := toml.Unmarshal(file, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}
	cfg.setDefaults()
	return cfg, cfg.validate()
}

// DefaultConfig is the configuration used without a config file.
func DefaultConfig() Config {
	var cfg Config
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Checkpoints.Path == "" {
		c.Checkpoints.Path = defaultCheckpointsPath
	}
	if c.Registry.Kind == "" {
		c.Registry.Kind = string(registry.LevelDb)
	}
	if c.Registry.Path == "" && c.Registry.Kind != string(registry.Memory) {
		c.Registry.Path = defaultRegistryPath
	}
	if c.Oracle.Timeout == "" {
		c.Oracle.Timeout = defaultOracleTimeout
	}
	if c.Oracle.CacheSize == 0 {
		c.Oracle.CacheSize = defaultCacheSize
	}
}

func (c *Config) validate() error {
	if _, err := c.OracleTimeout(); err != nil {
		return err
	}
	if c.Oracle.CacheSize < 0 {
		return fmt.Errorf("invalid oracle cache size %d", c.Oracle.CacheSize)
	}
	for _, kind := range registry.Kinds {
		if string(kind) == c.Registry.Kind {
			return nil
		}
	}
	return fmt.Errorf("unknown registry kind %q, supported are %v", c.Registry.Kind, registry.Kinds)
}

// OracleTimeout is the parsed oracle timeout.
func (c *Config) OracleTimeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.Oracle.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid oracle timeout %q: %v", c.Oracle.Timeout, err)
	}
	return timeout, nil
}

var (
	checkpointsFlag = cli.StringFlag{
		Name:  "checkpoints",
		Usage: "path of the checkpoint database",
	}
	registryKindFlag = cli.StringFlag{
		Name:  "registry-kind",
		Usage: "processed exit registry implementation: memory, leveldb or sqlite",
	}
	registryFlag = cli.StringFlag{
		Name:  "registry",
		Usage: "path of the processed exit registry",
	}
	oracleTimeoutFlag = cli.DurationFlag{
		Name:  "oracle-timeout",
		Usage: "time allowed for resolving a checkpoint",
	}
	rpcFlag = cli.StringFlag{
		Name:  "rpc",
		Usage: "side-chain node RPC endpoint",
	}
)

// loadConfig combines the config file selected by --config with the flags
// set on the command line.
func loadConfig(context *cli.Context) (Config, error) {
	cfg := DefaultConfig()
	if path := context.String(configFlag.Name); path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if context.IsSet(checkpointsFlag.Name) {
		cfg.Checkpoints.Path = context.String(checkpointsFlag.Name)
	}
	if context.IsSet(registryKindFlag.Name) {
		cfg.Registry.Kind = context.String(registryKindFlag.Name)
	}
	if context.IsSet(registryFlag.Name) {
		cfg.Registry.Path = context.String(registryFlag.Name)
	}
	if context.IsSet(oracleTimeoutFlag.Name) {
		cfg.Oracle.Timeout = context.Duration(oracleTimeoutFlag.Name).String()
	}
	if context.IsSet(rpcFlag.Name) {
		cfg.RPC.URL = context.String(rpcFlag.Name)
	}
	return cfg, cfg.validate()
}
