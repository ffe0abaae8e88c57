// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package registry selects between the implementations of the registry of
// processed exits.
package registry

import (
	"fmt"
	"io"

	"github.com/0xsoniclabs/exitproof/exit"
	"github.com/0xsoniclabs/exitproof/exit/registry/ldb"
	"github.com/0xsoniclabs/exitproof/exit/registry/memory"
	"github.com/0xsoniclabs/exitproof/exit/registry/sqlite"
)

// Kind names a registry implementation.
type Kind string

const (
	Memory  Kind = "memory"
	LevelDb Kind = "leveldb"
	Sqlite  Kind = "sqlite"
)

// Kinds lists all supported registry implementations.
var Kinds = []Kind{Memory, LevelDb, Sqlite}

// Registry is a registry of processed exits holding resources.
type Registry interface {
	exit.Registry
	io.Closer
}

// Open opens a registry of the given kind. The path is ignored by in-memory
// registries. LevelDB registries are kept in memory if the path is empty.
func Open(kind Kind, path string) (Registry, error) {
	switch kind {
	case Memory:
		return memory.NewRegistry(), nil
	case LevelDb:
		if path == "" {
			return opened(ldb.OpenInMemory())
		}
		return opened(ldb.Open(path))
	case Sqlite:
		if path == "" {
			path = ":memory:"
		}
		return opened(sqlite.Open(path))
	}
	return nil, fmt.Errorf("unknown registry kind %q, supported are %v", kind, Kinds)
}

// opened avoids returning nil pointers wrapped into a non-nil interface.
func opened[R Registry](registry R, err error) (Registry, error) {
	if err != nil {
		return nil, err
	}
	return registry, nil
}
