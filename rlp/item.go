// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package rlp implements the Recursive Length Prefix encoding as used by
// Ethereum for transactions, receipts and trie nodes. Only the parts needed
// for verifying proofs are covered: byte strings, lists, and unsigned
// integers. There is no reflection based mapping to Go structs; callers
// build and inspect Item trees or walk the raw encoding using Split.
package rlp

import (
	"bytes"
	"fmt"
	"strings"
)

// Kind distinguishes the two shapes an encoded item may have.
type Kind byte

const (
	KindString Kind = iota
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// Item is a node in an RLP tree. It is either a byte string or an ordered
// list of items. The zero value is the empty byte string.
type Item struct {
	list  bool
	bytes []byte
	items []Item
}

// String creates a byte string item.
func String(b []byte) Item {
	return Item{bytes: b}
}

// List creates a list item containing the given items in order.
func List(items ...Item) Item {
	return Item{list: true, items: items}
}

// Kind reports whether the item is a string or a list.
func (i Item) Kind() Kind {
	if i.list {
		return KindList
	}
	return KindString
}

func (i Item) IsList() bool {
	return i.list
}

// Bytes returns the content of a string item, nil for lists.
func (i Item) Bytes() []byte {
	return i.bytes
}

// Items returns the elements of a list item, nil for strings.
func (i Item) Items() []Item {
	return i.items
}

// Len returns the number of bytes of a string or the number of elements of
// a list.
func (i Item) Len() int {
	if i.list {
		return len(i.items)
	}
	return len(i.bytes)
}

// Equal reports whether both items describe the same tree. Nil and empty
// strings or lists are considered equal.
func (i Item) Equal(other Item) bool {
	if i.list != other.list {
		return false
	}
	if !i.list {
		return bytes.Equal(i.bytes, other.bytes)
	}
	if len(i.items) != len(other.items) {
		return false
	}
	for j := range i.items {
		if !i.items[j].Equal(other.items[j]) {
			return false
		}
	}
	return true
}

func (i Item) String() string {
	if !i.list {
		return fmt.Sprintf("0x%x", i.bytes)
	}
	parts := make([]string, len(i.items))
	for j, item := range i.items {
		parts[j] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
