// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package trie verifies inclusion proofs for Ethereum Merkle-Patricia tries,
// such as the transaction and receipt tries committed to in block headers.
//
// A proof is the ordered list of RLP encoded nodes visited on the way from
// the root to the node holding the value. Verification re-hashes every node
// and follows the key nibble by nibble; nodes are never revisited, so the
// cost is linear in the length of the proof.
package trie

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/0xsoniclabs/exitproof/common/keccak"
	"github.com/0xsoniclabs/exitproof/rlp"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrProofMismatch is returned if a well-formed proof does not prove the
	// given value under the given root and path.
	ErrProofMismatch = errors.New("trie: proof mismatch")

	// ErrInvalidNode is returned if a proof node is not a valid trie node.
	ErrInvalidNode = errors.New("trie: invalid node")
)

const (
	branchNodeSize = 17
	shortNodeSize  = 2
	valueSlot      = 16
)

// Proof bundles the inputs of an inclusion proof.
type Proof struct {
	Root        common.Hash
	ParentNodes [][]byte // < encoded nodes, root first
	Path        []byte   // < the trie key, e.g. the RLP encoded transaction index
	Value       []byte
}

// Verify checks the proof, see VerifyProof.
func (p *Proof) Verify() error {
	return VerifyProof(p.Root, p.Value, p.ParentNodes, p.Path)
}

// Verify reports whether parentNodes prove that value is stored under path
// in the trie with the given root.
func Verify(root common.Hash, value []byte, parentNodes [][]byte, path []byte) bool {
	return VerifyProof(root, value, parentNodes, path) == nil
}

// VerifyProof checks that parentNodes prove that value is stored under path
// in the trie with the given root. All nodes of the proof must be used.
func VerifyProof(root common.Hash, value []byte, parentNodes [][]byte, path []byte) error {
	key := KeyToNibbles(path)
	encodedValue := rlp.EncodeBytes(value)
	expected := root
	pos := 0
	last := len(parentNodes) - 1

	for i, node := range parentNodes {
		if hash := keccak.Sum(node); hash != expected {
			return fmt.Errorf("%w: hash of node %d is %x, expected %x", ErrProofMismatch, i, hash, expected)
		}
		elements, err := rlp.SplitList(node)
		if err != nil {
			return fmt.Errorf("%w: node %d: %w", ErrInvalidNode, i, err)
		}

		switch len(elements) {
		case branchNodeSize:
			if pos == len(key) {
				if !bytes.Equal(elements[valueSlot], encodedValue) {
					return fmt.Errorf("%w: value of branch node %d differs", ErrProofMismatch, i)
				}
				return checkLast(i, last)
			}
			expected, err = childHash(elements[key[pos]])
			if err != nil {
				return fmt.Errorf("node %d, nibble %d: %w", i, key[pos], err)
			}
			pos++

		case shortNodeSize:
			compact, err := rlp.SplitString(elements[0])
			if err != nil {
				return fmt.Errorf("%w: node %d path: %w", ErrInvalidNode, i, err)
			}
			nibbles, leaf, err := DecodeHexPrefix(compact)
			if err != nil {
				return fmt.Errorf("node %d: %w", i, err)
			}
			if !leaf && len(nibbles) == 0 {
				return fmt.Errorf("%w: extension node %d has an empty path", ErrInvalidNode, i)
			}
			if len(key)-pos < len(nibbles) || !bytes.Equal(nibbles, key[pos:pos+len(nibbles)]) {
				return fmt.Errorf("%w: path of node %d diverges at nibble %d", ErrProofMismatch, i, pos)
			}
			pos += len(nibbles)

			if pos == len(key) {
				if !leaf {
					return fmt.Errorf("%w: extension node %d consumes the remaining path", ErrProofMismatch, i)
				}
				if !bytes.Equal(elements[1], encodedValue) {
					return fmt.Errorf("%w: value of leaf node %d differs", ErrProofMismatch, i)
				}
				return checkLast(i, last)
			}
			if leaf {
				return fmt.Errorf("%w: leaf node %d ends %d nibbles before the path", ErrProofMismatch, i, len(key)-pos)
			}
			expected, err = childHash(elements[1])
			if err != nil {
				return fmt.Errorf("extension node %d: %w", i, err)
			}

		default:
			return fmt.Errorf("%w: node %d has %d elements", ErrInvalidNode, i, len(elements))
		}
	}
	return fmt.Errorf("%w: proof of %d nodes ends before reaching a value", ErrProofMismatch, len(parentNodes))
}

// childHash extracts the hash reference of a child from its encoded slot.
func childHash(slot []byte) (common.Hash, error) {
	kind, content, _, err := rlp.Split(slot)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %w", ErrInvalidNode, err)
	}
	if kind == rlp.KindList {
		return common.Hash{}, fmt.Errorf("%w: embedded child nodes are not supported", ErrInvalidNode)
	}
	if len(content) == 0 {
		return common.Hash{}, fmt.Errorf("%w: no child present", ErrProofMismatch)
	}
	if len(content) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: child reference of %d bytes", ErrInvalidNode, len(content))
	}
	return common.Hash(content), nil
}

func checkLast(i, last int) error {
	if i != last {
		return fmt.Errorf("%w: %d unused nodes after value", ErrProofMismatch, last-i)
	}
	return nil
}
