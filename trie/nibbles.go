// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package trie

import "fmt"

// Hex-prefix flags stored in the first nibble of a compact encoded path.
const (
	hpOddFlag  = 0x1
	hpLeafFlag = 0x2
)

// KeyToNibbles splits every byte of key into its high and low nibble.
func KeyToNibbles(key []byte) []byte {
	nibbles := make([]byte, len(key)*2)
	for i, b := range key {
		nibbles[i*2] = b >> 4
		nibbles[i*2+1] = b & 0x0f
	}
	return nibbles
}

// DecodeHexPrefix decodes the compact (hex-prefix) encoding of a partial path
// stored in leaf and extension nodes. It returns the path nibbles and whether
// the flag marks a leaf.
func DecodeHexPrefix(compact []byte) (nibbles []byte, leaf bool, err error) {
	if len(compact) == 0 {
		return nil, false, fmt.Errorf("%w: empty hex-prefix path", ErrInvalidNode)
	}
	flag := compact[0] >> 4
	if flag > hpOddFlag|hpLeafFlag {
		return nil, false, fmt.Errorf("%w: invalid hex-prefix flag %d", ErrInvalidNode, flag)
	}
	nibbles = KeyToNibbles(compact)
	if flag&hpOddFlag != 0 {
		return nibbles[1:], flag&hpLeafFlag != 0, nil
	}
	if nibbles[1] != 0 {
		return nil, false, fmt.Errorf("%w: non-zero padding nibble in even path", ErrInvalidNode)
	}
	return nibbles[2:], flag&hpLeafFlag != 0, nil
}
