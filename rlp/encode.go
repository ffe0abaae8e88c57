// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package rlp

import (
	"encoding/binary"
	"math/bits"
)

const (
	stringOffset = 0x80
	listOffset   = 0xc0

	// maxShortSize is the largest payload size encoded in the prefix byte
	// itself. Larger payloads are preceded by their big-endian length.
	maxShortSize = 55
)

// Encode produces the canonical encoding of the given item.
func Encode(item Item) []byte {
	return appendItem(nil, item)
}

// EncodeBytes encodes b as a byte string.
func EncodeBytes(b []byte) []byte {
	return appendString(make([]byte, 0, len(b)+9), b)
}

// EncodeUint encodes an unsigned integer as a big-endian byte string
// without leading zeros. Zero is encoded as the empty string.
func EncodeUint(v uint64) []byte {
	return EncodeBytes(uintBytes(v))
}

// EncodeList wraps already encoded items into a list. The elements are not
// checked for being valid encodings.
func EncodeList(elements ...[]byte) []byte {
	size := 0
	for _, element := range elements {
		size += len(element)
	}
	res := appendHeader(make([]byte, 0, size+9), listOffset, size)
	for _, element := range elements {
		res = append(res, element...)
	}
	return res
}

func appendItem(dst []byte, item Item) []byte {
	if !item.list {
		return appendString(dst, item.bytes)
	}
	var payload []byte
	for _, element := range item.items {
		payload = appendItem(payload, element)
	}
	dst = appendHeader(dst, listOffset, len(payload))
	return append(dst, payload...)
}

func appendString(dst []byte, b []byte) []byte {
	if len(b) == 1 && b[0] < stringOffset {
		return append(dst, b[0])
	}
	dst = appendHeader(dst, stringOffset, len(b))
	return append(dst, b...)
}

func appendHeader(dst []byte, offset byte, size int) []byte {
	if size <= maxShortSize {
		return append(dst, offset+byte(size))
	}
	sizeBytes := uintBytes(uint64(size))
	dst = append(dst, offset+maxShortSize+byte(len(sizeBytes)))
	return append(dst, sizeBytes...)
}

// uintBytes returns the minimal big-endian representation of v.
func uintBytes(v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return buf[bits.LeadingZeros64(v)/8:]
}
