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
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// ErrMalformedEncoding is returned for any input that is not the canonical
// encoding of exactly one item.
var ErrMalformedEncoding = errors.New("rlp: malformed encoding")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedEncoding, fmt.Sprintf(format, args...))
}

// Decode decodes the single item encoded in data. Trailing bytes are
// rejected.
func Decode(data []byte) (Item, error) {
	item, rest, err := decodeItem(data)
	if err != nil {
		return Item{}, err
	}
	if len(rest) > 0 {
		return Item{}, malformed("%d trailing bytes", len(rest))
	}
	return item, nil
}

func decodeItem(data []byte) (Item, []byte, error) {
	kind, content, rest, err := Split(data)
	if err != nil {
		return Item{}, nil, err
	}
	if kind == KindString {
		return String(content), rest, nil
	}
	items := []Item{}
	for len(content) > 0 {
		var item Item
		item, content, err = decodeItem(content)
		if err != nil {
			return Item{}, nil, err
		}
		items = append(items, item)
	}
	return List(items...), rest, nil
}

// Split reads the first item of data. It returns the kind of the item, its
// content (the string bytes or the concatenated encodings of the list
// elements) and the remaining input following the item.
func Split(data []byte) (kind Kind, content []byte, rest []byte, err error) {
	if len(data) == 0 {
		return 0, nil, nil, malformed("empty input")
	}
	prefix := data[0]
	var headerSize, contentSize uint64
	switch {
	case prefix < stringOffset:
		return KindString, data[:1], data[1:], nil
	case prefix <= stringOffset+maxShortSize:
		kind, headerSize, contentSize = KindString, 1, uint64(prefix-stringOffset)
		if contentSize == 1 && len(data) > 1 && data[1] < stringOffset {
			return 0, nil, nil, malformed("single byte 0x%02x encoded as string", data[1])
		}
	case prefix < listOffset:
		kind = KindString
		headerSize, contentSize, err = readLongSize(data, prefix-stringOffset-maxShortSize)
	case prefix <= listOffset+maxShortSize:
		kind, headerSize, contentSize = KindList, 1, uint64(prefix-listOffset)
	default:
		kind = KindList
		headerSize, contentSize, err = readLongSize(data, prefix-listOffset-maxShortSize)
	}
	if err != nil {
		return 0, nil, nil, err
	}
	if contentSize > uint64(len(data))-headerSize {
		return 0, nil, nil, malformed("%s of %d bytes exceeds remaining input of %d bytes", kind, contentSize, uint64(len(data))-headerSize)
	}
	end := headerSize + contentSize
	return kind, data[headerSize:end], data[end:], nil
}

// readLongSize decodes the big-endian length following a long form prefix.
func readLongSize(data []byte, sizeLen byte) (headerSize uint64, contentSize uint64, err error) {
	if int(sizeLen) >= len(data) {
		return 0, 0, malformed("truncated length of %d bytes", sizeLen)
	}
	sizeBytes := data[1 : 1+sizeLen]
	if sizeBytes[0] == 0 {
		return 0, 0, malformed("length with leading zero")
	}
	var size uint256.Int
	size.SetBytes(sizeBytes)
	if !size.IsUint64() {
		return 0, 0, malformed("length exceeds 64 bits")
	}
	contentSize = size.Uint64()
	if contentSize <= maxShortSize {
		return 0, 0, malformed("long form used for %d bytes", contentSize)
	}
	return 1 + uint64(sizeLen), contentSize, nil
}

// SplitList decodes data as a single list and returns the raw encodings of
// its elements.
func SplitList(data []byte) ([][]byte, error) {
	kind, content, rest, err := Split(data)
	if err != nil {
		return nil, err
	}
	if kind != KindList {
		return nil, malformed("expected list, got %s", kind)
	}
	if len(rest) > 0 {
		return nil, malformed("%d trailing bytes", len(rest))
	}
	var elements [][]byte
	for len(content) > 0 {
		_, _, remaining, err := Split(content)
		if err != nil {
			return nil, err
		}
		elements = append(elements, content[:len(content)-len(remaining)])
		content = remaining
	}
	return elements, nil
}

// SplitString decodes data as a single byte string and returns its content.
func SplitString(data []byte) ([]byte, error) {
	kind, content, rest, err := Split(data)
	if err != nil {
		return nil, err
	}
	if kind != KindString {
		return nil, malformed("expected string, got %s", kind)
	}
	if len(rest) > 0 {
		return nil, malformed("%d trailing bytes", len(rest))
	}
	return content, nil
}

// ToUint64 interprets the content of a string item as a canonical big-endian
// unsigned integer.
func ToUint64(content []byte) (uint64, error) {
	if len(content) == 0 {
		return 0, nil
	}
	if content[0] == 0 {
		return 0, malformed("integer with leading zero")
	}
	var v uint256.Int
	v.SetBytes(content)
	if !v.IsUint64() {
		return 0, malformed("integer of %d bytes exceeds 64 bits", len(content))
	}
	return v.Uint64(), nil
}
