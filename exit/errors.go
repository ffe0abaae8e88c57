// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package exit

import "errors"

// Errors reported for rejected exits. Every rejection is terminal for the
// submitted payload; callers classify them using errors.Is.
var (
	// ErrMalformedEncoding is reported for payloads that can not be decoded.
	ErrMalformedEncoding = errors.New("exit: malformed encoding")

	// ErrProofVerificationFailed is reported if the checkpoint proof of the
	// block header or the trie proof of the receipt does not hold.
	ErrProofVerificationFailed = errors.New("exit: proof verification failed")

	// ErrOutOfRange is reported if the block of an exit is not covered by the
	// referenced checkpoint. A retry with another checkpoint may succeed.
	ErrOutOfRange = errors.New("exit: block not covered by checkpoint")

	// ErrReceiptParse is reported for invalid receipts and log indices
	// exceeding the logs of a receipt.
	ErrReceiptParse = errors.New("exit: invalid receipt")

	// ErrAlreadyProcessed is reported for exits that have been accepted before.
	ErrAlreadyProcessed = errors.New("exit: already processed")
)
