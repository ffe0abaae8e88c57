// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package predicate recognizes the burn events a verified exit may carry.
// The set of events is closed; interpreting an event (unlocking tokens,
// minting, ...) is left to the business logic receiving it.
package predicate

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/0xsoniclabs/exitproof/exit"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrUnknownEvent   = errors.New("predicate: unknown event")
	ErrMalformedEvent = errors.New("predicate: malformed event")
)

// Kind enumerates the recognized burn events.
type Kind byte

const (
	// Transfer is the fungible and non-fungible transfer to the zero
	// address. Fungible tokens carry the amount in the data, non-fungible
	// ones the token id as a third topic.
	Transfer Kind = iota + 1
	// WithdrawnBatch burns a batch of non-fungible tokens of a user.
	WithdrawnBatch
	// TransferWithMetadata burns a non-fungible token carrying metadata
	// to be restored on the root chain.
	TransferWithMetadata
)

var kindNames = map[Kind]string{
	Transfer:             "Transfer",
	WithdrawnBatch:       "WithdrawnBatch",
	TransferWithMetadata: "TransferWithMetadata",
}

// Kinds lists all recognized events.
var Kinds = []Kind{Transfer, WithdrawnBatch, TransferWithMetadata}

func (k Kind) String() string {
	if name, found := kindNames[k]; found {
		return name
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// Topic returns the signature hash identifying the event in a log.
func (k Kind) Topic() common.Hash {
	return burnEvents.Events[k.String()].ID
}

// ParseKind resolves an event name, ignoring case.
func ParseKind(name string) (Kind, error) {
	for _, kind := range Kinds {
		if strings.EqualFold(kind.String(), name) {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
}

// Event is a decoded burn event. Fields not carried by an event kind are
// left empty.
type Event struct {
	Kind     Kind
	Contract common.Address
	From     common.Address
	To       common.Address
	Amount   *big.Int   // < Transfer: value, or token id of non-fungible tokens
	TokenIDs []*big.Int // < WithdrawnBatch and TransferWithMetadata
	MetaData []byte     // < TransferWithMetadata
}

const burnEventsABI = `[
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[
		{"name":"from","type":"address","indexed":true},
		{"name":"to","type":"address","indexed":true},
		{"name":"value","type":"uint256","indexed":false}]},
	{"type":"event","name":"WithdrawnBatch","anonymous":false,"inputs":[
		{"name":"user","type":"address","indexed":true},
		{"name":"tokenIds","type":"uint256[]","indexed":false}]},
	{"type":"event","name":"TransferWithMetadata","anonymous":false,"inputs":[
		{"name":"from","type":"address","indexed":true},
		{"name":"to","type":"address","indexed":true},
		{"name":"tokenId","type":"uint256","indexed":true},
		{"name":"metaData","type":"bytes","indexed":false}]}
]`

var burnEvents = mustParseABI(burnEventsABI)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(fmt.Sprintf("invalid event ABI: %v", err))
	}
	return parsed
}

// Classify decodes the given log as one of the recognized burn events.
func Classify(log *exit.Log) (Event, error) {
	if len(log.Topics) == 0 {
		return Event{}, fmt.Errorf("%w: anonymous log", ErrUnknownEvent)
	}
	kind, found := kindOf(log.Topics[0])
	if !found {
		return Event{}, fmt.Errorf("%w: topic %x", ErrUnknownEvent, log.Topics[0])
	}

	// Non-fungible transfers index the token id and carry no data.
	if kind == Transfer && len(log.Topics) == 4 {
		if len(log.Data) != 0 {
			return Event{}, fmt.Errorf("%w: non-fungible transfer with %d bytes of data", ErrMalformedEvent, len(log.Data))
		}
		return Event{
			Kind:     Transfer,
			Contract: log.Address,
			From:     topicAddress(log.Topics[1]),
			To:       topicAddress(log.Topics[2]),
			Amount:   log.Topics[3].Big(),
		}, nil
	}

	values, err := unpack(burnEvents.Events[kind.String()], log)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v: %v", ErrMalformedEvent, kind, err)
	}
	event := Event{Kind: kind, Contract: log.Address}
	switch kind {
	case Transfer:
		event.From = values["from"].(common.Address)
		event.To = values["to"].(common.Address)
		event.Amount = values["value"].(*big.Int)
	case WithdrawnBatch:
		event.From = values["user"].(common.Address)
		event.TokenIDs = values["tokenIds"].([]*big.Int)
	case TransferWithMetadata:
		event.From = values["from"].(common.Address)
		event.To = values["to"].(common.Address)
		event.TokenIDs = []*big.Int{values["tokenId"].(*big.Int)}
		event.MetaData = values["metaData"].([]byte)
	}
	return event, nil
}

func kindOf(topic common.Hash) (Kind, bool) {
	for _, kind := range Kinds {
		if kind.Topic() == topic {
			return kind, true
		}
	}
	return 0, false
}

func unpack(event abi.Event, log *exit.Log) (map[string]any, error) {
	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if got := len(log.Topics) - 1; got != len(indexed) {
		return nil, fmt.Errorf("expected %d indexed arguments, got %d", len(indexed), got)
	}
	values := map[string]any{}
	if err := abi.ParseTopicsIntoMap(values, indexed, log.Topics[1:]); err != nil {
		return nil, err
	}
	if err := event.Inputs.UnpackIntoMap(values, log.Data); err != nil {
		return nil, err
	}
	return values, nil
}

func topicAddress(topic common.Hash) common.Address {
	return common.BytesToAddress(topic[common.HashLength-common.AddressLength:])
}
