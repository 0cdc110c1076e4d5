/*
Package evm translates ledger events into Ethereum logs the way a Solidity
KIP17 / KIP37 contract would emit them: topic 0 is the keccak256 hash of the
event signature, indexed arguments follow as topics and the rest is ABI
encoded into the data.
*/
package evm

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/doodoo-storage/klaytn-kip/types"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrMalformedLog = errors.New("malformed log")
)

var (
	addressType, _      = abi.NewType("address", "", nil)
	uint256Type, _      = abi.NewType("uint256", "", nil)
	uint256ArrayType, _ = abi.NewType("uint256[]", "", nil)
	boolType, _         = abi.NewType("bool", "", nil)
	stringType, _       = abi.NewType("string", "", nil)
)

var (
	transferEvent = abi.NewEvent(types.EventTransfer, types.EventTransfer, false, abi.Arguments{
		{Name: "from", Type: addressType, Indexed: true},
		{Name: "to", Type: addressType, Indexed: true},
		{Name: "tokenId", Type: uint256Type, Indexed: true},
	})
	approvalEvent = abi.NewEvent(types.EventApproval, types.EventApproval, false, abi.Arguments{
		{Name: "owner", Type: addressType, Indexed: true},
		{Name: "approved", Type: addressType, Indexed: true},
		{Name: "tokenId", Type: uint256Type, Indexed: true},
	})
	approvalForAllEvent = abi.NewEvent(types.EventApprovalForAll, types.EventApprovalForAll, false, abi.Arguments{
		{Name: "owner", Type: addressType, Indexed: true},
		{Name: "operator", Type: addressType, Indexed: true},
		{Name: "approved", Type: boolType},
	})
	transferSingleEvent = abi.NewEvent(types.EventTransferSingle, types.EventTransferSingle, false, abi.Arguments{
		{Name: "operator", Type: addressType, Indexed: true},
		{Name: "from", Type: addressType, Indexed: true},
		{Name: "to", Type: addressType, Indexed: true},
		{Name: "id", Type: uint256Type},
		{Name: "value", Type: uint256Type},
	})
	transferBatchEvent = abi.NewEvent(types.EventTransferBatch, types.EventTransferBatch, false, abi.Arguments{
		{Name: "operator", Type: addressType, Indexed: true},
		{Name: "from", Type: addressType, Indexed: true},
		{Name: "to", Type: addressType, Indexed: true},
		{Name: "ids", Type: uint256ArrayType},
		{Name: "values", Type: uint256ArrayType},
	})
	uriEvent = abi.NewEvent(types.EventURI, types.EventURI, false, abi.Arguments{
		{Name: "value", Type: stringType},
		{Name: "id", Type: uint256Type, Indexed: true},
	})

	eventsByID = map[common.Hash]abi.Event{
		transferEvent.ID:       transferEvent,
		approvalEvent.ID:       approvalEvent,
		approvalForAllEvent.ID: approvalForAllEvent,
		transferSingleEvent.ID: transferSingleEvent,
		transferBatchEvent.ID:  transferBatchEvent,
		uriEvent.ID:            uriEvent,
	}
)

// EncodeEvent returns the log the contract would emit for the event.
func EncodeEvent(contract common.Address, ev types.Event) (*LogEntry, error) {
	var (
		event   abi.Event
		topics  []common.Hash
		dataArg []any
	)
	switch e := ev.(type) {
	case types.Transfer:
		event = transferEvent
		topics = []common.Hash{addressTopic(e.From), addressTopic(e.To), idTopic(e.TokenID)}
	case types.Approval:
		event = approvalEvent
		topics = []common.Hash{addressTopic(e.Owner), addressTopic(e.Approved), idTopic(e.TokenID)}
	case types.ApprovalForAll:
		event = approvalForAllEvent
		topics = []common.Hash{addressTopic(e.Owner), addressTopic(e.Operator)}
		dataArg = []any{e.Approved}
	case types.TransferSingle:
		event = transferSingleEvent
		topics = []common.Hash{addressTopic(e.Operator), addressTopic(e.From), addressTopic(e.To)}
		dataArg = []any{toBig(uint64(e.ID)), toBig(e.Value)}
	case types.TransferBatch:
		event = transferBatchEvent
		topics = []common.Hash{addressTopic(e.Operator), addressTopic(e.From), addressTopic(e.To)}
		ids := make([]*big.Int, len(e.IDs))
		for i, id := range e.IDs {
			ids[i] = toBig(uint64(id))
		}
		values := make([]*big.Int, len(e.Values))
		for i, v := range e.Values {
			values[i] = toBig(v)
		}
		dataArg = []any{ids, values}
	case types.URI:
		event = uriEvent
		topics = []common.Hash{idTopic(e.ID)}
		dataArg = []any{e.Value}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}

	data, err := event.Inputs.NonIndexed().Pack(dataArg...)
	if err != nil {
		return nil, fmt.Errorf("packing %s data: %w", event.Name, err)
	}
	return &LogEntry{
		Address: contract,
		Topics:  append([]common.Hash{event.ID}, topics...),
		Data:    data,
	}, nil
}

// DecodeLog is the inverse of EncodeEvent.
func DecodeLog(l *LogEntry) (types.Event, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: nil log entry", ErrMalformedLog)
	}
	if len(l.Topics) == 0 {
		return nil, fmt.Errorf("%w: no topics", ErrMalformedLog)
	}
	event, ok := eventsByID[l.Topics[0]]
	if !ok {
		return nil, fmt.Errorf("%w: topic %s", ErrUnknownEvent, l.Topics[0])
	}
	indexed := 0
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexed++
		}
	}
	if len(l.Topics) != indexed+1 {
		return nil, fmt.Errorf("%w: %s has %d topics, expected %d", ErrMalformedLog, event.Name, len(l.Topics), indexed+1)
	}
	values, err := event.Inputs.NonIndexed().Unpack(l.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: unpacking %s data: %w", ErrMalformedLog, event.Name, err)
	}
	topics := l.Topics[1:]

	switch event.ID {
	case transferEvent.ID:
		id, err := topicID(topics[2])
		if err != nil {
			return nil, err
		}
		return types.Transfer{From: topicAddress(topics[0]), To: topicAddress(topics[1]), TokenID: id}, nil
	case approvalEvent.ID:
		id, err := topicID(topics[2])
		if err != nil {
			return nil, err
		}
		return types.Approval{Owner: topicAddress(topics[0]), Approved: topicAddress(topics[1]), TokenID: id}, nil
	case approvalForAllEvent.ID:
		return types.ApprovalForAll{Owner: topicAddress(topics[0]), Operator: topicAddress(topics[1]), Approved: values[0].(bool)}, nil
	case transferSingleEvent.ID:
		id, err := fromBig(values[0].(*big.Int))
		if err != nil {
			return nil, err
		}
		value, err := fromBig(values[1].(*big.Int))
		if err != nil {
			return nil, err
		}
		return types.TransferSingle{
			Operator: topicAddress(topics[0]),
			From:     topicAddress(topics[1]),
			To:       topicAddress(topics[2]),
			ID:       types.TokenID(id),
			Value:    value,
		}, nil
	case transferBatchEvent.ID:
		ev := types.TransferBatch{Operator: topicAddress(topics[0]), From: topicAddress(topics[1]), To: topicAddress(topics[2])}
		for _, b := range values[0].([]*big.Int) {
			id, err := fromBig(b)
			if err != nil {
				return nil, err
			}
			ev.IDs = append(ev.IDs, types.TokenID(id))
		}
		for _, b := range values[1].([]*big.Int) {
			v, err := fromBig(b)
			if err != nil {
				return nil, err
			}
			ev.Values = append(ev.Values, v)
		}
		return ev, nil
	default: // uriEvent
		id, err := topicID(topics[0])
		if err != nil {
			return nil, err
		}
		return types.URI{Value: values[0].(string), ID: id}, nil
	}
}

func addressTopic(p types.Principal) common.Hash {
	return common.BytesToHash(p.Bytes())
}

func idTopic(id types.TokenID) common.Hash {
	return common.BigToHash(toBig(uint64(id)))
}

func topicAddress(h common.Hash) types.Principal {
	return common.BytesToAddress(h.Bytes())
}

func topicID(h common.Hash) (types.TokenID, error) {
	n, err := fromBig(h.Big())
	return types.TokenID(n), err
}

func toBig(n uint64) *big.Int {
	return new(big.Int).SetUint64(n)
}

func fromBig(b *big.Int) (uint64, error) {
	if !b.IsUint64() {
		return 0, fmt.Errorf("%w: value %s out of range", ErrMalformedLog, b)
	}
	return b.Uint64(), nil
}
