package types

import (
	"fmt"
	"slices"

	"github.com/doodoo-storage/klaytn-kip/cbor"
)

const (
	EventTransfer       = "Transfer"
	EventApproval       = "Approval"
	EventApprovalForAll = "ApprovalForAll"
	EventTransferSingle = "TransferSingle"
	EventTransferBatch  = "TransferBatch"
	EventURI            = "URI"
)

type (
	// Event describes a committed state change of a registry.
	Event interface {
		EventName() string
	}

	// Transfer is emitted by KIP17 registry on mint (From is zero),
	// burn (To is zero) and transfer.
	Transfer struct {
		_       struct{}  `cbor:",toarray"`
		From    Principal `json:"from"`
		To      Principal `json:"to"`
		TokenID TokenID   `json:"tokenId,string"`
	}

	// Approval is emitted when the single token delegate changes.
	Approval struct {
		_        struct{}  `cbor:",toarray"`
		Owner    Principal `json:"owner"`
		Approved Principal `json:"approved"`
		TokenID  TokenID   `json:"tokenId,string"`
	}

	// ApprovalForAll is emitted by both registries when an operator is
	// enabled or disabled, even when the flag doesn't change.
	ApprovalForAll struct {
		_        struct{}  `cbor:",toarray"`
		Owner    Principal `json:"owner"`
		Operator Principal `json:"operator"`
		Approved bool      `json:"approved"`
	}

	TransferSingle struct {
		_        struct{}  `cbor:",toarray"`
		Operator Principal `json:"operator"`
		From     Principal `json:"from"`
		To       Principal `json:"to"`
		ID       TokenID   `json:"id,string"`
		Value    uint64    `json:"value,string"`
	}

	TransferBatch struct {
		_        struct{}  `cbor:",toarray"`
		Operator Principal `json:"operator"`
		From     Principal `json:"from"`
		To       Principal `json:"to"`
		IDs      []TokenID `json:"ids"`
		Values   []uint64  `json:"values"`
	}

	// URI is emitted when a class gets an URI override.
	URI struct {
		_     struct{} `cbor:",toarray"`
		Value string   `json:"value"`
		ID    TokenID  `json:"id,string"`
	}

	eventEnvelope struct {
		_    struct{} `cbor:",toarray"`
		Name string
		Body cbor.RawCBOR
	}
)

func (Transfer) EventName() string       { return EventTransfer }
func (Approval) EventName() string       { return EventApproval }
func (ApprovalForAll) EventName() string { return EventApprovalForAll }
func (TransferSingle) EventName() string { return EventTransferSingle }
func (TransferBatch) EventName() string  { return EventTransferBatch }
func (URI) EventName() string            { return EventURI }

/*
MarshalEvent encodes the event as tagged CBOR array of event name and event
body so that it can be decoded without knowing the type in advance.
*/
func MarshalEvent(ev Event) ([]byte, error) {
	if ev == nil {
		return nil, fmt.Errorf("event is nil")
	}
	body, err := cbor.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encoding %s event: %w", ev.EventName(), err)
	}
	return cbor.MarshalTaggedValue(cbor.EventTag, eventEnvelope{Name: ev.EventName(), Body: body})
}

func UnmarshalEvent(data []byte) (Event, error) {
	var env eventEnvelope
	if err := cbor.UnmarshalTaggedValue(cbor.EventTag, data, &env); err != nil {
		return nil, fmt.Errorf("decoding event envelope: %w", err)
	}

	var err error
	switch env.Name {
	case EventTransfer:
		ev := Transfer{}
		err = cbor.Unmarshal(env.Body, &ev)
		return ev, err
	case EventApproval:
		ev := Approval{}
		err = cbor.Unmarshal(env.Body, &ev)
		return ev, err
	case EventApprovalForAll:
		ev := ApprovalForAll{}
		err = cbor.Unmarshal(env.Body, &ev)
		return ev, err
	case EventTransferSingle:
		ev := TransferSingle{}
		err = cbor.Unmarshal(env.Body, &ev)
		return ev, err
	case EventTransferBatch:
		ev := TransferBatch{}
		err = cbor.Unmarshal(env.Body, &ev)
		return ev, err
	case EventURI:
		ev := URI{}
		err = cbor.Unmarshal(env.Body, &ev)
		return ev, err
	default:
		return nil, fmt.Errorf("unknown event %q", env.Name)
	}
}

type (
	// EventSink receives events of committed operations, in order.
	EventSink interface {
		Emit(ev Event)
	}

	// SinkFunc adapts ordinary function to EventSink.
	SinkFunc func(ev Event)

	// MultiSink delivers every event to all the sinks, in the order given.
	MultiSink []EventSink

	discardSink struct{}

	/*
	EventLog is an append-only in memory EventSink recording everything it
	receives.
	*/
	EventLog struct {
		events []Event
	}
)

// DiscardSink drops all events.
var DiscardSink EventSink = discardSink{}

func (f SinkFunc) Emit(ev Event) { f(ev) }

func (ms MultiSink) Emit(ev Event) {
	for _, s := range ms {
		s.Emit(ev)
	}
}

func (discardSink) Emit(Event) {}

func (l *EventLog) Emit(ev Event) {
	l.events = append(l.events, ev)
}

// Events returns copy of the recorded events.
func (l *EventLog) Events() []Event {
	return slices.Clone(l.events)
}

func (l *EventLog) Len() int {
	return len(l.events)
}

// Last returns the most recent event or nil when the log is empty.
func (l *EventLog) Last() Event {
	if len(l.events) == 0 {
		return nil
	}
	return l.events[len(l.events)-1]
}

func (l *EventLog) Reset() {
	l.events = nil
}
