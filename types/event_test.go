package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_EventCBOR(t *testing.T) {
	alice := Principal{19: 0x01}
	bob := Principal{19: 0x02}

	events := []Event{
		Transfer{From: ZeroPrincipal, To: alice, TokenID: 1},
		Approval{Owner: alice, Approved: bob, TokenID: 1},
		ApprovalForAll{Owner: alice, Operator: bob, Approved: true},
		TransferSingle{Operator: alice, From: alice, To: bob, ID: 3, Value: 100},
		TransferBatch{Operator: alice, From: alice, To: bob, IDs: []TokenID{1, 2}, Values: []uint64{10, 20}},
		URI{Value: "ipfs://class", ID: 2},
	}

	for _, ev := range events {
		t.Run(ev.EventName(), func(t *testing.T) {
			data, err := MarshalEvent(ev)
			require.NoError(t, err)
			decoded, err := UnmarshalEvent(data)
			require.NoError(t, err)
			require.Equal(t, ev, decoded)
		})
	}

	t.Run("nil event", func(t *testing.T) {
		_, err := MarshalEvent(nil)
		require.EqualError(t, err, `event is nil`)
	})

	t.Run("unknown event", func(t *testing.T) {
		data, err := MarshalEvent(unknownEvent{})
		require.NoError(t, err)
		_, err = UnmarshalEvent(data)
		require.EqualError(t, err, `unknown event "Mystery"`)
	})
}

type unknownEvent struct{}

func (unknownEvent) EventName() string { return "Mystery" }

func Test_EventJSON(t *testing.T) {
	ev := TransferSingle{Operator: Principal{19: 0x01}, From: ZeroPrincipal, To: Principal{19: 0x01}, ID: 1, Value: 1000}
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"operator":"0x0000000000000000000000000000000000000001",
		"from":"0x0000000000000000000000000000000000000000",
		"to":"0x0000000000000000000000000000000000000001",
		"id":"1",
		"value":"1000"}`, string(data))
}

func Test_Sinks(t *testing.T) {
	log := &EventLog{}
	require.Nil(t, log.Last())

	var names []string
	sink := MultiSink{log, SinkFunc(func(ev Event) { names = append(names, ev.EventName()) }), DiscardSink}
	sink.Emit(URI{Value: "a", ID: 1})
	sink.Emit(Transfer{TokenID: 1})

	require.Equal(t, 2, log.Len())
	require.Equal(t, []string{EventURI, EventTransfer}, names)
	require.Equal(t, Transfer{TokenID: 1}, log.Last())

	// returned slice is a copy
	evs := log.Events()
	evs[0] = nil
	require.Equal(t, URI{Value: "a", ID: 1}, log.Events()[0])

	log.Reset()
	require.Zero(t, log.Len())
}
