package evm

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/doodoo-storage/klaytn-kip/types"
)

/*
LogSink is types.EventSink which encodes events as logs of the contract
and hands them to the output function. Events which can't be encoded are
dropped, the first encoding error is available via Err.
*/
type LogSink struct {
	contract common.Address
	out      func(*LogEntry)
	err      error
}

func NewLogSink(contract common.Address, out func(*LogEntry)) *LogSink {
	return &LogSink{contract: contract, out: out}
}

func (s *LogSink) Emit(ev types.Event) {
	l, err := EncodeEvent(s.contract, ev)
	if err != nil {
		if s.err == nil {
			s.err = err
		}
		return
	}
	s.out(l)
}

func (s *LogSink) Err() error {
	return s.err
}
