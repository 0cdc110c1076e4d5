package evm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/doodoo-storage/klaytn-kip/cbor"
)

// LogEntry is the Ethereum log record of a ledger event.
type LogEntry struct {
	_       struct{}       `cbor:",toarray"`
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    []byte         `json:"data"`
}

func (l *LogEntry) Bytes() ([]byte, error) {
	return cbor.Marshal(l)
}

func (l *LogEntry) String() string {
	return fmt.Sprintf("address=%s topics=%v data=0x%x", l.Address, l.Topics, l.Data)
}
