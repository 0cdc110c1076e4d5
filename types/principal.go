package types

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

type (
	// Principal identifies an account. It is assumed to be authenticated by
	// the host before it reaches the ledger.
	Principal = common.Address

	// TokenID identifies a unique asset (KIP17) or an asset class (KIP37).
	// Registries allocate ids sequentially starting from 1.
	TokenID uint64
)

// ZeroPrincipal is the reserved "no account" value, it is the source of
// mints and the destination of burns but never an owner.
var ZeroPrincipal = Principal{}

func IsZero(p Principal) bool {
	return p == ZeroPrincipal
}

/*
ParsePrincipal parses hex encoded (optionally 0x prefixed) 20 byte address.
Unlike common.HexToAddress it refuses to silently truncate or pad the input.
*/
func ParsePrincipal(s string) (Principal, error) {
	if !common.IsHexAddress(s) {
		return ZeroPrincipal, fmt.Errorf("invalid principal %q", s)
	}
	return common.HexToAddress(s), nil
}

func (id TokenID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}
