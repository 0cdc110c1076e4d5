package testutils

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/doodoo-storage/klaytn-kip/types"
)

/*
NewPrincipal generates random non-zero principal.
*/
func NewPrincipal(t *testing.T) types.Principal {
	t.Helper()
	var p types.Principal
	for types.IsZero(p) {
		if _, err := rand.Read(p[:]); err != nil {
			t.Fatal("failed to generate principal:", err)
		}
	}
	return p
}

/*
Principal returns deterministic principal for the index, handy when test
failure messages need to be stable. Index zero is the zero principal.
*/
func Principal(i uint64) types.Principal {
	var p types.Principal
	binary.BigEndian.PutUint64(p[12:], i)
	return p
}

// Accounts returns n distinct random principals.
func Accounts(t *testing.T, n int) []types.Principal {
	t.Helper()
	seen := make(map[types.Principal]struct{}, n)
	accs := make([]types.Principal, 0, n)
	for len(accs) < n {
		p := NewPrincipal(t)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		accs = append(accs, p)
	}
	return accs
}
