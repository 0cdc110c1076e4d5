/*
Package hash calculates digests over CBOR encoded values.

Ledger snapshots are hashed with it so that two registries holding the same
state always produce the same digest, regardless of map iteration order.
*/
package hash

import (
	"crypto"
	"hash"

	fxcbor "github.com/fxamacker/cbor/v2"

	"github.com/doodoo-storage/klaytn-kip/cbor"
)

/*
New creates "hash calculator" using given hash function.
Values written to the hash are encoded as CBOR before hashing.
*/
func New(h hash.Hash) *Hash {
	return &Hash{h: h, enc: cbor.EncMode().NewEncoder(h)}
}

type Hash struct {
	h   hash.Hash
	enc *fxcbor.Encoder
	err error
}

/*
Write serializes argument as CBOR and adds it to the hash.
*/
func (h *Hash) Write(v any) {
	if h.err != nil {
		return
	}
	h.err = h.enc.Encode(v)
}

/*
WriteRaw adds the argument as is (ie raw bytes, without additional encoding) to the hash.
*/
func (h *Hash) WriteRaw(d []byte) {
	if h.err != nil {
		return
	}
	_, h.err = h.h.Write(d)
}

func (h *Hash) Reset() {
	h.h.Reset()
	h.err = nil
	h.enc = cbor.EncMode().NewEncoder(h.h)
}

func (h *Hash) Size() int {
	return h.h.Size()
}

/*
Sum returns the hash value calculated and first error (if any) that happened
during the hashing (in case of non-nil error the hash value is not valid).
*/
func (h Hash) Sum() ([]byte, error) {
	return h.h.Sum(nil), h.err
}

// Sum hashes CBOR encoding of the values using given algorithm.
func Sum(algorithm crypto.Hash, values ...any) ([]byte, error) {
	h := New(algorithm.New())
	for _, v := range values {
		h.Write(v)
	}
	return h.Sum()
}
