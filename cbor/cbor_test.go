package cbor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	_     struct{} `cbor:",toarray"`
	ID    uint64
	Owner []byte
	Items map[uint64]string
}

func Test_TaggedValue(t *testing.T) {
	v := sample{ID: 7, Owner: []byte{1, 2, 3}, Items: map[uint64]string{2: "b", 1: "a"}}

	t.Run("round trip", func(t *testing.T) {
		data, err := MarshalTaggedValue(KIP17SnapshotTag, v)
		require.NoError(t, err)

		var out sample
		require.NoError(t, UnmarshalTaggedValue(KIP17SnapshotTag, data, &out))
		require.Equal(t, v, out)
	})

	t.Run("wrong tag", func(t *testing.T) {
		data, err := MarshalTaggedValue(KIP37SnapshotTag, v)
		require.NoError(t, err)

		var out sample
		require.EqualError(t, UnmarshalTaggedValue(KIP17SnapshotTag, data, &out), `unexpected tag: 1037, expected: 1017`)
	})

	t.Run("encoding is deterministic", func(t *testing.T) {
		a, err := Marshal(v)
		require.NoError(t, err)
		for range 10 {
			b, err := Marshal(sample{ID: 7, Owner: []byte{1, 2, 3}, Items: map[uint64]string{1: "a", 2: "b"}})
			require.NoError(t, err)
			require.Equal(t, a, b)
		}
	})
}

func Test_RawCBOR(t *testing.T) {
	var r RawCBOR
	data, err := r.MarshalCBOR()
	require.NoError(t, err)
	require.Equal(t, cborNil, data)

	require.NoError(t, r.UnmarshalCBOR([]byte{0x01}))
	require.EqualValues(t, []byte{0x01}, r)
	require.NoError(t, r.UnmarshalCBOR(cborNil))
	require.Empty(t, r)
}
