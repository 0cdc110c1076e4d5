package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ParsePrincipal(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p, err := ParsePrincipal("0x00000000000000000000000000000000000000a1")
		require.NoError(t, err)
		require.False(t, IsZero(p))
		require.EqualValues(t, 0xa1, p[19])

		p, err = ParsePrincipal("00000000000000000000000000000000000000A1")
		require.NoError(t, err)
		require.EqualValues(t, 0xa1, p[19])
	})

	t.Run("zero", func(t *testing.T) {
		p, err := ParsePrincipal("0x0000000000000000000000000000000000000000")
		require.NoError(t, err)
		require.True(t, IsZero(p))
		require.Equal(t, ZeroPrincipal, p)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, s := range []string{"", "0x", "0x01", "0xzz000000000000000000000000000000000000a1", "0x00000000000000000000000000000000000000a1ff"} {
			_, err := ParsePrincipal(s)
			require.EqualError(t, err, `invalid principal "`+s+`"`)
		}
	})
}

func Test_TokenID_String(t *testing.T) {
	require.Equal(t, "0", TokenID(0).String())
	require.Equal(t, "18446744073709551615", TokenID(1<<64-1).String())
}
