package approval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/doodoo-storage/klaytn-kip/types"
)

var (
	alice = types.Principal{19: 0x0a}
	bob   = types.Principal{19: 0x0b}
	carol = types.Principal{19: 0x0c}
)

func Test_SetApprovalForAll(t *testing.T) {
	t.Run("self approval", func(t *testing.T) {
		var ops Operators
		_, err := ops.SetApprovalForAll(alice, alice, true)
		require.ErrorIs(t, err, types.ErrInvalidArgument)
		require.EqualError(t, err, `setting approval status for self: invalid argument`)
		require.Zero(t, ops.Len())
	})

	t.Run("zero operator", func(t *testing.T) {
		var ops Operators
		_, err := ops.SetApprovalForAll(alice, types.ZeroPrincipal, true)
		require.ErrorIs(t, err, types.ErrZeroAddress)
		require.Zero(t, ops.Len())
	})

	t.Run("zero owner", func(t *testing.T) {
		var ops Operators
		_, err := ops.SetApprovalForAll(types.ZeroPrincipal, bob, true)
		require.ErrorIs(t, err, types.ErrZeroAddress)
		require.EqualError(t, err, `approve from the zero address: zero address`)
		require.False(t, ops.IsApprovedForAll(types.ZeroPrincipal, bob))
		require.Zero(t, ops.Len())
	})

	t.Run("idempotent", func(t *testing.T) {
		var ops Operators
		for range 2 {
			ev, err := ops.SetApprovalForAll(alice, bob, true)
			require.NoError(t, err)
			require.Equal(t, types.ApprovalForAll{Owner: alice, Operator: bob, Approved: true}, ev)
			require.True(t, ops.IsApprovedForAll(alice, bob))
			require.Equal(t, 1, ops.Len())
		}
		// approval is directional
		require.False(t, ops.IsApprovedForAll(bob, alice))
	})

	t.Run("revoke", func(t *testing.T) {
		var ops Operators
		_, err := ops.SetApprovalForAll(alice, bob, true)
		require.NoError(t, err)
		ev, err := ops.SetApprovalForAll(alice, bob, false)
		require.NoError(t, err)
		require.False(t, ev.Approved)
		require.False(t, ops.IsApprovedForAll(alice, bob))
		require.Zero(t, ops.Len())

		// revoking something never set still returns event
		ev, err = ops.SetApprovalForAll(alice, carol, false)
		require.NoError(t, err)
		require.Equal(t, types.ApprovalForAll{Owner: alice, Operator: carol}, ev)
	})
}

func Test_IsAuthorized(t *testing.T) {
	var ops Operators
	_, err := ops.SetApprovalForAll(alice, bob, true)
	require.NoError(t, err)

	delegate := func(p types.Principal) TokenApproval {
		return func() (types.Principal, bool) { return p, true }
	}
	none := func() (types.Principal, bool) { return types.ZeroPrincipal, false }

	cases := []struct {
		name   string
		caller types.Principal
		owner  types.Principal
		token  TokenApproval
		result bool
	}{
		{"owner", alice, alice, nil, true},
		{"operator", bob, alice, nil, true},
		{"not operator", carol, alice, nil, false},
		{"operator of someone else", alice, bob, nil, false},
		{"token delegate", carol, alice, delegate(carol), true},
		{"token delegate is someone else", carol, bob, delegate(alice), false},
		{"no token delegate", carol, alice, none, false},
		{"zero caller matching empty delegate", types.ZeroPrincipal, alice, none, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.result, ops.IsAuthorized(tc.caller, tc.owner, tc.token))
		})
	}
}

func Test_Each(t *testing.T) {
	var ops Operators
	ops.Each(func(owner, operator types.Principal) { t.Fatal("unexpected call on empty table") })

	_, err := ops.SetApprovalForAll(alice, bob, true)
	require.NoError(t, err)
	_, err = ops.SetApprovalForAll(carol, alice, true)
	require.NoError(t, err)

	seen := map[types.Principal]types.Principal{}
	ops.Each(func(owner, operator types.Principal) { seen[owner] = operator })
	require.Equal(t, map[types.Principal]types.Principal{alice: bob, carol: alice}, seen)
}
