package kip17

import (
	"fmt"

	"github.com/doodoo-storage/klaytn-kip/types"
)

/*
Mint creates new token owned by "to" and stores the uri as it's metadata.
Returns the id allocated for the token.
*/
func (r *Registry) Mint(caller, to types.Principal, uri string) (types.TokenID, error) {
	id, err := r.mint(caller, to, uri)
	if err != nil {
		return 0, err
	}
	r.emit(types.Transfer{From: types.ZeroPrincipal, To: to, TokenID: id})
	r.log.Debug("minted token", "token_id", id, "to", to, "uri", uri)
	return id, nil
}

/*
SafeMint is like Mint but when the recipient has an acceptance callback it is
called and the mint is undone when the token is rejected.
*/
func (r *Registry) SafeMint(caller, to types.Principal, uri string, data []byte) (types.TokenID, error) {
	id, err := r.mint(caller, to, uri)
	if err != nil {
		return 0, err
	}
	if err := r.checkOnReceived(caller, types.ZeroPrincipal, to, id, data); err != nil {
		r.unmint(to, id)
		return 0, err
	}
	r.emit(types.Transfer{From: types.ZeroPrincipal, To: to, TokenID: id})
	r.log.Debug("minted token", "token_id", id, "to", to, "uri", uri, "safe", true)
	return id, nil
}

func (r *Registry) mint(caller, to types.Principal, uri string) (types.TokenID, error) {
	if r.minters != nil {
		if _, ok := r.minters[caller]; !ok {
			return 0, fmt.Errorf("caller %s does not have the minter role: %w", caller, types.ErrNotAuthorized)
		}
	}
	if types.IsZero(to) {
		return 0, fmt.Errorf("mint to the zero address: %w", types.ErrZeroAddress)
	}
	id := r.lastID + 1
	if id == 0 {
		return 0, fmt.Errorf("token id space exhausted: %w", types.ErrInvalidArgument)
	}
	if err := r.metadata.SetTokenURI(id, uri); err != nil {
		return 0, fmt.Errorf("storing URI of the token %d: %w", id, err)
	}

	r.lastID = id
	r.owners[id] = to
	r.incBalance(to)
	return id, nil
}

// unmint reverts the effects of successful mint of the most recent token.
func (r *Registry) unmint(to types.Principal, id types.TokenID) {
	delete(r.owners, id)
	r.decBalance(to)
	r.metadata.DeleteTokenURI(id)
	r.lastID = id - 1
}

func (r *Registry) incBalance(p types.Principal) {
	r.balances[p]++
}

// decBalance removes the counter when it reaches zero so that the state of
// an account which never owned anything and the one which gave everything
// away is the same.
func (r *Registry) decBalance(p types.Principal) {
	if n := r.balances[p]; n > 1 {
		r.balances[p] = n - 1
	} else {
		delete(r.balances, p)
	}
}
