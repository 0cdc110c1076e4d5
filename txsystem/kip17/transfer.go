package kip17

import (
	"fmt"

	"github.com/doodoo-storage/klaytn-kip/types"
)

/*
TransferFrom moves token id from "from" to "to". Caller must be the owner,
an operator of the owner or the delegate of the token. The token delegate is
cleared, also when the token is "transferred" to the current owner.
*/
func (r *Registry) TransferFrom(caller, from, to types.Principal, id types.TokenID) error {
	if err := r.validateTransfer(caller, from, to, id); err != nil {
		return err
	}
	r.move(from, to, id)
	r.emit(types.Transfer{From: from, To: to, TokenID: id})
	r.log.Debug("transferred token", "token_id", id, "from", from, "to", to, "operator", caller)
	return nil
}

/*
SafeTransferFrom is like TransferFrom but it also asks the acceptance
callback of the recipient (when it has one) whether it accepts the token.
Rejection undoes the transfer and ErrReceiverRejected is returned.
*/
func (r *Registry) SafeTransferFrom(caller, from, to types.Principal, id types.TokenID, data []byte) error {
	if err := r.validateTransfer(caller, from, to, id); err != nil {
		return err
	}

	spender, hadSpender := r.approvals[id]
	r.move(from, to, id)
	if err := r.checkOnReceived(caller, from, to, id, data); err != nil {
		r.move(to, from, id)
		if hadSpender {
			r.approvals[id] = spender
		}
		return err
	}

	r.emit(types.Transfer{From: from, To: to, TokenID: id})
	r.log.Debug("transferred token", "token_id", id, "from", from, "to", to, "operator", caller, "safe", true)
	return nil
}

/*
Burn destroys the token, together with it's delegate and metadata. The same
principals who could transfer the token may burn it.
*/
func (r *Registry) Burn(caller types.Principal, id types.TokenID) error {
	owner, ok := r.owners[id]
	if !ok {
		return fmt.Errorf("burn of nonexistent token %d: %w", id, types.ErrNotFound)
	}
	if !r.isAuthorized(caller, owner, id) {
		return fmt.Errorf("burn caller is not owner nor approved: %w", types.ErrNotAuthorized)
	}

	delete(r.owners, id)
	delete(r.approvals, id)
	r.decBalance(owner)
	r.metadata.DeleteTokenURI(id)

	r.emit(types.Transfer{From: owner, To: types.ZeroPrincipal, TokenID: id})
	r.log.Debug("burned token", "token_id", id, "owner", owner, "operator", caller)
	return nil
}

func (r *Registry) validateTransfer(caller, from, to types.Principal, id types.TokenID) error {
	owner, ok := r.owners[id]
	if !ok {
		return fmt.Errorf("transfer of nonexistent token %d: %w", id, types.ErrNotFound)
	}
	if owner != from {
		return fmt.Errorf("transfer of token that is not own: %w", types.ErrNotOwner)
	}
	if types.IsZero(to) {
		return fmt.Errorf("transfer to the zero address: %w", types.ErrZeroAddress)
	}
	if !r.isAuthorized(caller, from, id) {
		return fmt.Errorf("transfer caller is not owner nor approved: %w", types.ErrNotAuthorized)
	}
	return nil
}

// move reassigns already validated token and clears it's delegate.
func (r *Registry) move(from, to types.Principal, id types.TokenID) {
	r.decBalance(from)
	r.incBalance(to)
	r.owners[id] = to
	delete(r.approvals, id)
}
