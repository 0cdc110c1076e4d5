package kip17

import (
	"fmt"

	"github.com/doodoo-storage/klaytn-kip/types"
)

/*
Approve makes spender the delegate of the token id, replacing the previous
one. Approving the zero principal removes the delegate. Caller must be the
owner or an operator of the owner.
*/
func (r *Registry) Approve(caller, spender types.Principal, id types.TokenID) error {
	owner, ok := r.owners[id]
	if !ok {
		return fmt.Errorf("approve of nonexistent token %d: %w", id, types.ErrNotFound)
	}
	if spender == owner {
		return fmt.Errorf("approval to current owner: %w", types.ErrInvalidArgument)
	}
	if caller != owner && !r.operators.IsApprovedForAll(owner, caller) {
		return fmt.Errorf("approve caller is not owner nor approved for all: %w", types.ErrNotAuthorized)
	}

	if types.IsZero(spender) {
		delete(r.approvals, id)
	} else {
		r.approvals[id] = spender
	}
	r.emit(types.Approval{Owner: owner, Approved: spender, TokenID: id})
	r.log.Debug("approved token", "token_id", id, "owner", owner, "spender", spender)
	return nil
}

// SetApprovalForAll enables or disables operator to manage all tokens of the caller.
func (r *Registry) SetApprovalForAll(caller, operator types.Principal, approved bool) error {
	ev, err := r.operators.SetApprovalForAll(caller, operator, approved)
	if err != nil {
		return err
	}
	r.emit(ev)
	r.log.Debug("set approval for all", "owner", caller, "operator", operator, "approved", approved)
	return nil
}
