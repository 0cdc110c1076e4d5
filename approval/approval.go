/*
Package approval implements delegation shared by the KIP17 and KIP37
registries: account wide operators and, for registries which have it, a per
token delegate.
*/
package approval

import (
	"fmt"

	"github.com/doodoo-storage/klaytn-kip/types"
)

type operatorKey struct {
	owner    types.Principal
	operator types.Principal
}

// TokenApproval reports the delegate of a single asset, ok is false when
// there is none.
type TokenApproval func() (spender types.Principal, ok bool)

/*
Operators is the (owner, operator) approval table. The zero value is ready
to use. Each registry owns its own table.
*/
type Operators struct {
	approved map[operatorKey]struct{}
}

func (o *Operators) IsApprovedForAll(owner, operator types.Principal) bool {
	_, ok := o.approved[operatorKey{owner: owner, operator: operator}]
	return ok
}

/*
SetApprovalForAll enables or disables operator to act on all assets of the
owner and returns the event to emit. The event is returned even when the
flag doesn't change.
*/
func (o *Operators) SetApprovalForAll(owner, operator types.Principal, approved bool) (types.ApprovalForAll, error) {
	if types.IsZero(owner) {
		return types.ApprovalForAll{}, fmt.Errorf("approve from the zero address: %w", types.ErrZeroAddress)
	}
	if owner == operator {
		return types.ApprovalForAll{}, fmt.Errorf("setting approval status for self: %w", types.ErrInvalidArgument)
	}
	if types.IsZero(operator) {
		return types.ApprovalForAll{}, fmt.Errorf("approve to the zero address: %w", types.ErrZeroAddress)
	}

	key := operatorKey{owner: owner, operator: operator}
	if approved {
		if o.approved == nil {
			o.approved = make(map[operatorKey]struct{})
		}
		o.approved[key] = struct{}{}
	} else {
		delete(o.approved, key)
	}
	return types.ApprovalForAll{Owner: owner, Operator: operator, Approved: approved}, nil
}

// Len returns number of enabled (owner, operator) pairs.
func (o *Operators) Len() int {
	return len(o.approved)
}

/*
Each calls fn for every enabled (owner, operator) pair, in no particular
order.
*/
func (o *Operators) Each(fn func(owner, operator types.Principal)) {
	for k := range o.approved {
		fn(k.owner, k.operator)
	}
}

/*
IsAuthorized decides whether caller may act on behalf of owner.

Caller is authorized when it is the owner itself, an operator of the owner
or, when tokenApproval is not nil, the delegate it reports.
*/
func (o *Operators) IsAuthorized(caller, owner types.Principal, tokenApproval TokenApproval) bool {
	if caller == owner || o.IsApprovedForAll(owner, caller) {
		return true
	}
	if tokenApproval != nil {
		if spender, ok := tokenApproval(); ok && spender == caller {
			return true
		}
	}
	return false
}
