package kip37

import (
	"fmt"
	"slices"

	"github.com/doodoo-storage/klaytn-kip/types"
	"github.com/doodoo-storage/klaytn-kip/util"
)

/*
SafeTransferFrom moves quantity of the class id from "from" to "to". Caller
must be "from" or it's operator. When the recipient has an acceptance
callback the transfer is undone if the callback rejects it.
*/
func (r *Registry) SafeTransferFrom(caller, from, to types.Principal, id types.TokenID, quantity uint64, data []byte) error {
	if types.IsZero(from) {
		return fmt.Errorf("transfer from the zero address: %w", types.ErrZeroAddress)
	}
	if types.IsZero(to) {
		return fmt.Errorf("transfer to the zero address: %w", types.ErrZeroAddress)
	}
	if !r.isAuthorized(caller, from) {
		return fmt.Errorf("caller is not owner nor approved: %w", types.ErrNotAuthorized)
	}
	if err := r.checkBalance(from, id, quantity); err != nil {
		return fmt.Errorf("insufficient balance for transfer: %w", err)
	}

	j := r.begin()
	j.move(from, to, id, quantity)
	if err := r.checkOnReceived(caller, from, to, id, quantity, data); err != nil {
		j.rollback()
		return err
	}

	r.emit(types.TransferSingle{Operator: caller, From: from, To: to, ID: id, Value: quantity})
	r.log.Debug("transferred", "id", id, "from", from, "to", to, "quantity", quantity)
	return nil
}

/*
SafeBatchTransferFrom moves quantities[i] of the class ids[i] from "from" to
"to". Class may appear in ids more than once, the balance must cover the sum
of all its quantities.
*/
func (r *Registry) SafeBatchTransferFrom(caller, from, to types.Principal, ids []types.TokenID, quantities []uint64, data []byte) error {
	if len(ids) != len(quantities) {
		return fmt.Errorf("ids and amounts length mismatch (%d vs %d): %w", len(ids), len(quantities), types.ErrLengthMismatch)
	}
	if types.IsZero(from) {
		return fmt.Errorf("transfer from the zero address: %w", types.ErrZeroAddress)
	}
	if types.IsZero(to) {
		return fmt.Errorf("transfer to the zero address: %w", types.ErrZeroAddress)
	}
	if !r.isAuthorized(caller, from) {
		return fmt.Errorf("transfer caller is not owner nor approved: %w", types.ErrNotAuthorized)
	}
	if err := r.checkBatchBalance(from, ids, quantities); err != nil {
		return fmt.Errorf("insufficient balance for transfer: %w", err)
	}

	j := r.begin()
	for i, id := range ids {
		j.move(from, to, id, quantities[i])
	}
	if err := r.checkOnBatchReceived(caller, from, to, ids, quantities, data); err != nil {
		j.rollback()
		return err
	}

	r.emit(types.TransferBatch{Operator: caller, From: from, To: to, IDs: slices.Clone(ids), Values: slices.Clone(quantities)})
	r.log.Debug("transferred batch", "ids", ids, "from", from, "to", to)
	return nil
}

// Burn destroys quantity of the class id held by "from".
func (r *Registry) Burn(caller, from types.Principal, id types.TokenID, quantity uint64) error {
	if types.IsZero(from) {
		return fmt.Errorf("burn from the zero address: %w", types.ErrZeroAddress)
	}
	if !r.isAuthorized(caller, from) {
		return fmt.Errorf("caller is not owner nor approved: %w", types.ErrNotAuthorized)
	}
	if err := r.checkBalance(from, id, quantity); err != nil {
		return fmt.Errorf("burn amount exceeds balance: %w", err)
	}

	j := r.begin()
	j.burn(from, id, quantity)

	r.emit(types.TransferSingle{Operator: caller, From: from, To: types.ZeroPrincipal, ID: id, Value: quantity})
	r.log.Debug("burned", "id", id, "from", from, "quantity", quantity)
	return nil
}

func (r *Registry) BurnBatch(caller, from types.Principal, ids []types.TokenID, quantities []uint64) error {
	if types.IsZero(from) {
		return fmt.Errorf("burn from the zero address: %w", types.ErrZeroAddress)
	}
	if len(ids) != len(quantities) {
		return fmt.Errorf("ids and amounts length mismatch (%d vs %d): %w", len(ids), len(quantities), types.ErrLengthMismatch)
	}
	if !r.isAuthorized(caller, from) {
		return fmt.Errorf("caller is not owner nor approved: %w", types.ErrNotAuthorized)
	}
	if err := r.checkBatchBalance(from, ids, quantities); err != nil {
		return fmt.Errorf("burn amount exceeds balance: %w", err)
	}

	j := r.begin()
	for i, id := range ids {
		j.burn(from, id, quantities[i])
	}

	r.emit(types.TransferBatch{Operator: caller, From: from, To: types.ZeroPrincipal, IDs: slices.Clone(ids), Values: slices.Clone(quantities)})
	r.log.Debug("burned batch", "ids", ids, "from", from)
	return nil
}

func (r *Registry) checkBalance(owner types.Principal, id types.TokenID, quantity uint64) error {
	if balance := r.balances[balanceKey{owner: owner, id: id}]; balance < quantity {
		return fmt.Errorf("class %d balance %d, required %d: %w", id, balance, quantity, types.ErrInsufficientBalance)
	}
	return nil
}

// checkBatchBalance validates the sum of quantities per class against the balance.
func (r *Registry) checkBatchBalance(owner types.Principal, ids []types.TokenID, quantities []uint64) error {
	totals, ok := util.SumByKey(ids, quantities)
	if !ok {
		return fmt.Errorf("sum of quantities overflows: %w", types.ErrInsufficientBalance)
	}
	for _, id := range ids {
		if err := r.checkBalance(owner, id, totals[id]); err != nil {
			return err
		}
	}
	return nil
}
