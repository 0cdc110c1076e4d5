package kip37

import (
	"fmt"
	"math"
	"slices"

	"github.com/doodoo-storage/klaytn-kip/types"
	"github.com/doodoo-storage/klaytn-kip/util"
)

/*
Create allocates new class with the uri as it's override (empty string is
recorded too) and mints initialSupply of it to the caller.
*/
func (r *Registry) Create(caller types.Principal, initialSupply uint64, uri string) (types.TokenID, error) {
	if types.IsZero(caller) {
		return 0, fmt.Errorf("mint to the zero address: %w", types.ErrZeroAddress)
	}
	if err := r.checkIDSpace(1); err != nil {
		return 0, err
	}

	j := r.begin()
	id := j.allocate(1)[0]
	j.setURI(id, uri)
	j.mint(caller, id, initialSupply)
	if err := r.checkOnReceived(caller, types.ZeroPrincipal, caller, id, initialSupply, nil); err != nil {
		j.rollback()
		return 0, err
	}

	r.emit(
		types.URI{Value: uri, ID: id},
		types.TransferSingle{Operator: caller, From: types.ZeroPrincipal, To: caller, ID: id, Value: initialSupply},
	)
	r.log.Debug("created class", "id", id, "supply", initialSupply, "uri", uri)
	return id, nil
}

/*
Mint adds quantity of the class id to the balance of "to". Minting into id
which hasn't been allocated yet creates the class.
*/
func (r *Registry) Mint(caller, to types.Principal, id types.TokenID, quantity uint64) error {
	if types.IsZero(to) {
		return fmt.Errorf("mint to the zero address: %w", types.ErrZeroAddress)
	}
	if id == 0 {
		return fmt.Errorf("mint of invalid class id 0: %w", types.ErrNotFound)
	}
	if _, ok := util.SafeAdd(r.supply[id], quantity); !ok {
		return fmt.Errorf("total supply of class %d overflows: %w", id, types.ErrInvalidArgument)
	}

	j := r.begin()
	j.bumpLastID(id)
	j.mint(to, id, quantity)
	if err := r.checkOnReceived(caller, types.ZeroPrincipal, to, id, quantity, nil); err != nil {
		j.rollback()
		return err
	}

	r.emit(types.TransferSingle{Operator: caller, From: types.ZeroPrincipal, To: to, ID: id, Value: quantity})
	r.log.Debug("minted", "id", id, "to", to, "quantity", quantity)
	return nil
}

// MintNew allocates new class and mints quantity of it to "to".
func (r *Registry) MintNew(caller, to types.Principal, quantity uint64) (types.TokenID, error) {
	if types.IsZero(to) {
		return 0, fmt.Errorf("mint to the zero address: %w", types.ErrZeroAddress)
	}
	if err := r.checkIDSpace(1); err != nil {
		return 0, err
	}

	j := r.begin()
	id := j.allocate(1)[0]
	j.mint(to, id, quantity)
	if err := r.checkOnReceived(caller, types.ZeroPrincipal, to, id, quantity, nil); err != nil {
		j.rollback()
		return 0, err
	}

	r.emit(types.TransferSingle{Operator: caller, From: types.ZeroPrincipal, To: to, ID: id, Value: quantity})
	r.log.Debug("minted new class", "id", id, "to", to, "quantity", quantity)
	return id, nil
}

/*
MintBatch allocates new class for every entry of quantities and mints the
quantity of it to "to". Returns allocated ids in the order of quantities.
*/
func (r *Registry) MintBatch(caller, to types.Principal, quantities []uint64) ([]types.TokenID, error) {
	if types.IsZero(to) {
		return nil, fmt.Errorf("mint to the zero address: %w", types.ErrZeroAddress)
	}
	if err := r.checkIDSpace(len(quantities)); err != nil {
		return nil, err
	}

	j := r.begin()
	ids := j.allocate(len(quantities))
	for i, id := range ids {
		j.mint(to, id, quantities[i])
	}
	if err := r.checkOnBatchReceived(caller, types.ZeroPrincipal, to, ids, quantities, nil); err != nil {
		j.rollback()
		return nil, err
	}

	r.emit(types.TransferBatch{Operator: caller, From: types.ZeroPrincipal, To: to, IDs: slices.Clone(ids), Values: slices.Clone(quantities)})
	r.log.Debug("minted batch", "ids", ids, "to", to)
	return ids, nil
}

/*
MintToList mints values[i] of the class id to toList[i]. When id is 0 fresh
class is allocated. Returns the id of the class minted into.
*/
func (r *Registry) MintToList(caller types.Principal, id types.TokenID, toList []types.Principal, values []uint64) (types.TokenID, error) {
	if len(toList) != len(values) {
		return 0, fmt.Errorf("toList and values length mismatch (%d vs %d): %w", len(toList), len(values), types.ErrLengthMismatch)
	}
	for i, to := range toList {
		if types.IsZero(to) {
			return 0, fmt.Errorf("mint to the zero address (recipient %d): %w", i, types.ErrZeroAddress)
		}
	}
	if id == 0 {
		if err := r.checkIDSpace(1); err != nil {
			return 0, err
		}
	}
	total, ok := util.AddUint64(values...)
	if ok {
		_, ok = util.SafeAdd(r.supply[id], total)
	}
	if !ok {
		return 0, fmt.Errorf("total supply of class %d overflows: %w", id, types.ErrInvalidArgument)
	}

	j := r.begin()
	if id == 0 {
		id = j.allocate(1)[0]
		// an empty list still creates the class
		j.setSupply(id, 0)
	} else {
		j.bumpLastID(id)
	}
	for i, to := range toList {
		j.mint(to, id, values[i])
	}
	for i, to := range toList {
		if err := r.checkOnReceived(caller, types.ZeroPrincipal, to, id, values[i], nil); err != nil {
			j.rollback()
			return 0, fmt.Errorf("recipient %d: %w", i, err)
		}
	}

	for i, to := range toList {
		r.emit(types.TransferSingle{Operator: caller, From: types.ZeroPrincipal, To: to, ID: id, Value: values[i]})
	}
	r.log.Debug("minted to list", "id", id, "recipients", len(toList), "total", total)
	return id, nil
}

func (r *Registry) checkIDSpace(n int) error {
	if uint64(n) > math.MaxUint64-uint64(r.lastID) {
		return fmt.Errorf("class id space exhausted: %w", types.ErrInvalidArgument)
	}
	return nil
}
