package kip37

import (
	"bytes"
	"cmp"
	"crypto"
	"fmt"
	"slices"

	"github.com/doodoo-storage/klaytn-kip/cbor"
	"github.com/doodoo-storage/klaytn-kip/hash"
	"github.com/doodoo-storage/klaytn-kip/types"
)

type (
	// Snapshot is canonical (sorted) representation of the registry state.
	Snapshot struct {
		_          struct{} `cbor:",toarray"`
		DefaultURI string
		LastID     types.TokenID
		Classes    []ClassRecord
		Balances   []BalanceRecord
		Operators  []OperatorRecord
	}

	ClassRecord struct {
		_      struct{} `cbor:",toarray"`
		ID     types.TokenID
		Supply uint64
		HasURI bool
		URI    string
	}

	BalanceRecord struct {
		_      struct{} `cbor:",toarray"`
		Owner  types.Principal
		ID     types.TokenID
		Amount uint64
	}

	OperatorRecord struct {
		_        struct{} `cbor:",toarray"`
		Owner    types.Principal
		Operator types.Principal
	}
)

func (r *Registry) Snapshot() *Snapshot {
	s := &Snapshot{
		DefaultURI: r.defaultURI,
		LastID:     r.lastID,
		Classes:    make([]ClassRecord, 0, len(r.supply)),
		Balances:   make([]BalanceRecord, 0, len(r.balances)),
		Operators:  make([]OperatorRecord, 0, r.operators.Len()),
	}
	for id, supply := range r.supply {
		uri, ok := r.uris[id]
		s.Classes = append(s.Classes, ClassRecord{ID: id, Supply: supply, HasURI: ok, URI: uri})
	}
	slices.SortFunc(s.Classes, func(a, b ClassRecord) int { return cmp.Compare(a.ID, b.ID) })

	for k, n := range r.balances {
		s.Balances = append(s.Balances, BalanceRecord{Owner: k.owner, ID: k.id, Amount: n})
	}
	slices.SortFunc(s.Balances, func(a, b BalanceRecord) int {
		if c := bytes.Compare(a.Owner[:], b.Owner[:]); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	r.operators.Each(func(owner, operator types.Principal) {
		s.Operators = append(s.Operators, OperatorRecord{Owner: owner, Operator: operator})
	})
	slices.SortFunc(s.Operators, func(a, b OperatorRecord) int {
		if c := bytes.Compare(a.Owner[:], b.Owner[:]); c != 0 {
			return c
		}
		return bytes.Compare(a.Operator[:], b.Operator[:])
	})
	return s
}

// MarshalState returns tagged CBOR encoding of the registry Snapshot.
func (r *Registry) MarshalState() ([]byte, error) {
	return cbor.MarshalTaggedValue(cbor.KIP37SnapshotTag, r.Snapshot())
}

func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := cbor.UnmarshalTaggedValue(cbor.KIP37SnapshotTag, data, s); err != nil {
		return nil, fmt.Errorf("decoding KIP37 snapshot: %w", err)
	}
	return s, nil
}

// StateHash returns digest of the MarshalState encoding.
func (r *Registry) StateHash(algorithm crypto.Hash) ([]byte, error) {
	data, err := r.MarshalState()
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return hash.Sum(algorithm, cbor.RawCBOR(data))
}
