package kip17

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
		_         struct{} `cbor:",toarray"`
		Name      string
		Symbol    string
		LastID    types.TokenID
		Tokens    []TokenRecord
		Operators []OperatorRecord
	}

	TokenRecord struct {
		_        struct{} `cbor:",toarray"`
		ID       types.TokenID
		Owner    types.Principal
		Approved types.Principal
		URI      string
	}

	OperatorRecord struct {
		_        struct{} `cbor:",toarray"`
		Owner    types.Principal
		Operator types.Principal
	}
)

// Snapshot returns copy of the current state of the registry.
func (r *Registry) Snapshot() *Snapshot {
	s := &Snapshot{
		Name:   r.name,
		Symbol: r.symbol,
		LastID: r.lastID,
		Tokens: make([]TokenRecord, 0, len(r.owners)),
	}
	for id, owner := range r.owners {
		uri, _ := r.metadata.TokenURI(id)
		s.Tokens = append(s.Tokens, TokenRecord{ID: id, Owner: owner, Approved: r.approvals[id], URI: uri})
	}
	slices.SortFunc(s.Tokens, func(a, b TokenRecord) int { return cmp.Compare(a.ID, b.ID) })

	s.Operators = make([]OperatorRecord, 0, r.operators.Len())
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
	return cbor.MarshalTaggedValue(cbor.KIP17SnapshotTag, r.Snapshot())
}

func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := cbor.UnmarshalTaggedValue(cbor.KIP17SnapshotTag, data, s); err != nil {
		return nil, fmt.Errorf("decoding KIP17 snapshot: %w", err)
	}
	return s, nil
}

/*
StateHash returns digest of the registry state. Registries holding the same
tokens, delegates, operators and URIs have the same state hash.
*/
func (r *Registry) StateHash(algorithm crypto.Hash) ([]byte, error) {
	data, err := r.MarshalState()
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return hash.Sum(algorithm, cbor.RawCBOR(data))
}
