package kip37

import (
	"fmt"
	"slices"

	"github.com/doodoo-storage/klaytn-kip/types"
)

type (
	/*
	Receiver is the acceptance callback of a recipient able to react on
	incoming tokens, both minted and transferred. Returning false or an
	error rejects the tokens and the whole operation is undone.

	The callback is invoked after the state has been changed, it must not
	call mutating methods of the registry.
	*/
	Receiver interface {
		OnKIP37Received(operator, from types.Principal, id types.TokenID, value uint64, data []byte) (bool, error)
		OnKIP37BatchReceived(operator, from types.Principal, ids []types.TokenID, values []uint64, data []byte) (bool, error)
	}

	ReceiverResolver interface {
		Receiver(p types.Principal) (rcv Receiver, ok bool)
	}

	// Receivers is a static ReceiverResolver.
	Receivers map[types.Principal]Receiver

	// ReceiverFuncs adapts pair of ordinary functions to Receiver, nil
	// function accepts everything.
	ReceiverFuncs struct {
		Single func(operator, from types.Principal, id types.TokenID, value uint64, data []byte) (bool, error)
		Batch  func(operator, from types.Principal, ids []types.TokenID, values []uint64, data []byte) (bool, error)
	}
)

func (rs Receivers) Receiver(p types.Principal) (Receiver, bool) {
	rcv, ok := rs[p]
	return rcv, ok
}

func (f ReceiverFuncs) OnKIP37Received(operator, from types.Principal, id types.TokenID, value uint64, data []byte) (bool, error) {
	if f.Single == nil {
		return true, nil
	}
	return f.Single(operator, from, id, value, data)
}

func (f ReceiverFuncs) OnKIP37BatchReceived(operator, from types.Principal, ids []types.TokenID, values []uint64, data []byte) (bool, error) {
	if f.Batch == nil {
		return true, nil
	}
	return f.Batch(operator, from, ids, values, data)
}

func (r *Registry) receiver(to types.Principal) Receiver {
	if r.receivers == nil {
		return nil
	}
	rcv, ok := r.receivers.Receiver(to)
	if !ok {
		return nil
	}
	return rcv
}

func (r *Registry) checkOnReceived(operator, from, to types.Principal, id types.TokenID, value uint64, data []byte) error {
	rcv := r.receiver(to)
	if rcv == nil {
		return nil
	}
	return rejection(rcv.OnKIP37Received(operator, from, id, value, data))
}

func (r *Registry) checkOnBatchReceived(operator, from, to types.Principal, ids []types.TokenID, values []uint64, data []byte) error {
	rcv := r.receiver(to)
	if rcv == nil {
		return nil
	}
	return rejection(rcv.OnKIP37BatchReceived(operator, from, slices.Clone(ids), slices.Clone(values), data))
}

func rejection(accepted bool, err error) error {
	if err != nil {
		return fmt.Errorf("transfer to non KIP37Receiver implementer: %w: %w", types.ErrReceiverRejected, err)
	}
	if !accepted {
		return fmt.Errorf("KIP37Receiver rejected tokens: %w", types.ErrReceiverRejected)
	}
	return nil
}
