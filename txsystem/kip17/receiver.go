package kip17

import (
	"fmt"

	"github.com/doodoo-storage/klaytn-kip/types"
)

type (
	/*
	Receiver is the acceptance callback of a recipient able to react on
	incoming tokens. Returning false or an error rejects the token.

	The callback is invoked after the state has been changed, it must not
	call mutating methods of the registry.
	*/
	Receiver interface {
		OnKIP17Received(operator, from types.Principal, id types.TokenID, data []byte) (bool, error)
	}

	// ReceiverResolver finds the Receiver of a principal, ok is false for
	// plain accounts which accept everything.
	ReceiverResolver interface {
		Receiver(p types.Principal) (rcv Receiver, ok bool)
	}

	// Receivers is a static ReceiverResolver.
	Receivers map[types.Principal]Receiver

	// ReceiverFunc adapts ordinary function to Receiver.
	ReceiverFunc func(operator, from types.Principal, id types.TokenID, data []byte) (bool, error)
)

func (rs Receivers) Receiver(p types.Principal) (Receiver, bool) {
	rcv, ok := rs[p]
	return rcv, ok
}

func (f ReceiverFunc) OnKIP17Received(operator, from types.Principal, id types.TokenID, data []byte) (bool, error) {
	return f(operator, from, id, data)
}

func (r *Registry) checkOnReceived(operator, from, to types.Principal, id types.TokenID, data []byte) error {
	if r.receivers == nil {
		return nil
	}
	rcv, ok := r.receivers.Receiver(to)
	if !ok || rcv == nil {
		return nil
	}
	accepted, err := rcv.OnKIP17Received(operator, from, id, data)
	if err != nil {
		return fmt.Errorf("transfer to non KIP17Receiver implementer: %w: %w", types.ErrReceiverRejected, err)
	}
	if !accepted {
		return fmt.Errorf("transfer to non KIP17Receiver implementer: %w", types.ErrReceiverRejected)
	}
	return nil
}
