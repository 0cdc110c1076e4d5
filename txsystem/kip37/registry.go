/*
Package kip37 implements multi-asset registry: accounts hold quantities of
asset classes, classes are allocated sequentially starting from 1 and every
class has total supply counter and optional URI override.

Registry is single writer state machine, it is not safe for concurrent use.
Every operation, batch operations included, either commits all its state
changes and delivers its events to the event sink or fails without
observable effect.
*/
package kip37

import (
	"fmt"
	"log/slog"

	"github.com/doodoo-storage/klaytn-kip/approval"
	"github.com/doodoo-storage/klaytn-kip/types"
)

type balanceKey struct {
	owner types.Principal
	id    types.TokenID
}

type Registry struct {
	defaultURI string

	balances  map[balanceKey]uint64
	supply    map[types.TokenID]uint64 // has entry for every class ever created
	uris      map[types.TokenID]string
	operators approval.Operators
	lastID    types.TokenID

	receivers ReceiverResolver
	sink      types.EventSink
	log       *slog.Logger
}

type Option func(*Registry)

// WithEventSink sets the destination of the events of committed operations.
func WithEventSink(sink types.EventSink) Option {
	return func(r *Registry) {
		r.sink = sink
	}
}

// WithReceivers sets the resolver used to find acceptance callback of the
// recipient of minted or transferred tokens.
func WithReceivers(resolver ReceiverResolver) Option {
	return func(r *Registry) {
		r.receivers = resolver
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// NewRegistry creates empty registry, defaultURI is returned by URI for
// classes without override.
func NewRegistry(defaultURI string, opts ...Option) *Registry {
	r := &Registry{
		defaultURI: defaultURI,
		balances:   make(map[balanceKey]uint64),
		supply:     make(map[types.TokenID]uint64),
		uris:       make(map[types.TokenID]string),
		sink:       types.DiscardSink,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CurrentTokenID returns the highest class id in use, zero for empty registry.
func (r *Registry) CurrentTokenID() types.TokenID {
	return r.lastID
}

// Exists reports whether the class has ever been minted into.
func (r *Registry) Exists(id types.TokenID) bool {
	_, ok := r.supply[id]
	return ok
}

func (r *Registry) TotalSupply(id types.TokenID) uint64 {
	return r.supply[id]
}

// URI returns class specific URI when it has been set, registry default otherwise.
func (r *Registry) URI(id types.TokenID) string {
	if uri, ok := r.uris[id]; ok {
		return uri
	}
	return r.defaultURI
}

func (r *Registry) BalanceOf(owner types.Principal, id types.TokenID) (uint64, error) {
	if types.IsZero(owner) {
		return 0, fmt.Errorf("balance query for the zero address: %w", types.ErrZeroAddress)
	}
	return r.balances[balanceKey{owner: owner, id: id}], nil
}

// BalanceOfBatch returns balance of owners[i] in class ids[i], in the same order.
func (r *Registry) BalanceOfBatch(owners []types.Principal, ids []types.TokenID) ([]uint64, error) {
	if len(owners) != len(ids) {
		return nil, fmt.Errorf("accounts and ids length mismatch (%d vs %d): %w", len(owners), len(ids), types.ErrLengthMismatch)
	}
	res := make([]uint64, len(owners))
	for i, owner := range owners {
		n, err := r.BalanceOf(owner, ids[i])
		if err != nil {
			return nil, fmt.Errorf("account %d: %w", i, err)
		}
		res[i] = n
	}
	return res, nil
}

func (r *Registry) IsApprovedForAll(owner, operator types.Principal) bool {
	return r.operators.IsApprovedForAll(owner, operator)
}

// SetApprovalForAll enables or disables operator to manage all balances of the caller.
func (r *Registry) SetApprovalForAll(caller, operator types.Principal, approved bool) error {
	ev, err := r.operators.SetApprovalForAll(caller, operator, approved)
	if err != nil {
		return err
	}
	r.emit(ev)
	r.log.Debug("set approval for all", "owner", caller, "operator", operator, "approved", approved)
	return nil
}

// KIP37 has no per token delegates, only operators.
func (r *Registry) isAuthorized(caller, owner types.Principal) bool {
	return r.operators.IsAuthorized(caller, owner, nil)
}

func (r *Registry) emit(events ...types.Event) {
	for _, ev := range events {
		r.sink.Emit(ev)
	}
}
