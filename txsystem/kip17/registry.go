/*
Package kip17 implements unique-asset registry: every token has exactly one
owner, ids are allocated sequentially starting from 1.

Registry is single writer state machine, it is not safe for concurrent use.
Every operation either commits all its state changes and delivers its events
to the event sink or fails without observable effect.
*/
package kip17

import (
	"fmt"
	"log/slog"

	"github.com/doodoo-storage/klaytn-kip/approval"
	"github.com/doodoo-storage/klaytn-kip/types"
)

type Registry struct {
	name   string
	symbol string

	owners    map[types.TokenID]types.Principal
	approvals map[types.TokenID]types.Principal
	balances  map[types.Principal]uint64
	operators approval.Operators
	lastID    types.TokenID

	minters   map[types.Principal]struct{}
	metadata  MetadataStore
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

func WithMetadataStore(store MetadataStore) Option {
	return func(r *Registry) {
		r.metadata = store
	}
}

// WithReceivers sets the resolver used by the "safe" operations to find
// acceptance callback of the recipient.
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

/*
WithMinters restricts minting to the given principals. By default anyone
may mint.
*/
func WithMinters(minters ...types.Principal) Option {
	return func(r *Registry) {
		if r.minters == nil {
			r.minters = make(map[types.Principal]struct{}, len(minters))
		}
		for _, m := range minters {
			r.minters[m] = struct{}{}
		}
	}
}

func NewRegistry(name, symbol string, opts ...Option) *Registry {
	r := &Registry{
		name:      name,
		symbol:    symbol,
		owners:    make(map[types.TokenID]types.Principal),
		approvals: make(map[types.TokenID]types.Principal),
		balances:  make(map[types.Principal]uint64),
		sink:      types.DiscardSink,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metadata == nil {
		r.metadata = NewMemoryMetadataStore()
	}
	return r
}

func (r *Registry) Name() string {
	return r.name
}

func (r *Registry) Symbol() string {
	return r.symbol
}

// CurrentTokenID returns the most recently allocated token id, zero if
// nothing has been minted yet.
func (r *Registry) CurrentTokenID() types.TokenID {
	return r.lastID
}

// TotalSupply returns the number of tokens in existence (minted and not burned).
func (r *Registry) TotalSupply() uint64 {
	return uint64(len(r.owners))
}

func (r *Registry) OwnerOf(id types.TokenID) (types.Principal, error) {
	owner, ok := r.owners[id]
	if !ok {
		return types.ZeroPrincipal, fmt.Errorf("owner query for nonexistent token %d: %w", id, types.ErrNotFound)
	}
	return owner, nil
}

func (r *Registry) BalanceOf(owner types.Principal) (uint64, error) {
	if types.IsZero(owner) {
		return 0, fmt.Errorf("balance query for the zero address: %w", types.ErrZeroAddress)
	}
	return r.balances[owner], nil
}

// GetApproved returns the delegate of the token, zero principal when there is none.
func (r *Registry) GetApproved(id types.TokenID) (types.Principal, error) {
	if _, ok := r.owners[id]; !ok {
		return types.ZeroPrincipal, fmt.Errorf("approved query for nonexistent token %d: %w", id, types.ErrNotFound)
	}
	return r.approvals[id], nil
}

func (r *Registry) IsApprovedForAll(owner, operator types.Principal) bool {
	return r.operators.IsApprovedForAll(owner, operator)
}

func (r *Registry) TokenURI(id types.TokenID) (string, error) {
	if _, ok := r.owners[id]; !ok {
		return "", fmt.Errorf("URI query for nonexistent token %d: %w", id, types.ErrNotFound)
	}
	uri, _ := r.metadata.TokenURI(id)
	return uri, nil
}

// isAuthorized reports whether caller may move or burn token id owned by owner.
func (r *Registry) isAuthorized(caller, owner types.Principal, id types.TokenID) bool {
	return r.operators.IsAuthorized(caller, owner, func() (types.Principal, bool) {
		spender, ok := r.approvals[id]
		return spender, ok
	})
}

func (r *Registry) emit(events ...types.Event) {
	for _, ev := range events {
		r.sink.Emit(ev)
	}
}
