package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/doodoo-storage/klaytn-kip/txsystem/evm"
	"github.com/doodoo-storage/klaytn-kip/txsystem/kip17"
	"github.com/doodoo-storage/klaytn-kip/txsystem/kip37"
	"github.com/doodoo-storage/klaytn-kip/types"
	"github.com/doodoo-storage/klaytn-kip/util"
)

// ledger hosts both registries and collects the events and logs of the
// step being executed.
type ledger struct {
	kip17 *kip17.Registry
	kip37 *kip37.Registry

	events *types.EventLog
	logs   []*evm.LogEntry
	sinks  []*evm.LogSink
}

func newLedger(s *Script, log *slog.Logger) (*ledger, error) {
	l := &ledger{events: &types.EventLog{}}

	reject, err := parsePrincipals(s.Reject)
	if err != nil {
		return nil, fmt.Errorf("reject list: %w", err)
	}
	rcv17 := kip17.Receivers{}
	rcv37 := kip37.Receivers{}
	for _, p := range reject {
		rcv17[p] = kip17.ReceiverFunc(func(types.Principal, types.Principal, types.TokenID, []byte) (bool, error) { return false, nil })
		rcv37[p] = kip37.ReceiverFuncs{
			Single: func(types.Principal, types.Principal, types.TokenID, uint64, []byte) (bool, error) { return false, nil },
			Batch:  func(types.Principal, types.Principal, []types.TokenID, []uint64, []byte) (bool, error) { return false, nil },
		}
	}

	sink17, err := l.sink(s.KIP17.Contract)
	if err != nil {
		return nil, fmt.Errorf("kip17 contract: %w", err)
	}
	opts17 := []kip17.Option{
		kip17.WithEventSink(sink17),
		kip17.WithReceivers(rcv17),
		kip17.WithLogger(log.With("module", "kip17")),
	}
	if len(s.KIP17.Minters) > 0 {
		minters, err := parsePrincipals(s.KIP17.Minters)
		if err != nil {
			return nil, fmt.Errorf("kip17 minters: %w", err)
		}
		opts17 = append(opts17, kip17.WithMinters(minters...))
	}
	l.kip17 = kip17.NewRegistry(s.KIP17.Name, s.KIP17.Symbol, opts17...)

	sink37, err := l.sink(s.KIP37.Contract)
	if err != nil {
		return nil, fmt.Errorf("kip37 contract: %w", err)
	}
	l.kip37 = kip37.NewRegistry(s.KIP37.URI,
		kip37.WithEventSink(sink37),
		kip37.WithReceivers(rcv37),
		kip37.WithLogger(log.With("module", "kip37")),
	)
	return l, nil
}

// sink returns event sink which records the events both as they are and as
// logs of the contract.
func (l *ledger) sink(contract string) (types.EventSink, error) {
	var addr common.Address
	if contract != "" {
		p, err := types.ParsePrincipal(contract)
		if err != nil {
			return nil, err
		}
		addr = p
	}
	ls := evm.NewLogSink(addr, func(e *evm.LogEntry) { l.logs = append(l.logs, e) })
	l.sinks = append(l.sinks, ls)
	return types.MultiSink{l.events, ls}, nil
}

func (l *ledger) logErr() error {
	for _, s := range l.sinks {
		if err := s.Err(); err != nil {
			return err
		}
	}
	return nil
}

// args are resolved Step parameters.
type args struct {
	caller     types.Principal
	from       types.Principal
	to         types.Principal
	spender    types.Principal
	operator   types.Principal
	owner      types.Principal
	owners     []types.Principal
	recipients []types.Principal
	id         types.TokenID
	ids        []types.TokenID
	amount     uint64
	amounts    []uint64
	uri        string
	approved   bool
	data       []byte
}

func (s *Step) args() (*args, error) {
	a := &args{
		id:       types.TokenID(s.ID),
		ids:      tokenIDs(s.IDs),
		amount:   uint64(s.Amount),
		amounts:  quantities(s.Amounts),
		uri:      s.URI,
		approved: s.Approved,
	}
	if s.Data != "" {
		a.data = []byte(s.Data)
	}
	for _, f := range []struct {
		name string
		in   string
		out  *types.Principal
	}{
		{"caller", s.Caller, &a.caller},
		{"from", s.From, &a.from},
		{"to", s.To, &a.to},
		{"spender", s.Spender, &a.spender},
		{"operator", s.Operator, &a.operator},
		{"owner", s.Owner, &a.owner},
	} {
		p, err := parsePrincipal(f.in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.out = p
	}
	var err error
	if a.owners, err = parsePrincipals(s.Owners); err != nil {
		return nil, fmt.Errorf("owners: %w", err)
	}
	if a.recipients, err = parsePrincipals(s.Recipients); err != nil {
		return nil, fmt.Errorf("recipients: %w", err)
	}
	return a, nil
}

type operation func(l *ledger, a *args) (string, error)

var operations = map[string]map[string]operation{
	"kip17": {
		"mint": func(l *ledger, a *args) (string, error) {
			id, err := l.kip17.Mint(a.caller, a.to, a.uri)
			return id.String(), err
		},
		"safeMint": func(l *ledger, a *args) (string, error) {
			id, err := l.kip17.SafeMint(a.caller, a.to, a.uri, a.data)
			return id.String(), err
		},
		"approve": func(l *ledger, a *args) (string, error) {
			return "", l.kip17.Approve(a.caller, a.spender, a.id)
		},
		"setApprovalForAll": func(l *ledger, a *args) (string, error) {
			return "", l.kip17.SetApprovalForAll(a.caller, a.operator, a.approved)
		},
		"transferFrom": func(l *ledger, a *args) (string, error) {
			return "", l.kip17.TransferFrom(a.caller, a.from, a.to, a.id)
		},
		"safeTransferFrom": func(l *ledger, a *args) (string, error) {
			return "", l.kip17.SafeTransferFrom(a.caller, a.from, a.to, a.id, a.data)
		},
		"burn": func(l *ledger, a *args) (string, error) {
			return "", l.kip17.Burn(a.caller, a.id)
		},
		"ownerOf": func(l *ledger, a *args) (string, error) {
			p, err := l.kip17.OwnerOf(a.id)
			return principalString(p, err)
		},
		"getApproved": func(l *ledger, a *args) (string, error) {
			p, err := l.kip17.GetApproved(a.id)
			return principalString(p, err)
		},
		"balanceOf": func(l *ledger, a *args) (string, error) {
			n, err := l.kip17.BalanceOf(a.owner)
			return uintString(n, err)
		},
		"tokenURI": func(l *ledger, a *args) (string, error) {
			return l.kip17.TokenURI(a.id)
		},
		"isApprovedForAll": func(l *ledger, a *args) (string, error) {
			return strconv.FormatBool(l.kip17.IsApprovedForAll(a.owner, a.operator)), nil
		},
		"totalSupply": func(l *ledger, a *args) (string, error) {
			return uintString(l.kip17.TotalSupply(), nil)
		},
	},
	"kip37": {
		"create": func(l *ledger, a *args) (string, error) {
			id, err := l.kip37.Create(a.caller, a.amount, a.uri)
			return id.String(), err
		},
		"mint": func(l *ledger, a *args) (string, error) {
			return "", l.kip37.Mint(a.caller, a.to, a.id, a.amount)
		},
		"mintNew": func(l *ledger, a *args) (string, error) {
			id, err := l.kip37.MintNew(a.caller, a.to, a.amount)
			return id.String(), err
		},
		"mintBatch": func(l *ledger, a *args) (string, error) {
			ids, err := l.kip37.MintBatch(a.caller, a.to, a.amounts)
			return joinIDs(ids), err
		},
		"mintToList": func(l *ledger, a *args) (string, error) {
			id, err := l.kip37.MintToList(a.caller, a.id, a.recipients, a.amounts)
			return id.String(), err
		},
		"safeTransferFrom": func(l *ledger, a *args) (string, error) {
			return "", l.kip37.SafeTransferFrom(a.caller, a.from, a.to, a.id, a.amount, a.data)
		},
		"safeBatchTransferFrom": func(l *ledger, a *args) (string, error) {
			return "", l.kip37.SafeBatchTransferFrom(a.caller, a.from, a.to, a.ids, a.amounts, a.data)
		},
		"burn": func(l *ledger, a *args) (string, error) {
			return "", l.kip37.Burn(a.caller, a.from, a.id, a.amount)
		},
		"burnBatch": func(l *ledger, a *args) (string, error) {
			return "", l.kip37.BurnBatch(a.caller, a.from, a.ids, a.amounts)
		},
		"setApprovalForAll": func(l *ledger, a *args) (string, error) {
			return "", l.kip37.SetApprovalForAll(a.caller, a.operator, a.approved)
		},
		"isApprovedForAll": func(l *ledger, a *args) (string, error) {
			return strconv.FormatBool(l.kip37.IsApprovedForAll(a.owner, a.operator)), nil
		},
		"balanceOf": func(l *ledger, a *args) (string, error) {
			n, err := l.kip37.BalanceOf(a.owner, a.id)
			return uintString(n, err)
		},
		"balanceOfBatch": func(l *ledger, a *args) (string, error) {
			ns, err := l.kip37.BalanceOfBatch(a.owners, a.ids)
			if err != nil {
				return "", err
			}
			return strings.Join(util.TransformSlice(ns, func(n uint64) string { return strconv.FormatUint(n, 10) }), ","), nil
		},
		"totalSupply": func(l *ledger, a *args) (string, error) {
			return uintString(l.kip37.TotalSupply(a.id), nil)
		},
		"uri": func(l *ledger, a *args) (string, error) {
			return l.kip37.URI(a.id), nil
		},
		"exists": func(l *ledger, a *args) (string, error) {
			return strconv.FormatBool(l.kip37.Exists(a.id)), nil
		},
	},
}

func principalString(p types.Principal, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return p.Hex(), nil
}

func uintString(n uint64, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(n, 10), nil
}

func joinIDs(ids []types.TokenID) string {
	return strings.Join(util.TransformSlice(ids, types.TokenID.String), ",")
}
