package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml"

	"github.com/doodoo-storage/klaytn-kip/types"
)

// Script is the TOML document replayed by the "replay" command.
type Script struct {
	KIP17 KIP17 `toml:"kip17"`
	KIP37 KIP37 `toml:"kip37"`
	// Reject lists principals whose acceptance callback rejects all tokens.
	Reject []string `toml:"reject"`
	Steps  []Step   `toml:"step"`
}

type KIP17 struct {
	Name    string   `toml:"name"`
	Symbol  string   `toml:"symbol"`
	Minters []string `toml:"minters"`
	// Contract is the log emitter address of the evm output.
	Contract string `toml:"contract"`
}

type KIP37 struct {
	URI      string `toml:"uri"`
	Contract string `toml:"contract"`
}

// Step is single registry operation, fields which the operation doesn't
// use are ignored.
type Step struct {
	Registry   string   `toml:"registry" validate:"required"`
	Op         string   `toml:"op" validate:"required"`
	Caller     string   `toml:"caller"`
	From       string   `toml:"from"`
	To         string   `toml:"to"`
	Spender    string   `toml:"spender"`
	Operator   string   `toml:"operator"`
	Owner      string   `toml:"owner"`
	Owners     []string `toml:"owners"`
	Recipients []string `toml:"recipients"`
	ID         int64    `toml:"id" validate:"gte=0"`
	IDs        []int64  `toml:"ids" validate:"dive,gte=0"`
	Amount     int64    `toml:"amount" validate:"gte=0"`
	Amounts    []int64  `toml:"amounts" validate:"dive,gte=0"`
	URI        string   `toml:"uri"`
	Approved   bool     `toml:"approved"`
	Data       string   `toml:"data"`
	// Expect is the name of the error the step must fail with, ie "ZeroAddress".
	Expect string `toml:"expect" validate:"omitempty,oneof=ZeroAddress NotFound NotOwner NotAuthorized InvalidArgument LengthMismatch InsufficientBalance ReceiverRejected"`
}

var errorsByName = map[string]error{
	"ZeroAddress":         types.ErrZeroAddress,
	"NotFound":            types.ErrNotFound,
	"NotOwner":            types.ErrNotOwner,
	"NotAuthorized":       types.ErrNotAuthorized,
	"InvalidArgument":     types.ErrInvalidArgument,
	"LengthMismatch":      types.ErrLengthMismatch,
	"InsufficientBalance": types.ErrInsufficientBalance,
	"ReceiverRejected":    types.ErrReceiverRejected,
}

func LoadScript(file string) (*Script, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return ParseScript(b)
}

func ParseScript(b []byte) (*Script, error) {
	s := &Script{}
	if err := toml.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("decoding script: %w", err)
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return s, nil
}

var validate = validator.New()

// validate checks the struct tags and that the operation is known.
func (s *Step) validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	ops, ok := operations[strings.ToLower(s.Registry)]
	if !ok {
		return fmt.Errorf("unknown registry %q", s.Registry)
	}
	if _, ok := ops[s.Op]; !ok {
		return fmt.Errorf("unknown %s operation %q", s.Registry, s.Op)
	}
	return nil
}

// expectedError returns the sentinel the step must fail with, nil when the
// step must succeed.
func (s *Step) expectedError() error {
	return errorsByName[s.Expect]
}

func parsePrincipals(list []string) ([]types.Principal, error) {
	res := make([]types.Principal, len(list))
	for i, s := range list {
		p, err := parsePrincipal(s)
		if err != nil {
			return nil, err
		}
		res[i] = p
	}
	return res, nil
}

// parsePrincipal treats empty string as the zero principal so that scripts
// can exercise zero address checks.
func parsePrincipal(s string) (types.Principal, error) {
	if s == "" {
		return types.ZeroPrincipal, nil
	}
	return types.ParsePrincipal(s)
}

func tokenIDs(ns []int64) []types.TokenID {
	ids := make([]types.TokenID, len(ns))
	for i, n := range ns {
		ids[i] = types.TokenID(n)
	}
	return ids
}

func quantities(ns []int64) []uint64 {
	qs := make([]uint64, len(ns))
	for i, n := range ns {
		qs[i] = uint64(n)
	}
	return qs
}
