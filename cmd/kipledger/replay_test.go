package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/doodoo-storage/klaytn-kip/testutils"
	"github.com/doodoo-storage/klaytn-kip/txsystem/evm"
	"github.com/doodoo-storage/klaytn-kip/types"
)

var discardLog = slog.New(slog.DiscardHandler)

func loadTestScript(t *testing.T) *Script {
	t.Helper()
	s, err := LoadScript("testdata/scenarios.toml")
	require.NoError(t, err)
	return s
}

func Test_Replay(t *testing.T) {
	alice := testutils.Principal(1)
	bob := testutils.Principal(2)
	carol := testutils.Principal(3)

	results, err := Replay(loadTestScript(t), discardLog)
	require.NoError(t, err)
	require.Len(t, results, 12)
	for _, r := range results {
		require.True(t, r.OK, "step %d %s.%s: %v", r.Step, r.Registry, r.Op, r.Err)
	}

	require.Equal(t, "1", results[0].Value)
	require.Equal(t, []types.Event{types.Transfer{From: types.ZeroPrincipal, To: alice, TokenID: 1}}, results[0].Events)
	require.Len(t, results[0].Logs, 1)

	require.Equal(t, []types.Event{types.Transfer{From: alice, To: carol, TokenID: 1}}, results[3].Events)

	// failed steps emit nothing
	for _, i := range []int{1, 4, 5, 8, 11} {
		require.Error(t, results[i].Err)
		require.Empty(t, results[i].Events, "step %d", i+1)
		require.Empty(t, results[i].Logs, "step %d", i+1)
	}

	require.Equal(t, "3", results[9].Value)
	require.Equal(t, []types.Event{
		types.TransferSingle{Operator: alice, From: types.ZeroPrincipal, To: alice, ID: 3, Value: 10},
		types.TransferSingle{Operator: alice, From: types.ZeroPrincipal, To: bob, ID: 3, Value: 20},
	}, results[9].Events)
	require.Equal(t, "10,20,1000", results[10].Value)
}

func Test_Replay_unexpectedOutcome(t *testing.T) {
	s, err := ParseScript([]byte(`
[[step]]
registry = "kip37"
op = "mint"
caller = "0x0000000000000000000000000000000000000001"
to = "0x0000000000000000000000000000000000000001"
id = 0
amount = 1

[[step]]
registry = "kip37"
op = "mintNew"
caller = "0x0000000000000000000000000000000000000001"
to = "0x0000000000000000000000000000000000000001"
amount = 1
expect = "ZeroAddress"
`))
	require.NoError(t, err)

	var buf bytes.Buffer
	log, err := newLogger(&buf, "warn", "json")
	require.NoError(t, err)
	results, err := Replay(s, log)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.False(t, results[0].OK)
	require.ErrorIs(t, results[0].Err, types.ErrNotFound)
	require.False(t, results[1].OK)
	require.NoError(t, results[1].Err)
	require.Equal(t, 2, strings.Count(buf.String(), `"msg":"unexpected outcome"`))
}

func Test_Replay_invalidConfig(t *testing.T) {
	_, err := Replay(&Script{Reject: []string{"nope"}}, discardLog)
	require.ErrorContains(t, err, "reject list")

	_, err = Replay(&Script{KIP17: KIP17{Minters: []string{"nope"}}}, discardLog)
	require.ErrorContains(t, err, "kip17 minters")

	_, err = Replay(&Script{KIP37: KIP37{Contract: "0x12"}}, discardLog)
	require.ErrorContains(t, err, "kip37 contract")

	// scripts built in code get the same validation as parsed ones
	_, err = Replay(&Script{Steps: []Step{{Registry: "kip37", Op: "mint", ID: 1, Amount: -1}}}, discardLog)
	require.ErrorContains(t, err, "step 1: Key: 'Step.Amount' Error:Field validation for 'Amount' failed on the 'gte' tag")

	_, err = Replay(&Script{Steps: []Step{{Registry: "kip37", Op: "burnBatch", IDs: []int64{-1}, Amounts: []int64{1}}}}, discardLog)
	require.ErrorContains(t, err, "'IDs[0]' failed on the 'gte' tag")
}

func Test_Replay_minters(t *testing.T) {
	s, err := ParseScript([]byte(`
[kip17]
minters = ["0x0000000000000000000000000000000000000001"]

[[step]]
registry = "kip17"
op = "mint"
caller = "0x0000000000000000000000000000000000000002"
to = "0x0000000000000000000000000000000000000002"
expect = "NotAuthorized"
`))
	require.NoError(t, err)
	results, err := Replay(s, discardLog)
	require.NoError(t, err)
	require.True(t, results[0].OK)
}

func Test_writeResults(t *testing.T) {
	results, err := Replay(loadTestScript(t), discardLog)
	require.NoError(t, err)

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeResults(&buf, "text", false, results))
		lines := strings.Split(buf.String(), "\n")
		require.Equal(t, "  1 ok   kip17.mint = 1", lines[0])
		require.True(t, strings.HasPrefix(lines[1], "      Transfer {"), lines[1])
		require.Contains(t, buf.String(), "kip17.balanceOf error: balance query for the zero address: zero address")
	})

	t.Run("colored text", func(t *testing.T) {
		failed := []Result{{Step: 1, Registry: "kip37", Op: "mint", Err: types.ErrNotFound}}
		var buf bytes.Buffer
		require.NoError(t, writeResults(&buf, "text", true, failed))
		require.Equal(t, "  1 "+failColor.Sprint("FAIL")+" kip37.mint error: not found\n", buf.String())
		require.Contains(t, buf.String(), "\x1b[")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeResults(&buf, "json", false, results))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, len(results))

		var first struct {
			Step   int
			OK     bool
			Events []struct {
				Name string
				Args map[string]any
			}
		}
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		require.Equal(t, 1, first.Step)
		require.True(t, first.OK)
		require.Len(t, first.Events, 1)
		require.Equal(t, types.EventTransfer, first.Events[0].Name)
		require.Equal(t, "1", first.Events[0].Args["tokenId"])
	})

	t.Run("evm", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeResults(&buf, "evm", false, results))
		var first struct {
			Logs []*evm.LogEntry
		}
		line, _, _ := strings.Cut(buf.String(), "\n")
		require.NoError(t, json.Unmarshal([]byte(line), &first))
		require.Len(t, first.Logs, 1)
		ev, err := evm.DecodeLog(first.Logs[0])
		require.NoError(t, err)
		require.Equal(t, results[0].Events[0], ev)
		require.Equal(t, common.HexToAddress("0x00000000000000000000000000000000000017aa"), first.Logs[0].Address)
	})

	require.ErrorContains(t, writeResults(&bytes.Buffer{}, "xml", false, results), `output format "xml" is not supported`)
}

func Test_newLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(&buf, "debug", "text")
	require.NoError(t, err)
	log.Debug("hello", "step", 1)
	require.Contains(t, buf.String(), "DEBUG")
	require.Contains(t, buf.String(), "hello")
	require.Contains(t, buf.String(), "step=1")

	_, err = newLogger(&buf, "loud", "text")
	require.ErrorContains(t, err, `invalid log level "loud"`)

	_, err = newLogger(&buf, "info", "xml")
	require.ErrorContains(t, err, `log format "xml" is not supported`)
}
