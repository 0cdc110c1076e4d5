package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodoo-storage/klaytn-kip/txsystem/evm"
	"github.com/doodoo-storage/klaytn-kip/types"
)

var cmdReplay = &cobra.Command{
	Use:   "replay [script]",
	Short: "Replay TOML script of operations against fresh KIP17 and KIP37 registries",
	Args:  cobra.ExactArgs(1),
	Run:   replayScript,
}

var flagReplay struct {
	Output string
	Color  bool
}

func init() {
	cmdMain.AddCommand(cmdReplay)
	cmdReplay.Flags().StringVarP(&flagReplay.Output, "output", "o", "text", "Output format: text, json or evm")
	cmdReplay.Flags().BoolVar(&flagReplay.Color, "color", false, "Colorize step status of the text output")
}

func replayScript(cmd *cobra.Command, args []string) {
	log, err := newLogger(cmd.ErrOrStderr(), flagMain.LogLevel, flagMain.LogFormat)
	check(err)

	script, err := LoadScript(args[0])
	checkf(err, "load %s", args[0])

	results, err := Replay(script, log)
	check(err)

	check(writeResults(cmd.OutOrStdout(), flagReplay.Output, flagReplay.Color, results))

	var failed int
	for _, r := range results {
		if !r.OK {
			failed++
		}
	}
	if failed > 0 {
		fatalf("%d of %d steps had unexpected outcome", failed, len(results))
	}
}

// Result is the outcome of a single script step.
type Result struct {
	Step     int
	Registry string
	Op       string
	Value    string
	Err      error
	// OK is true when the outcome matches the expectation of the step.
	OK     bool
	Events []types.Event
	Logs   []*evm.LogEntry
}

// Replay executes the script steps in order. Steps failing unexpectedly
// don't stop the replay, their Result has OK set to false.
func Replay(s *Script, log *slog.Logger) ([]Result, error) {
	l, err := newLedger(s, log)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(s.Steps))
	for i := range s.Steps {
		step := &s.Steps[i]
		res := Result{Step: i + 1, Registry: strings.ToLower(step.Registry), Op: step.Op}

		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", res.Step, err)
		}
		a, err := step.args()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", res.Step, err)
		}
		l.events.Reset()
		l.logs = nil
		res.Value, res.Err = operations[res.Registry][step.Op](l, a)
		if err := l.logErr(); err != nil {
			return nil, fmt.Errorf("step %d: encoding logs: %w", res.Step, err)
		}
		res.Events = l.events.Events()
		res.Logs = l.logs

		if expected := step.expectedError(); expected != nil {
			res.OK = errors.Is(res.Err, expected)
		} else {
			res.OK = res.Err == nil
		}
		if !res.OK {
			log.Warn("unexpected outcome", "step", res.Step, "op", res.Registry+"."+res.Op, "expect", step.Expect, "error", res.Err)
		} else {
			log.Debug("step done", "step", res.Step, "op", res.Registry+"."+res.Op, "events", len(res.Events))
		}
		results = append(results, res)
	}
	return results, nil
}
