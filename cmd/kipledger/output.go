package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/doodoo-storage/klaytn-kip/txsystem/evm"
	"github.com/doodoo-storage/klaytn-kip/types"
)

type jsonEvent struct {
	Name string      `json:"name"`
	Args types.Event `json:"args"`
}

type jsonResult struct {
	Step     int             `json:"step"`
	Registry string          `json:"registry"`
	Op       string          `json:"op"`
	Value    string          `json:"value,omitempty"`
	Error    string          `json:"error,omitempty"`
	OK       bool            `json:"ok"`
	Events   []jsonEvent     `json:"events,omitempty"`
	Logs     []*evm.LogEntry `json:"logs,omitempty"`
}

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
)

func init() {
	// colorize argument of writeText decides, not the terminal detection
	okColor.EnableColor()
	failColor.EnableColor()
}

func writeResults(w io.Writer, format string, colorize bool, results []Result) error {
	switch format {
	case "", "text":
		return writeText(w, results, colorize)
	case "json":
		return writeJSON(w, results, false)
	case "evm":
		return writeJSON(w, results, true)
	default:
		return fmt.Errorf("output format %q is not supported", format)
	}
}

func writeText(w io.Writer, results []Result, colorize bool) error {
	for _, r := range results {
		status, c := "ok  ", okColor
		if !r.OK {
			status, c = "FAIL", failColor
		}
		if colorize {
			status = c.Sprint(status)
		}
		line := fmt.Sprintf("%3d %s %s.%s", r.Step, status, r.Registry, r.Op)
		if r.Value != "" {
			line += " = " + r.Value
		}
		if r.Err != nil {
			line += " error: " + r.Err.Error()
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		for _, ev := range r.Events {
			args, err := json.Marshal(ev)
			if err != nil {
				return fmt.Errorf("encoding %s event: %w", ev.EventName(), err)
			}
			if _, err := fmt.Fprintf(w, "      %s %s\n", ev.EventName(), args); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeJSON writes one JSON document per line, with logs instead of
// events when logs is true.
func writeJSON(w io.Writer, results []Result, logs bool) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		out := jsonResult{Step: r.Step, Registry: r.Registry, Op: r.Op, Value: r.Value, OK: r.OK}
		if r.Err != nil {
			out.Error = r.Err.Error()
		}
		if logs {
			out.Logs = r.Logs
		} else {
			for _, ev := range r.Events {
				out.Events = append(out.Events, jsonEvent{Name: ev.EventName(), Args: ev})
			}
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	return nil
}
