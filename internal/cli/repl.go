// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/devconsole/internal/commands"
	"github.com/jeranaias/devconsole/internal/console"
	"github.com/jeranaias/devconsole/internal/logsource"
)

// =============================================================================
// LINE INPUT
// =============================================================================

// LineReader reads one line of input. suggestion prefills the line.
type LineReader interface {
	Prompt(prompt, suggestion string) (string, error)
}

// LinerReader reads lines with liner: arrow-key history, line editing and
// tab completion of command keys.
type LinerReader struct {
	state *liner.State
}

// NewLinerReader creates a reader seeded with history lines, oldest first.
// complete may be nil.
func NewLinerReader(history []string, complete func(string) []string) *LinerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetTabCompletionStyle(liner.TabPrints)
	if complete != nil {
		state.SetCompleter(complete)
	}
	for _, line := range history {
		state.AppendHistory(line)
	}
	return &LinerReader{state: state}
}

func (r *LinerReader) Prompt(prompt, suggestion string) (string, error) {
	var (
		line string
		err  error
	)
	if suggestion != "" {
		line, err = r.state.PromptWithSuggestion(prompt, suggestion, -1)
	} else {
		line, err = r.state.Prompt(prompt)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}
	return line, nil
}

// Close restores the terminal.
func (r *LinerReader) Close() error {
	return r.state.Close()
}

// Completer returns a completion function over the registry keys. It owns
// its own index, so it may run on the reader goroutine; the registry must
// not be rediscovered while it is in use.
func Completer(registry *commands.Registry, prefix rune) func(string) []string {
	index := commands.NewIndex(registry, prefix, nil)
	return func(line string) []string {
		// Arguments are never completed.
		if strings.ContainsRune(line, ' ') {
			return nil
		}
		keys := index.Filter(line)
		out := make([]string, len(keys))
		for i, key := range keys {
			out[i] = string(prefix) + key
		}
		return out
	}
}

// =============================================================================
// REPL
// =============================================================================

// REPL runs the console in line mode. Every console call happens on the
// goroutine running Run; input is read on a second goroutine.
type REPL struct {
	console *console.Console
	printer *Printer
	reader  LineReader
	events  <-chan logsource.Event
	prompt  string
}

// NewREPL attaches printer to c. events may be nil.
func NewREPL(c *console.Console, printer *Printer, reader LineReader, events <-chan logsource.Event) *REPL {
	c.SetView(printer)
	return &REPL{
		console: c,
		printer: printer,
		reader:  reader,
		events:  events,
		prompt:  "> ",
	}
}

type readResult struct {
	line string
	err  error
}

// Run reads and dispatches lines until the input ends, the user quits or
// ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	r.printer.Replay(r.console.Buffer().Visible())

	lines := make(chan readResult)
	next := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go r.read(lines, next, done)

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-r.events:
			if !ok {
				r.events = nil
				continue
			}
			r.console.AddLog(e)

		case res := <-lines:
			if res.err != nil {
				if errors.Is(res.err, io.EOF) || errors.Is(res.err, liner.ErrPromptAborted) {
					return nil
				}
				return res.err
			}
			if r.handle(res.line) {
				return nil
			}
			next <- r.printer.TakeInput()
		}
	}
}

func (r *REPL) read(lines chan<- readResult, next <-chan string, done <-chan struct{}) {
	suggestion := ""
	for {
		line, err := r.reader.Prompt(r.prompt, suggestion)
		select {
		case lines <- readResult{line: line, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
		select {
		case suggestion = <-next:
		case <-done:
			return
		}
	}
}

// handle runs one input line. It reports whether the session should end.
func (r *REPL) handle(line string) bool {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return false
	case strings.EqualFold(line, "exit"), strings.EqualFold(line, "quit"):
		return true
	case strings.HasPrefix(line, ":"):
		return r.meta(line[1:])
	}

	r.console.TextChanged(line)
	r.console.Submit(line)
	return false
}

// meta runs a line-mode command. These stand in for the keys and clicks of
// the full-screen console.
func (r *REPL) meta(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit":
		return true
	case "open":
		r.open(arg)
	case "keep":
		on := r.console.ToggleKeepText()
		r.printer.Notice("keep text: %t", on)
	case "clear":
		r.console.ResetLogs()
		r.printer.Notice("cleared")
	case "help":
		r.printer.Notice(":open [n]  follow the newest clickable entry, or the nth newest entry")
		r.printer.Notice(":keep      keep the input after a successful command")
		r.printer.Notice(":clear     hide every entry")
		r.printer.Notice(":quit      leave the console")
	default:
		r.printer.Notice("unknown command :%s (try :help)", name)
	}
	return false
}

// open clicks an entry. Without an argument it takes the newest clickable
// one; n counts back from the newest entry, starting at 1.
func (r *REPL) open(arg string) {
	n := r.console.Buffer().Len()
	if arg == "" {
		for i := n - 1; i >= 0; i-- {
			if r.console.ClickSlot(i) {
				return
			}
		}
		r.printer.Notice("nothing to open")
		return
	}

	k, err := strconv.Atoi(arg)
	if err != nil || k < 1 || k > n {
		r.printer.Notice("no entry %s", arg)
		return
	}
	if !r.console.ClickSlot(n - k) {
		r.printer.Notice("entry %d can't be opened", k)
	}
}
