// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the console command system.
package commands

import (
	"errors"
	"fmt"
	"runtime/debug"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// =============================================================================
// DISPATCH STAGES
// =============================================================================

// Stage is a step of a single dispatch.
type Stage int

const (
	StageIdle Stage = iota
	StageTokenizing
	StageResolving
	StageCoercing
	StageInvoking
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageTokenizing:
		return "tokenizing"
	case StageResolving:
		return "resolving"
	case StageCoercing:
		return "coercing"
	case StageInvoking:
		return "invoking"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Result describes how one submitted line was handled.
type Result struct {
	// Stage is StageDone or StageFailed
	Stage Stage

	// FailedAt is the stage that produced Err
	FailedAt Stage

	Command *Command
	Tokens  []string
	Args    []Value
	Err     error
}

// OK reports whether the command ran without error.
func (r Result) OK() bool { return r.Stage == StageDone }

// =============================================================================
// DISPATCHER
// =============================================================================

// Dispatcher runs submitted lines against a registry. Each call is
// synchronous and runs the matched command at most once.
type Dispatcher struct {
	registry  *Registry
	prefix    rune
	minLength int
	logger    *log.Logger
}

// NewDispatcher creates a dispatcher. Failures are reported to logger when it
// is non-nil.
func NewDispatcher(registry *Registry, prefix rune, logger *log.Logger) *Dispatcher {
	if prefix == 0 {
		prefix = DefaultPrefix
	}
	return &Dispatcher{
		registry:  registry,
		prefix:    prefix,
		minLength: registry.Naming().MinLength,
		logger:    logger,
	}
}

// Prefix returns the command prefix rune.
func (d *Dispatcher) Prefix() rune { return d.prefix }

// Dispatch tokenizes the line, resolves the command, checks arity, coerces
// the arguments and invokes the command. It never panics.
func (d *Dispatcher) Dispatch(line string) Result {
	res := d.dispatch(line)
	if res.Err != nil && d.logger != nil {
		d.logger.Error(res.Err.Error(), "stage", res.FailedAt)
	}
	return res
}

func (d *Dispatcher) dispatch(line string) (res Result) {
	fail := func(stage Stage, err error) Result {
		res.Stage = StageFailed
		res.FailedAt = stage
		res.Err = err
		return res
	}

	if utf8.RuneCountInString(line) < d.minLength {
		return fail(StageTokenizing, ErrInputTooShort)
	}

	tokens, err := Tokenize(line, d.prefix)
	if err != nil {
		return fail(StageTokenizing, err)
	}
	res.Tokens = tokens

	key := ""
	if len(tokens) > 0 {
		key = tokens[0]
	}
	cmd, ok := d.registry.Get(key)
	if !ok {
		return fail(StageResolving, &UnknownCommandError{Key: key, Suggestion: Suggest(key, d.registry.Keys())})
	}
	res.Command = cmd

	supplied := tokens[1:]
	if len(supplied) < cmd.Required {
		return fail(StageResolving, &ArityError{
			Key:      cmd.Key,
			Supplied: len(supplied),
			Required: cmd.Required,
			Total:    len(cmd.Params),
		})
	}
	supplied = padDefaults(supplied, cmd.Params)

	args, err := CoerceAll(supplied, cmd.Params)
	if err != nil {
		return fail(StageCoercing, err)
	}
	res.Args = args

	if err := invoke(cmd, args); err != nil {
		return fail(StageInvoking, err)
	}

	res.Stage = StageDone
	return res
}

// padDefaults appends the rendered default of every parameter that was not
// supplied. Extra tokens beyond the signature are ignored.
func padDefaults(supplied []string, params []Param) []string {
	padded := make([]string, 0, len(params))
	padded = append(padded, supplied...)
	for i := len(supplied); i < len(params); i++ {
		padded = append(padded, params[i].Default.String())
	}
	return padded
}

func invoke(cmd *Command, args []Value) (err error) {
	defer func() {
		if r := recover(); r != nil {
			inner, ok := r.(error)
			if !ok {
				inner = fmt.Errorf("panic: %v", r)
			}
			err = &InvocationError{Key: cmd.Key, Inner: inner, Stack: string(debug.Stack())}
		}
	}()

	if callErr := cmd.invoke(args); callErr != nil {
		var already *InvocationError
		if errors.As(callErr, &already) {
			return callErr
		}
		return &InvocationError{Key: cmd.Key, Inner: callErr}
	}
	return nil
}
