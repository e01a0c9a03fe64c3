// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the console command system.
package commands

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// Dispatch-time errors.
var (
	ErrUnbalancedQuotes = errors.New("quotation mark missing in command")
	ErrInputTooShort    = errors.New("input too short")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrArity            = errors.New("wrong number of arguments")
	ErrCoercion         = errors.New("parameter conversion failed")
	ErrInvocation       = errors.New("command failed")
)

// Registration-time errors. A command rejected with one of these is logged
// and left out of the registry.
var (
	ErrUnsupportedParameterType = errors.New("unsupported parameter type")
	ErrDuplicateCommandKey      = errors.New("duplicate command key")
	ErrInvalidSignature         = errors.New("invalid command signature")
)

// UnknownCommandError reports a key that is not in the registry.
type UnknownCommandError struct {
	Key string
	// Suggestion is the closest registered key, if any
	Suggestion string
}

func (e *UnknownCommandError) Error() string {
	msg := fmt.Sprintf("the name of the function wasn't recognized: '%s'", e.Key)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean '%s'?)", e.Suggestion)
	}
	return msg
}

func (e *UnknownCommandError) Unwrap() error { return ErrUnknownCommand }

// ArityError reports too few supplied arguments.
type ArityError struct {
	Key      string
	Supplied int
	Required int
	Total    int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: %d parameter(s) provided, %d required (%d total)",
		e.Key, e.Supplied, e.Required, e.Total)
}

func (e *ArityError) Unwrap() error { return ErrArity }

// CoercionError reports a token that could not be converted to the declared
// parameter type.
type CoercionError struct {
	ParamType string
	RawToken  string
	Reason    string
}

func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("conversion from string to %s failed (got: %s)", e.ParamType, e.RawToken)
	if e.Reason != "" {
		msg += " - " + e.Reason
	}
	return msg
}

func (e *CoercionError) Unwrap() error { return ErrCoercion }

// InvocationError wraps an error (or recovered panic) raised by a command.
type InvocationError struct {
	Key   string
	Inner error

	// Stack is set when the command panicked
	Stack string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Key, e.Inner)
}

// Unwrap exposes both the taxonomy sentinel and the command's own error.
func (e *InvocationError) Unwrap() []error { return []error{ErrInvocation, e.Inner} }
