// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the console command system.
package commands

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Target is the object a command is bound to. Its display name scopes the
// command key; the ID is what makes two same-named targets distinct objects.
type Target struct {
	ID   uuid.UUID
	Name string
}

// NewTarget creates a target with a fresh identity.
func NewTarget(name string) *Target {
	return &Target{ID: uuid.New(), Name: name}
}

// Invoker receives the coerced arguments in signature order.
type Invoker func(args []Value) error

// Declaration is what application code registers: a name, a parameter list
// and a bound callable.
type Declaration struct {
	// Name as declared; spaces become underscores and short names are padded.
	Name string

	// Description is shown in help output
	Description string

	Params []Param
	Invoke Invoker
}

// Command is a registered, callable command.
type Command struct {
	// Key is the unique lookup key, e.g. "heal<Player>"
	Key string

	// Name is the normalized declared name, e.g. "heal"
	Name string

	Description string
	Target      *Target
	Params      []Param

	// Required is the number of non-optional parameters
	Required int

	invoke Invoker
}

// Signature renders the parameter list as "type name" pairs.
func (c *Command) Signature() string {
	parts := make([]string, len(c.Params))
	for i, p := range c.Params {
		s := p.TypeName() + " " + p.Name
		if p.Optional {
			s = "[" + s + "=" + p.Default.String() + "]"
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}

// Provider is implemented by scene objects that expose console commands.
type Provider interface {
	ConsoleTarget() *Target
	ConsoleCommands() []Declaration
}

// =============================================================================
// NAMING
// =============================================================================

// Naming controls how declared names become keys.
type Naming struct {
	// MinLength is the minimum name length; shorter names are padded
	MinLength int

	// Filler pads names shorter than MinLength
	Filler rune
}

// DefaultNaming pads names to four characters with underscores.
var DefaultNaming = Naming{MinLength: 4, Filler: '_'}

// Normalize replaces spaces with underscores and right-pads the name.
func (n Naming) Normalize(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	if missing := n.MinLength - utf8.RuneCountInString(name); missing > 0 {
		name += strings.Repeat(string(n.Filler), missing)
	}
	return name
}

// Key builds the full key: normalized name followed by the target's display
// name (spaces removed) in angle brackets.
func (n Naming) Key(name string, target *Target) string {
	owner := ""
	if target != nil {
		owner = strings.ReplaceAll(target.Name, " ", "")
	}
	return n.Normalize(name) + "<" + owner + ">"
}

// SplitKey splits "name<Target>" into its name and target parts.
func SplitKey(key string) (name, target string) {
	open := strings.IndexByte(key, '<')
	if open < 0 {
		return key, ""
	}
	name = key[:open]
	rest := key[open+1:]
	if end := strings.IndexByte(rest, '>'); end >= 0 {
		rest = rest[:end]
	}
	return name, rest
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands. It is filled once by Discover and
// read-only afterwards.
type Registry struct {
	commands map[string]*Command
	order    []string
	naming   Naming
	logger   *log.Logger
}

// NewRegistry creates an empty registry. A nil logger discards rejections.
func NewRegistry(naming Naming, logger *log.Logger) *Registry {
	if naming.MinLength <= 0 {
		naming.MinLength = DefaultNaming.MinLength
	}
	if naming.Filler == 0 {
		naming.Filler = DefaultNaming.Filler
	}
	return &Registry{
		commands: make(map[string]*Command),
		naming:   naming,
		logger:   logger,
	}
}

// Naming returns the naming rules used for keys.
func (r *Registry) Naming() Naming { return r.naming }

// Register adds one command. The command is rejected, and left out, if its
// key is taken or its signature uses an unsupported parameter type.
func (r *Registry) Register(target *Target, decl Declaration) (*Command, error) {
	key := r.naming.Key(decl.Name, target)

	if _, exists := r.commands[key]; exists {
		return nil, r.reject(key, fmt.Errorf("%w: %s", ErrDuplicateCommandKey, key))
	}
	if err := validateSignature(decl); err != nil {
		return nil, r.reject(key, fmt.Errorf("%s: %w", key, err))
	}

	cmd := &Command{
		Key:         key,
		Name:        r.naming.Normalize(decl.Name),
		Description: decl.Description,
		Target:      target,
		Params:      append([]Param(nil), decl.Params...),
		invoke:      decl.Invoke,
	}
	for _, p := range decl.Params {
		if !p.Optional {
			cmd.Required++
		}
	}

	r.commands[key] = cmd
	r.order = append(r.order, key)
	return cmd, nil
}

func (r *Registry) reject(key string, err error) error {
	if r.logger != nil {
		r.logger.Error("command is not eligible for the console", "key", key, "err", err)
	}
	return err
}

func validateSignature(decl Declaration) error {
	if decl.Invoke == nil {
		return fmt.Errorf("%w: no callable bound", ErrInvalidSignature)
	}
	seenOptional := false
	for _, p := range decl.Params {
		if !p.Kind.Supported() {
			return fmt.Errorf("%w: parameter %q has type %s", ErrUnsupportedParameterType, p.Name, p.Kind)
		}
		if p.Kind == KindEnum && (p.Enum == nil || len(p.Enum.Variants) == 0) {
			return fmt.Errorf("%w: parameter %q is an enum without variants", ErrUnsupportedParameterType, p.Name)
		}
		if p.Optional {
			seenOptional = true
			if p.Default.Kind() != p.Kind {
				return fmt.Errorf("%w: default for %q is %s, want %s", ErrInvalidSignature, p.Name, p.Default.Kind(), p.Kind)
			}
			if p.Kind == KindEnum {
				d := p.Default.Enum()
				if d.Type != p.Enum {
					return fmt.Errorf("%w: default for %q is not a %s", ErrInvalidSignature, p.Name, p.Enum.Name)
				}
				if d.Ordinal < 0 || d.Ordinal >= len(p.Enum.Variants) {
					return fmt.Errorf("%w: default for %q is outside %s", ErrInvalidSignature, p.Name, p.Enum.Name)
				}
			}
		} else if seenOptional {
			return fmt.Errorf("%w: required parameter %q follows an optional one", ErrInvalidSignature, p.Name)
		}
	}
	return nil
}

// Discover rebuilds the registry from scratch from the given providers.
// Rejected commands are logged and returned; the rest are registered.
func (r *Registry) Discover(providers ...Provider) []error {
	r.commands = make(map[string]*Command)
	r.order = nil

	var rejected []error
	for _, p := range providers {
		target := p.ConsoleTarget()
		for _, decl := range p.ConsoleCommands() {
			if _, err := r.Register(target, decl); err != nil {
				rejected = append(rejected, err)
			}
		}
	}
	return rejected
}

// Get retrieves a command by its exact key.
func (r *Registry) Get(key string) (*Command, bool) {
	cmd, ok := r.commands[key]
	return cmd, ok
}

// Keys returns all keys in registration order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.order...)
}

// All returns all commands in registration order.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.order))
	for _, key := range r.order {
		cmds = append(cmds, r.commands[key])
	}
	return cmds
}

// Len returns the number of registered commands.
func (r *Registry) Len() int { return len(r.order) }
