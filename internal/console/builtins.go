// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"strings"

	"github.com/jeranaias/devconsole/internal/commands"
)

// builtins exposes the console's own controls as commands on the
// "Console" target.
type builtins struct {
	c      *Console
	target *commands.Target
}

func newBuiltins(c *Console) *builtins {
	return &builtins{c: c, target: commands.NewTarget("Console")}
}

func (b *builtins) ConsoleTarget() *commands.Target { return b.target }

func (b *builtins) ConsoleCommands() []commands.Declaration {
	return []commands.Declaration{
		{
			Name:        "clear",
			Description: "Hide every log entry",
			Invoke: func([]commands.Value) error {
				b.c.ResetLogs()
				return nil
			},
		},
		{
			Name:        "keep",
			Description: "Keep the input text after a successful command",
			Params:      []commands.Param{commands.BoolParam("enabled")},
			Invoke: func(args []commands.Value) error {
				b.c.SetKeepText(args[0].Bool())
				return nil
			},
		},
		{
			Name:        "help",
			Description: "List commands, optionally only those containing filter",
			Params: []commands.Param{
				commands.StringParam("filter").WithDefault(commands.StringValue("")),
			},
			Invoke: func(args []commands.Value) error {
				b.help(args[0].Str())
				return nil
			},
		},
	}
}

func (b *builtins) help(filter string) {
	filter = strings.ToLower(filter)
	for _, cmd := range b.c.registry.All() {
		if filter != "" && !strings.Contains(strings.ToLower(cmd.Key), filter) {
			continue
		}
		line := string(b.c.dispatcher.Prefix()) + cmd.Key
		if sig := cmd.Signature(); sig != "" {
			line += " " + sig
		}
		if cmd.Description != "" {
			b.c.logger.Info(line, "about", cmd.Description)
		} else {
			b.c.logger.Info(line)
		}
	}
}
