// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the console command system.
//
// Application code registers commands against targets; the console turns a
// typed line into a call of one of them.
//
// # Key Types
//
//   - Registry: registered commands keyed by "name<Target>"
//   - Declaration: name, parameter list and bound callable
//   - Value: tagged union of every supported argument kind
//   - Dispatcher: tokenize, resolve, check arity, coerce, invoke
//   - Index: live autocomplete over registry keys
//
// # Supported Parameter Types
//
// string, int, float, bool, Vector2, Vector3, Color and enums. Any other
// type rejects the command at registration.
//
// # Usage
//
// Register and dispatch:
//
//	reg := commands.NewRegistry(commands.DefaultNaming, logger)
//	reg.Register(player, commands.Declaration{
//	    Name:   "heal",
//	    Params: []commands.Param{commands.IntParam("amount")},
//	    Invoke: func(args []commands.Value) error {
//	        return p.Heal(args[0].Int())
//	    },
//	})
//	res := commands.NewDispatcher(reg, '/', logger).Dispatch("/heal<Player> 10")
//
// Filter as the user types:
//
//	idx := commands.NewIndex(reg, '/', view)
//	idx.Filter("/hea")
//	// Returns ["heal<Player>"]
package commands
