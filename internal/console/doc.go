// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package console wires the command system, the log pool and the input
// field into one Console owned by the application.
//
// # Key Types
//
//   - Console: the composition root; all methods run on the UI goroutine
//   - View: rendering boundary for log slots, tooltips and the input field
//   - Opener: what clicking a log line does (ClipboardOpener, EditorOpener)
//
// The console logs through a charmbracelet/log Logger whose output is fed
// back into its own log pool, each line tagged with the marker.
//
// # Usage
//
//	c := console.New(console.OptionsFromConfig(cfg))
//	c.SetView(view)
//	c.Discover(scene.Providers()...)
//	res := c.Submit("/heal<Player> 25")
package console
