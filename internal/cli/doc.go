// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli runs the console without the full-screen view and renders
// command-line output.
//
// # Line mode
//
// REPL reads lines with liner and prints each log entry once, as it is
// added. The keys and clicks of the full-screen console become colon
// commands:
//
//	:open [n]   follow the newest clickable entry, or the nth newest
//	:keep       toggle keep-text
//	:clear      hide every entry
//	:quit       leave
//
// Tab completes command keys; up and down walk the liner history, which is
// seeded from the persistent history store.
//
// # Output
//
// CommandList renders the registered commands as a markdown table through
// glamour when stdout is a terminal, and as plain markdown otherwise.
package cli
