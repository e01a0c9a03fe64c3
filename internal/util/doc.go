// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides string helpers shared by the terminal front ends.
//
// # Key Functions
//
//   - TruncateWidth: cut text to a column budget, wide characters included
//   - SingleLine: flatten multi-line log text into one row
//
// # Usage
//
//	row := util.TruncateWidth(util.SingleLine(slot.Text, " | "), width)
package util
