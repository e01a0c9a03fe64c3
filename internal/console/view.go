// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"github.com/jeranaias/devconsole/internal/commands"
	"github.com/jeranaias/devconsole/internal/gamemath"
	"github.com/jeranaias/devconsole/internal/logring"
)

// View is the rendering side of the console. The console never looks at
// how a view draws anything; it only pushes slot updates, tooltip diffs and
// input field state.
type View interface {
	logring.SlotSink
	commands.TooltipSink

	// SetCounter shows the number of visible log entries
	SetCounter(n int)

	// ScrollToBottom schedules a scroll of the log area after the next render
	ScrollToBottom()

	// SetInput replaces the input text and puts the cursor at the end
	SetInput(text string)

	// FocusInput gives the input field keyboard focus
	FocusInput()
}

// nopView is used until a real view is attached.
type nopView struct{}

func (nopView) UpdateSlot(int, string, gamemath.Color) {}
func (nopView) SetClickable(int, bool, func())         {}
func (nopView) SetVisible(int, bool)                   {}
func (nopView) AddTooltip(commands.Tooltip, int)       {}
func (nopView) RemoveTooltip(string)                   {}
func (nopView) SetHighlight(int)                       {}
func (nopView) SetCounter(int)                         {}
func (nopView) ScrollToBottom()                        {}
func (nopView) SetInput(string)                        {}
func (nopView) FocusInput()                            {}
