// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package consoleview

import (
	"github.com/jeranaias/devconsole/internal/commands"
	"github.com/jeranaias/devconsole/internal/gamemath"
)

// slotRow is what one log slot handle currently shows.
type slotRow struct {
	text      string
	color     gamemath.Color
	visible   bool
	clickable bool
	action    func()
}

// screen is the console.View the model renders from. The console writes
// into it during Update; the model reads it when building the frame.
type screen struct {
	slots     []slotRow
	tooltips  []commands.Tooltip
	highlight int
	counter   int

	// Pending requests the model applies after each console call
	input  *string
	focus  bool
	scroll bool
	dirty  bool
}

func newScreen() *screen {
	return &screen{highlight: -1}
}

func (s *screen) slot(i int) *slotRow {
	for len(s.slots) <= i {
		s.slots = append(s.slots, slotRow{})
	}
	return &s.slots[i]
}

func (s *screen) UpdateSlot(i int, text string, color gamemath.Color) {
	row := s.slot(i)
	row.text = text
	row.color = color
	s.dirty = true
}

func (s *screen) SetClickable(i int, clickable bool, action func()) {
	row := s.slot(i)
	row.clickable = clickable
	row.action = action
	s.dirty = true
}

func (s *screen) SetVisible(i int, visible bool) {
	s.slot(i).visible = visible
	s.dirty = true
}

func (s *screen) AddTooltip(t commands.Tooltip, pos int) {
	if pos < 0 || pos > len(s.tooltips) {
		pos = len(s.tooltips)
	}
	s.tooltips = append(s.tooltips, commands.Tooltip{})
	copy(s.tooltips[pos+1:], s.tooltips[pos:])
	s.tooltips[pos] = t
}

func (s *screen) RemoveTooltip(key string) {
	for i, t := range s.tooltips {
		if t.Key == key {
			s.tooltips = append(s.tooltips[:i], s.tooltips[i+1:]...)
			return
		}
	}
}

func (s *screen) SetHighlight(i int) { s.highlight = i }
func (s *screen) SetCounter(n int)   { s.counter = n }
func (s *screen) ScrollToBottom()    { s.scroll = true }
func (s *screen) FocusInput()        { s.focus = true }

func (s *screen) SetInput(text string) {
	s.input = &text
}

// rows returns the visible slots in slot order with their indices.
func (s *screen) rows() ([]slotRow, []int) {
	var rows []slotRow
	var index []int
	for i, row := range s.slots {
		if row.visible {
			rows = append(rows, row)
			index = append(index, i)
		}
	}
	return rows, index
}
