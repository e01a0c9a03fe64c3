// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logring holds the console's fixed pool of log slots.
//
// The pool never grows. Once every slot is used, each new entry shifts all
// slots down by one and takes the last slot, so the oldest line drops out of
// view while every slot keeps its position and its visual handle.
package logring

import (
	"strings"

	"github.com/jeranaias/devconsole/internal/gamemath"
)

// =============================================================================
// SEVERITY
// =============================================================================

// Severity classifies a log entry.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityException
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	case SeverityException:
		return "Exception"
	default:
		return "Info"
	}
}

// ParseSeverity maps engine log type names to a severity. Unknown names
// are Info.
func ParseSeverity(name string) Severity {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "warning", "warn":
		return SeverityWarning
	case "error", "err", "assert", "fatal":
		return SeverityError
	case "exception", "panic":
		return SeverityException
	default:
		return SeverityInfo
	}
}

// ColorFor returns the fixed display color of a severity.
func ColorFor(s Severity) gamemath.Color {
	switch s {
	case SeverityWarning:
		return gamemath.Amber
	case SeverityError, SeverityException:
		return gamemath.Coral
	default:
		return gamemath.White
	}
}

// IsClickable reports whether an entry gets a click action: anything above
// Info, and the console's own lines carrying marker.
func IsClickable(text, marker string, s Severity) bool {
	return s != SeverityInfo || (marker != "" && strings.Contains(text, marker))
}

// =============================================================================
// SLOTS
// =============================================================================

// Slot is the content shown by one position of the pool.
type Slot struct {
	Text       string
	StackTrace string
	Severity   Severity
	Clickable  bool
	Visible    bool
}

// Color returns the slot's display color.
func (s Slot) Color() gamemath.Color { return ColorFor(s.Severity) }

// SlotSink is the rendering side of the pool. Index i always refers to the
// same visual handle.
type SlotSink interface {
	UpdateSlot(i int, text string, color gamemath.Color)
	SetClickable(i int, clickable bool, action func())
	SetVisible(i int, visible bool)
}

// =============================================================================
// BUFFER
// =============================================================================

// Buffer is the fixed-capacity sliding window of log slots.
type Buffer struct {
	slots   []Slot
	cursor  int
	sink    SlotSink
	onClick func(Slot)
}

// New creates a buffer with capacity slots, all hidden. sink may be nil.
func New(capacity int, sink SlotSink) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	b := &Buffer{slots: make([]Slot, capacity), sink: sink}
	if sink != nil {
		for i := range b.slots {
			sink.SetVisible(i, false)
		}
	}
	return b
}

// SetSink attaches a sink and pushes the current content to it.
func (b *Buffer) SetSink(sink SlotSink) {
	b.sink = sink
	if sink == nil {
		return
	}
	for i := range b.slots {
		b.render(i)
	}
}

// SetClickHandler sets what runs when a clickable slot is clicked.
func (b *Buffer) SetClickHandler(fn func(Slot)) { b.onClick = fn }

// AddLog writes an entry at the cursor. When the pool is full, every slot
// first takes the content of the one after it and the entry goes last.
func (b *Buffer) AddLog(text, stackTrace string, severity Severity, clickable bool) {
	n := len(b.slots)
	if b.cursor >= n {
		copy(b.slots, b.slots[1:])
		b.cursor = n - 1
		for i := 0; i < n-1; i++ {
			b.render(i)
		}
	}

	b.slots[b.cursor] = Slot{
		Text:       text,
		StackTrace: stackTrace,
		Severity:   severity,
		Clickable:  clickable,
		Visible:    true,
	}
	b.render(b.cursor)
	b.cursor++
}

func (b *Buffer) render(i int) {
	if b.sink == nil {
		return
	}
	s := b.slots[i]
	if !s.Visible {
		b.sink.SetVisible(i, false)
		return
	}
	b.sink.UpdateSlot(i, s.Text, s.Color())
	var action func()
	if s.Clickable {
		action = func() { b.Click(i) }
	}
	b.sink.SetClickable(i, s.Clickable, action)
	b.sink.SetVisible(i, true)
}

// Reset hides every slot and moves the cursor back to the first one.
func (b *Buffer) Reset() {
	for i := range b.slots {
		b.slots[i].Visible = false
		if b.sink != nil {
			b.sink.SetVisible(i, false)
		}
	}
	b.cursor = 0
}

// Click runs the click handler for slot i if it is visible and clickable.
// It reports whether the handler ran.
func (b *Buffer) Click(i int) bool {
	if i < 0 || i >= len(b.slots) {
		return false
	}
	s := b.slots[i]
	if !s.Visible || !s.Clickable || b.onClick == nil {
		return false
	}
	b.onClick(s)
	return true
}

// Len returns the number of visible entries.
func (b *Buffer) Len() int { return b.cursor }

// Cap returns the pool size.
func (b *Buffer) Cap() int { return len(b.slots) }

// Slot returns the content of position i.
func (b *Buffer) Slot(i int) Slot { return b.slots[i] }

// Visible returns the visible entries, oldest first.
func (b *Buffer) Visible() []Slot {
	out := make([]Slot, 0, b.cursor)
	for _, s := range b.slots[:b.cursor] {
		if s.Visible {
			out = append(out, s)
		}
	}
	return out
}
