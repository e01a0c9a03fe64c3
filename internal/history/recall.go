// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

// Recall walks previously submitted lines with up/down keys. The text being
// edited before the walk started is restored when walking past the newest
// line.
type Recall struct {
	lines []string
	pos   int
	draft string
}

// NewRecall starts a walk over lines, oldest first.
func NewRecall(lines []string) *Recall {
	r := &Recall{lines: append([]string(nil), lines...)}
	r.pos = len(r.lines)
	return r
}

// Push appends a submitted line and ends any walk in progress.
func (r *Recall) Push(line string) {
	if line == "" {
		r.Reset()
		return
	}
	if n := len(r.lines); n == 0 || r.lines[n-1] != line {
		r.lines = append(r.lines, line)
	}
	r.Reset()
}

// Prev moves to the previous (older) line. current is remembered as the
// draft when the walk starts.
func (r *Recall) Prev(current string) (string, bool) {
	if r.pos == 0 {
		return "", false
	}
	if r.pos == len(r.lines) {
		r.draft = current
	}
	r.pos--
	return r.lines[r.pos], true
}

// Next moves to the next (newer) line, or back to the draft.
func (r *Recall) Next() (string, bool) {
	if r.pos >= len(r.lines) {
		return "", false
	}
	r.pos++
	if r.pos == len(r.lines) {
		return r.draft, true
	}
	return r.lines[r.pos], true
}

// Reset ends the walk.
func (r *Recall) Reset() {
	r.pos = len(r.lines)
	r.draft = ""
}

// Lines returns a copy of the known lines, oldest first.
func (r *Recall) Lines() []string {
	return append([]string(nil), r.lines...)
}
