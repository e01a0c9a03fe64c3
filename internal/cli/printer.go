// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/jeranaias/devconsole/internal/commands"
	"github.com/jeranaias/devconsole/internal/gamemath"
	"github.com/jeranaias/devconsole/internal/logring"
)

// Printer is the line-mode console view. Log entries are written once,
// as they are added; slot shifts and tooltips are not shown.
type Printer struct {
	out *termenv.Output

	// The slot rendered last; it is printed on the scroll that follows
	last struct {
		index     int
		text      string
		color     gamemath.Color
		clickable bool
	}

	// Text the console wants in the input, taken by the next prompt
	input *string
	count int
}

// NewPrinter creates a printer writing to w with the given color profile.
func NewPrinter(w io.Writer, profile termenv.Profile) *Printer {
	p := &Printer{out: termenv.NewOutput(w, termenv.WithProfile(profile))}
	p.last.index = -1
	return p
}

func (p *Printer) UpdateSlot(i int, text string, color gamemath.Color) {
	p.last.index = i
	p.last.text = text
	p.last.color = color
	p.last.clickable = false
}

func (p *Printer) SetClickable(i int, clickable bool, _ func()) {
	if i == p.last.index {
		p.last.clickable = clickable
	}
}

func (p *Printer) SetVisible(int, bool)             {}
func (p *Printer) AddTooltip(commands.Tooltip, int) {}
func (p *Printer) RemoveTooltip(string)             {}
func (p *Printer) SetHighlight(int)                 {}
func (p *Printer) FocusInput()                      {}
func (p *Printer) SetCounter(n int)                 { p.count = n }
func (p *Printer) SetInput(text string)             { p.input = &text }

// ScrollToBottom follows every added entry, so the entry is printed here.
func (p *Printer) ScrollToBottom() {
	if p.last.index < 0 {
		return
	}
	p.print(p.last.text, p.last.color, p.last.clickable)
	p.last.index = -1
}

// Replay prints entries that were added before the printer was attached.
func (p *Printer) Replay(slots []logring.Slot) {
	for _, s := range slots {
		p.print(s.Text, s.Color(), s.Clickable)
	}
}

// Notice prints a line that is not a log entry.
func (p *Printer) Notice(format string, args ...any) {
	fmt.Fprintln(p.out, p.out.String(fmt.Sprintf(format, args...)).Faint())
}

// TakeInput returns the pending input text and clears it.
func (p *Printer) TakeInput() string {
	if p.input == nil {
		return ""
	}
	text := *p.input
	p.input = nil
	return text
}

// Count returns the number of entries in the pool.
func (p *Printer) Count() int { return p.count }

func (p *Printer) print(text string, color gamemath.Color, clickable bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		s := p.out.String(line)
		if color != gamemath.White {
			s = s.Foreground(p.out.Color(color.Hex()))
		}
		if clickable && i == 0 {
			s = s.Underline()
		}
		if i > 0 {
			fmt.Fprint(p.out, "  ")
		}
		fmt.Fprintln(p.out, s)
	}
	if clickable {
		fmt.Fprintln(p.out, p.out.String("  (:open to follow)").Faint())
	}
}
