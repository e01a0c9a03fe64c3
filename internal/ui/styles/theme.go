// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/devconsole/internal/gamemath"
	"github.com/jeranaias/devconsole/internal/logring"
)

// Theme holds all the styled components of the console view.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER / FOOTER
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	Counter     lipgloss.Style
	KeepBadge   lipgloss.Style
	Help        lipgloss.Style

	// ==========================================================================
	// LOG AREA
	// ==========================================================================

	LogArea   lipgloss.Style
	LogLine   lipgloss.Style
	Clickable lipgloss.Style

	// ==========================================================================
	// TOOLTIPS
	// ==========================================================================

	Tooltips        lipgloss.Style
	Tooltip         lipgloss.Style
	TooltipSelected lipgloss.Style
	TooltipTarget   lipgloss.Style
	TooltipParams   lipgloss.Style

	// ==========================================================================
	// INPUT
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
}

// NewTheme creates a theme for the current terminal.
func NewTheme() *Theme {
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.Counter = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.KeepBadge = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.Help = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)

	t.LogArea = lipgloss.NewStyle().
		Padding(0, 1)

	t.LogLine = lipgloss.NewStyle()

	// Clickable lines are underlined so the action is visible without color.
	t.Clickable = lipgloss.NewStyle().
		Underline(true)

	// No border: tooltip rows map one to one onto screen rows for clicks.
	t.Tooltips = lipgloss.NewStyle().
		Padding(0, 1)

	t.Tooltip = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.TooltipSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		Background(SelectionBg)

	t.TooltipTarget = lipgloss.NewStyle().
		Foreground(Cyan)

	t.TooltipParams = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)
}

// RenderLogLine renders one log row. A line the console wrote itself gets
// its marker and tag in their fixed colors; a ConsoleError line is colored
// in full.
func (t *Theme) RenderLogLine(text, marker string, color gamemath.Color, clickable bool) string {
	style := t.LogLine
	if clickable {
		style = t.Clickable
	}
	style = style.Foreground(LogColor(color))

	tag, rest, ok := logring.SplitTagged(text, marker)
	if !ok {
		return style.Render(text)
	}
	parts := []string{style.Foreground(TagColor(logring.TagNone)).Render(marker)}
	if tag != logring.TagNone {
		tagStyle := style.Foreground(TagColor(tag))
		parts = append(parts, tagStyle.Render(tag.Label()))
		if tag == logring.TagConsoleError {
			style = tagStyle
		}
	}
	if rest != "" {
		parts = append(parts, style.Render(rest))
	}
	return strings.Join(parts, style.Render(" "))
}

// SetSize updates the theme dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
