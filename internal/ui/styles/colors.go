// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/devconsole/internal/gamemath"
	"github.com/jeranaias/devconsole/internal/logring"
)

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Purple - Highlighted tooltip, keep-text badge
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - Command prefix, prompt, brand
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Successful command
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// SurfaceDim - Header and footer background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// SurfaceBright - Tooltip background
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#FAFAFA", Dark: "#313244"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// SelectionBg - Highlighted tooltip background
var SelectionBg = lipgloss.AdaptiveColor{Light: "#BFDBFE", Dark: "#1E3A5F"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Tooltip signatures, labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, counters
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// =============================================================================
// LOG COLORS
// =============================================================================

// LogColor converts a slot color to a terminal color. The fixed severity
// colors get adaptive variants so white text stays readable on light
// terminals.
func LogColor(c gamemath.Color) lipgloss.TerminalColor {
	switch c {
	case gamemath.White:
		return TextPrimary
	case gamemath.Amber:
		return lipgloss.AdaptiveColor{Light: "#B45309", Dark: c.Hex()}
	case gamemath.Coral:
		return lipgloss.AdaptiveColor{Light: "#C2410C", Dark: c.Hex()}
	}
	return lipgloss.Color(c.Hex())
}

// SeverityColor returns the terminal color of a severity.
func SeverityColor(s logring.Severity) lipgloss.TerminalColor {
	return LogColor(logring.ColorFor(s))
}

// TagColor returns the terminal color of a console line tag. TagNone is the
// marker color.
func TagColor(tag logring.Tag) lipgloss.TerminalColor {
	return lipgloss.Color(tag.Color().Hex())
}
