// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling of the console view.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection.

# Colors (colors.go)

  - Cyan - prompt and command prefix
  - Purple - highlighted tooltip and keep-text badge
  - LogColor / SeverityColor - severity colors of log lines

# Theme (theme.go)

Theme groups the lipgloss styles of each view region: header, log area,
tooltip list and input field.

	theme := styles.NewTheme()
	line := theme.LogLine.Foreground(styles.SeverityColor(sev)).Render(text)
*/
package styles
