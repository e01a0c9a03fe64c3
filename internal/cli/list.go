// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/devconsole/internal/commands"
)

// CommandMarkdown lists the registry as a markdown table, in discovery order.
func CommandMarkdown(registry *commands.Registry, prefix rune) string {
	var b strings.Builder
	b.WriteString("| Command | Parameters | Description |\n")
	b.WriteString("|---|---|---|\n")
	for _, cmd := range registry.All() {
		fmt.Fprintf(&b, "| `%s%s` | %s | %s |\n",
			string(prefix), cmd.Key, escapeCell(cmd.Signature()), escapeCell(cmd.Description))
	}
	fmt.Fprintf(&b, "\n%d commands\n", registry.Len())
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "<", `\<`)
	return strings.ReplaceAll(s, "\n", " ")
}

// CommandList renders CommandMarkdown for the terminal. When styled is
// false, or rendering fails, the markdown is returned as is.
func CommandList(registry *commands.Registry, prefix rune, width int, styled bool) string {
	md := CommandMarkdown(registry, prefix)
	if !styled {
		return md
	}
	if width <= 0 {
		width = DefaultTerminalWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
