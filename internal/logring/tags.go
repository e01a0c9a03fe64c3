// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logring

import (
	"strings"

	"github.com/jeranaias/devconsole/internal/gamemath"
)

// =============================================================================
// TAGS
// =============================================================================

// Tag labels one of the console's own lines. A tagged line reads
// "<marker> [<Tag>] message".
type Tag int

const (
	TagNone Tag = iota
	TagImportant
	TagHighlight
	TagConsoleError
)

// Fixed colors of the marker and the tags.
var (
	MarkerColor       = gamemath.RGB(0.7, 0.5, 0.9)
	ImportantColor    = gamemath.RGB(0, 1, 1)
	HighlightColor    = gamemath.RGB(0, 1, 0)
	ConsoleErrorColor = gamemath.RGB(1, 0.35, 0.1)
)

// String returns the tag name; TagNone has none.
func (t Tag) String() string {
	switch t {
	case TagImportant:
		return "Important"
	case TagHighlight:
		return "Highlight"
	case TagConsoleError:
		return "ConsoleError"
	default:
		return ""
	}
}

// Label returns the bracketed tag as written into a line.
func (t Tag) Label() string {
	if t == TagNone {
		return ""
	}
	return "[" + t.String() + "]"
}

// Color returns the tag's fixed color. Untagged lines use the marker color.
func (t Tag) Color() gamemath.Color {
	switch t {
	case TagImportant:
		return ImportantColor
	case TagHighlight:
		return HighlightColor
	case TagConsoleError:
		return ConsoleErrorColor
	default:
		return MarkerColor
	}
}

// ParseTag maps a tag name back to its tag. Unknown names are TagNone.
func ParseTag(name string) Tag {
	for _, t := range []Tag{TagImportant, TagHighlight, TagConsoleError} {
		if strings.EqualFold(name, t.String()) {
			return t
		}
	}
	return TagNone
}

// SplitTagged splits a line that starts with marker into its tag and the
// rest of the text. ok is false for lines that do not start with marker.
func SplitTagged(text, marker string) (tag Tag, rest string, ok bool) {
	if marker == "" || !strings.HasPrefix(text, marker) {
		return TagNone, text, false
	}
	rest = strings.TrimPrefix(text[len(marker):], " ")
	if strings.HasPrefix(rest, "[") {
		if end := strings.IndexByte(rest, ']'); end > 0 {
			if t := ParseTag(rest[1:end]); t != TagNone {
				return t, strings.TrimPrefix(rest[end+1:], " "), true
			}
		}
	}
	return TagNone, rest, true
}
