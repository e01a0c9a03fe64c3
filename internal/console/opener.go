// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/jeranaias/devconsole/internal/logsource"
)

// =============================================================================
// CLIPBOARD
// =============================================================================

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard is the OS clipboard.
type SystemClipboard struct{}

// WriteAll copies text to the OS clipboard.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// =============================================================================
// SOURCE OPENERS
// =============================================================================

// Opener acts on the source location behind a clicked log line. The
// returned text is logged to the console.
type Opener interface {
	Open(loc logsource.Location) (string, error)
}

// ClipboardOpener copies the path to the clipboard.
type ClipboardOpener struct {
	Clipboard Clipboard

	// CopyFullPath copies the path as found; otherwise it is trimmed to
	// start at ProjectMarker
	CopyFullPath  bool
	ProjectMarker string
}

func (o ClipboardOpener) Open(loc logsource.Location) (string, error) {
	path := loc.Path
	if !o.CopyFullPath {
		path = loc.Relative(o.ProjectMarker)
	}
	if o.Clipboard == nil {
		return "", errors.New("no clipboard configured")
	}
	if err := o.Clipboard.WriteAll(path); err != nil {
		return "", fmt.Errorf("copy path: %w", err)
	}
	return fmt.Sprintf("%s\nPath copied to clipboard\nError at line : %d", path, loc.Line), nil
}

// EditorOpener launches an editor. Command is split on whitespace and
// {path} and {line} are substituted in every argument, e.g.
// "code -g {path}:{line}".
type EditorOpener struct {
	Command string

	// Start runs the prepared command; nil starts it without waiting
	Start func(cmd *exec.Cmd) error
}

func (o EditorOpener) Open(loc logsource.Location) (string, error) {
	fields := strings.Fields(o.Command)
	if len(fields) == 0 {
		return "", errors.New("editor command is empty")
	}
	line := strconv.Itoa(loc.Line)
	for i, f := range fields {
		f = strings.ReplaceAll(f, "{path}", loc.Path)
		fields[i] = strings.ReplaceAll(f, "{line}", line)
	}

	cmd := exec.Command(fields[0], fields[1:]...)
	start := o.Start
	if start == nil {
		start = (*exec.Cmd).Start
	}
	if err := start(cmd); err != nil {
		return "", fmt.Errorf("start %s: %w", fields[0], err)
	}
	return fmt.Sprintf("Opened %s at line %d", loc.Path, loc.Line), nil
}
