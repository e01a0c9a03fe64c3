// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logsource feeds engine log events to the console.
package logsource

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/jeranaias/devconsole/internal/logring"
)

// =============================================================================
// ENGINE LOG PARSER
// =============================================================================

// headerPattern matches an optional "[Level]" tag in front of a message.
var headerPattern = regexp.MustCompile(`^\[(Log|Info|Warning|Error|Assert|Exception)\]\s*`)

// Parser turns engine log lines into events. An entry is a message line
// followed by its stack trace lines and ends at a blank line.
type Parser struct {
	current *Event
	stack   []string
}

// Feed consumes one line without its newline. It returns the entry that the
// line completed, if any.
func (p *Parser) Feed(line string) (Event, bool) {
	line = strings.TrimRight(line, "\r")

	if strings.TrimSpace(line) == "" {
		return p.Flush()
	}

	if p.current == nil {
		e := Event{Message: line, Severity: logring.SeverityInfo}
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			e.Severity = logring.ParseSeverity(m[1])
			e.Message = line[len(m[0]):]
		}
		p.current = &e
		return Event{}, false
	}

	p.stack = append(p.stack, line)
	return Event{}, false
}

// Flush returns the entry in progress, if any.
func (p *Parser) Flush() (Event, bool) {
	if p.current == nil {
		return Event{}, false
	}
	e := *p.current
	e.StackTrace = strings.Join(p.stack, "\n")
	p.current = nil
	p.stack = nil
	return e, true
}

// ReadAll parses every entry in r and hands it to sink.
func ReadAll(r io.Reader, sink Ingester) error {
	var p Parser
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if e, ok := p.Feed(scanner.Text()); ok {
			sink.Receive(e.Message, e.StackTrace, e.Severity)
		}
	}
	if e, ok := p.Flush(); ok {
		sink.Receive(e.Message, e.StackTrace, e.Severity)
	}
	return scanner.Err()
}
