// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"bytes"
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-logfmt/logfmt"

	"github.com/jeranaias/devconsole/internal/logring"
)

// =============================================================================
// INTERNAL LOGGER
// =============================================================================

// Frames of the logging wrapper itself. They are never attached to a trace
// and never reported by the path extractor.
const (
	logSinkFrame = "console.(*logSink)"
	logPkgFrame  = "github.com/charmbracelet/log."
)

// newLogger returns a logger whose lines land in the console's own log
// pool, tagged with the marker.
func newLogger(sink *logSink, level log.Level) *log.Logger {
	return log.NewWithOptions(sink, log.Options{
		Level:     level,
		Formatter: log.LogfmtFormatter,
	})
}

// TagKey is the record key carrying a line's tag.
const TagKey = "tag"

// logSink turns logfmt records into log pool entries. Every Write carries
// exactly one record; the logger is used from the console's goroutine only.
type logSink struct {
	marker string
	add    func(text, stackTrace string, severity logring.Severity)

	// notify runs after each entry is added; may be nil
	notify func(tag logring.Tag, msg string)
}

func (s *logSink) Write(p []byte) (int, error) {
	dec := logfmt.NewDecoder(bytes.NewReader(p))
	for dec.ScanRecord() {
		var level, msg string
		var fields []string
		tag := logring.TagNone
		for dec.ScanKeyval() {
			key, val := string(dec.Key()), string(dec.Value())
			switch key {
			case log.LevelKey:
				level = val
			case log.MessageKey:
				msg = val
			case TagKey:
				tag = logring.ParseTag(val)
			case log.TimestampKey, log.CallerKey, log.PrefixKey:
			default:
				if strings.ContainsAny(val, " \t\n") {
					val = fmt.Sprintf("%q", val)
				}
				fields = append(fields, key+"="+val)
			}
		}
		s.add(s.render(tag, msg, fields), callerTrace(), logring.ParseSeverity(level))
		if s.notify != nil {
			s.notify(tag, msg)
		}
	}
	if err := dec.Err(); err != nil {
		return 0, fmt.Errorf("decode log record: %w", err)
	}
	return len(p), nil
}

func (s *logSink) render(tag logring.Tag, msg string, fields []string) string {
	parts := make([]string, 0, len(fields)+3)
	if s.marker != "" {
		parts = append(parts, s.marker)
	}
	if tag != logring.TagNone {
		parts = append(parts, tag.Label())
	}
	if msg != "" {
		parts = append(parts, msg)
	}
	parts = append(parts, fields...)
	return strings.Join(parts, " ")
}

// callerTrace builds an engine-style trace of the code that logged, one
// "function (at file:line)" frame per line.
func callerTrace() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		f, more := frames.Next()
		if f.Function != "" && !wrapperFrame(f.Function) {
			fmt.Fprintf(&b, "%s (at %s:%d)\n", f.Function, f.File, f.Line)
		}
		if !more {
			break
		}
	}
	return b.String()
}

// =============================================================================
// TAGGED LINES
// =============================================================================

// Important logs msg through l with the [Important] tag.
func Important(l *log.Logger, msg string, keyvals ...any) {
	l.Info(msg, tagged(logring.TagImportant, keyvals)...)
}

// Highlight logs msg through l with the [Highlight] tag.
func Highlight(l *log.Logger, msg string, keyvals ...any) {
	l.Info(msg, tagged(logring.TagHighlight, keyvals)...)
}

// ConsoleError logs a failure of the console itself with the
// [ConsoleError] tag.
func ConsoleError(l *log.Logger, msg string, keyvals ...any) {
	l.Error(msg, tagged(logring.TagConsoleError, keyvals)...)
}

func tagged(tag logring.Tag, keyvals []any) []any {
	return append([]any{TagKey, tag.String()}, keyvals...)
}

// tagHelperFrames are the tagged-line helpers above.
var tagHelperFrames = []string{"console.Important", "console.Highlight", "console.ConsoleError"}

func wrapperFrame(function string) bool {
	if strings.HasPrefix(function, logPkgFrame) ||
		strings.HasPrefix(function, "runtime.") ||
		strings.Contains(function, logSinkFrame) {
		return true
	}
	for _, h := range tagHelperFrames {
		if strings.HasSuffix(function, h) {
			return true
		}
	}
	return false
}
