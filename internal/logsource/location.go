// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logsource feeds engine log events to the console.
package logsource

import (
	"errors"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Extraction errors.
var (
	ErrPathNotFound = errors.New("path wasn't found")
	ErrLineNotFound = errors.New("line wasn't found")
)

// DefaultExtensions are the source files a stack frame may point at.
var DefaultExtensions = []string{".cs", ".go"}

// Location is a source position referenced by a stack frame.
type Location struct {
	Path string
	Line int
}

// Relative trims the path so it starts at the project marker directory,
// e.g. "Assets/Scripts/Player.cs". The path is returned as is when the
// marker does not occur.
func (l Location) Relative(marker string) string {
	if marker == "" {
		return l.Path
	}
	slashed := filepath.ToSlash(l.Path)
	if i := strings.Index(slashed, marker); i >= 0 {
		return slashed[i:]
	}
	return l.Path
}

// =============================================================================
// PATH EXTRACTOR
// =============================================================================

// PathExtractor finds the first "(at <path>:<line>)" reference in a stack
// trace whose path has a known source extension.
type PathExtractor struct {
	pattern *regexp.Regexp

	// Exclude skips frames containing any of these substrings, so the
	// console's own logging wrapper is never reported.
	Exclude []string
}

// NewPathExtractor builds an extractor for the given file extensions.
func NewPathExtractor(extensions []string, exclude ...string) *PathExtractor {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	alts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		alts = append(alts, regexp.QuoteMeta(strings.TrimPrefix(ext, ".")))
	}

	// Windows drive letters keep their single colon; other reserved
	// characters never appear in a path.
	expr := `\(at ([^<>"|?*@:]+:?[^<>"|?*@:]+\.(?:` + strings.Join(alts, "|") + `))(?::([^)]*))?\)`
	return &PathExtractor{
		pattern: regexp.MustCompile(expr),
		Exclude: exclude,
	}
}

// Extract returns the first matching location. When the path is found but
// its line number is missing or malformed, the location is returned with
// ErrLineNotFound.
func (x *PathExtractor) Extract(stackTrace string) (Location, error) {
	for _, frame := range strings.Split(stackTrace, "\n") {
		if x.excluded(frame) {
			continue
		}
		m := x.pattern.FindStringSubmatch(frame)
		if m == nil {
			continue
		}
		loc := Location{Path: m[1]}
		line, err := strconv.Atoi(strings.TrimSpace(m[2]))
		if err != nil || line < 1 {
			return loc, ErrLineNotFound
		}
		loc.Line = line
		return loc, nil
	}
	return Location{}, ErrPathNotFound
}

func (x *PathExtractor) excluded(frame string) bool {
	for _, s := range x.Exclude {
		if s != "" && strings.Contains(frame, s) {
			return true
		}
	}
	return false
}
