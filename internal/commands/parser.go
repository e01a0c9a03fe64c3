// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the console command system.
package commands

import (
	"strings"
	"unicode/utf8"
)

// DefaultPrefix is the character that starts every command line.
const DefaultPrefix = '/'

// =============================================================================
// TOKENIZER
// =============================================================================

// Tokenize splits a command line into tokens. Double-quoted spans are kept
// together, quote characters included; they are removed when a token is
// coerced to a string. A leading prefix rune is dropped from the first token.
// Runs of spaces do not produce empty tokens.
func Tokenize(line string, prefix rune) ([]string, error) {
	var spaces, quotes []int
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			spaces = append(spaces, i)
		case '"':
			quotes = append(quotes, i)
		}
	}

	if len(quotes)%2 != 0 {
		return nil, ErrUnbalancedQuotes
	}

	start := 0
	if r, size := utf8.DecodeRuneInString(line); size > 0 && r == prefix {
		start = size
	}

	// Fast path: nothing quoted, plain split on spaces.
	if len(quotes) == 0 {
		return dropEmpty(strings.Split(line[start:], " ")), nil
	}

	// The end of the line acts as a final delimiter.
	spaces = append(spaces, len(line))

	var tokens []string
	last := start
	pair := 0
	for _, s := range spaces {
		if s < start {
			continue
		}
		// Skip quote spans that end before this space.
		for pair*2 < len(quotes) && s > quotes[pair*2+1] {
			pair++
		}
		if pair*2 < len(quotes) && s > quotes[pair*2] {
			// Inside a quoted span; the space belongs to the token.
			continue
		}
		if s > last {
			tokens = append(tokens, line[last:s])
		}
		last = s + 1
	}

	return tokens, nil
}

func dropEmpty(parts []string) []string {
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// IsCommand reports whether the input starts with the command prefix.
func IsCommand(input string, prefix rune) bool {
	r, size := utf8.DecodeRuneInString(input)
	return size > 0 && r == prefix
}

// ExtractCommandName returns the command key of a line, without the prefix.
// e.g., "/heal<Player> 10" -> "heal<Player>"
func ExtractCommandName(input string, prefix rune) string {
	if !IsCommand(input, prefix) {
		return ""
	}
	body := input[utf8.RuneLen(prefix):]
	if end := strings.IndexByte(body, ' '); end >= 0 {
		return body[:end]
	}
	return body
}

// Unquote strips one leading and one trailing double quote. Embedded quotes
// are left as they are; there is no escaping.
func Unquote(token string) string {
	token = strings.TrimPrefix(token, `"`)
	return strings.TrimSuffix(token, `"`)
}
