// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the console command system.
package commands

import (
	"strings"
	"unicode/utf8"
)

// =============================================================================
// TOOLTIPS
// =============================================================================

// Tooltip is one rendered autocomplete entry.
type Tooltip struct {
	Key       string
	Name      string
	Target    string
	Signature string
}

// Text is the line shown for the entry: name, target, then the parameters.
func (t Tooltip) Text() string {
	parts := []string{t.Name, t.Target}
	if t.Signature != "" {
		parts = append(parts, t.Signature)
	}
	return strings.Join(parts, "  ")
}

func tooltipFor(cmd *Command) Tooltip {
	name, target := SplitKey(cmd.Key)
	return Tooltip{Key: cmd.Key, Name: name, Target: target, Signature: cmd.Signature()}
}

// TooltipSink receives tooltip diffs. Entries are only added or removed,
// never rebuilt; pos is the entry's index in the new candidate list.
type TooltipSink interface {
	AddTooltip(t Tooltip, pos int)
	RemoveTooltip(key string)
	SetHighlight(index int)
}

// =============================================================================
// AUTOCOMPLETE INDEX
// =============================================================================

// Index filters registry keys against the input text as it changes.
type Index struct {
	registry  *Registry
	prefix    rune
	minLength int
	sink      TooltipSink

	// Candidates currently shown, in registry order
	shown []string

	// Selected index (-1 for none)
	selected int
}

// NewIndex creates an autocomplete index. sink may be nil.
func NewIndex(registry *Registry, prefix rune, sink TooltipSink) *Index {
	if prefix == 0 {
		prefix = DefaultPrefix
	}
	return &Index{
		registry:  registry,
		prefix:    prefix,
		minLength: registry.Naming().MinLength,
		sink:      sink,
		selected:  -1,
	}
}

// SetSink replaces the tooltip sink. Entries already shown are replayed
// into the new sink.
func (x *Index) SetSink(sink TooltipSink) {
	x.sink = sink
	if sink == nil {
		return
	}
	for i, key := range x.shown {
		if cmd, ok := x.registry.Get(key); ok {
			sink.AddTooltip(tooltipFor(cmd), i)
		}
	}
	sink.SetHighlight(x.selected)
}

// Filter recomputes the candidate list for text and applies the difference
// to the sink. It returns the new candidate keys.
func (x *Index) Filter(text string) []string {
	next := x.match(text)

	var selectedKey string
	if x.selected >= 0 && x.selected < len(x.shown) {
		selectedKey = x.shown[x.selected]
	}

	x.applyDiff(next)
	x.shown = next

	x.selected = -1
	for i, key := range next {
		if key == selectedKey {
			x.selected = i
			break
		}
	}
	x.highlight()

	return x.Candidates()
}

func (x *Index) match(text string) []string {
	if utf8.RuneCountInString(text) < x.minLength || !IsCommand(text, x.prefix) {
		return nil
	}

	body := text[utf8.RuneLen(x.prefix):]
	var matches []string

	// A space means the name is complete; only an exact key can match.
	if name, _, found := strings.Cut(body, " "); found {
		for _, key := range x.registry.Keys() {
			if strings.EqualFold(key, name) {
				matches = append(matches, key)
			}
		}
		return matches
	}

	needle := foldCase(body)
	for _, key := range x.registry.Keys() {
		if strings.Contains(foldCase(key), needle) {
			matches = append(matches, key)
		}
	}
	return matches
}

func (x *Index) applyDiff(next []string) {
	if x.sink == nil {
		return
	}

	keep := make(map[string]bool, len(next))
	for _, key := range next {
		keep[key] = true
	}
	had := make(map[string]bool, len(x.shown))
	for _, key := range x.shown {
		had[key] = true
		if !keep[key] {
			x.sink.RemoveTooltip(key)
		}
	}
	for i, key := range next {
		if had[key] {
			continue
		}
		if cmd, ok := x.registry.Get(key); ok {
			x.sink.AddTooltip(tooltipFor(cmd), i)
		}
	}
}

func (x *Index) highlight() {
	if x.sink != nil {
		x.sink.SetHighlight(x.selected)
	}
}

// Next moves the highlight forward. Moving past the last entry, or moving
// in reverse, clears the selection.
func (x *Index) Next(reverse bool) {
	if len(x.shown) == 0 {
		return
	}
	if reverse {
		x.selected = -1
	} else {
		x.selected++
		if x.selected >= len(x.shown) {
			x.selected = -1
		}
	}
	x.highlight()
}

// Selected returns the highlighted key, if any.
func (x *Index) Selected() (string, bool) {
	if x.selected < 0 || x.selected >= len(x.shown) {
		return "", false
	}
	return x.shown[x.selected], true
}

// SelectedIndex returns the highlighted position, or -1.
func (x *Index) SelectedIndex() int { return x.selected }

// Unselect clears the highlight.
func (x *Index) Unselect() {
	x.selected = -1
	x.highlight()
}

// Choose returns the input text that selecting key produces, re-runs the
// filter with it and clears the highlight.
func (x *Index) Choose(key string) string {
	text := string(x.prefix) + key
	x.selected = -1
	x.Filter(text)
	return text
}

// Accept commits the highlighted entry. It reports false when nothing is
// highlighted.
func (x *Index) Accept() (string, bool) {
	key, ok := x.Selected()
	if !ok {
		return "", false
	}
	return x.Choose(key), true
}

// Candidates returns a copy of the keys currently shown.
func (x *Index) Candidates() []string {
	return append([]string(nil), x.shown...)
}

// Clear removes every entry.
func (x *Index) Clear() {
	x.Filter("")
}
