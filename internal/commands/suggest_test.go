// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	keys := []string{"heal<Player>", "zoom<MainCamera>", "tint<Sun>", "kill<Enemy>"}

	tests := []struct {
		input string
		want  string
	}{
		{"hael<Player>", "heal<Player>"},
		{"HEAL<player>", ""}, // exact match after folding
		{"zoom<MainCamra>", "zoom<MainCamera>"},
		{"tint<Snu>", "tint<Sun>"},
		{"spawn<GameManager>", ""},
		{"k", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Suggest(tt.input, keys); got != tt.want {
				t.Errorf("Suggest(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"héal", "heal", 1},
		{"same", "same", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshteinDistance([]rune(tt.a), []rune(tt.b)), "%s -> %s", tt.a, tt.b)
	}
}

func TestDispatchSuggestsKey(t *testing.T) {
	d, reg, buf := newTestDispatcher(t)
	_, err := reg.Register(NewTarget("Player"), Declaration{Name: "heal", Invoke: noop})
	require.NoError(t, err)

	res := d.Dispatch("/hael<Player>")
	var ue *UnknownCommandError
	require.ErrorAs(t, res.Err, &ue)
	assert.Equal(t, "heal<Player>", ue.Suggestion)
	assert.Contains(t, buf.String(), "did you mean")
}
