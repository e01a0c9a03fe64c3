// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scene

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/devconsole/internal/commands"
	"github.com/jeranaias/devconsole/internal/console"
	"github.com/jeranaias/devconsole/internal/gamemath"
	"github.com/jeranaias/devconsole/internal/logring"
)

func newScene(t *testing.T) (*Scene, *console.Console) {
	t.Helper()
	c := console.New(console.Options{Capacity: 50})
	s := New(c.Logger(), c)
	errs := c.Discover(s.Providers()...)

	// The second Enemy collides with the first.
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], commands.ErrDuplicateCommandKey)
	return s, c
}

func lastText(c *console.Console) string {
	visible := c.Buffer().Visible()
	if len(visible) == 0 {
		return ""
	}
	return visible[len(visible)-1].Text
}

func TestSceneKeys(t *testing.T) {
	_, c := newScene(t)
	keys := c.Registry().Keys()

	for _, want := range []string{
		"heal<Player>",
		"set_speed<Player>",
		"zoom<MainCamera>",
		"tint<Sun>",
		"difficulty<GameManager>",
		"log_<GameManager>",
		"kill<Enemy>",
	} {
		assert.Contains(t, keys, want)
	}
}

func TestSceneCommands(t *testing.T) {
	s, c := newScene(t)

	tests := []struct {
		line  string
		check func(t *testing.T)
	}{
		{"/heal<Player> 15", func(t *testing.T) { assert.Equal(t, 115, s.Player.HP) }},
		{"/damage<Player> 20", func(t *testing.T) { assert.Equal(t, 95, s.Player.HP) }},
		{"/teleport<Player> (1,2,3)", func(t *testing.T) {
			assert.Equal(t, gamemath.Vector3{X: 1, Y: 2, Z: 3}, s.Player.Position)
		}},
		{`/rename<Player> "Sir Robin"`, func(t *testing.T) { assert.Equal(t, "Sir Robin", s.Player.Name) }},
		{"/god_<Player> TRUE", func(t *testing.T) {
			assert.True(t, s.Player.God)
			assert.Contains(t, lastText(c), "[Important] god mode enabled=true")
		}},
		{"/set_speed<Player> 7.5", func(t *testing.T) { assert.Equal(t, 7.5, s.Player.Speed) }},
		{"/zoom<MainCamera> 45", func(t *testing.T) { assert.Equal(t, 45.0, s.Camera.FOV) }},
		{"/look<MainCamera> [0,1,0]", func(t *testing.T) {
			assert.Equal(t, gamemath.Vector3{Y: 1}, s.Camera.LookAt)
		}},
		{"/pan_<MainCamera> (2,-1)", func(t *testing.T) {
			assert.Equal(t, gamemath.Vector2{X: 2, Y: -1}, s.Camera.Offset)
		}},
		{"/tint<Sun> (1,0.5,0)", func(t *testing.T) {
			assert.Equal(t, gamemath.Color{R: 1, G: 0.5, B: 0, A: 1}, s.Sun.Tint)
		}},
		{"/intensity<Sun>", func(t *testing.T) { assert.Equal(t, 1.0, s.Sun.Intensity) }},
		{"/difficulty<GameManager> hard", func(t *testing.T) { assert.Equal(t, 2, s.Game.Difficulty) }},
		{`/spawn<GameManager> "Goblin King" (4,5)`, func(t *testing.T) {
			require.Len(t, s.Game.Spawned, 1)
			assert.Equal(t, Spawn{Kind: "Goblin King", At: gamemath.Vector2{X: 4, Y: 5}, Count: 1}, s.Game.Spawned[0])
			assert.Contains(t, lastText(c), "[Highlight] spawned")
		}},
		{"/kill<Enemy>", func(t *testing.T) {
			assert.False(t, s.Enemies[0].Alive)
			assert.True(t, s.Enemies[1].Alive, "the rejected duplicate is never reachable")
		}},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			res := c.Submit(tc.line)
			require.True(t, res.OK(), "%s: %v", tc.line, res.Err)
			tc.check(t)
		})
	}
}

func TestSceneCommandFailures(t *testing.T) {
	s, c := newScene(t)

	res := c.Submit("/damage<Player> -5")
	assert.ErrorIs(t, res.Err, commands.ErrInvocation)
	assert.Equal(t, 100, s.Player.HP)

	res = c.Submit("/zoom<MainCamera> 500")
	assert.ErrorIs(t, res.Err, commands.ErrInvocation)

	res = c.Submit("/teleport<Player> (1,2)")
	assert.ErrorIs(t, res.Err, commands.ErrCoercion)

	res = c.Submit("/difficulty<GameManager> impossible")
	assert.ErrorIs(t, res.Err, commands.ErrCoercion)

	res = c.Submit("/crash<GameManager>")
	require.ErrorIs(t, res.Err, ErrSimulatedCrash)
	var inv *commands.InvocationError
	require.ErrorAs(t, res.Err, &inv)
	assert.NotEmpty(t, inv.Stack)

	c.Submit("/kill<Enemy>")
	res = c.Submit("/kill<Enemy>")
	assert.ErrorIs(t, res.Err, commands.ErrInvocation)
}

func TestEmitRaisesEngineEvent(t *testing.T) {
	_, c := newScene(t)

	res := c.Submit(`/log_<GameManager> "Texture missing" warning`)
	require.True(t, res.OK(), "%v", res.Err)

	visible := c.Buffer().Visible()
	require.NotEmpty(t, visible)
	last := visible[len(visible)-1]
	assert.Equal(t, "Texture missing", last.Text)
	assert.Equal(t, logring.SeverityWarning, last.Severity)
	assert.True(t, last.Clickable)
	assert.True(t, strings.Contains(last.StackTrace, "(at Assets/Scripts/GameManager.cs:88)"))
}

func TestEngineTraceIsExtractable(t *testing.T) {
	trace := EngineTrace("Player", "Update", 12)
	assert.Contains(t, trace, "Player:Update () (at Assets/Scripts/Player.cs:12)")
}
