// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/devconsole/internal/commands"
	"github.com/jeranaias/devconsole/internal/gamemath"
	"github.com/jeranaias/devconsole/internal/logring"
	"github.com/jeranaias/devconsole/internal/logsource"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeView struct {
	text      map[int]string
	color     map[int]gamemath.Color
	visible   map[int]bool
	tooltips  map[string]commands.Tooltip
	highlight int
	counter   int
	scrolls   int
	input     string
	focused   int
}

func newFakeView() *fakeView {
	return &fakeView{
		text:      make(map[int]string),
		color:     make(map[int]gamemath.Color),
		visible:   make(map[int]bool),
		tooltips:  make(map[string]commands.Tooltip),
		highlight: -1,
	}
}

func (v *fakeView) UpdateSlot(i int, text string, color gamemath.Color) {
	v.text[i] = text
	v.color[i] = color
}
func (v *fakeView) SetClickable(int, bool, func())         {}
func (v *fakeView) SetVisible(i int, visible bool)         { v.visible[i] = visible }
func (v *fakeView) AddTooltip(t commands.Tooltip, pos int) { v.tooltips[t.Key] = t }
func (v *fakeView) RemoveTooltip(key string)               { delete(v.tooltips, key) }
func (v *fakeView) SetHighlight(i int)                     { v.highlight = i }
func (v *fakeView) SetCounter(n int)                       { v.counter = n }
func (v *fakeView) ScrollToBottom()                        { v.scrolls++ }
func (v *fakeView) SetInput(text string)                   { v.input = text }
func (v *fakeView) FocusInput()                            { v.focused++ }

type fakeClipboard struct {
	copied []string
	err    error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.copied = append(c.copied, text)
	return nil
}

func (c *fakeClipboard) last() string {
	if len(c.copied) == 0 {
		return ""
	}
	return c.copied[len(c.copied)-1]
}

type recordedLine struct {
	line string
	ok   bool
}

type fakeHistory struct {
	lines []recordedLine
}

func (h *fakeHistory) Record(_ context.Context, line string, ok bool) error {
	h.lines = append(h.lines, recordedLine{line, ok})
	return nil
}

// player is a small provider used across tests.
type player struct {
	target *commands.Target
	hp     int
	calls  int
}

func (p *player) ConsoleTarget() *commands.Target { return p.target }

func (p *player) ConsoleCommands() []commands.Declaration {
	return []commands.Declaration{
		{
			Name:   "heal",
			Params: []commands.Param{commands.IntParam("amount")},
			Invoke: func(args []commands.Value) error {
				p.calls++
				p.hp += args[0].Int()
				return nil
			},
		},
		{
			Name: "fail",
			Invoke: func([]commands.Value) error {
				return errors.New("player is not ready")
			},
		},
	}
}

type harness struct {
	c       *Console
	view    *fakeView
	clip    *fakeClipboard
	history *fakeHistory
	player  *player
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		view:    newFakeView(),
		clip:    &fakeClipboard{},
		history: &fakeHistory{},
		player:  &player{target: commands.NewTarget("Player")},
	}
	h.c = New(Options{
		Capacity:  5,
		View:      h.view,
		Clipboard: h.clip,
		History:   h.history,
		Opener:    ClipboardOpener{Clipboard: h.clip, ProjectMarker: "Assets"},
	})
	errs := h.c.Discover(h.player)
	require.Empty(t, errs)
	return h
}

func (h *harness) lastLine() logring.Slot {
	visible := h.c.Buffer().Visible()
	if len(visible) == 0 {
		return logring.Slot{}
	}
	return visible[len(visible)-1]
}

// =============================================================================
// SUBMIT
// =============================================================================

func TestSubmitSuccessClearsInput(t *testing.T) {
	h := newHarness(t)

	h.c.TextChanged("/heal<Player> 25")
	res := h.c.Submit("/heal<Player> 25")

	require.True(t, res.OK(), "err: %v", res.Err)
	assert.Equal(t, 25, h.player.hp)
	assert.Equal(t, "", h.view.input)
	assert.Equal(t, "", h.c.Input())
	assert.Empty(t, h.view.tooltips)
	assert.Positive(t, h.view.focused)
	assert.Equal(t, []recordedLine{{"/heal<Player> 25", true}}, h.history.lines)
}

func TestSubmitFailureKeepsInput(t *testing.T) {
	h := newHarness(t)

	res := h.c.Submit("/heal<Player> lots")
	require.False(t, res.OK())
	assert.Equal(t, commands.StageCoercing, res.FailedAt)
	assert.Equal(t, 0, h.player.calls)

	assert.Equal(t, "/heal<Player> lots", h.view.input)
	assert.Equal(t, []recordedLine{{"/heal<Player> lots", false}}, h.history.lines)

	line := h.lastLine()
	assert.True(t, strings.HasPrefix(line.Text, DefaultMarker), line.Text)
	assert.Contains(t, line.Text, "conversion from string to int failed")
	assert.Equal(t, logring.SeverityError, line.Severity)
	assert.True(t, line.Clickable)
}

func TestSubmitInvocationErrorIsLogged(t *testing.T) {
	h := newHarness(t)

	res := h.c.Submit("/fail<Player>")
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, commands.ErrInvocation)
	assert.Contains(t, h.lastLine().Text, "player is not ready")
}

func TestSubmitKeepText(t *testing.T) {
	h := newHarness(t)
	h.c.SetKeepText(true)

	res := h.c.Submit("/heal<Player> 1")
	require.True(t, res.OK())
	assert.Equal(t, "/heal<Player> 1", h.view.input)
	assert.Equal(t, "/heal<Player> 1", h.c.Input())

	assert.False(t, h.c.ToggleKeepText())
	assert.False(t, h.c.KeepText())
}

func TestSubmitCommitsSelection(t *testing.T) {
	h := newHarness(t)

	h.c.TextChanged("/hea")
	h.c.Next(false)
	key, ok := h.c.Selected()
	require.True(t, ok)
	require.Equal(t, "heal<Player>", key)

	res := h.c.Submit("/hea")
	assert.Equal(t, commands.StageIdle, res.Stage)
	assert.Equal(t, 0, h.player.calls, "committing a selection never invokes")
	assert.Equal(t, "/heal<Player>", h.view.input)
	assert.Equal(t, "/hea", h.c.PreviousInput())
	assert.Equal(t, "/hea", h.clip.last())
	assert.Empty(t, h.history.lines)

	_, ok = h.c.Selected()
	assert.False(t, ok)
}

func TestSelectTooltip(t *testing.T) {
	h := newHarness(t)
	h.clip.err = errors.New("no clipboard")

	h.c.TextChanged("/<Player")
	h.c.SelectTooltip("fail<Player>")

	assert.Equal(t, "/fail<Player>", h.c.Input())
	assert.Equal(t, "/<Player", h.c.PreviousInput())
	assert.Equal(t, []string{"fail<Player>"}, h.c.Candidates())
}

func TestRecall(t *testing.T) {
	h := newHarness(t)
	h.c.Submit("/heal<Player> 1")
	h.c.Submit("/heal<Player> 2")

	h.c.TextChanged("/dra")
	require.True(t, h.c.RecallPrev())
	assert.Equal(t, "/heal<Player> 2", h.view.input)
	require.True(t, h.c.RecallPrev())
	assert.Equal(t, "/heal<Player> 1", h.view.input)
	assert.False(t, h.c.RecallPrev())

	require.True(t, h.c.RecallNext())
	require.True(t, h.c.RecallNext())
	assert.Equal(t, "/dra", h.view.input)
	assert.False(t, h.c.RecallNext())
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func TestBuiltins(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.c.Registry().Keys(), "clear<Console>")
	assert.Contains(t, h.c.Registry().Keys(), "keep<Console>")
	assert.Contains(t, h.c.Registry().Keys(), "help<Console>")

	require.True(t, h.c.Submit("/keep<Console> true").OK())
	assert.True(t, h.c.KeepText())

	require.True(t, h.c.Submit("/help<Console> player").OK())
	var listed []string
	for _, s := range h.c.Buffer().Visible() {
		listed = append(listed, s.Text)
	}
	assert.Contains(t, listed, DefaultMarker+" /heal<Player> int amount")

	require.True(t, h.c.Submit("/clear<Console>").OK())
	assert.Equal(t, 0, h.c.Buffer().Len())
	assert.Equal(t, 0, h.view.counter)
}

func TestDiscoverRejectsDuplicates(t *testing.T) {
	h := newHarness(t)

	other := &player{target: commands.NewTarget("Player")}
	errs := h.c.Discover(h.player, other)

	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], commands.ErrDuplicateCommandKey)
	assert.Equal(t, 5, h.c.Registry().Len())
	assert.Contains(t, h.lastLine().Text, "command is not eligible for the console")
}

// =============================================================================
// LOGS
// =============================================================================

func TestAddLogPolicy(t *testing.T) {
	h := newHarness(t)

	h.c.AddLog(logsource.Event{Message: "loaded", Severity: logring.SeverityInfo})
	h.c.AddLog(logsource.Event{Message: "slow frame", Severity: logring.SeverityWarning})

	visible := h.c.Buffer().Visible()
	require.Len(t, visible, 2)
	assert.False(t, visible[0].Clickable)
	assert.True(t, visible[1].Clickable)
	assert.Equal(t, gamemath.Amber, h.view.color[1])
	assert.Equal(t, 2, h.view.counter)
	assert.Equal(t, 2, h.view.scrolls)
}

func TestEarlyEventsReplayInOrder(t *testing.T) {
	recv := logsource.NewReceiver()
	recv.Receive("first", "", logring.SeverityInfo)
	recv.Receive("second", "", logring.SeverityError)

	h := newHarness(t)
	recv.Attach(h.c.Handler())
	recv.Receive("third", "", logring.SeverityInfo)

	var got []string
	for _, s := range h.c.Buffer().Visible() {
		got = append(got, s.Text)
	}
	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestClickCopiesRelativePath(t *testing.T) {
	h := newHarness(t)

	trace := "UnityEngine.Debug:LogError(Object)\n" +
		"Player:Update() (at C:/Game/Assets/Scripts/Player.cs:42)\n"
	h.c.Receive("NullReferenceException", trace, logring.SeverityException)

	require.True(t, h.c.ClickSlot(0))
	assert.Equal(t, "Assets/Scripts/Player.cs", h.clip.last())
	assert.Equal(t, DefaultMarker+" Assets/Scripts/Player.cs\nPath copied to clipboard\nError at line : 42", h.lastLine().Text)
}

func TestClickMisses(t *testing.T) {
	h := newHarness(t)

	h.c.Receive("boom", "no frames here", logring.SeverityError)
	require.True(t, h.c.ClickSlot(0))
	assert.Equal(t, DefaultMarker+" Path wasn't found", h.lastLine().Text)

	h.c.Receive("boom", "Enemy:Attack() (at Assets/Enemy.cs:)", logring.SeverityError)
	require.True(t, h.c.ClickSlot(2))
	assert.Contains(t, h.lastLine().Text, "line wasn't found")

	h.c.Receive("plain", "Enemy:Attack() (at Assets/Enemy.cs:3)", logring.SeverityInfo)
	assert.False(t, h.c.ClickSlot(4), "info lines have no click action")
}

func TestClickOwnLogPointsAtCaller(t *testing.T) {
	h := newHarness(t)

	h.c.Submit("/nope<Player>")
	line := h.lastLine()
	require.True(t, line.Clickable)
	assert.NotContains(t, line.StackTrace, logSinkFrame)
	assert.NotContains(t, line.StackTrace, logPkgFrame)

	require.True(t, h.c.ClickSlot(h.c.Buffer().Len()-1))
	assert.True(t, strings.HasSuffix(h.clip.last(), "dispatch.go"), h.clip.last())
}

func TestLoggerRendersFields(t *testing.T) {
	h := newHarness(t)

	h.c.Logger().Info("spawned", "name", "Goblin King", "count", 3)
	assert.Equal(t, DefaultMarker+` spawned name="Goblin King" count=3`, h.lastLine().Text)
	assert.Equal(t, logring.SeverityInfo, h.lastLine().Severity)
	assert.True(t, h.lastLine().Clickable)

	h.c.Logger().Debug("hidden")
	assert.Equal(t, DefaultMarker+` spawned name="Goblin King" count=3`, h.lastLine().Text)
}

func TestTaggedLines(t *testing.T) {
	h := newHarness(t)

	type heard struct {
		tag logring.Tag
		msg string
	}
	var got []heard
	remove := h.c.OnLog(func(tag logring.Tag, msg string) {
		got = append(got, heard{tag, msg})
	})

	tests := []struct {
		log      func()
		text     string
		severity logring.Severity
		tag      logring.Tag
	}{
		{func() { Important(h.c.Logger(), "level loaded", "scene", "Arena") },
			DefaultMarker + " [Important] level loaded scene=Arena", logring.SeverityInfo, logring.TagImportant},
		{func() { Highlight(h.c.Logger(), "checkpoint") },
			DefaultMarker + " [Highlight] checkpoint", logring.SeverityInfo, logring.TagHighlight},
		{func() { ConsoleError(h.c.Logger(), "editor missing") },
			DefaultMarker + " [ConsoleError] editor missing", logring.SeverityError, logring.TagConsoleError},
		{func() { h.c.Logger().Info("plain") },
			DefaultMarker + " plain", logring.SeverityInfo, logring.TagNone},
	}
	for _, tc := range tests {
		tc.log()
		assert.Equal(t, tc.text, h.lastLine().Text)
		assert.Equal(t, tc.severity, h.lastLine().Severity)
		require.NotEmpty(t, got)
		assert.Equal(t, tc.tag, got[len(got)-1].tag)
	}
	assert.Equal(t, "level loaded", got[0].msg)

	remove()
	Highlight(h.c.Logger(), "unheard")
	assert.Len(t, got, len(tests))

	// The trace starts at the caller, not at the helper.
	first := strings.SplitN(h.lastLine().StackTrace, "\n", 2)[0]
	assert.Contains(t, first, "TestTaggedLines")
}

func TestOpenFailureIsConsoleError(t *testing.T) {
	h := newHarness(t)
	h.c.opener = ClipboardOpener{Clipboard: &fakeClipboard{err: errors.New("no clipboard")}}

	var tags []logring.Tag
	h.c.OnLog(func(tag logring.Tag, _ string) { tags = append(tags, tag) })

	h.c.Receive("boom", "Enemy:Attack() (at Assets/Enemy.cs:3)", logring.SeverityError)
	require.True(t, h.c.ClickSlot(0))
	assert.Contains(t, h.lastLine().Text, "[ConsoleError] opening source failed")
	assert.Equal(t, []logring.Tag{logring.TagConsoleError}, tags)
}

func TestSlidingWindowThroughConsole(t *testing.T) {
	h := newHarness(t)
	for _, msg := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		h.c.Receive(msg, "", logring.SeverityInfo)
	}
	assert.Equal(t, 5, h.view.counter)
	assert.Equal(t, "3", h.view.text[0])
	assert.Equal(t, "7", h.view.text[4])
}

// =============================================================================
// OPENERS
// =============================================================================

func TestEditorOpener(t *testing.T) {
	var started *exec.Cmd
	o := EditorOpener{
		Command: "code -g {path}:{line}",
		Start: func(cmd *exec.Cmd) error {
			started = cmd
			return nil
		},
	}

	msg, err := o.Open(logsource.Location{Path: "Assets/Player.cs", Line: 7})
	require.NoError(t, err)
	require.NotNil(t, started)
	assert.Equal(t, []string{"code", "-g", "Assets/Player.cs:7"}, started.Args)
	assert.Equal(t, "Opened Assets/Player.cs at line 7", msg)

	_, err = EditorOpener{}.Open(logsource.Location{Path: "x.cs", Line: 1})
	assert.Error(t, err)

	o.Start = func(*exec.Cmd) error { return errors.New("not found") }
	_, err = o.Open(logsource.Location{Path: "x.cs", Line: 1})
	assert.ErrorContains(t, err, "start code")
}

func TestClipboardOpenerFullPath(t *testing.T) {
	clip := &fakeClipboard{}
	o := ClipboardOpener{Clipboard: clip, CopyFullPath: true, ProjectMarker: "Assets"}

	_, err := o.Open(logsource.Location{Path: "/home/dev/Game/Assets/A.cs", Line: 1})
	require.NoError(t, err)
	assert.Equal(t, "/home/dev/Game/Assets/A.cs", clip.last())

	_, err = ClipboardOpener{}.Open(logsource.Location{Path: "A.cs", Line: 1})
	assert.Error(t, err)
}
