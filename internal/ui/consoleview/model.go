// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package consoleview renders a Console in the terminal with Bubble Tea.
package consoleview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/devconsole/internal/commands"
	"github.com/jeranaias/devconsole/internal/console"
	"github.com/jeranaias/devconsole/internal/logsource"
	"github.com/jeranaias/devconsole/internal/ui/styles"
	"github.com/jeranaias/devconsole/internal/util"
)

// Layout rows outside the log area.
const (
	headerHeight = 1
	inputHeight  = 2 // separator + input line
	helpHeight   = 1
	maxTooltips  = 8
)

// Options configures the view.
type Options struct {
	// Events are engine log events produced off the UI goroutine
	Events <-chan logsource.Event

	ShowCounter bool
	Mouse       bool
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model of the console.
type Model struct {
	console *console.Console
	screen  *screen
	theme   *styles.Theme

	input    textinput.Model
	viewport viewport.Model

	events      <-chan logsource.Event
	showCounter bool

	// rowSlot maps a log area row to its slot index
	rowSlot []int

	width    int
	height   int
	quitting bool
}

// New creates the view and attaches it to c.
func New(c *console.Console, theme *styles.Theme, opts Options) Model {
	if theme == nil {
		theme = styles.NewTheme()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.Placeholder = string(c.Prefix()) + "command<Target> args..."
	ti.CharLimit = 1024
	ti.Focus()

	m := Model{
		console:     c,
		screen:      newScreen(),
		theme:       theme,
		input:       ti,
		viewport:    viewport.New(80, 20),
		events:      opts.Events,
		showCounter: opts.ShowCounter,
		width:       80,
		height:      24,
	}
	c.SetView(m.screen)
	m.layout()
	m.sync()
	return m
}

// Init starts the cursor blink and the engine event listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.events))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.screen.dirty = true

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		if m.quitting {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case EngineEventMsg:
		m.console.AddLog(msg.Event)
		cmds = append(cmds, waitForEvent(m.events))

	case scrollMsg:
		m.viewport.GotoBottom()
		return m, nil

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.layout()
	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, nil
	case "tab":
		m.console.Next(false)
	case "shift+tab":
		m.console.Next(true)
	case "enter":
		m.console.Submit(m.input.Value())
	case "up":
		m.console.RecallPrev()
	case "down":
		m.console.RecallNext()
	case "ctrl+l":
		m.console.ResetLogs()
	case "ctrl+k":
		m.console.ToggleKeepText()
	case "pgup":
		m.viewport.HalfViewUp()
	case "pgdown":
		m.viewport.HalfViewDown()
	default:
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if after := m.input.Value(); after != before {
			m.console.TextChanged(after)
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Type {
	case tea.MouseWheelUp:
		m.viewport.LineUp(3)
		return
	case tea.MouseWheelDown:
		m.viewport.LineDown(3)
		return
	case tea.MouseLeft:
	default:
		return
	}

	logTop := headerHeight
	if y := msg.Y - logTop; y >= 0 && y < m.viewport.Height {
		row := y + m.viewport.YOffset
		if row < len(m.rowSlot) {
			slot := m.screen.slots[m.rowSlot[row]]
			if slot.clickable && slot.action != nil {
				slot.action()
			}
		}
		return
	}

	tipTop := logTop + m.viewport.Height
	_, tips := m.tooltipWindow()
	if y := msg.Y - tipTop; y >= 0 && y < len(tips) {
		m.console.SelectTooltip(tips[y].Key)
	}
}

// sync applies what the console pushed into the screen during this
// update and returns the deferred scroll, if one was requested.
func (m *Model) sync() tea.Cmd {
	if m.screen.input != nil {
		m.input.SetValue(*m.screen.input)
		m.input.CursorEnd()
		m.screen.input = nil
	}
	if m.screen.focus {
		m.input.Focus()
		m.screen.focus = false
	}
	if m.screen.dirty {
		m.refreshLog()
		m.screen.dirty = false
	}
	if m.screen.scroll {
		m.screen.scroll = false
		return scrollCmd
	}
	return nil
}

func (m *Model) refreshLog() {
	rows, index := m.screen.rows()
	m.rowSlot = index

	width := m.viewport.Width
	lines := make([]string, len(rows))
	for i, row := range rows {
		text := util.TruncateWidth(util.SingleLine(row.text, " | "), width)
		lines[i] = m.theme.RenderLogLine(text, m.console.Marker(), row.color, row.clickable)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

// layout sizes the log area to what the other regions leave.
func (m *Model) layout() {
	_, tips := m.tooltipWindow()
	h := m.height - headerHeight - len(tips) - inputHeight - helpHeight
	if h < 1 {
		h = 1
	}
	m.viewport.Width = m.width - 2
	m.viewport.Height = h
	m.input.Width = m.width - lipgloss.Width(m.input.Prompt) - 3
}

// tooltipWindow returns the shown slice of tooltips, keeping the highlight
// in view.
func (m Model) tooltipWindow() (int, []commands.Tooltip) {
	all := m.screen.tooltips
	start := 0
	if m.screen.highlight >= maxTooltips {
		start = m.screen.highlight - maxTooltips + 1
	}
	end := start + maxTooltips
	if end > len(all) {
		end = len(all)
	}
	if start > end {
		start = end
	}
	return start, all[start:end]
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the console.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	parts := []string{m.renderHeader(), m.theme.LogArea.Render(m.viewport.View())}
	if tips := m.renderTooltips(); tips != "" {
		parts = append(parts, tips)
	}
	parts = append(parts,
		m.theme.InputContainer.Width(m.width).Render(m.input.View()),
		m.theme.Help.Render(util.TruncateWidth(
			"tab next  enter run  up/down history  ctrl+l clear  ctrl+k keep text  esc quit", m.width-2)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("Developer Console")
	var info []string
	if m.showCounter {
		info = append(info, m.theme.Counter.Render(
			fmt.Sprintf("%d/%d", m.screen.counter, m.console.Buffer().Cap())))
	}
	if m.console.KeepText() {
		info = append(info, m.theme.KeepBadge.Render("keep"))
	}
	line := title
	if len(info) > 0 {
		line += "  " + strings.Join(info, "  ")
	}
	return m.theme.Header.Width(m.width).Render(line)
}

func (m Model) renderTooltips() string {
	start, tips := m.tooltipWindow()
	if len(tips) == 0 {
		return ""
	}
	width := m.width - 4
	lines := make([]string, len(tips))
	for i, t := range tips {
		if start+i == m.screen.highlight {
			lines[i] = m.theme.TooltipSelected.Render(util.TruncateWidth("> "+t.Text(), width))
			continue
		}
		plain := "  " + t.Text()
		if util.StringWidth(plain) > width {
			lines[i] = m.theme.Tooltip.Render(util.TruncateWidth(plain, width))
			continue
		}
		line := "  " + t.Name + "  " + m.theme.TooltipTarget.Render(t.Target)
		if t.Signature != "" {
			line += "  " + m.theme.TooltipParams.Render(t.Signature)
		}
		lines[i] = m.theme.Tooltip.Render(line)
	}
	return m.theme.Tooltips.Render(strings.Join(lines, "\n"))
}

// Run starts the program and blocks until the user quits.
func Run(c *console.Console, theme *styles.Theme, opts Options) error {
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(New(c, theme, opts), progOpts...)
	_, err := p.Run()
	return err
}
