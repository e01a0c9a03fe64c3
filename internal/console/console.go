// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jeranaias/devconsole/internal/commands"
	"github.com/jeranaias/devconsole/internal/config"
	"github.com/jeranaias/devconsole/internal/history"
	"github.com/jeranaias/devconsole/internal/logring"
	"github.com/jeranaias/devconsole/internal/logsource"
)

// DefaultMarker tags lines the console writes itself.
const DefaultMarker = "[DevConsole]"

// History records submitted lines.
type History interface {
	Record(ctx context.Context, line string, ok bool) error
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Console. Zero fields take defaults.
type Options struct {
	Prefix   rune
	Naming   commands.Naming
	Capacity int
	KeepText bool

	// Marker tags the console's own log lines and makes them clickable
	Marker string

	// Extensions are the source files a clicked stack trace may point at
	Extensions []string

	LogLevel log.Level

	View      View
	Opener    Opener
	Clipboard Clipboard
	History   History

	// RecallLines seeds up/down recall, oldest first
	RecallLines []string
}

// OptionsFromConfig maps a loaded configuration onto console options.
func OptionsFromConfig(cfg *config.Config) Options {
	var opener Opener = ClipboardOpener{
		Clipboard:     SystemClipboard{},
		CopyFullPath:  cfg.Paths.CopyFullPath,
		ProjectMarker: cfg.Paths.ProjectMarker,
	}
	if cfg.Paths.EditorCommand != "" {
		opener = EditorOpener{Command: cfg.Paths.EditorCommand}
	}

	return Options{
		Prefix:     cfg.PrefixRune(),
		Naming:     commands.Naming{MinLength: cfg.Console.MinNameLength, Filler: cfg.FillerRune()},
		Capacity:   cfg.Console.Capacity,
		KeepText:   cfg.Console.KeepText,
		Marker:     cfg.Logging.Marker,
		Extensions: cfg.Paths.Extensions,
		LogLevel:   cfg.LogLevel(),
		Opener:     opener,
		Clipboard:  SystemClipboard{},
	}
}

// =============================================================================
// CONSOLE
// =============================================================================

// Console owns the command system and the log pool for one session. It is
// not safe for concurrent use: every method runs on the UI goroutine.
// Events from other goroutines go through a logsource.Receiver.
type Console struct {
	registry   *commands.Registry
	dispatcher *commands.Dispatcher
	index      *commands.Index
	buffer     *logring.Buffer
	extractor  *logsource.PathExtractor
	logger     *log.Logger
	builtins   *builtins

	view      View
	opener    Opener
	clipboard Clipboard
	history   History
	recall    *history.Recall

	marker        string
	input         string
	previousInput string
	keepText      bool

	listeners  []listener
	listenerID int
}

// LogListener is told about every line the console logs itself.
type LogListener func(tag logring.Tag, msg string)

type listener struct {
	id int
	fn LogListener
}

// New creates a console. Providers are registered with Discover.
func New(opts Options) *Console {
	if opts.Capacity <= 0 {
		opts.Capacity = config.Default().Console.Capacity
	}
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}

	c := &Console{
		view:      opts.View,
		opener:    opts.Opener,
		clipboard: opts.Clipboard,
		history:   opts.History,
		recall:    history.NewRecall(opts.RecallLines),
		marker:    opts.Marker,
		keepText:  opts.KeepText,
	}
	if c.view == nil {
		c.view = nopView{}
	}

	sink := &logSink{marker: c.marker, add: c.add, notify: c.notifyListeners}
	c.logger = newLogger(sink, opts.LogLevel)

	c.registry = commands.NewRegistry(opts.Naming, c.logger)
	c.dispatcher = commands.NewDispatcher(c.registry, opts.Prefix, c.logger)
	c.index = commands.NewIndex(c.registry, c.dispatcher.Prefix(), c.view)
	c.buffer = logring.New(opts.Capacity, c.view)
	c.buffer.SetClickHandler(c.onSlotClick)
	c.extractor = logsource.NewPathExtractor(opts.Extensions, logSinkFrame, logPkgFrame)
	c.builtins = newBuiltins(c)
	c.registry.Discover(c.builtins)

	return c
}

// SetView attaches a view and pushes the current state to it.
func (c *Console) SetView(v View) {
	if v == nil {
		v = nopView{}
	}
	c.view = v
	c.buffer.SetSink(v)
	c.index.SetSink(v)
	v.SetCounter(c.buffer.Len())
	v.SetInput(c.input)
}

// Discover rebuilds the registry from the console's own commands plus the
// given providers. Rejected commands are logged and returned.
func (c *Console) Discover(providers ...commands.Provider) []error {
	all := append([]commands.Provider{c.builtins}, providers...)
	errs := c.registry.Discover(all...)
	c.index.Filter(c.input)
	return errs
}

// =============================================================================
// INPUT
// =============================================================================

// TextChanged updates the autocomplete candidates for the new input text.
func (c *Console) TextChanged(text string) []string {
	c.input = text
	return c.index.Filter(text)
}

// Next moves the autocomplete highlight.
func (c *Console) Next(reverse bool) {
	c.index.Next(reverse)
}

// Submit handles the enter key. With an autocomplete entry highlighted it
// only commits that entry and returns a Result in StageIdle. Otherwise the
// line is dispatched: on success the input is cleared unless keep-text is
// on, on failure it is kept with the cursor at its end.
func (c *Console) Submit(text string) commands.Result {
	c.input = text
	if key, ok := c.index.Selected(); ok {
		c.choose(key)
		return commands.Result{Stage: commands.StageIdle}
	}

	res := c.dispatcher.Dispatch(text)
	c.record(text, res.OK())

	if res.OK() && !c.keepText {
		c.setInput("")
		c.index.Filter("")
	} else {
		c.setInput(text)
	}
	c.view.FocusInput()
	return res
}

func (c *Console) record(line string, ok bool) {
	if strings.TrimSpace(line) == "" {
		return
	}
	c.recall.Push(line)
	if c.history == nil {
		return
	}
	if err := c.history.Record(context.Background(), line, ok); err != nil {
		c.logger.Warn("saving history failed", "err", err)
	}
}

// SelectTooltip replaces the input with the chosen entry. The replaced
// text is kept as PreviousInput and copied to the clipboard.
func (c *Console) SelectTooltip(key string) {
	c.choose(key)
}

func (c *Console) choose(key string) {
	c.previousInput = c.input
	if c.clipboard != nil && c.previousInput != "" {
		if err := c.clipboard.WriteAll(c.previousInput); err != nil {
			c.logger.Debug("previous input not copied", "err", err)
		}
	}
	c.setInput(c.index.Choose(key))
	c.view.FocusInput()
}

func (c *Console) setInput(text string) {
	c.input = text
	c.view.SetInput(text)
}

// Input returns the current input text.
func (c *Console) Input() string { return c.input }

// PreviousInput returns the text replaced by the last tooltip selection.
func (c *Console) PreviousInput() string { return c.previousInput }

// RecallPrev puts the previous submitted line in the input.
func (c *Console) RecallPrev() bool {
	text, ok := c.recall.Prev(c.input)
	if ok {
		c.setInput(text)
		c.index.Filter(text)
	}
	return ok
}

// RecallNext walks back towards the line being edited.
func (c *Console) RecallNext() bool {
	text, ok := c.recall.Next()
	if ok {
		c.setInput(text)
		c.index.Filter(text)
	}
	return ok
}

// KeepText reports whether successful commands keep the input.
func (c *Console) KeepText() bool { return c.keepText }

// SetKeepText sets the keep-text toggle and refocuses the input.
func (c *Console) SetKeepText(keep bool) {
	c.keepText = keep
	c.view.SetInput(c.input)
	c.view.FocusInput()
}

// ToggleKeepText flips the keep-text toggle and returns the new state.
func (c *Console) ToggleKeepText() bool {
	c.SetKeepText(!c.keepText)
	return c.keepText
}

// =============================================================================
// LOGS
// =============================================================================

// AddLog appends an engine log event to the pool.
func (c *Console) AddLog(e logsource.Event) {
	c.add(e.Message, e.StackTrace, e.Severity)
}

// Receive implements logsource.Ingester for callers on the UI goroutine.
func (c *Console) Receive(message, stackTrace string, severity logring.Severity) {
	c.add(message, stackTrace, severity)
}

// Handler returns AddLog as a logsource.Handler.
func (c *Console) Handler() logsource.Handler { return c.AddLog }

func (c *Console) add(text, stackTrace string, severity logring.Severity) {
	c.buffer.AddLog(text, stackTrace, severity, logring.IsClickable(text, c.marker, severity))
	c.view.SetCounter(c.buffer.Len())
	c.view.ScrollToBottom()
}

// ResetLogs hides every entry.
func (c *Console) ResetLogs() {
	c.buffer.Reset()
	c.view.SetCounter(0)
}

// ClickSlot runs the click action of slot i, if it has one.
func (c *Console) ClickSlot(i int) bool {
	return c.buffer.Click(i)
}

func (c *Console) onSlotClick(s logring.Slot) {
	loc, err := c.extractor.Extract(s.StackTrace)
	switch {
	case errors.Is(err, logsource.ErrPathNotFound):
		c.logger.Warn("Path wasn't found")
		return
	case errors.Is(err, logsource.ErrLineNotFound):
		c.logger.Warn("line wasn't found", "path", loc.Path)
		return
	}

	if c.opener == nil {
		c.logger.Info(loc.Path, "line", loc.Line)
		return
	}
	msg, err := c.opener.Open(loc)
	if err != nil {
		ConsoleError(c.logger, "opening source failed", "path", loc.Path, "err", err)
		return
	}
	c.logger.Info(msg)
}

// Buffer returns the log pool.
func (c *Console) Buffer() *logring.Buffer { return c.buffer }

// Registry returns the command registry.
func (c *Console) Registry() *commands.Registry { return c.registry }

// Candidates returns the autocomplete keys currently shown.
func (c *Console) Candidates() []string { return c.index.Candidates() }

// Selected returns the highlighted autocomplete key, if any.
func (c *Console) Selected() (string, bool) { return c.index.Selected() }

// Prefix returns the command prefix.
func (c *Console) Prefix() rune { return c.dispatcher.Prefix() }

// Marker returns the tag of the console's own lines.
func (c *Console) Marker() string { return c.marker }

// OnLog registers fn for the console's own lines, after they are added to
// the log pool. The returned func removes it.
func (c *Console) OnLog(fn LogListener) (remove func()) {
	c.listenerID++
	id := c.listenerID
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

func (c *Console) notifyListeners(tag logring.Tag, msg string) {
	for _, l := range c.listeners {
		l.fn(tag, msg)
	}
}

// Logger returns the logger whose lines appear in the console.
func (c *Console) Logger() *log.Logger { return c.logger }
