// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package consoleview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/devconsole/internal/logsource"
)

// EngineEventMsg delivers one engine log event to the UI goroutine.
type EngineEventMsg struct {
	Event logsource.Event
}

// scrollMsg runs the deferred scroll to the bottom of the log area. It is
// handled after the frame that added the entry has rendered.
type scrollMsg struct{}

func scrollCmd() tea.Msg { return scrollMsg{} }

// waitForEvent blocks on the next engine event. It is re-issued after each
// delivery; a closed channel ends it.
func waitForEvent(events <-chan logsource.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return EngineEventMsg{Event: e}
	}
}

// Forward attaches a handler to recv that hands events to the returned
// channel. Events queued before the call are replayed into it first. Once
// recv is detached, a send that finds the channel full is dropped.
func Forward(recv *logsource.Receiver, size int) <-chan logsource.Event {
	if size < 1 {
		size = 1
	}
	// Room for the replay, which happens before anything reads.
	size += recv.Pending()
	ch := make(chan logsource.Event, size)
	recv.Attach(func(e logsource.Event) {
		select {
		case ch <- e:
		case <-recv.Detached():
		}
	})
	return ch
}
