// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logsource feeds engine log events to the console.
package logsource

import (
	"sync"

	"github.com/jeranaias/devconsole/internal/logring"
)

// Event is one engine log entry.
type Event struct {
	Message    string
	StackTrace string
	Severity   logring.Severity
}

// Handler consumes events once the console exists.
type Handler func(Event)

// Ingester accepts raw engine log events.
type Ingester interface {
	Receive(message, stackTrace string, severity logring.Severity)
}

// =============================================================================
// EARLY EVENT RECEIVER
// =============================================================================

// Receiver collects events that arrive before a handler is attached and
// replays them, in arrival order, when one is. Receive is safe to call from
// any goroutine. The handler runs outside the lock guarding the receiver's
// state, so Detach never waits on a handler that is blocked.
type Receiver struct {
	// deliver orders handler calls
	deliver sync.Mutex

	mu       sync.Mutex
	pending  []Event
	handler  Handler
	detached chan struct{}
}

// NewReceiver creates a receiver with no handler.
func NewReceiver() *Receiver {
	return &Receiver{}
}

// Receive delivers the event to the handler, or queues it.
func (r *Receiver) Receive(message, stackTrace string, severity logring.Severity) {
	e := Event{Message: message, StackTrace: stackTrace, Severity: severity}

	r.deliver.Lock()
	defer r.deliver.Unlock()

	r.mu.Lock()
	h := r.handler
	if h == nil {
		r.pending = append(r.pending, e)
	}
	r.mu.Unlock()

	if h != nil {
		h(e)
	}
}

// Attach sets the handler and replays queued events to it first.
func (r *Receiver) Attach(h Handler) {
	if h == nil {
		r.Detach()
		return
	}

	r.deliver.Lock()
	defer r.deliver.Unlock()

	r.mu.Lock()
	r.detachLocked()
	r.handler = h
	r.detached = make(chan struct{})
	replay := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, e := range replay {
		h(e)
	}
}

// Detach removes the handler; later events are queued again.
func (r *Receiver) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detachLocked()
}

// Detached returns a channel that is closed when the current handler is
// detached. A handler that can block should give up once it is. With no
// handler attached the channel is already closed.
func (r *Receiver) Detached() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.detached == nil {
		return closedChan
	}
	return r.detached
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

func (r *Receiver) detachLocked() {
	r.handler = nil
	if r.detached != nil {
		close(r.detached)
		r.detached = nil
	}
}

// Pending returns the number of queued events.
func (r *Receiver) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
