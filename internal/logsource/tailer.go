// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logsource feeds engine log events to the console.
package logsource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/jeranaias/devconsole/internal/logring"
)

// =============================================================================
// LOG FILE TAILER
// =============================================================================

// TailerOptions configures a Tailer.
type TailerOptions struct {
	// MaxEventsPerSec caps delivery; zero means unlimited
	MaxEventsPerSec float64

	// Burst is the number of events delivered at once before the cap applies
	Burst int

	// FromStart reads the existing file content first instead of only what
	// is appended after Watch
	FromStart bool

	Logger *log.Logger
}

// Tailer follows an engine log file and hands parsed entries to an Ingester.
type Tailer struct {
	path    string
	sink    Ingester
	watcher *fsnotify.Watcher
	limiter *rate.Limiter
	logger  *log.Logger
	opts    TailerOptions

	mu      sync.Mutex
	offset  int64
	partial []byte
	parser  Parser
	dropped int

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewTailer creates a tailer for path. Nothing is read until Watch.
func NewTailer(path string, sink Ingester, opts TailerOptions) (*Tailer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve log path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	limit := rate.Inf
	if opts.MaxEventsPerSec > 0 {
		limit = rate.Limit(opts.MaxEventsPerSec)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Tailer{
		path:    abs,
		sink:    sink,
		watcher: watcher,
		limiter: rate.NewLimiter(limit, burst),
		logger:  opts.Logger,
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}, nil
}

// Path returns the absolute path being followed.
func (t *Tailer) Path() string { return t.path }

// Watch starts following the file. The parent directory is watched so the
// file may be created, truncated or replaced while the tailer runs.
func (t *Tailer) Watch() error {
	if t.opts.FromStart {
		if err := t.ReadNew(); err != nil && !os.IsNotExist(err) {
			return err
		}
	} else if info, err := os.Stat(t.path); err == nil {
		t.mu.Lock()
		t.offset = info.Size()
		t.mu.Unlock()
	}

	if err := t.watcher.Add(filepath.Dir(t.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(t.path), err)
	}

	t.started = true
	go t.processEvents()
	return nil
}

// Close stops following and delivers any entry still being parsed.
func (t *Tailer) Close() error {
	t.cancel()
	err := t.watcher.Close()
	if t.started {
		<-t.done
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.partial) > 0 {
		t.feed(string(t.partial))
		t.partial = nil
	}
	if e, ok := t.parser.Flush(); ok {
		t.emit(e)
	}
	return err
}

func (t *Tailer) processEvents() {
	defer close(t.done)
	defer func() {
		if r := recover(); r != nil && t.logger != nil {
			t.logger.Error("log tailer stopped", "path", t.path, "panic", r)
		}
	}()

	for {
		select {
		case <-t.ctx.Done():
			return

		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != t.path {
				continue
			}

			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				t.rewind()
				continue
			}
			if event.Has(fsnotify.Create) {
				t.rewind()
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if err := t.ReadNew(); err != nil && t.logger != nil {
					t.logger.Warn("reading engine log failed", "path", t.path, "err", err)
				}
			}

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			if t.logger != nil {
				t.logger.Warn("engine log watcher error", "err", err)
			}
		}
	}
}

func (t *Tailer) rewind() {
	t.mu.Lock()
	t.offset = 0
	t.partial = nil
	t.mu.Unlock()
}

// ReadNew reads whatever was appended since the last read. A file shorter
// than the last offset is taken to be truncated and is read from the start.
func (t *Tailer) ReadNew() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.Open(t.path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() < t.offset {
		t.offset = 0
		t.partial = nil
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return err
	}

	chunk, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	t.offset += int64(len(chunk))

	data := append(t.partial, chunk...)
	for {
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			break
		}
		t.feed(string(data[:nl]))
		data = data[nl+1:]
	}
	t.partial = append([]byte(nil), data...)
	return nil
}

func (t *Tailer) feed(line string) {
	if e, ok := t.parser.Feed(line); ok {
		t.emit(e)
	}
}

// emit delivers one entry unless the rate cap is exceeded. Dropped entries
// are reported once delivery resumes.
func (t *Tailer) emit(e Event) {
	if !t.limiter.Allow() {
		t.dropped++
		return
	}
	if t.dropped > 0 {
		t.sink.Receive(fmt.Sprintf("%d engine log entries dropped", t.dropped), "", logring.SeverityWarning)
		t.dropped = 0
	}
	t.sink.Receive(e.Message, e.StackTrace, e.Severity)
}

// Dropped returns the number of entries skipped since the last delivery.
func (t *Tailer) Dropped() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropped
}
