// Package keymon classifies raw terminal keypresses into recording control events.
package keymon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Event is one classified keypress.
type Event int

const (
	EventOther Event = iota
	EventConfirm
	EventCancel
)

func (e Event) String() string {
	switch e {
	case EventConfirm:
		return "confirm"
	case EventCancel:
		return "cancel"
	default:
		return "other"
	}
}

// ErrInputClosed indicates stdin closed before a terminal key arrived.
// Callers treat it as equivalent to Cancel.
var ErrInputClosed = errors.New("input stream closed before a terminal key was received")

const (
	keyEnter   = '\r'
	keyNewline = '\n'
	keyEscape  = 0x1b
	keyCtrlC   = 0x03
)

// classify maps one raw input byte to an Event. Enter confirms, Escape
// cancels, and Ctrl-C (delivered as a byte in raw mode, not a signal)
// cancels too so the interrupt path shares the Escape teardown route.
func classify(b byte) Event {
	switch b {
	case keyEnter, keyNewline:
		return EventConfirm
	case keyEscape, keyCtrlC:
		return EventCancel
	default:
		return EventOther
	}
}

// Monitor reads single keypresses from a raw-mode input stream and
// delivers the first terminal event (Confirm or Cancel) on Events.
// Non-terminal keys are ignored and monitoring continues.
type Monitor struct {
	in      io.Reader
	fd      int
	makeRaw func(fd int) (*term.State, error)
	restore func(fd int, state *term.State) error

	events chan Event
	errCh  chan error

	mu      sync.Mutex
	prev    *term.State
	started bool
}

// New builds a monitor over the process's controlling terminal.
func New() *Monitor {
	return newMonitor(os.Stdin, int(os.Stdin.Fd()), term.MakeRaw, term.Restore)
}

func newMonitor(
	in io.Reader,
	fd int,
	makeRaw func(int) (*term.State, error),
	restore func(int, *term.State) error,
) *Monitor {
	return &Monitor{
		in:      in,
		fd:      fd,
		makeRaw: makeRaw,
		restore: restore,
		events:  make(chan Event, 1),
		errCh:   make(chan error, 1),
	}
}

// Start switches the input to raw mode and begins reading keypresses.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return fmt.Errorf("key monitor already started")
	}

	prev, err := m.makeRaw(m.fd)
	if err != nil {
		return fmt.Errorf("enter raw input mode: %w", err)
	}
	m.prev = prev
	m.started = true

	go m.readLoop()
	return nil
}

// readLoop reads one byte at a time until a terminal event or stream closure.
func (m *Monitor) readLoop() {
	var buf [1]byte
	for {
		n, err := m.in.Read(buf[:])
		if n > 0 {
			if ev := classify(buf[0]); ev != EventOther {
				m.events <- ev
				return
			}
		}
		if err != nil {
			m.errCh <- fmt.Errorf("%w: %v", ErrInputClosed, err)
			return
		}
	}
}

// Events delivers at most one terminal event per Start.
func (m *Monitor) Events() <-chan Event {
	return m.events
}

// Err delivers an ErrInputClosed failure when the stream dies first.
func (m *Monitor) Err() <-chan error {
	return m.errCh
}

// Next suspends until a terminal event, a stream failure, or context
// cancellation. It never returns EventOther.
func (m *Monitor) Next(ctx context.Context) (Event, error) {
	select {
	case <-ctx.Done():
		return EventCancel, ctx.Err()
	case err := <-m.errCh:
		return EventCancel, err
	case ev := <-m.events:
		return ev, nil
	}
}

// Stop restores the prior input mode. Safe to call multiple times and
// required on every exit path.
func (m *Monitor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.prev == nil {
		return nil
	}
	prev := m.prev
	m.prev = nil
	if err := m.restore(m.fd, prev); err != nil {
		return fmt.Errorf("restore input mode: %w", err)
	}
	return nil
}
