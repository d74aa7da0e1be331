package pipeline

import (
	"image"
	"sync"

	"go.uber.org/atomic"
)

// Mailbox hands the latest decoded frame from a decoding goroutine to the
// render loop. A new frame overwrites an unconsumed one; nothing queues.
type Mailbox struct {
	mu      sync.Mutex
	pending image.Image
	closed  bool

	published atomic.Uint64
	drops     atomic.Uint64
}

func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Publish never blocks. The caller must not modify frame afterwards.
func (m *Mailbox) Publish(frame image.Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	if m.pending != nil {
		m.drops.Inc()
	}
	m.pending = frame
	m.published.Inc()
}

func (m *Mailbox) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Frame takes the pending frame. It returns ErrNoFrame when nothing is
// pending and ErrSourceClosed once the mailbox is closed and drained.
func (m *Mailbox) Frame() (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		if m.closed {
			return nil, ErrSourceClosed
		}
		return nil, ErrNoFrame
	}
	frame := m.pending
	m.pending = nil
	return frame, nil
}

// Close marks the producer as finished. A pending frame can still be taken.
func (m *Mailbox) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *Mailbox) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed && m.pending == nil
}

func (m *Mailbox) Published() uint64 { return m.published.Load() }

// Drops counts frames overwritten before the render loop took them.
func (m *Mailbox) Drops() uint64 { return m.drops.Load() }
