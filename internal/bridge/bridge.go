// Package bridge carries commands from other goroutines (the tray's menu
// thread, the IPC server) into the UI event loop. Producers only send
// immutable Command values; the UI goroutine is the sole consumer.
package bridge

import "sync"

// Command is a request for the UI to change its own visibility or lifetime.
type Command int

const (
	Show Command = iota + 1
	Hide
	Refresh
	Exit
)

func (c Command) String() string {
	switch c {
	case Show:
		return "show"
	case Hide:
		return "hide"
	case Refresh:
		return "refresh"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Bridge is an unbounded FIFO. Send never blocks and never drops; commands
// are delivered in send order until Close.
type Bridge struct {
	mu     sync.Mutex
	queue  []Command
	closed bool
	wake   chan struct{}
	out    chan Command
	done   chan struct{}
}

// New starts a bridge. Close must be called to release its pump goroutine.
func New() *Bridge {
	b := &Bridge{
		wake: make(chan struct{}, 1),
		out:  make(chan Command),
		done: make(chan struct{}),
	}
	go b.pump()
	return b
}

// Send enqueues c. It reports false once the bridge is closed.
func (b *Bridge) Send(c Command) bool {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return false
	}
	b.queue = append(b.queue, c)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
	return true
}

// C returns the receive side. It is closed after Close, once pending
// commands have been discarded.
func (b *Bridge) C() <-chan Command {
	return b.out
}

// Recv blocks for the next command. ok is false when the bridge is closed.
func (b *Bridge) Recv() (Command, bool) {
	c, ok := <-b.out
	return c, ok
}

// Close stops delivery. Commands not yet received are dropped.
func (b *Bridge) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.queue = nil
	b.mu.Unlock()
	close(b.done)
}

func (b *Bridge) pump() {
	defer close(b.out)
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.mu.Unlock()
			select {
			case <-b.wake:
				continue
			case <-b.done:
				return
			}
		}
		next := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()

		select {
		case b.out <- next:
		case <-b.done:
			return
		}
	}
}
