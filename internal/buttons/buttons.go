package buttons

import (
	"context"
	"sync"
)

type Event string

const (
	Generate Event = "generate"
	Back     Event = "back"
	Exit     Event = "exit"
)

type Buttons interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

type NoopButtons struct{ ch chan Event }

func NewNoopButtons() *NoopButtons { return &NoopButtons{ch: make(chan Event)} }

func (n *NoopButtons) Start(ctx context.Context) error { return nil }
func (n *NoopButtons) Stop() error                     { close(n.ch); return nil }
func (n *NoopButtons) Events() <-chan Event            { return n.ch }

// ChanButtons delivers events pushed with Press. The simulator and tests use it.
type ChanButtons struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

func NewChanButtons() *ChanButtons { return &ChanButtons{ch: make(chan Event, 8)} }

func (b *ChanButtons) Start(ctx context.Context) error { return nil }

func (b *ChanButtons) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
	return nil
}

func (b *ChanButtons) Events() <-chan Event { return b.ch }

// Press queues ev. It reports false when the queue is full or stopped.
func (b *ChanButtons) Press(ev Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	select {
	case b.ch <- ev:
		return true
	default:
		return false
	}
}
