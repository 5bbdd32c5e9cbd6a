package pipeline

import (
	"context"
	"errors"

	"github.com/rykrr/pyfire/internal/flame"
)

// ErrInterrupted is returned by Push when the interrupt channel closes first.
var ErrInterrupted = errors.New("pipeline: push interrupted")

// Buffer is a FIFO of frames with fixed capacity.
type Buffer struct {
	ch chan flame.Frame
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{ch: make(chan flame.Frame, capacity)}
}

// Push blocks while the buffer is full.
func (b *Buffer) Push(ctx context.Context, f flame.Frame, interrupt <-chan struct{}) error {
	select {
	case b.ch <- f:
		return nil
	case <-interrupt:
		return ErrInterrupted
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop blocks while the buffer is empty.
func (b *Buffer) Pop(ctx context.Context) (flame.Frame, error) {
	select {
	case f := <-b.ch:
		return f, nil
	case <-ctx.Done():
		return flame.Frame{}, ctx.Err()
	}
}

// Drain discards every queued frame and returns how many there were.
func (b *Buffer) Drain() int {
	n := 0
	for {
		select {
		case <-b.ch:
			n++
		default:
			return n
		}
	}
}

func (b *Buffer) Len() int { return len(b.ch) }
func (b *Buffer) Cap() int { return cap(b.ch) }
