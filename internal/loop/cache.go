// Package loop detects when a stream of frames starts repeating and replays
// the detected cycle.
package loop

import (
	"github.com/rykrr/pyfire/internal/flame"
)

// DefaultMaxFrames bounds the candidate buffer while no cycle has closed.
const DefaultMaxFrames = 4096

type Decision int

const (
	Continue Decision = iota
	CycleClosed
)

func (d Decision) String() string {
	if d == CycleClosed {
		return "cycle-closed"
	}
	return "continue"
}

// Hasher maps a frame to its bucket key.
type Hasher func(flame.Frame) uint64

// Cache accumulates frames until one repeats, then serves the loop forever.
// It is owned by a single goroutine.
type Cache struct {
	minFrames  int
	maxFrames  int
	hash       Hasher
	frames     []flame.Frame
	index      map[uint64][]int
	replay     bool
	cursor     int
	collisions int
	overflows  int
}

type Option func(*Cache)

// WithHasher overrides Frame.Hash as the bucket key.
func WithHasher(h Hasher) Option {
	return func(c *Cache) { c.hash = h }
}

// WithMaxFrames caps the candidate buffer; n <= 0 removes the cap.
func WithMaxFrames(n int) Option {
	return func(c *Cache) { c.maxFrames = n }
}

// New returns a cache that only accepts a repeat once more than minFrames
// frames are buffered.
func New(minFrames int, opts ...Option) *Cache {
	c := &Cache{
		minFrames: minFrames,
		maxFrames: DefaultMaxFrames,
		hash:      flame.Frame.Hash,
		index:     make(map[uint64][]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Observe records f, or closes the loop if f repeats a buffered frame.
// Once the loop is closed Observe is a no-op returning CycleClosed.
func (c *Cache) Observe(f flame.Frame) Decision {
	if c.replay {
		return CycleClosed
	}

	h := c.hash(f)
	if positions, ok := c.index[h]; ok && len(c.frames) > c.minFrames {
		// Latest match first, so the loop is one period long even when an
		// earlier repeat was recorded under the minFrames guard.
		for i := len(positions) - 1; i >= 0; i-- {
			if pos := positions[i]; c.frames[pos].Equal(f) {
				c.close(pos)
				return CycleClosed
			}
		}
		c.collisions++
	}

	if c.maxFrames > 0 && len(c.frames) >= c.maxFrames {
		c.restart()
		c.overflows++
	}
	c.index[h] = append(c.index[h], len(c.frames))
	c.frames = append(c.frames, f)
	return Continue
}

func (c *Cache) close(pos int) {
	loop := make([]flame.Frame, len(c.frames)-pos)
	copy(loop, c.frames[pos:])
	c.frames = loop
	c.index = nil
	c.replay = true
	c.cursor = 0
}

func (c *Cache) restart() {
	c.frames = c.frames[:0:0]
	c.index = make(map[uint64][]int)
}

// Next returns the next frame of the closed loop. It panics before the loop
// has closed.
func (c *Cache) Next() flame.Frame {
	if !c.replay {
		panic("loop: Next called before a cycle closed")
	}
	f := c.frames[c.cursor]
	c.cursor = (c.cursor + 1) % len(c.frames)
	return f
}

// Reset drops all state and returns to observing.
func (c *Cache) Reset() {
	c.restart()
	c.replay = false
	c.cursor = 0
	c.collisions = 0
	c.overflows = 0
}

func (c *Cache) Replaying() bool { return c.replay }

// Len is the candidate buffer length, or the cycle length once replaying.
func (c *Cache) Len() int { return len(c.frames) }

// Frames returns a copy of the buffered frames in order.
func (c *Cache) Frames() []flame.Frame {
	out := make([]flame.Frame, len(c.frames))
	copy(out, c.frames)
	return out
}

// Collisions counts hash matches whose content differed.
func (c *Cache) Collisions() int { return c.collisions }

// Overflows counts candidate buffers discarded at the frame cap.
func (c *Cache) Overflows() int { return c.overflows }
