package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rykrr/pyfire/internal/flame"
	"github.com/rykrr/pyfire/internal/loop"
	"github.com/rykrr/pyfire/internal/render"
	"github.com/rykrr/pyfire/internal/sim"
)

// Input reports the current display size in cells.
type Input interface {
	Size() (width, height int, err error)
}

// Display shows frames. Display is called from the consumer goroutine only.
type Display interface {
	Display(ctx context.Context, f flame.Frame) error
	SetCursorVisible(visible bool) error
}

type State int32

const (
	Simulating State = iota
	Replaying
	Draining
)

func (s State) String() string {
	switch s {
	case Simulating:
		return "simulating"
	case Replaying:
		return "replaying"
	case Draining:
		return "draining"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Config struct {
	Params        sim.Params
	Renderer      *render.Renderer
	Timing        time.Duration
	BufferSize    int
	MinLoop       int // frames buffered before a repeat may close a cycle
	MaxLoopFrames int
	Seed          int64 // 0 seeds from the clock
	SimOptions    []sim.Option
	Logger        *log.Logger
}

// Stats is a point-in-time copy of the scheduler counters.
type Stats struct {
	State     State
	Steps     uint64
	Pushed    uint64
	Displayed uint64
	Replayed  uint64
	Restarts  uint64
	Drained   uint64
	CycleLen  int
	Width     int
	Height    int
}

type Scheduler struct {
	cfg   Config
	in    Input
	out   Display
	tok   *Token
	buf   *Buffer
	cache *loop.Cache
	rng   *rand.Rand
	log   *log.Logger

	state     atomic.Int32
	steps     atomic.Uint64
	pushed    atomic.Uint64
	displayed atomic.Uint64
	replayed  atomic.Uint64
	restarts  atomic.Uint64
	drained   atomic.Uint64
	cycleLen  atomic.Int64
	width     atomic.Int64
	height    atomic.Int64
}

var errResize = errors.New("pipeline: resize requested")

// New validates cfg and wires the scheduler. tok may be shared with a
// resize watcher; nil creates a private token.
func New(cfg Config, in Input, out Display, tok *Token) (*Scheduler, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if tok == nil {
		tok = NewToken()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	maxFrames := cfg.MaxLoopFrames
	if maxFrames == 0 {
		maxFrames = loop.DefaultMaxFrames
	}

	return &Scheduler{
		cfg:   cfg,
		in:    in,
		out:   out,
		tok:   tok,
		buf:   NewBuffer(cfg.BufferSize),
		cache: loop.New(cfg.MinLoop, loop.WithMaxFrames(maxFrames)),
		rng:   rand.New(rand.NewSource(seed)),
		log:   logger,
	}, nil
}

func validateConfig(cfg Config) error {
	if cfg.Renderer == nil {
		return flame.Configf("renderer", "must not be nil")
	}
	if cfg.Timing <= 0 {
		return flame.Configf("timing", "must be positive, got %v", cfg.Timing)
	}
	if cfg.BufferSize < 1 {
		return flame.Configf("buffer", "must be at least 1, got %d", cfg.BufferSize)
	}
	if cfg.MinLoop < 0 {
		return flame.Configf("min_loop", "must be non-negative, got %d", cfg.MinLoop)
	}
	return nil
}

func (s *Scheduler) Token() *Token { return s.tok }

func (s *Scheduler) Stats() Stats {
	return Stats{
		State:     State(s.state.Load()),
		Steps:     s.steps.Load(),
		Pushed:    s.pushed.Load(),
		Displayed: s.displayed.Load(),
		Replayed:  s.replayed.Load(),
		Restarts:  s.restarts.Load(),
		Drained:   s.drained.Load(),
		CycleLen:  int(s.cycleLen.Load()),
		Width:     int(s.width.Load()),
		Height:    int(s.height.Load()),
	}
}

// Run drives producer and consumer until ctx is canceled or either fails.
// The cursor is hidden for the duration and restored on every exit path.
func (s *Scheduler) Run(ctx context.Context) (err error) {
	if err := s.out.SetCursorVisible(false); err != nil {
		return fmt.Errorf("hide cursor: %w", err)
	}
	defer func() {
		if cerr := s.out.SetCursorVisible(true); cerr != nil && err == nil {
			err = fmt.Errorf("show cursor: %w", cerr)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.produce(gctx) })
	g.Go(func() error { return s.consume(gctx) })

	err = g.Wait()
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Scheduler) produce(ctx context.Context) error {
	for {
		s.state.Store(int32(Simulating))
		s.tok.Clear()

		w, h, err := s.in.Size()
		if err != nil {
			return fmt.Errorf("query display size: %w", err)
		}
		opts := append([]sim.Option{sim.WithRand(s.rng)}, s.cfg.SimOptions...)
		sm, err := sim.New(w, h, s.cfg.Params, opts...)
		if err != nil {
			return err
		}
		s.cache.Reset()
		s.cycleLen.Store(0)
		s.width.Store(int64(w))
		s.height.Store(int64(h))
		s.log.Printf("pipeline: simulating %dx%d (clip %d, cache %d)", sm.Width(), sm.Height(), s.cfg.Params.Clip, s.cfg.Params.CacheSize)

		err = s.tick(ctx, sm)
		if errors.Is(err, errResize) {
			continue
		}
		return err
	}
}

func (s *Scheduler) tick(ctx context.Context, sm *sim.Simulator) error {
	caching := s.cfg.Params.CacheSize > 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if s.tok.Requested() {
			s.drainForResize()
			return errResize
		}

		var f flame.Frame
		if s.cache.Replaying() {
			f = s.cache.Next()
			s.replayed.Add(1)
		} else {
			sm.Step()
			s.steps.Add(1)

			var err error
			f, err = s.cfg.Renderer.Render(sm.Field(), s.cfg.Params.Clip)
			if err != nil {
				return fmt.Errorf("render tick %d: %w", sm.Ticks(), err)
			}

			if caching && s.cache.Observe(f) == loop.CycleClosed {
				s.cycleLen.Store(int64(s.cache.Len()))
				s.state.Store(int32(Replaying))
				s.log.Printf("pipeline: cycle of %d frames closed after %d ticks (%d collisions)", s.cache.Len(), sm.Ticks(), s.cache.Collisions())
				f = s.cache.Next()
				s.replayed.Add(1)
			}
		}

		if err := s.buf.Push(ctx, f, s.tok.Done()); err != nil {
			if errors.Is(err, ErrInterrupted) {
				continue
			}
			return err
		}
		s.pushed.Add(1)
	}
}

func (s *Scheduler) drainForResize() {
	s.state.Store(int32(Draining))
	n := s.buf.Drain()
	s.drained.Add(uint64(n))
	s.restarts.Add(1)
	s.log.Printf("pipeline: resize requested, discarded %d buffered frames", n)
}

func (s *Scheduler) consume(ctx context.Context) error {
	timer := time.NewTimer(s.cfg.Timing)
	defer timer.Stop()

	for {
		f, err := s.buf.Pop(ctx)
		if err != nil {
			return err
		}
		if err := s.out.Display(ctx, f); err != nil {
			return fmt.Errorf("display frame: %w", err)
		}
		s.displayed.Add(1)

		timer.Reset(s.cfg.Timing)
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
