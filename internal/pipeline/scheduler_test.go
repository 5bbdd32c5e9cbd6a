package pipeline_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rykrr/pyfire/internal/flame"
	"github.com/rykrr/pyfire/internal/pipeline"
	"github.com/rykrr/pyfire/internal/render"
	"github.com/rykrr/pyfire/internal/sim"
)

type fakeInput struct {
	mu   sync.Mutex
	w, h int
}

func (in *fakeInput) Size() (int, int, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.w, in.h, nil
}

func (in *fakeInput) resize(w, h int) {
	in.mu.Lock()
	in.w, in.h = w, h
	in.mu.Unlock()
}

type fakeDisplay struct {
	mu      sync.Mutex
	frames  []flame.Frame
	cursor  []bool
	gate    chan struct{}
	failOn  int
	failErr error
}

func (d *fakeDisplay) Display(ctx context.Context, f flame.Frame) error {
	if d.gate != nil {
		select {
		case <-d.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failErr != nil && len(d.frames) == d.failOn {
		return d.failErr
	}
	d.frames = append(d.frames, f)
	return nil
}

func (d *fakeDisplay) SetCursorVisible(visible bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cursor = append(d.cursor, visible)
	return nil
}

func (d *fakeDisplay) shown() []flame.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]flame.Frame(nil), d.frames...)
}

func (d *fakeDisplay) cursorCalls() []bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]bool(nil), d.cursor...)
}

// cycling ignites with a fixed sequence of levels, one per tick.
type cycling struct {
	levels []float64
	i      int
}

func (c *cycling) Next(dst []float64) {
	for j := range dst {
		dst[j] = c.levels[c.i]
	}
	c.i = (c.i + 1) % len(c.levels)
}

// shiftParams move every row up by one each tick and never cool, so the
// visible frame is a window onto the last few ignition rows.
func shiftParams() sim.Params {
	p := sim.DefaultParams()
	p.Kernel = [5][5]float64{{}, {0, 0, 1, 0, 0}}
	p.Epsilon = 0
	p.Beta = 1
	p.Margin = 1
	p.Clip = 1
	p.CacheSize = 4
	return p
}

// cold reports whether every cell of f shows the palette's zero bin.
func cold(f flame.Frame, pal *render.Palette) bool {
	for r := 0; r < f.Height(); r++ {
		for _, c := range f.Row(r) {
			if c != pal.Cell(0) {
				return false
			}
		}
	}
	return true
}

func newRenderer(policy render.Policy) *render.Renderer {
	pal, err := render.LookupPalette("numbers")
	Expect(err).NotTo(HaveOccurred())
	return render.New(pal, policy)
}

func baseConfig() pipeline.Config {
	return pipeline.Config{
		Params:     shiftParams(),
		Renderer:   newRenderer(render.Clamp),
		Timing:     time.Millisecond,
		BufferSize: 3,
		MinLoop:    1,
		Seed:       7,
	}
}

func start(s *pipeline.Scheduler) (context.CancelFunc, chan error) {
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	return cancel, errc
}

var _ = Describe("Scheduler", func() {
	It("rejects an incomplete configuration", func() {
		cfg := baseConfig()
		cfg.Renderer = nil
		_, err := pipeline.New(cfg, &fakeInput{w: 6, h: 4}, &fakeDisplay{}, nil)
		Expect(err).To(MatchError(flame.ErrConfiguration))

		cfg = baseConfig()
		cfg.Timing = 0
		_, err = pipeline.New(cfg, &fakeInput{w: 6, h: 4}, &fakeDisplay{}, nil)
		Expect(err).To(MatchError(flame.ErrConfiguration))

		cfg = baseConfig()
		cfg.BufferSize = 0
		_, err = pipeline.New(cfg, &fakeInput{w: 6, h: 4}, &fakeDisplay{}, nil)
		Expect(err).To(MatchError(flame.ErrConfiguration))
	})

	It("stops simulating once the forcing period is detected", func() {
		cfg := baseConfig()
		cfg.SimOptions = []sim.Option{sim.WithIgniter(&cycling{levels: []float64{0.15, 0.35, 0.55, 0.75}})}
		out := &fakeDisplay{}
		s, err := pipeline.New(cfg, &fakeInput{w: 6, h: 4}, out, nil)
		Expect(err).NotTo(HaveOccurred())

		cancel, errc := start(s)
		defer cancel()

		Eventually(func() pipeline.State { return s.Stats().State }, 2*time.Second).Should(Equal(pipeline.Replaying))
		Expect(s.Stats().CycleLen).To(Equal(4))

		steps := s.Stats().Steps
		Eventually(func() uint64 { return s.Stats().Replayed }, 2*time.Second).Should(BeNumerically(">", 12))
		Expect(s.Stats().Steps).To(Equal(steps))

		frames := out.shown()
		n := len(frames)
		Expect(n).To(BeNumerically(">", 8))
		Expect(frames[n-1].Equal(frames[n-5])).To(BeTrue())
		Expect(frames[n-1].Equal(frames[n-2])).To(BeFalse())

		cancel()
		Eventually(errc).Should(Receive(BeNil()))
	})

	It("keeps simulating when caching is off", func() {
		cfg := baseConfig()
		cfg.Params.CacheSize = 0
		cfg.SimOptions = []sim.Option{sim.WithIgniter(sim.Constant(0))}
		s, err := pipeline.New(cfg, &fakeInput{w: 6, h: 4}, &fakeDisplay{}, nil)
		Expect(err).NotTo(HaveOccurred())

		cancel, errc := start(s)
		defer cancel()

		Eventually(func() uint64 { return s.Stats().Steps }, 2*time.Second).Should(BeNumerically(">", 20))
		Expect(s.Stats().State).To(Equal(pipeline.Simulating))
		Expect(s.Stats().Replayed).To(BeZero())

		cancel()
		Eventually(errc).Should(Receive(BeNil()))
	})

	It("blocks the producer when the display falls behind", func() {
		cfg := baseConfig()
		cfg.Params.CacheSize = 0
		out := &fakeDisplay{gate: make(chan struct{})}
		s, err := pipeline.New(cfg, &fakeInput{w: 6, h: 4}, out, nil)
		Expect(err).NotTo(HaveOccurred())

		cancel, errc := start(s)
		defer cancel()

		// One frame sits in the stalled display, the rest fill the buffer.
		want := uint64(cfg.BufferSize + 1)
		Eventually(func() uint64 { return s.Stats().Pushed }).Should(Equal(want))
		Consistently(func() uint64 { return s.Stats().Pushed }, 100*time.Millisecond).Should(Equal(want))
		Expect(s.Stats().Steps).To(BeNumerically("<=", want+1))

		out.gate <- struct{}{}
		Eventually(func() uint64 { return s.Stats().Pushed }).Should(Equal(want + 1))

		cancel()
		Eventually(errc).Should(Receive(BeNil()))
	})

	It("restarts from a cold field at the new size after a resize", func() {
		cfg := baseConfig()
		in := &fakeInput{w: 6, h: 4}
		out := &fakeDisplay{}
		tok := pipeline.NewToken()
		s, err := pipeline.New(cfg, in, out, tok)
		Expect(err).NotTo(HaveOccurred())

		cancel, errc := start(s)
		defer cancel()

		Eventually(func() int { return len(out.shown()) }).Should(BeNumerically(">", 5))

		in.resize(9, 3)
		tok.Signal()

		Eventually(func() int { return s.Stats().Width }).Should(Equal(9))
		Eventually(func() bool {
			for _, f := range out.shown() {
				if f.Width() == 9 {
					return true
				}
			}
			return false
		}).Should(BeTrue())
		Expect(s.Stats().Restarts).To(Equal(uint64(1)))

		frames := out.shown()
		first := -1
		for i, f := range frames {
			if f.Width() == 9 {
				first = i
				break
			}
		}
		Expect(frames[first].Height()).To(Equal(3))
		Expect(cold(frames[first], cfg.Renderer.Palette())).To(BeTrue())
		for _, f := range frames[first:] {
			Expect(f.Width()).To(Equal(9), "no frame from the old size after the restart")
		}

		cancel()
		Eventually(errc).Should(Receive(BeNil()))
	})

	It("returns to simulating after a resize interrupts a replay", func() {
		cfg := baseConfig()
		cfg.SimOptions = []sim.Option{sim.WithIgniter(&cycling{levels: []float64{0.15, 0.35, 0.55, 0.75}})}
		in := &fakeInput{w: 6, h: 4}
		tok := pipeline.NewToken()
		s, err := pipeline.New(cfg, in, &fakeDisplay{}, tok)
		Expect(err).NotTo(HaveOccurred())

		cancel, errc := start(s)
		defer cancel()

		Eventually(func() pipeline.State { return s.Stats().State }, 2*time.Second).Should(Equal(pipeline.Replaying))
		steps := s.Stats().Steps
		Consistently(func() uint64 { return s.Stats().Steps }, 50*time.Millisecond).Should(Equal(steps))

		in.resize(8, 4)
		tok.Signal()

		Eventually(func() int { return s.Stats().Width }, 2*time.Second).Should(Equal(8))
		Eventually(func() uint64 { return s.Stats().Steps }, 2*time.Second).Should(BeNumerically(">", steps))
		Expect(s.Stats().Restarts).To(Equal(uint64(1)))

		// The fresh cache finds the same forcing period at the new width.
		Eventually(func() pipeline.State { return s.Stats().State }, 2*time.Second).Should(Equal(pipeline.Replaying))
		Expect(s.Stats().CycleLen).To(Equal(4))
		Expect(s.Stats().Width).To(Equal(8))

		cancel()
		Eventually(errc).Should(Receive(BeNil()))
	})

	It("surfaces a strict quantization overflow", func() {
		cfg := baseConfig()
		cfg.Params.Alpha = 3
		cfg.Params.CacheSize = 0
		cfg.Renderer = newRenderer(render.Strict)
		cfg.SimOptions = []sim.Option{sim.WithIgniter(sim.Constant(0.9))}
		out := &fakeDisplay{}
		s, err := pipeline.New(cfg, &fakeInput{w: 6, h: 4}, out, nil)
		Expect(err).NotTo(HaveOccurred())

		_, errc := start(s)
		var runErr error
		Eventually(errc, 2*time.Second).Should(Receive(&runErr))

		var qe *flame.QuantizationError
		Expect(errors.As(runErr, &qe)).To(BeTrue())
		Expect(runErr).To(MatchError(flame.ErrQuantizationOverflow))
		Expect(out.cursorCalls()).To(Equal([]bool{false, true}))
	})

	It("stops on a display failure and restores the cursor", func() {
		boom := errors.New("terminal gone")
		cfg := baseConfig()
		out := &fakeDisplay{failOn: 2, failErr: boom}
		s, err := pipeline.New(cfg, &fakeInput{w: 6, h: 4}, out, nil)
		Expect(err).NotTo(HaveOccurred())

		_, errc := start(s)
		var runErr error
		Eventually(errc, 2*time.Second).Should(Receive(&runErr))
		Expect(runErr).To(MatchError(boom))
		Expect(runErr.Error()).To(ContainSubstring("display frame"))
		Expect(out.shown()).To(HaveLen(2))
		Expect(out.cursorCalls()).To(Equal([]bool{false, true}))
	})

	It("names its states", func() {
		Expect(pipeline.Simulating.String()).To(Equal("simulating"))
		Expect(pipeline.Replaying.String()).To(Equal("replaying"))
		Expect(pipeline.Draining.String()).To(Equal("draining"))
	})
})
