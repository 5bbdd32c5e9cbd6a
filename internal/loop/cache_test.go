package loop_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rykrr/pyfire/internal/flame"
	"github.com/rykrr/pyfire/internal/loop"
)

// numbered returns a 3x2 frame whose content is determined by n.
func numbered(n int) flame.Frame {
	cells := make([]flame.Cell, 6)
	for i := range cells {
		cells[i] = flame.Cell{Color: uint8(n % 256), Glyph: rune('A' + n/256)}
	}
	return flame.NewFrame(3, 2, cells)
}

// stream emits warmup distinct frames, then repeats a period-p pattern.
func stream(warmup, period int) func(i int) flame.Frame {
	return func(i int) flame.Frame {
		if i < warmup {
			return numbered(1000 + i)
		}
		return numbered((i - warmup) % period)
	}
}

var _ = Describe("Cache", func() {
	DescribeTable("closes a cycle of exactly the forcing period",
		func(warmup, period, minFrames int) {
			c := loop.New(minFrames)
			next := stream(warmup, period)

			closedAt := -1
			for i := 0; i < warmup+period+1; i++ {
				if c.Observe(next(i)) == loop.CycleClosed {
					closedAt = i
					break
				}
			}

			Expect(closedAt).To(Equal(warmup + period))
			Expect(c.Replaying()).To(BeTrue())
			Expect(c.Len()).To(Equal(period))
			Expect(c.Frames()[0].Equal(next(closedAt))).To(BeTrue())
		},
		Entry("no warmup", 0, 4, 1),
		Entry("short warmup", 3, 4, 1),
		Entry("long warmup", 25, 7, 3),
		Entry("period of two", 5, 2, 1),
	)

	It("does not declare a cycle while the buffer is at or below the threshold", func() {
		c := loop.New(3)
		Expect(c.Observe(numbered(1))).To(Equal(loop.Continue))
		Expect(c.Observe(numbered(1))).To(Equal(loop.Continue))
		Expect(c.Observe(numbered(1))).To(Equal(loop.Continue))
		Expect(c.Observe(numbered(1))).To(Equal(loop.Continue))
		Expect(c.Len()).To(Equal(4))

		Expect(c.Observe(numbered(1))).To(Equal(loop.CycleClosed))
		Expect(c.Len()).To(Equal(1))
	})

	It("keeps the loop to one period when an early repeat was buffered", func() {
		c := loop.New(5)
		pattern := []int{1, 2, 1, 2, 1, 2, 1}
		var last loop.Decision
		for _, n := range pattern {
			last = c.Observe(numbered(n))
		}
		Expect(last).To(Equal(loop.CycleClosed))
		Expect(c.Len()).To(Equal(2))
		Expect(c.Next().Equal(numbered(1))).To(BeTrue())
		Expect(c.Next().Equal(numbered(2))).To(BeTrue())
	})

	It("treats a hash collision with different content as Continue", func() {
		c := loop.New(1, loop.WithHasher(func(flame.Frame) uint64 { return 42 }))
		for i := 0; i < 10; i++ {
			Expect(c.Observe(numbered(i))).To(Equal(loop.Continue))
		}
		Expect(c.Replaying()).To(BeFalse())
		Expect(c.Collisions()).To(Equal(8))
		Expect(c.Len()).To(Equal(10))

		Expect(c.Observe(numbered(4))).To(Equal(loop.CycleClosed))
		Expect(c.Len()).To(Equal(6))
	})

	It("replays the closed loop forever", func() {
		c := loop.New(1)
		next := stream(2, 3)
		i := 0
		for c.Observe(next(i)) == loop.Continue {
			i++
		}

		for k := 0; k < 12; k++ {
			Expect(c.Next().Equal(next(i + k))).To(BeTrue(), "replay frame %d", k)
		}
		Expect(c.Observe(numbered(999))).To(Equal(loop.CycleClosed))
	})

	It("bounds the candidate buffer when no cycle closes", func() {
		c := loop.New(1, loop.WithMaxFrames(8))
		for i := 0; i < 20; i++ {
			Expect(c.Observe(numbered(i))).To(Equal(loop.Continue))
			Expect(c.Len()).To(BeNumerically("<=", 8))
		}
		Expect(c.Overflows()).To(Equal(2))
	})

	It("returns to observing after Reset", func() {
		c := loop.New(1)
		for _, n := range []int{1, 2, 1} {
			c.Observe(numbered(n))
		}
		Expect(c.Replaying()).To(BeTrue())

		c.Reset()
		Expect(c.Replaying()).To(BeFalse())
		Expect(c.Len()).To(BeZero())
		Expect(c.Observe(numbered(1))).To(Equal(loop.Continue))
		Expect(func() { c.Next() }).To(Panic())
	})

	It("names decisions", func() {
		Expect(loop.Continue.String()).To(Equal("continue"))
		Expect(loop.CycleClosed.String()).To(Equal("cycle-closed"))
	})
})
