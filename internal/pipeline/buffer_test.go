package pipeline_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rykrr/pyfire/internal/flame"
	"github.com/rykrr/pyfire/internal/pipeline"
)

func tagged(n int) flame.Frame {
	return flame.NewFrame(1, 1, []flame.Cell{{Color: uint8(n), Glyph: '#'}})
}

var _ = Describe("Buffer", func() {
	var ctx context.Context

	BeforeEach(func() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		DeferCleanup(cancel)
	})

	It("delivers frames in push order", func() {
		b := pipeline.NewBuffer(4)
		for i := 0; i < 4; i++ {
			Expect(b.Push(ctx, tagged(i), nil)).To(Succeed())
		}
		Expect(b.Len()).To(Equal(4))
		for i := 0; i < 4; i++ {
			f, err := b.Pop(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Equal(tagged(i))).To(BeTrue())
		}
	})

	It("never holds fewer than one slot", func() {
		Expect(pipeline.NewBuffer(0).Cap()).To(Equal(1))
		Expect(pipeline.NewBuffer(-3).Cap()).To(Equal(1))
	})

	It("blocks a push on a full buffer until a pop frees a slot", func() {
		b := pipeline.NewBuffer(1)
		Expect(b.Push(ctx, tagged(0), nil)).To(Succeed())

		done := make(chan error, 1)
		go func() { done <- b.Push(ctx, tagged(1), nil) }()
		Consistently(done, 50*time.Millisecond).ShouldNot(Receive())

		_, err := b.Pop(ctx)
		Expect(err).NotTo(HaveOccurred())
		Eventually(done).Should(Receive(BeNil()))
	})

	It("abandons a blocked push when interrupted", func() {
		b := pipeline.NewBuffer(1)
		Expect(b.Push(ctx, tagged(0), nil)).To(Succeed())

		tok := pipeline.NewToken()
		done := make(chan error, 1)
		go func() { done <- b.Push(ctx, tagged(1), tok.Done()) }()

		tok.Signal()
		Eventually(done).Should(Receive(MatchError(pipeline.ErrInterrupted)))
		Expect(b.Len()).To(Equal(1))
	})

	It("stops waiting when the context ends", func() {
		b := pipeline.NewBuffer(1)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := b.Pop(cctx)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("drains without blocking", func() {
		b := pipeline.NewBuffer(5)
		Expect(b.Drain()).To(BeZero())
		for i := 0; i < 3; i++ {
			Expect(b.Push(ctx, tagged(i), nil)).To(Succeed())
		}
		Expect(b.Drain()).To(Equal(3))
		Expect(b.Len()).To(BeZero())
	})
})

var _ = Describe("Token", func() {
	It("coalesces signals until cleared", func() {
		tok := pipeline.NewToken()
		Expect(tok.Requested()).To(BeFalse())
		Expect(tok.Done()).NotTo(BeClosed())

		tok.Signal()
		tok.Signal()
		Expect(tok.Requested()).To(BeTrue())
		Expect(tok.Done()).To(BeClosed())

		tok.Clear()
		Expect(tok.Requested()).To(BeFalse())
		Expect(tok.Done()).NotTo(BeClosed())
	})

	It("is the resize signaler handed to every display", func() {
		tok := pipeline.NewToken()
		var sig pipeline.Signaler = tok
		sig.Signal()
		Expect(tok.Done()).To(BeClosed())
	})
})
