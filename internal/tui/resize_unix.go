//go:build unix

package tui

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/rykrr/pyfire/internal/pipeline"
)

// WatchResize calls sig.Signal on every SIGWINCH until ctx ends.
func WatchResize(ctx context.Context, sig pipeline.Signaler) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGWINCH)
	defer signal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			sig.Signal()
		}
	}
}
