//go:build !unix

package tui

import (
	"context"

	"github.com/rykrr/pyfire/internal/pipeline"
)

// WatchResize blocks until ctx ends; there is no resize signal here.
func WatchResize(ctx context.Context, sig pipeline.Signaler) {
	<-ctx.Done()
}
