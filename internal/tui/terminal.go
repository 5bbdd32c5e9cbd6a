package tui

import (
	"context"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/rykrr/pyfire/internal/flame"
)

const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

// Terminal paints frames with raw ANSI sequences.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
	fd  int
	buf []byte
}

// NewTerminal writes to out and queries the size of fd.
func NewTerminal(out io.Writer, fd int) *Terminal {
	return &Terminal{out: out, fd: fd}
}

// Stdout returns a terminal on the process's standard output.
func Stdout() *Terminal {
	return NewTerminal(os.Stdout, int(os.Stdout.Fd()))
}

func (t *Terminal) IsTerminal() bool { return term.IsTerminal(t.fd) }

// Size returns the window size, or 80x24 when it cannot be read.
func (t *Terminal) Size() (int, int, error) {
	w, h, err := term.GetSize(t.fd)
	if err != nil || w <= 0 || h <= 0 {
		return fallbackWidth, fallbackHeight, nil
	}
	return w, h, nil
}

func (t *Terminal) Display(_ context.Context, f flame.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = AppendFrame(t.buf[:0], f)
	_, err := t.out.Write(t.buf)
	return err
}

// SetCursorVisible hides the cursor, or shows it and resets colours.
func (t *Terminal) SetCursorVisible(visible bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	seq := HideCursor
	if visible {
		seq = ShowCursor + Reset
	}
	_, err := io.WriteString(t.out, seq)
	return err
}
