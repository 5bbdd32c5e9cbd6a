// Package screen displays frames through tcell, which owns the terminal
// state and reports resizes as events.
package screen

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/rykrr/pyfire/internal/flame"
	"github.com/rykrr/pyfire/internal/pipeline"
)

type Screen struct {
	mu   sync.Mutex
	s    tcell.Screen
	base tcell.Style
}

// New initializes the process terminal.
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return Wrap(s)
}

// Wrap initializes s and clears it to black.
func Wrap(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	base := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	s.SetStyle(base)
	s.Clear()
	return &Screen{s: s, base: base}, nil
}

func (sc *Screen) Size() (int, int, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	w, h := sc.s.Size()
	return w, h, nil
}

func (sc *Screen) Display(_ context.Context, f flame.Frame) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	for y := 0; y < f.Height(); y++ {
		for x, cell := range f.Row(y) {
			style := sc.base.Foreground(tcell.PaletteColor(int(cell.Color)))
			sc.s.SetContent(x, y, cell.Glyph, nil, style)
		}
	}
	sc.s.Show()
	return nil
}

// SetCursorVisible only hides; Close restores the terminal.
func (sc *Screen) SetCursorVisible(visible bool) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if !visible {
		sc.s.HideCursor()
	}
	return nil
}

// Events polls input until the screen is closed or ctx ends. Resizes call
// sig.Signal; Escape, Ctrl-C and q call quit.
func (sc *Screen) Events(ctx context.Context, sig pipeline.Signaler, quit func()) {
	go func() {
		<-ctx.Done()
		sc.s.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		ev := sc.s.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			sc.mu.Lock()
			sc.s.Sync()
			sc.mu.Unlock()
			sig.Signal()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				quit()
			}
		}
	}
}

// Close restores the terminal.
func (sc *Screen) Close() {
	sc.s.Fini()
}
