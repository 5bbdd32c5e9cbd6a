package viz

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rykrr/pyfire/internal/flame"
)

// Sender is the part of *tea.Program the display needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Display forwards frames into a running program.
type Display struct {
	p Sender
}

func NewDisplay(p Sender) *Display { return &Display{p: p} }

func (d *Display) Display(ctx context.Context, f flame.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.p.Send(FrameMsg{Frame: f})
	return nil
}

// SetCursorVisible is a no-op; the program owns the cursor.
func (d *Display) SetCursorVisible(bool) error { return nil }
