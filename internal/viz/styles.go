package viz

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rykrr/pyfire/internal/flame"
)

type styles struct {
	label   lipgloss.Style
	value   lipgloss.Style
	hint    lipgloss.Style
	graph   lipgloss.Style
	running lipgloss.Style
	replay  lipgloss.Style
	drain   lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		label:   lipgloss.NewStyle().Foreground(t.Muted),
		value:   lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		graph:   lipgloss.NewStyle().Foreground(t.Primary),
		running: lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		replay:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		drain:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
	}
}

// cellStyles caches one foreground style per xterm colour index.
type cellStyles map[uint8]lipgloss.Style

func (cs cellStyles) get(color uint8) lipgloss.Style {
	s, ok := cs[color]
	if !ok {
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(int(color))))
		cs[color] = s
	}
	return s
}

// renderFrame draws f row by row, styling runs of equal colour together.
func renderFrame(f flame.Frame, cs cellStyles) string {
	var b strings.Builder
	var run strings.Builder
	for y := 0; y < f.Height(); y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := f.Row(y)
		for i := 0; i < len(row); {
			j := i
			run.Reset()
			for j < len(row) && row[j].Color == row[i].Color {
				run.WriteRune(row[j].Glyph)
				j++
			}
			b.WriteString(cs.get(row[i].Color).Render(run.String()))
			i = j
		}
	}
	return b.String()
}

// Swatch renders one palette bin as a coloured glyph followed by its index,
// for previews outside the animation.
func Swatch(c flame.Cell, bin int) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(int(c.Color))))
	return style.Render(strings.Repeat(string(c.Glyph), 3)) + lipgloss.NewStyle().Faint(true).Render(strconv.Itoa(bin))
}
