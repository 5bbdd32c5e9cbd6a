package render

import (
	"sort"
	"strings"

	"github.com/rykrr/pyfire/internal/flame"
)

// Bins is the number of quantization buckets every palette provides.
const Bins = 10

var (
	fireColors   = [Bins]uint8{0, 196, 202, 208, 214, 226, 226, 226, 226, 226}
	compatColors = [Bins]uint8{0, 196, 196, 214, 214, 214, 214, 214, 226, 226}
)

type charset struct {
	glyphs string
	colors [Bins]uint8
}

var charsets = map[string]charset{
	"numbers": {"0123456789", fireColors},
	"dither":  {" ░░░░░░░░░", fireColors},
	"fade":    {" ░▒▓██████", fireColors},
	"chars":   {" .,;:!!!!!", fireColors},
	"compat":  {" ░▒▓█▓▒░██", compatColors},
}

// Palette maps a quantized intensity to a colored glyph.
type Palette struct {
	name  string
	cells [Bins]flame.Cell
}

// LookupPalette builds the palette for a charset name.
func LookupPalette(name string) (*Palette, error) {
	cs, ok := charsets[name]
	if !ok {
		return nil, flame.Configf("mode", "unknown charset %q (available: %s)", name, strings.Join(PaletteNames(), ", "))
	}
	p := &Palette{name: name}
	i := 0
	for _, r := range cs.glyphs {
		p.cells[i] = flame.Cell{Color: cs.colors[i], Glyph: r}
		i++
	}
	return p, nil
}

// PaletteNames returns the charset names in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(charsets))
	for name := range charsets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Palette) Name() string { return p.name }

// Cell returns the entry for bin, which must lie in [0, Bins).
func (p *Palette) Cell(bin int) flame.Cell {
	return p.cells[bin]
}

// Cells returns the whole table, coldest first.
func (p *Palette) Cells() [Bins]flame.Cell {
	return p.cells
}
