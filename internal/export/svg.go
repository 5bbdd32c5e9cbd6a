package export

import (
	"fmt"
	"strings"

	"github.com/rykrr/pyfire/internal/flame"
)

const background = "#0a0a0a"

// FrameToSVG draws every cell of f as a rectangle filled with its xterm
// colour. Colour 0 is left as background. Cells are scale wide and twice as
// tall, matching a terminal's aspect.
func FrameToSVG(f flame.Frame, scale float64) string {
	if f.Width() == 0 || f.Height() == 0 {
		return ""
	}
	cw, ch := scale, 2*scale
	width := float64(f.Width()) * cw
	height := float64(f.Height()) * ch

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	for y := 0; y < f.Height(); y++ {
		row := f.Row(y)
		for x := 0; x < len(row); {
			color := row[x].Color
			run := 1
			for x+run < len(row) && row[x+run].Color == color {
				run++
			}
			if color != 0 {
				sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(x)*cw, float64(y)*ch, float64(run)*cw, ch, XtermHex(color)))
			}
			x += run
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values left to right as a polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	span *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	last := float64(len(values) - 1)
	for i, v := range values {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-lo)/span*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

var ansi16 = [16][3]uint8{
	{0, 0, 0}, {128, 0, 0}, {0, 128, 0}, {128, 128, 0},
	{0, 0, 128}, {128, 0, 128}, {0, 128, 128}, {192, 192, 192},
	{128, 128, 128}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{0, 0, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

// XtermHex returns the #rrggbb value of a 256-colour index.
func XtermHex(c uint8) string {
	var rgb [3]uint8
	switch {
	case c < 16:
		rgb = ansi16[c]
	case c < 232:
		i := c - 16
		rgb = [3]uint8{cubeLevels[i/36], cubeLevels[(i/6)%6], cubeLevels[i%6]}
	default:
		g := 8 + 10*(c-232)
		rgb = [3]uint8{g, g, g}
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}
