package tui

import (
	"strconv"
	"unicode/utf8"

	"github.com/rykrr/pyfire/internal/flame"
)

const (
	Home       = "\x1b[H"
	HideCursor = "\x1b[?25l"
	ShowCursor = "\x1b[?25h"
	Reset      = "\x1b[0m"
)

// AppendFrame appends the escape stream that paints f from the home
// position. A colour sequence is emitted only when the colour changes.
func AppendFrame(dst []byte, f flame.Frame) []byte {
	dst = append(dst, Home...)
	color := -1
	for r := 0; r < f.Height(); r++ {
		if r > 0 {
			dst = append(dst, '\n')
		}
		for c := 0; c < f.Width(); c++ {
			cell := f.At(r, c)
			if int(cell.Color) != color {
				color = int(cell.Color)
				dst = appendColor(dst, cell.Color)
			}
			dst = utf8.AppendRune(dst, cell.Glyph)
		}
	}
	return dst
}

// Encode returns the escape stream for f.
func Encode(f flame.Frame) []byte {
	return AppendFrame(make([]byte, 0, f.Width()*f.Height()*4+16), f)
}

func appendColor(dst []byte, color uint8) []byte {
	dst = append(dst, "\x1b[38;5;"...)
	dst = strconv.AppendUint(dst, uint64(color), 10)
	return append(dst, 'm')
}
