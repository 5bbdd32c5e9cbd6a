// Package render turns heat fields into frames of colored glyphs.
//
// A [Palette] is a fixed ten-entry table selected by charset name; a
// [Renderer] multiplies each visible cell by ten, floors it and looks the bin
// up in the palette. Bins outside the table are clamped under the [Clamp]
// policy or rejected under [Strict].
package render
