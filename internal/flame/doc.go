// Package flame provides the core primitives shared by the fire pipeline.
//
// The package defines the values that cross component boundaries:
//
//   - [Cell]: one colored glyph
//   - [Frame]: an immutable grid of cells with a content hash
//   - [Grid]: read-only view of a heat field
//
// and the error kinds surfaced by the simulator, renderer and scheduler:
//
//   - [ErrConfiguration] / [ConfigError]: invalid parameters, fatal
//   - [ErrQuantizationOverflow] / [QuantizationError]: strict render policy only
//
// # Thread Safety
//
// Frames are immutable after construction and may be shared freely between
// the producer and consumer goroutines. Grids are not safe for concurrent use.
package flame
