// Package viz runs the fire inside a Bubble Tea program with a status bar.
//
// The scheduler sends frames through [Display], which forwards them to the
// program as [FrameMsg]. [Window] is the scheduler's size source: it
// reports the terminal size minus the rows the status bar uses, and signals
// a restart whenever that changes.
//
// # Key Bindings
//
//	Q/Esc  - Quit
//	T      - Cycle status bar themes
//	G      - Toggle the lit-cell graph
package viz
