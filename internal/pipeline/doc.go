// Package pipeline runs the fire as a producer/consumer pair.
//
// The producer steps a [sim.Simulator], renders each field with a
// [render.Renderer] and, when ignition caching is on, feeds every frame to a
// [loop.Cache]. Frames go into a bounded [Buffer]; a full buffer blocks the
// producer. The consumer pops a frame, hands it to a [Display] and waits for
// the pacing interval, so the display cadence and not the simulation rate
// sets the frame rate.
//
// # States
//
//	Simulating -> Replaying   the cache closed a cycle; no more simulation
//	any        -> Draining    the resize [Token] fired; buffer discarded,
//	                          cache reset, size re-read, fresh zero field
//
// The resize token is checked once at the top of every producer tick. A push
// blocked on a full buffer is abandoned when the token fires, so no frame
// from the old size is queued after a restart.
package pipeline
