// Package sim simulates the heat field behind the fire animation.
//
// A [Simulator] owns a zero-initialized field of Height+Clip rows by Width
// columns. Each [Simulator.Step] applies, in order:
//
//  1. diffusion: zero-padded 2D convolution with a 5x5 [Kernel], written to
//     every row except the last
//  2. cooling: every cell multiplied by Beta
//  3. saturation: v = (1-Epsilon)*v + Epsilon*v*tanh(Delta*v)
//  4. ignition: the next [Igniter] vector written into the last row,
//     leaving Margin columns untouched on each side
//
// # Example
//
//	p := sim.DefaultParams()
//	s, err := sim.New(80, 24, p)
//	if err != nil {
//	    return err
//	}
//	s.Step()
//	frame, _ := renderer.Render(s.Field(), p.Clip)
//
// # Thread Safety
//
// A Simulator is owned by a single goroutine. Step may fan the convolution
// out over row chunks internally; results are identical to the serial path.
package sim
