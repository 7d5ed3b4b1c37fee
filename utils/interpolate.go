// SPDX-License-Identifier: EPL-2.0

package utils

// CatmullRom evaluates the Catmull-Rom spline through four consecutive
// samples at t, the fractional position between y1 and y2 (0 <= t <= 1).
// The curve passes through y1 at t=0 and y2 at t=1.
func CatmullRom(y0, y1, y2, y3, t float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2

	return ((a0*t+a1)*t+a2)*t + y1
}

// LowPass is one step of a one-pole low-pass filter:
// y[n] = alpha*x[n] + (1-alpha)*y[n-1].
func LowPass(alpha, x, prev float32) float32 {
	return alpha*x + (1-alpha)*prev
}
