package renderer

import "math"

// BadgePulse maps the typed character count to a glow intensity in [0, 1].
// Keying the pulse off progress instead of wall time makes the badge breathe
// with the typing and freeze with it at the phase boundary.
func BadgePulse(typedChars int) float64 {
	return easeInOutCubic(0.5 + 0.5*math.Sin(float64(typedChars)*0.35))
}

// Parallax returns the gentle card sway for an elapsed time: ±10px
// horizontally, ±5px vertically, one full cycle every ~4 seconds.
func Parallax(elapsed float64) (dx, dy float64) {
	return 10 * math.Sin(elapsed*1.5), 5 * math.Cos(elapsed*1.5)
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// easeInOutCubic applies smooth easing function
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
