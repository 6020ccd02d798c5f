package astro

import "math"

// Degree-based trigonometry; every angle in this package is in degrees.

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

func sin(d float64) float64      { return math.Sin(degToRad(d)) }
func cos(d float64) float64      { return math.Cos(degToRad(d)) }
func tan(d float64) float64      { return math.Tan(degToRad(d)) }
func asin(x float64) float64     { return radToDeg(math.Asin(x)) }
func acos(x float64) float64     { return radToDeg(math.Acos(x)) }
func atan(x float64) float64     { return radToDeg(math.Atan(x)) }
func atan2(y, x float64) float64 { return radToDeg(math.Atan2(y, x)) }

// fixAngle wraps a into [0, 360).
func fixAngle(a float64) float64 { return wrap(a, 360) }

// fixHour wraps h into [0, 24).
func fixHour(h float64) float64 { return wrap(h, 24) }

func wrap(a, b float64) float64 {
	a -= b * math.Floor(a/b)
	if a >= b {
		// -tiny wraps to b after rounding.
		a = 0
	}
	return a
}
