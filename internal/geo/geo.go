// Package geo measures distances and directions on the Earth's surface.
package geo

import (
	"math"

	"github.com/soniakeys/unit"

	"github.com/smokyabdulrahman/salah/internal/astro"
)

// EarthRadius is the mean radius used by Distance, in kilometres.
const EarthRadius = 6371.0

// Kaaba is the direction every Qibla bearing points to.
var Kaaba = astro.Location{Latitude: 21.4225, Longitude: 39.8262}

// Distance returns the great-circle distance between a and b in kilometres.
// Elevation is ignored.
func Distance(a, b astro.Location) float64 {
	φ1 := unit.AngleFromDeg(a.Latitude)
	φ2 := unit.AngleFromDeg(b.Latitude)
	dφ := unit.AngleFromDeg(b.Latitude - a.Latitude).Div(2)
	dλ := unit.AngleFromDeg(b.Longitude - a.Longitude).Div(2)

	h := dφ.Sin()*dφ.Sin() + φ1.Cos()*φ2.Cos()*dλ.Sin()*dλ.Sin()
	h = math.Min(1, math.Max(0, h))
	return 2 * EarthRadius * math.Asin(math.Sqrt(h))
}

// Bearing returns the initial great-circle course from a to b, in degrees
// clockwise from true north, in [0, 360).
func Bearing(a, b astro.Location) float64 {
	φ1 := unit.AngleFromDeg(a.Latitude)
	φ2 := unit.AngleFromDeg(b.Latitude)
	dλ := unit.AngleFromDeg(b.Longitude - a.Longitude)

	y := dλ.Sin() * φ2.Cos()
	x := φ1.Cos()*φ2.Sin() - φ1.Sin()*φ2.Cos()*dλ.Cos()
	return unit.Angle(math.Atan2(y, x)).Mod1().Deg()
}

// Direction describes the Qibla as seen from one place.
type Direction struct {
	Bearing  float64 `json:"bearing"`     // degrees from true north
	Distance float64 `json:"distance_km"` // kilometres to the Kaaba
	Compass  string  `json:"compass"`     // 16-wind point, e.g. "WNW"
}

// Qibla returns the direction of the Kaaba from loc. At the Kaaba itself the
// bearing is 0.
func Qibla(loc astro.Location) Direction {
	b := Bearing(loc, Kaaba)
	return Direction{
		Bearing:  b,
		Distance: Distance(loc, Kaaba),
		Compass:  CompassPoint(b),
	}
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint names the 16-wind sector containing bearing.
func CompassPoint(bearing float64) string {
	deg := unit.AngleFromDeg(bearing).Mod1().Deg()
	return compassPoints[int(math.Round(deg/22.5))%16]
}
