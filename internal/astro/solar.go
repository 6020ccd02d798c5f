// Package astro computes the Sun's daily geometry for an observer: its
// declination, the equation of time, the UTC instant of solar noon and the
// hour angle at which it crosses any given altitude.
//
// The series are the low-precision ones published by the U.S. Naval
// Observatory; over 1900-2199 they hold the Sun's position to about 0.01°,
// well under a minute of prayer time.
package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/smokyabdulrahman/salah/internal/calendar"
)

const (
	// j2000 is the Julian day of 2000-01-01 12:00 TT.
	j2000 = 2451545.0

	// SunriseAltitude is the altitude of the Sun's centre at apparent
	// sunrise at sea level: refraction plus the solar semi-diameter.
	SunriseAltitude = -0.833

	// acosEpsilon is how far outside [-1, 1] an arccos argument may drift
	// from rounding before the altitude is treated as unreachable.
	acosEpsilon = 1e-9
)

// Epoch bounds of the dates the solver accepts.
var (
	MinDate = calendar.NewDate(1900, time.January, 1)
	MaxDate = calendar.NewDate(2199, time.December, 31)
)

// SolarDay is the Sun's geometry for one date and location. All angles are
// in degrees.
type SolarDay struct {
	Date     calendar.Date
	Location Location

	JulianDay         float64 // at the observer's approximate local noon
	MeanAnomaly       float64
	MeanLongitude     float64
	EclipticLongitude float64
	Obliquity         float64
	RightAscension    float64 // in degrees, [0, 360)
	Declination       float64

	EquationOfTime time.Duration
	SolarNoon      time.Time // UTC, whole seconds

	// SunriseHourAngle is the hour angle of apparent sunrise and sunset,
	// corrected for elevation. It is only meaningful when HasSunrise is true;
	// polar day and polar night leave it at zero.
	SunriseHourAngle float64
	HasSunrise       bool
}

// Solve computes the SolarDay for date at loc.
func Solve(date calendar.Date, loc Location) (SolarDay, error) {
	if err := loc.Validate(); err != nil {
		return SolarDay{}, err
	}
	if date.IsZero() || date.Before(MinDate) || date.After(MaxDate) {
		return SolarDay{}, &InputError{Field: "date", Value: date, Reason: "must be between " + MinDate.String() + " and " + MaxDate.String()}
	}

	// Julian day at 0h UTC, moved to noon and then to the observer's
	// meridian so the Sun is sampled close to local noon.
	jd := julian.CalendarGregorianToJD(date.Year, int(date.Month), float64(date.Day)) + 0.5 - loc.Longitude/360
	d := jd - j2000

	g := fixAngle(357.529 + 0.98560028*d)
	q := fixAngle(280.459 + 0.98564736*d)
	lambda := fixAngle(q + 1.915*sin(g) + 0.020*sin(2*g))
	eps := 23.439 - 0.00000036*d

	ra := fixAngle(atan2(cos(eps)*sin(lambda), cos(lambda)))
	decl := asin(sin(eps) * sin(lambda))

	// Mean minus apparent right ascension, in hours, wrapped so the
	// q ≈ 0 / RA ≈ 360 crossing does not flip the sign.
	eqtHours := fixHour(q/15-ra/15+12) - 12
	noonHours := 12 - loc.Longitude/15 - eqtHours

	day := SolarDay{
		Date:              date,
		Location:          loc,
		JulianDay:         jd,
		MeanAnomaly:       g,
		MeanLongitude:     q,
		EclipticLongitude: lambda,
		Obliquity:         eps,
		RightAscension:    ra,
		Declination:       decl,
		EquationOfTime:    hoursToDuration(eqtHours),
	}
	day.SolarNoon = day.At(noonHours)

	if h, ok := day.HourAngle(riseAltitude(loc.Elevation)); ok {
		day.SunriseHourAngle = h
		day.HasSunrise = true
	}

	return day, nil
}

// HourAngle returns the hour angle, in degrees, at which the Sun's centre
// stands at altitude degrees. ok is false when the Sun never reaches that
// altitude on this day.
func (s SolarDay) HourAngle(altitude float64) (float64, bool) {
	lat := s.Location.Latitude
	den := cos(lat) * cos(s.Declination)
	if scalar.EqualWithinAbs(den, 0, acosEpsilon) {
		return 0, false
	}

	x := (sin(altitude) - sin(lat)*sin(s.Declination)) / den
	switch {
	case x > 1:
		if !scalar.EqualWithinAbs(x, 1, acosEpsilon) {
			return 0, false
		}
		x = 1
	case x < -1:
		if !scalar.EqualWithinAbs(x, -1, acosEpsilon) {
			return 0, false
		}
		x = -1
	}
	return acos(x), true
}

// AsrAltitude returns the altitude at which an object's shadow is
// shadowFactor times its height plus its shadow at noon.
func (s SolarDay) AsrAltitude(shadowFactor float64) float64 {
	noonShadow := tan(math.Abs(s.Location.Latitude - s.Declination))
	return atan(1 / (shadowFactor + noonShadow))
}

// At converts hours past 00:00 UTC on the solar day's date to an instant,
// rounded to the nearest second.
func (s SolarDay) At(hours float64) time.Time {
	midnight := time.Date(s.Date.Year, s.Date.Month, s.Date.Day, 0, 0, 0, 0, time.UTC)
	return midnight.Add(hoursToDuration(hours)).Round(time.Second)
}

// riseAltitude lowers the horizon for an elevated observer.
func riseAltitude(elevation float64) float64 {
	if elevation <= 0 {
		return SunriseAltitude
	}
	return SunriseAltitude - 0.0347*math.Sqrt(elevation)
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(math.Round(h * float64(time.Hour)))
}
