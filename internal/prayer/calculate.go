package prayer

import (
	"fmt"
	"time"

	"github.com/smokyabdulrahman/salah/internal/astro"
)

// Calculate places every prayer of day under method m.
//
// Calculate never fails as a whole: an entry whose sun angle is unreachable,
// and that the high-latitude rule cannot place either, carries an
// *UnresolvedTimeError while the other entries stay valid. Identical inputs
// give identical output.
func Calculate(day astro.SolarDay, m Method) Schedule {
	c := newCalc(day, m)

	fajr := c.morning(Fajr, m.FajrAngle)
	sunrise := c.sunrise()
	dhuhr := Prayer{Name: Dhuhr, Time: day.SolarNoon.Add(m.DhuhrMargin)}
	asr := c.asr()
	maghrib := c.maghrib()
	isha := c.isha(maghrib)
	imsak := c.imsak(fajr)
	midnight := c.midnight(fajr)

	prayers := []Prayer{imsak, fajr, sunrise, dhuhr, asr, maghrib, isha, midnight}
	for i := range prayers {
		if prayers[i].Resolved() {
			prayers[i].Time = prayers[i].Time.Add(m.Offsets[prayers[i].Name]).UTC()
		}
	}

	return Schedule{
		Date:     day.Date,
		Location: day.Location,
		Method:   m,
		Solar:    day,
		Prayers:  prayers,
	}
}

// calc works in hours past 00:00 UTC of the solar day's date.
type calc struct {
	day  astro.SolarDay
	m    Method
	noon float64

	// rise is the sunrise hour angle in hours; night runs from sunset to
	// the next sunrise. Both are only set when hasNight is true.
	rise     float64
	night    float64
	hasNight bool
}

func newCalc(day astro.SolarDay, m Method) calc {
	midnight := time.Date(day.Date.Year, day.Date.Month, day.Date.Day, 0, 0, 0, 0, time.UTC)
	c := calc{
		day:  day,
		m:    m,
		noon: day.SolarNoon.Sub(midnight).Hours(),
	}
	if day.HasSunrise {
		c.rise = day.SunriseHourAngle / 15
		c.night = 24 - 2*c.rise
		c.hasNight = true
	}
	return c
}

func (c calc) at(name Name, hours float64, adjusted bool) Prayer {
	return Prayer{Name: name, Time: c.day.At(hours), Adjusted: adjusted}
}

// twilight returns the hour angle, in hours, at which the Sun is angle
// degrees below the horizon.
func (c calc) twilight(angle float64) (float64, bool) {
	h, ok := c.day.HourAngle(-angle)
	return h / 15, ok
}

// fallback returns the high-latitude portion of the night for angle, or the
// reason none applies.
func (c calc) fallback(angle float64) (float64, string) {
	portion, ok := c.m.HighLatRule.portion(angle)
	if !ok {
		return 0, fmt.Sprintf("sun does not reach %.1f° below the horizon and no high-latitude rule is set", angle)
	}
	if !c.hasNight {
		return 0, fmt.Sprintf("sun does not reach %.1f° below the horizon and the night length is undefined", angle)
	}
	return portion * c.night, ""
}

// morning places an event angle degrees below the horizon before sunrise.
func (c calc) morning(name Name, angle float64) Prayer {
	if h, ok := c.twilight(angle); ok {
		return c.at(name, c.noon-h, false)
	}
	portion, reason := c.fallback(angle)
	if reason != "" {
		return unresolved(name, reason)
	}
	return c.at(name, c.noon-c.rise-portion, true)
}

// evening places an event angle degrees below the horizon after sunset.
func (c calc) evening(name Name, angle float64) Prayer {
	if h, ok := c.twilight(angle); ok {
		return c.at(name, c.noon+h, false)
	}
	portion, reason := c.fallback(angle)
	if reason != "" {
		return unresolved(name, reason)
	}
	return c.at(name, c.noon+c.rise+portion, true)
}

func (c calc) sunrise() Prayer {
	if !c.hasNight {
		return unresolved(Sunrise, "the sun does not rise or set on this day")
	}
	return c.at(Sunrise, c.noon-c.rise, false)
}

func (c calc) sunset(name Name) Prayer {
	if !c.hasNight {
		return unresolved(name, "the sun does not rise or set on this day")
	}
	return c.at(name, c.noon+c.rise, false)
}

func (c calc) asr() Prayer {
	alt := c.day.AsrAltitude(c.m.School.ShadowFactor())
	h, ok := c.day.HourAngle(alt)
	if !ok {
		return unresolved(Asr, fmt.Sprintf("%s shadow length is never reached", c.m.School))
	}
	return c.at(Asr, c.noon+h/15, false)
}

func (c calc) maghrib() Prayer {
	if c.m.MaghribAngle == 0 {
		return c.sunset(Maghrib)
	}
	return c.evening(Maghrib, c.m.MaghribAngle)
}

func (c calc) isha(maghrib Prayer) Prayer {
	if c.m.IshaInterval <= 0 {
		return c.evening(Isha, c.m.IshaAngle)
	}
	if !maghrib.Resolved() {
		return unresolved(Isha, "Maghrib is unavailable")
	}
	return Prayer{Name: Isha, Time: maghrib.Time.Add(c.m.IshaInterval), Adjusted: maghrib.Adjusted}
}

func (c calc) imsak(fajr Prayer) Prayer {
	if !fajr.Resolved() {
		return unresolved(Imsak, "Fajr is unavailable")
	}
	return Prayer{Name: Imsak, Time: fajr.Time.Add(-c.m.ImsakOffset), Adjusted: fajr.Adjusted}
}

// midnight halves the night that follows sunset. The next day's sunrise and
// Fajr are taken as today's plus 24 hours.
func (c calc) midnight(fajr Prayer) Prayer {
	if !c.hasNight {
		return unresolved(Midnight, "the sun does not rise or set on this day")
	}
	sunset := c.noon + c.rise
	if c.m.Midnight == MidnightJafari {
		if !fajr.Resolved() {
			return unresolved(Midnight, "Fajr is unavailable")
		}
		nextFajr := fajr.Time.Add(24 * time.Hour)
		set := c.day.At(sunset)
		return Prayer{Name: Midnight, Time: set.Add(nextFajr.Sub(set) / 2).Round(time.Second), Adjusted: fajr.Adjusted}
	}
	return c.at(Midnight, sunset+c.night/2, false)
}
