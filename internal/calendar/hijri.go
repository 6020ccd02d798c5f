package calendar

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// hijriEpoch is the Julian day number of 1 Muharram 1 AH in the civil
// (Friday) epoch of the tabular calendar.
const hijriEpoch = 1948440

// HijriMonths are the transliterated month names, indexed from 1.
var HijriMonths = [...]string{
	"",
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani",
	"Jumada al-Ula", "Jumada al-Akhirah", "Rajab", "Shaban",
	"Ramadan", "Shawwal", "Dhu al-Qadah", "Dhu al-Hijjah",
}

// HijriDate is a date in the tabular Islamic calendar. It is an arithmetic
// approximation of the observed calendar and may differ from it by a day or
// two; use it to label days, never to compute times.
type HijriDate struct {
	Year  int
	Month int
	Day   int
}

// MonthName returns the English transliteration of the month.
func (h HijriDate) MonthName() string {
	if h.Month < 1 || h.Month > 12 {
		return ""
	}
	return HijriMonths[h.Month]
}

// Format returns the date as "DD MonthName YYYY AH".
func (h HijriDate) Format() string {
	if h.Month < 1 || h.Month > 12 {
		return ""
	}
	return fmt.Sprintf("%02d %s %d AH", h.Day, h.MonthName(), h.Year)
}

func (h HijriDate) String() string {
	return fmt.Sprintf("%02d-%02d-%04d", h.Day, h.Month, h.Year)
}

// ToHijri converts a Gregorian date to the tabular Hijri calendar.
// adjustDays shifts the result to follow a local sighting (typically -2..2).
func ToHijri(d Date, adjustDays int) HijriDate {
	jdn := julianDayNumber(d) + adjustDays

	year := (30*(jdn-hijriEpoch) + 10646) / 10631
	month := int(math.Ceil(float64(jdn-(29+hijriToJDN(year, 1, 1)))/29.5)) + 1
	if month > 12 {
		month = 12
	}
	if month < 1 {
		month = 1
	}
	day := jdn - hijriToJDN(year, month, 1) + 1

	return HijriDate{Year: year, Month: month, Day: day}
}

// ToGregorian converts a tabular Hijri date back to the Gregorian calendar.
func (h HijriDate) ToGregorian() Date {
	jd := float64(hijriToJDN(h.Year, h.Month, h.Day)) - 0.5
	y, m, d := julian.JDToCalendar(jd)
	return NewDate(y, time.Month(m), int(math.Floor(d)))
}

func hijriToJDN(year, month, day int) int {
	return day +
		int(math.Ceil(29.5*float64(month-1))) +
		(year-1)*354 +
		(3+11*year)/30 +
		hijriEpoch - 1
}

// julianDayNumber is the integer day count of d (noon-based).
func julianDayNumber(d Date) int {
	return int(julian.CalendarGregorianToJD(d.Year, int(d.Month), float64(d.Day)) + 0.5)
}
