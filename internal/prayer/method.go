package prayer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AsrSchool selects the shadow-length rule for Asr.
type AsrSchool int

const (
	Shafii AsrSchool = iota // shadow = 1 × height (Shafi'i, Maliki, Hanbali)
	Hanafi                  // shadow = 2 × height
)

// ShadowFactor returns the object-height multiple of the school.
func (s AsrSchool) ShadowFactor() float64 {
	if s == Hanafi {
		return 2
	}
	return 1
}

func (s AsrSchool) String() string {
	if s == Hanafi {
		return "Hanafi"
	}
	return "Shafi"
}

// ParseSchool accepts "shafi", "shafii", "hanafi" or the Al Adhan numbers 0/1.
func ParseSchool(s string) (AsrSchool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "shafi", "shafii", "standard":
		return Shafii, nil
	case "1", "hanafi":
		return Hanafi, nil
	}
	return Shafii, fmt.Errorf("invalid school %q: must be 0 (Shafi) or 1 (Hanafi)", s)
}

// HighLatRule chooses how Fajr and Isha are placed when the Sun never reaches
// their twilight angle.
type HighLatRule int

const (
	HighLatNone          HighLatRule = iota // report the prayer as unresolved
	HighLatAngleBased                       // angle/60 of the night
	HighLatOneSeventh                       // 1/7 of the night
	HighLatMiddleOfNight                    // 1/2 of the night
)

var highLatNames = map[HighLatRule]string{
	HighLatNone:          "none",
	HighLatAngleBased:    "angle",
	HighLatOneSeventh:    "seventh",
	HighLatMiddleOfNight: "middle",
}

func (r HighLatRule) String() string {
	if s, ok := highLatNames[r]; ok {
		return s
	}
	return "HighLatRule(" + strconv.Itoa(int(r)) + ")"
}

// ParseHighLatRule accepts none, angle, seventh or middle.
func ParseHighLatRule(s string) (HighLatRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return HighLatNone, nil
	case "angle", "angle-based", "anglebased":
		return HighLatAngleBased, nil
	case "seventh", "one-seventh", "oneseventh":
		return HighLatOneSeventh, nil
	case "middle", "middle-of-night", "midnight":
		return HighLatMiddleOfNight, nil
	}
	return HighLatNone, fmt.Errorf("invalid high-latitude rule %q: must be none, angle, seventh or middle", s)
}

// portion returns the fraction of the night assigned to a prayer whose
// twilight angle is angle degrees.
func (r HighLatRule) portion(angle float64) (float64, bool) {
	switch r {
	case HighLatAngleBased:
		return angle / 60, true
	case HighLatOneSeventh:
		return 1.0 / 7, true
	case HighLatMiddleOfNight:
		return 0.5, true
	}
	return 0, false
}

// MidnightMode selects which interval Midnight halves.
type MidnightMode int

const (
	MidnightStandard MidnightMode = iota // sunset to sunrise
	MidnightJafari                       // sunset to Fajr
)

// Offsets tunes each computed time by a fixed amount.
type Offsets [nameCount]time.Duration

// Method is a calculation convention. It is a comparable value; the With*
// modifiers return changed copies.
type Method struct {
	ID   int    // Al Adhan method id
	Key  string // short CLI name, e.g. "mwl"
	Name string

	FajrAngle    float64
	IshaAngle    float64
	IshaInterval time.Duration // after Maghrib; overrides IshaAngle when set
	MaghribAngle float64       // 0 means sunset

	Midnight    MidnightMode
	School      AsrSchool
	HighLatRule HighLatRule

	DhuhrMargin time.Duration // after solar noon
	ImsakOffset time.Duration // before Fajr
	Offsets     Offsets
}

// WithSchool returns m using school for Asr.
func (m Method) WithSchool(school AsrSchool) Method {
	m.School = school
	return m
}

// WithHighLatRule returns m using rule above the twilight latitude.
func (m Method) WithHighLatRule(rule HighLatRule) Method {
	m.HighLatRule = rule
	return m
}

// WithOffset returns m with d added to every computed time of name.
func (m Method) WithOffset(name Name, d time.Duration) Method {
	if name.valid() {
		m.Offsets[name] = d
	}
	return m
}

func (m Method) String() string {
	return fmt.Sprintf("%s (%s)", m.Name, m.School)
}

const (
	defaultDhuhrMargin = time.Minute
	defaultImsakOffset = 10 * time.Minute
)

func preset(id int, key, name string, fajr, isha float64) Method {
	return Method{
		ID:          id,
		Key:         key,
		Name:        name,
		FajrAngle:   fajr,
		IshaAngle:   isha,
		DhuhrMargin: defaultDhuhrMargin,
		ImsakOffset: defaultImsakOffset,
	}
}

func withInterval(m Method, d time.Duration) Method {
	m.IshaInterval = d
	return m
}

func withMaghrib(m Method, angle float64, mode MidnightMode) Method {
	m.MaghribAngle = angle
	m.Midnight = mode
	return m
}

// Methods lists every preset, ordered by Al Adhan id. None of them sets a
// high-latitude rule; the caller has to choose one.
var Methods = []Method{
	withMaghrib(preset(0, "jafari", "Shia Ithna-Ashari (Jafari)", 16, 14), 4, MidnightJafari),
	preset(1, "karachi", "University of Islamic Sciences, Karachi", 18, 18),
	preset(2, "isna", "Islamic Society of North America (ISNA)", 15, 15),
	preset(3, "mwl", "Muslim World League (MWL)", 18, 17),
	withInterval(preset(4, "makkah", "Umm Al-Qura University, Makkah", 18.5, 0), 90*time.Minute),
	preset(5, "egypt", "Egyptian General Authority of Survey", 19.5, 17.5),
	withMaghrib(preset(7, "tehran", "Institute of Geophysics, University of Tehran", 17.7, 14), 4.5, MidnightJafari),
	withInterval(preset(8, "gulf", "Gulf Region", 19.5, 0), 90*time.Minute),
	preset(9, "kuwait", "Kuwait", 18, 17.5),
	withInterval(preset(10, "qatar", "Qatar", 18, 0), 90*time.Minute),
	preset(11, "singapore", "Majlis Ugama Islam Singapura (Singapore)", 20, 18),
	preset(12, "france", "Union Organization Islamic de France", 12, 12),
	preset(13, "turkey", "Diyanet Isleri Baskanligi, Turkey", 18, 17),
	preset(14, "russia", "Spiritual Administration of Muslims of Russia", 16, 15),
	preset(15, "moonsighting", "Moonsighting Committee Worldwide", 18, 18),
	preset(16, "dubai", "Dubai", 18.2, 18.2),
	preset(17, "jakim", "JAKIM (Malaysia)", 20, 18),
	preset(18, "tunisia", "Tunisia", 18, 18),
	preset(19, "algeria", "Algeria", 18, 17),
	preset(20, "kemenag", "KEMENAG (Indonesia)", 20, 18),
	preset(21, "morocco", "Morocco", 19, 17),
	withInterval(preset(22, "portugal", "Comunidade Islamica de Lisboa (Portugal)", 18, 0), 77*time.Minute),
	preset(23, "jordan", "Ministry of Awqaf, Jordan", 18, 18),
}

// MuslimWorldLeague is the preset most tables default to.
var MuslimWorldLeague = Methods[3]

// MethodByID returns the preset with the given Al Adhan id.
func MethodByID(id int) (Method, error) {
	for _, m := range Methods {
		if m.ID == id {
			return m, nil
		}
	}
	return Method{}, fmt.Errorf("unknown calculation method %d", id)
}

// MethodByKey returns the preset named key (case-insensitive). Numeric keys
// are looked up as ids.
func MethodByKey(key string) (Method, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if id, err := strconv.Atoi(key); err == nil {
		return MethodByID(id)
	}
	for _, m := range Methods {
		if m.Key == key {
			return m, nil
		}
	}
	return Method{}, fmt.Errorf("unknown calculation method %q", key)
}
