package astro

import (
	"fmt"
	"strings"
	"time"
)

// Planet identifies one of the ten bodies tracked in a snapshot.
// The ordering is the traditional Sun-to-Pluto sequence and is relied on
// for deterministic aspect tie-breaking.
type Planet int

const (
	Sun Planet = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

var planetNames = [...]string{
	"Sun", "Moon", "Mercury", "Venus", "Mars",
	"Jupiter", "Saturn", "Uranus", "Neptune", "Pluto",
}

func (p Planet) String() string {
	if p < Sun || p > Pluto {
		return "Unknown"
	}
	return planetNames[p]
}

// MarshalJSON renders the planet by name.
func (p Planet) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// Sign is one of the twelve zodiac signs, in ecliptic order starting at Aries.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

var signNames = [...]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

func (s Sign) String() string {
	if s < Aries || s > Pisces {
		return "Unknown"
	}
	return signNames[s]
}

// MarshalJSON renders the sign by name.
func (s Sign) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// ParseSign resolves a case-insensitive sign name.
func ParseSign(raw string) (Sign, error) {
	needle := strings.TrimSpace(raw)
	for i, name := range signNames {
		if strings.EqualFold(name, needle) {
			return Sign(i), nil
		}
	}
	return 0, fmt.Errorf("unknown zodiac sign %q", raw)
}

// Element buckets signs into the four classical elements.
type Element string

const (
	Fire  Element = "fire"
	Earth Element = "earth"
	Air   Element = "air"
	Water Element = "water"
)

var signElements = [...]Element{
	Fire, Earth, Air, Water, Fire, Earth,
	Air, Water, Fire, Earth, Air, Water,
}

// Element returns the classical element of the sign.
func (s Sign) Element() Element {
	if s < Aries || s > Pisces {
		return ""
	}
	return signElements[s]
}

// MoonPhase is one of the eight named lunar phases.
type MoonPhase string

const (
	NewMoon        MoonPhase = "New Moon"
	WaxingCrescent MoonPhase = "Waxing Crescent"
	FirstQuarter   MoonPhase = "First Quarter"
	WaxingGibbous  MoonPhase = "Waxing Gibbous"
	FullMoon       MoonPhase = "Full Moon"
	WaningGibbous  MoonPhase = "Waning Gibbous"
	LastQuarter    MoonPhase = "Last Quarter"
	WaningCrescent MoonPhase = "Waning Crescent"
)

// PlanetPosition locates one body on the ecliptic at the sample instant.
// Degree is the offset within the sign and stays in [0,30); the absolute
// ecliptic longitude is Sign*30 + Degree.
type PlanetPosition struct {
	Planet     Planet  `json:"planet"`
	Sign       Sign    `json:"sign"`
	Degree     float64 `json:"degree"`
	Retrograde bool    `json:"retrograde"`

	// SpeedDegPerDay is the apparent geocentric motion over the sampling
	// interval. Negative while retrograde.
	SpeedDegPerDay float64 `json:"-"`
}

// Longitude returns the absolute ecliptic longitude in [0,360).
func (p PlanetPosition) Longitude() float64 {
	return float64(p.Sign)*30 + p.Degree
}

// AspectType names the five major aspects.
type AspectType string

const (
	Conjunction AspectType = "conjunction"
	Sextile     AspectType = "sextile"
	Square      AspectType = "square"
	Trine       AspectType = "trine"
	Opposition  AspectType = "opposition"
)

// Aspect records an angular relationship between two bodies. First is
// always the lower-ordered planet so the record is independent of input
// order.
type Aspect struct {
	First   Planet     `json:"first"`
	Second  Planet     `json:"second"`
	Type    AspectType `json:"type"`
	Orb     float64    `json:"orb"`
	ExactAt *time.Time `json:"exact_at,omitempty"`
}

// TransitSnapshot is the immutable sky summary for one calendar day in one
// timezone. It is a pure function of (Date, Timezone) and safe to cache.
type TransitSnapshot struct {
	Date             string           `json:"date"`
	Timezone         string           `json:"timezone"`
	SunSign          Sign             `json:"sun_sign"`
	MoonSign         Sign             `json:"moon_sign"`
	MoonPhase        MoonPhase        `json:"moon_phase"`
	MoonIllumination int              `json:"moon_illumination"`
	Positions        []PlanetPosition `json:"positions"`
	Retrogrades      []Planet         `json:"retrogrades"`
	MajorAspects     []Aspect         `json:"major_aspects"`
	DominantElement  Element          `json:"dominant_element"`
}

// RetrogradeNames lists the retrograde planets by name, for prompt and
// weather text construction.
func (s TransitSnapshot) RetrogradeNames() []string {
	names := make([]string, 0, len(s.Retrogrades))
	for _, p := range s.Retrogrades {
		names = append(names, p.String())
	}
	return names
}
