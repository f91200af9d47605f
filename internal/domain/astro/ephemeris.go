package astro

import (
	"fmt"
	"math"
	"sync"
	"time"

	apperrors "github.com/astrotune/backend/pkg/errors"
)

// Supported epoch range of the mean-element tables. Outside this window the
// approximation degrades and requests are rejected.
const (
	minYear = 1800
	maxYear = 2050
)

const degToRad = math.Pi / 180

// keplerianElements holds mean orbital elements at J2000 plus their
// per-century rates, after the JPL approximate-position tables.
type keplerianElements struct {
	a, aDot         float64 // semi-major axis, au
	e, eDot         float64 // eccentricity
	incl, inclDot   float64 // inclination, deg
	meanL, meanLDot float64 // mean longitude, deg
	periL, periLDot float64 // longitude of perihelion, deg
	node, nodeDot   float64 // longitude of ascending node, deg
}

var planetElements = map[Planet]keplerianElements{
	Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749, 252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	Venus:   {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890, 181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	Mars:    {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131, -4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714, 34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	Saturn:  {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609, 49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	Uranus:  {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939, 313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372, -55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
	Pluto:   {39.48211675, -0.00031596, 0.24882730, 0.00005170, 17.14001206, 0.00004818, 238.92903833, 145.20780515, 224.06891629, -0.04062942, 110.30393684, -0.01183482},
}

// Earth-Moon barycenter, used to translate heliocentric vectors to
// geocentric longitudes.
var earthElements = keplerianElements{
	1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
	100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0,
}

// Ephemeris computes deterministic planetary snapshots. Snapshots are
// memoized per (date, timezone) since they are pure functions of both.
type Ephemeris struct {
	mu    sync.Mutex
	cache map[string]TransitSnapshot
}

// NewEphemeris builds a snapshot provider.
func NewEphemeris() *Ephemeris {
	return &Ephemeris{cache: make(map[string]TransitSnapshot)}
}

// Snapshot computes the transit snapshot for a calendar date in a timezone.
// The sky is sampled at local noon, a fixed policy that keeps the result a
// pure function of the inputs.
func (e *Ephemeris) Snapshot(date string, loc *time.Location) (TransitSnapshot, error) {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return TransitSnapshot{}, apperrors.Wrap("invalid_input", "date must be formatted as YYYY-MM-DD", err)
	}

	key := date + "|" + loc.String()
	e.mu.Lock()
	if snap, ok := e.cache[key]; ok {
		e.mu.Unlock()
		return snap, nil
	}
	e.mu.Unlock()

	noon := day.Add(12 * time.Hour)
	positions, err := e.PositionsAt(noon)
	if err != nil {
		return TransitSnapshot{}, err
	}

	snap := buildSnapshot(date, loc.String(), noon, positions)

	e.mu.Lock()
	e.cache[key] = snap
	e.mu.Unlock()
	return snap, nil
}

// PositionsAt computes geocentric positions for all ten bodies at an
// arbitrary instant. Retrograde state and apparent speed come from a
// 24-hour forward difference.
func (e *Ephemeris) PositionsAt(at time.Time) ([]PlanetPosition, error) {
	utc := at.UTC()
	if utc.Year() < minYear || utc.Year() > maxYear {
		return nil, apperrors.Wrap("ephemeris_error",
			fmt.Sprintf("date outside supported range %d-%d", minYear, maxYear), nil)
	}

	t0 := julianCenturies(utc)
	t1 := julianCenturies(utc.Add(24 * time.Hour))

	positions := make([]PlanetPosition, 0, 10)
	for p := Sun; p <= Pluto; p++ {
		lon0 := geocentricLongitude(p, t0)
		lon1 := geocentricLongitude(p, t1)
		speed := signedDelta(lon1, lon0)

		// The Sun and Moon never appear retrograde.
		retro := speed < 0 && p != Sun && p != Moon

		sign, degree := splitLongitude(lon0)
		positions = append(positions, PlanetPosition{
			Planet:         p,
			Sign:           sign,
			Degree:         degree,
			Retrograde:     retro,
			SpeedDegPerDay: speed,
		})
	}
	return positions, nil
}

func buildSnapshot(date, tz string, sampledAt time.Time, positions []PlanetPosition) TransitSnapshot {
	t := julianCenturies(sampledAt.UTC())

	var sunSign, moonSign Sign
	retro := make([]Planet, 0, 4)
	for _, pos := range positions {
		switch pos.Planet {
		case Sun:
			sunSign = pos.Sign
		case Moon:
			moonSign = pos.Sign
		}
		if pos.Retrograde {
			retro = append(retro, pos.Planet)
		}
	}

	elong := normalizeDegrees(moonLongitude(t) - sunLongitude(t))
	illum := int(math.Round((1 - math.Cos(elong*degToRad)) / 2 * 100))

	return TransitSnapshot{
		Date:             date,
		Timezone:         tz,
		SunSign:          sunSign,
		MoonSign:         moonSign,
		MoonPhase:        phaseName(elong),
		MoonIllumination: illum,
		Positions:        positions,
		Retrogrades:      retro,
		MajorAspects:     FindAspects(sampledAt, positions),
		DominantElement:  DominantElement(positions),
	}
}

func phaseName(elongation float64) MoonPhase {
	switch {
	case elongation < 22.5:
		return NewMoon
	case elongation < 67.5:
		return WaxingCrescent
	case elongation < 112.5:
		return FirstQuarter
	case elongation < 157.5:
		return WaxingGibbous
	case elongation < 202.5:
		return FullMoon
	case elongation < 247.5:
		return WaningGibbous
	case elongation < 292.5:
		return LastQuarter
	case elongation < 337.5:
		return WaningCrescent
	default:
		return NewMoon
	}
}

// geocentricLongitude returns the apparent ecliptic longitude of a body in
// [0,360) at T julian centuries since J2000.
func geocentricLongitude(p Planet, t float64) float64 {
	switch p {
	case Sun:
		return sunLongitude(t)
	case Moon:
		return moonLongitude(t)
	default:
		px, py := heliocentricXY(planetElements[p], t)
		ex, ey := heliocentricXY(earthElements, t)
		return normalizeDegrees(math.Atan2(py-ey, px-ex) / degToRad)
	}
}

func sunLongitude(t float64) float64 {
	// Geocentric Sun is the anti-direction of the heliocentric Earth.
	ex, ey := heliocentricXY(earthElements, t)
	return normalizeDegrees(math.Atan2(-ey, -ex) / degToRad)
}

// moonLongitude evaluates a truncated lunar series; accuracy of a few arc
// minutes, ample for sign placement and phase work.
func moonLongitude(t float64) float64 {
	lp := 218.3164477 + 481267.88123421*t // mean longitude
	d := 297.8501921 + 445267.1114034*t   // mean elongation
	m := 357.5291092 + 35999.0502909*t    // solar anomaly
	mp := 134.9633964 + 477198.8675055*t  // lunar anomaly
	f := 93.2720950 + 483202.0175233*t    // argument of latitude

	lon := lp +
		6.289*math.Sin(mp*degToRad) +
		1.274*math.Sin((2*d-mp)*degToRad) +
		0.658*math.Sin(2*d*degToRad) +
		0.214*math.Sin(2*mp*degToRad) -
		0.186*math.Sin(m*degToRad) -
		0.114*math.Sin(2*f*degToRad)
	return normalizeDegrees(lon)
}

// heliocentricXY solves the Kepler problem for one body and returns its
// ecliptic-plane heliocentric coordinates in au.
func heliocentricXY(el keplerianElements, t float64) (float64, float64) {
	a := el.a + el.aDot*t
	e := el.e + el.eDot*t
	incl := (el.incl + el.inclDot*t) * degToRad
	meanL := el.meanL + el.meanLDot*t
	periL := el.periL + el.periLDot*t
	node := (el.node + el.nodeDot*t) * degToRad

	argPeri := periL*degToRad - node
	m := normalizeDegrees(meanL-periL) * degToRad

	ecc := solveKepler(m, e)
	xOrb := a * (math.Cos(ecc) - e)
	yOrb := a * math.Sqrt(1-e*e) * math.Sin(ecc)

	cosW, sinW := math.Cos(argPeri), math.Sin(argPeri)
	cosO, sinO := math.Cos(node), math.Sin(node)
	cosI := math.Cos(incl)

	x := (cosW*cosO-sinW*sinO*cosI)*xOrb + (-sinW*cosO-cosW*sinO*cosI)*yOrb
	y := (cosW*sinO+sinW*cosO*cosI)*xOrb + (-sinW*sinO+cosW*cosO*cosI)*yOrb
	return x, y
}

// solveKepler iterates Newton's method on E - e*sin(E) = M.
func solveKepler(m, e float64) float64 {
	ecc := m
	if e > 0.8 {
		ecc = math.Pi
	}
	for i := 0; i < 12; i++ {
		delta := (ecc - e*math.Sin(ecc) - m) / (1 - e*math.Cos(ecc))
		ecc -= delta
		if math.Abs(delta) < 1e-9 {
			break
		}
	}
	return ecc
}

func julianCenturies(utc time.Time) float64 {
	return (julianDay(utc) - 2451545.0) / 36525.0
}

func julianDay(utc time.Time) float64 {
	y, mo, d := utc.Date()
	month := int(mo)
	if month <= 2 {
		y--
		month += 12
	}
	a := y / 100
	b := 2 - a + a/4
	dayFrac := float64(d) + (float64(utc.Hour())+float64(utc.Minute())/60+float64(utc.Second())/3600)/24
	return math.Floor(365.25*float64(y+4716)) + math.Floor(30.6001*float64(month+1)) + dayFrac + float64(b) - 1524.5
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// signedDelta returns the shortest signed angular distance from `from` to
// `to`, in (-180,180].
func signedDelta(to, from float64) float64 {
	d := math.Mod(to-from, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}

func splitLongitude(lon float64) (Sign, float64) {
	lon = normalizeDegrees(lon)
	idx := int(lon / 30)
	if idx > 11 {
		idx = 11
	}
	return Sign(idx), lon - float64(idx)*30
}
