package astro

import (
	"math"
	"sort"
	"time"
)

var aspectAngles = []struct {
	kind  AspectType
	angle float64
	orb   float64
}{
	{Conjunction, 0, 8},
	{Sextile, 60, 4},
	{Square, 90, 6},
	{Trine, 120, 6},
	{Opposition, 180, 8},
}

// exactWindow bounds how far from the sample instant an aspect's exactness
// is still reported.
const exactWindow = 36 * time.Hour

// FindAspects computes every major aspect between unordered pairs of
// bodies. The result is sorted most exact first; equal orbs fall back to
// planet-pair order so the sequence is deterministic.
func FindAspects(sampledAt time.Time, positions []PlanetPosition) []Aspect {
	aspects := make([]Aspect, 0, 8)
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			a, b := positions[i], positions[j]
			if a.Planet > b.Planet {
				a, b = b, a
			}
			sep := angularSeparation(a.Longitude(), b.Longitude())
			for _, def := range aspectAngles {
				orb := math.Abs(sep - def.angle)
				if orb > def.orb {
					continue
				}
				aspects = append(aspects, Aspect{
					First:   a.Planet,
					Second:  b.Planet,
					Type:    def.kind,
					Orb:     orb,
					ExactAt: estimateExact(sampledAt, a, b, def.angle),
				})
			}
		}
	}

	sort.Slice(aspects, func(i, j int) bool {
		if aspects[i].Orb != aspects[j].Orb {
			return aspects[i].Orb < aspects[j].Orb
		}
		if aspects[i].First != aspects[j].First {
			return aspects[i].First < aspects[j].First
		}
		return aspects[i].Second < aspects[j].Second
	})
	return aspects
}

// dominantPlanets is the classical seven; outer planets move too slowly to
// flavor a single day.
const dominantPlanets = Saturn

// elementPriority breaks count ties: fire > earth > air > water.
var elementPriority = []Element{Fire, Earth, Air, Water}

// DominantElement counts the Sun-through-Saturn bodies per element and
// returns the most populated one.
func DominantElement(positions []PlanetPosition) Element {
	counts := make(map[Element]int, 4)
	for _, pos := range positions {
		if pos.Planet > dominantPlanets {
			continue
		}
		counts[pos.Sign.Element()]++
	}

	best := Fire
	bestCount := -1
	for _, el := range elementPriority {
		if counts[el] > bestCount {
			best = el
			bestCount = counts[el]
		}
	}
	return best
}

// estimateExact linearly extrapolates the pair's relative motion to find
// when the aspect perfects. Returns nil when exactness falls outside the
// reporting window or the pair is effectively static.
func estimateExact(sampledAt time.Time, a, b PlanetPosition, angle float64) *time.Time {
	relSpeed := a.SpeedDegPerDay - b.SpeedDegPerDay
	if math.Abs(relSpeed) < 1e-4 {
		return nil
	}

	sep := signedDelta(a.Longitude(), b.Longitude())
	target := angle
	if sep < 0 {
		target = -angle
	}
	days := (target - sep) / relSpeed

	offset := time.Duration(days * float64(24*time.Hour))
	if offset < -exactWindow || offset > exactWindow {
		return nil
	}
	exact := sampledAt.Add(offset).UTC().Truncate(time.Minute)
	return &exact
}

// angularSeparation returns the unsigned separation in [0,180].
func angularSeparation(l1, l2 float64) float64 {
	d := math.Abs(l1 - l2)
	if d > 180 {
		d = 360 - d
	}
	return d
}
