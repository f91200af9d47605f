package astro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func position(p Planet, lon float64, speed float64) PlanetPosition {
	sign, deg := splitLongitude(lon)
	return PlanetPosition{Planet: p, Sign: sign, Degree: deg, SpeedDegPerDay: speed}
}

func TestFindAspectsSymmetry(t *testing.T) {
	at := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	venus := position(Venus, 100, 1.2)
	mars := position(Mars, 190.5, 0.5)

	forward := FindAspects(at, []PlanetPosition{venus, mars})
	reversed := FindAspects(at, []PlanetPosition{mars, venus})
	require.Equal(t, forward, reversed)

	require.Len(t, forward, 1)
	require.Equal(t, Venus, forward[0].First)
	require.Equal(t, Mars, forward[0].Second)
	require.Equal(t, Square, forward[0].Type)
	require.InDelta(t, 0.5, forward[0].Orb, 1e-9)
}

func TestFindAspectsOrderedByOrb(t *testing.T) {
	at := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	positions := []PlanetPosition{
		position(Sun, 10, 1),
		position(Mars, 130.2, 0.5),   // trine to Sun, orb 0.2
		position(Jupiter, 195, 0.08), // opposition to Sun, orb 5
		position(Saturn, 12.5, 0.03), // conjunction to Sun, orb 2.5
	}

	aspects := FindAspects(at, positions)
	require.NotEmpty(t, aspects)
	for i := 1; i < len(aspects); i++ {
		require.LessOrEqual(t, aspects[i-1].Orb, aspects[i].Orb)
	}
	require.Equal(t, Sun, aspects[0].First)
	require.Equal(t, Mars, aspects[0].Second)
	require.Equal(t, Trine, aspects[0].Type)
}

func TestFindAspectsRespectsOrbPolicy(t *testing.T) {
	at := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	// 65 degrees apart: five degrees from a sextile, outside the 4 degree orb.
	wide := FindAspects(at, []PlanetPosition{
		position(Venus, 0, 1),
		position(Mars, 65, 0.5),
	})
	require.Empty(t, wide)

	// 7 degrees from conjunction still counts under the 8 degree orb.
	tight := FindAspects(at, []PlanetPosition{
		position(Venus, 0, 1),
		position(Mars, 7, 0.5),
	})
	require.Len(t, tight, 1)
	require.Equal(t, Conjunction, tight[0].Type)
}

func TestFindAspectsExactEstimate(t *testing.T) {
	at := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	// Mars pulls ahead of Venus by one degree per day and the trine lacks
	// one degree: exactness lands about 24 hours after the sample.
	aspects := FindAspects(at, []PlanetPosition{
		position(Venus, 0, 0.5),
		position(Mars, 119, 1.5),
	})
	require.Len(t, aspects, 1)
	require.NotNil(t, aspects[0].ExactAt)
	require.WithinDuration(t, at.Add(24*time.Hour), *aspects[0].ExactAt, 2*time.Minute)
}

func TestDominantElementCountsClassicalPlanets(t *testing.T) {
	positions := []PlanetPosition{
		position(Sun, 5, 1),       // Aries, fire
		position(Moon, 95, 13),    // Cancer, water
		position(Mercury, 10, 1),  // Aries, fire
		position(Venus, 40, 1),    // Taurus, earth
		position(Mars, 125, 0.5),  // Leo, fire
		position(Jupiter, 200, 0.08), // Libra, air
		position(Saturn, 280, 0.03),  // Capricorn, earth
		// Outer planets are excluded from the count.
		position(Uranus, 150, 0.01),  // Virgo, earth
		position(Neptune, 160, 0.01), // Virgo, earth
		position(Pluto, 170, 0.01),   // Virgo, earth
	}
	require.Equal(t, Fire, DominantElement(positions))
}

func TestDominantElementTieBreaksTowardFire(t *testing.T) {
	// Three fire, three earth among the classical seven. Fire wins the tie
	// under the fixed priority order, every run.
	positions := []PlanetPosition{
		position(Sun, 5, 1),         // fire
		position(Moon, 35, 13),      // earth
		position(Mercury, 125, 1),   // fire
		position(Venus, 155, 1),     // earth
		position(Mars, 245, 0.5),    // fire
		position(Jupiter, 275, 0.08), // earth
		position(Saturn, 65, 0.03),  // air
	}
	for i := 0; i < 50; i++ {
		require.Equal(t, Fire, DominantElement(positions))
	}
}

func TestParseSign(t *testing.T) {
	cases := []struct {
		in   string
		want Sign
		ok   bool
	}{
		{in: "Scorpio", want: Scorpio, ok: true},
		{in: "  capricorn ", want: Capricorn, ok: true},
		{in: "PISCES", want: Pisces, ok: true},
		{in: "Ophiuchus", ok: false},
		{in: "", ok: false},
	}

	for _, tc := range cases {
		got, err := ParseSign(tc.in)
		if !tc.ok {
			require.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}
