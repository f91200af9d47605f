package horoscope

import (
	"fmt"
	"strings"

	"github.com/astrotune/backend/internal/domain/astro"
)

// buildCosmicWeather renders the sky summary shown under the horoscope.
// It is assembled locally from the snapshot so the field never drifts with
// model output.
func buildCosmicWeather(snap astro.TransitSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s season with the Moon in %s, a %s at %d%% illumination.",
		snap.SunSign, snap.MoonSign, strings.ToLower(string(snap.MoonPhase)), snap.MoonIllumination)

	if names := snap.RetrogradeNames(); len(names) > 0 {
		fmt.Fprintf(&b, " %s retrograde.", strings.Join(names, ", "))
	}
	if len(snap.MajorAspects) > 0 {
		top := snap.MajorAspects[0]
		fmt.Fprintf(&b, " %s %s %s is the day's tightest aspect.", top.First, top.Type, top.Second)
	}
	fmt.Fprintf(&b, " %s energy dominates.", capitalize(string(snap.DominantElement)))
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var elementGenres = map[astro.Element][]string{
	astro.Fire:  {"dance", "power-pop", "rock"},
	astro.Earth: {"folk", "acoustic", "soul"},
	astro.Air:   {"indie-pop", "electronic", "synth-pop"},
	astro.Water: {"ambient", "r-n-b", "dream-pop"},
}

// buildPlaylistParams maps the day's sky onto tempo and mood hints. Energy
// level drives tempo, moon illumination nudges valence, the dominant
// element picks seed genres.
func buildPlaylistParams(snap astro.TransitSnapshot, energyLevel int) PlaylistParams {
	base := 70 + energyLevel/2 // 70..120 bpm

	valence := 0.35 + float64(snap.MoonIllumination)/250 // 0.35..0.75
	if len(snap.Retrogrades) > 1 {
		valence -= 0.05
	}

	return PlaylistParams{
		MinTempo:   base,
		MaxTempo:   base + 30,
		Energy:     float64(energyLevel) / 100,
		Valence:    round2(valence),
		SeedGenres: elementGenres[snap.DominantElement],
	}
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
