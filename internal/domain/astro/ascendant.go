package astro

import (
	"math"
	"time"
)

// meanObliquity of the ecliptic at J2000, degrees.
const meanObliquity = 23.4392911

// Ascendant returns the rising sign and its degree for a birth instant and
// geographic position. Latitude and longitude are in degrees, east and
// north positive.
func Ascendant(at time.Time, latitude, longitude float64) (Sign, float64) {
	utc := at.UTC()

	gmst := 280.46061837 + 360.98564736629*(julianDay(utc)-2451545.0)
	ramc := normalizeDegrees(gmst+longitude) * degToRad

	eps := meanObliquity * degToRad
	phi := latitude * degToRad

	asc := math.Atan2(-math.Cos(ramc), math.Sin(ramc)*math.Cos(eps)+math.Tan(phi)*math.Sin(eps))
	return splitLongitude(asc / degToRad)
}
