package horoscope

import "time"

// Request captures the query parameters of the daily reading endpoint.
type Request struct {
	SunSign  string `form:"sunSign"`
	Date     string `form:"date"`
	Timezone string `form:"tz"`
}

// Reading is the fixed response contract rendered verbatim by the clients.
// Immutable once cached; two requests for the same (sign, date, timezone)
// receive identical payloads.
type Reading struct {
	Headline       string         `json:"headline"`
	Horoscope      string         `json:"horoscope"`
	CosmicWeather  string         `json:"cosmic_weather"`
	EnergyLevel    int            `json:"energy_level"`
	FocusArea      string         `json:"focus_area"`
	PlaylistParams PlaylistParams `json:"playlist_params"`
}

// PlaylistParams carries the seed hints the music clients feed into their
// recommendation calls. Derived deterministically from the snapshot, never
// from the language model.
type PlaylistParams struct {
	MinTempo   int      `json:"min_tempo"`
	MaxTempo   int      `json:"max_tempo"`
	Energy     float64  `json:"energy"`
	Valence    float64  `json:"valence"`
	SeedGenres []string `json:"seed_genres"`
}

// Config wires runtime knobs for the reading domain.
type Config struct {
	Model             string
	Temperature       float32
	Prompt            string
	MaxAttempts       int
	PromptTokenBudget int
	DefaultTimezone   string
}

// CacheRecord is what reading stores persist per key.
type CacheRecord struct {
	Key       string    `json:"key"`
	Reading   Reading   `json:"reading"`
	CreatedAt time.Time `json:"createdAt"`
}
