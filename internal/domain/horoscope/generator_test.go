package horoscope

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astrotune/backend/internal/domain/astro"
	"github.com/astrotune/backend/internal/infra/llm/chatgpt"
)

const goodCompletion = `HEADLINE: Bold Moves Pay Off
HOROSCOPE: The day rewards decisive starts. Trust the first instinct and refine later.
FOCUS_AREA: Career
ENERGY_LEVEL: 72`

func completionWith(content string) chatgpt.ChatCompletionResponse {
	return chatgpt.ChatCompletionResponse{
		Choices: []struct {
			Message chatgpt.Message `json:"message"`
		}{
			{Message: chatgpt.Message{Role: "assistant", Content: content}},
		},
	}
}

type stubChatClient struct {
	responses []chatgpt.ChatCompletionResponse
	errs      []error
	calls     int
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, _ chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return chatgpt.ChatCompletionResponse{}, s.errs[idx]
	}
	if idx < len(s.responses) {
		return s.responses[idx], nil
	}
	return chatgpt.ChatCompletionResponse{}, nil
}

func testSnapshot() astro.TransitSnapshot {
	return astro.TransitSnapshot{
		Date:             "2026-01-02",
		Timezone:         "UTC",
		SunSign:          astro.Capricorn,
		MoonSign:         astro.Pisces,
		MoonPhase:        astro.WaningGibbous,
		MoonIllumination: 78,
		Retrogrades:      []astro.Planet{astro.Mercury},
		DominantElement:  astro.Earth,
	}
}

func testGenerator(client ChatClient) *Generator {
	return NewGenerator(
		Config{Model: "gpt-test", Temperature: 0.7, MaxAttempts: 2},
		client,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestGeneratorSuccess(t *testing.T) {
	client := &stubChatClient{responses: []chatgpt.ChatCompletionResponse{completionWith(goodCompletion)}}
	gen := testGenerator(client)

	reading := gen.Generate(context.Background(), testSnapshot(), astro.Scorpio)
	require.Equal(t, "Bold Moves Pay Off", reading.Headline)
	require.Contains(t, reading.Horoscope, "decisive starts")
	require.Equal(t, "Career", reading.FocusArea)
	require.Equal(t, 72, reading.EnergyLevel)
	require.Equal(t, 1, client.calls)

	require.Contains(t, reading.CosmicWeather, "Capricorn season")
	require.Contains(t, reading.CosmicWeather, "Mercury retrograde")
	require.NotEmpty(t, reading.PlaylistParams.SeedGenres)
}

func TestGeneratorRetriesTransportFailureOnce(t *testing.T) {
	client := &stubChatClient{
		errs:      []error{errors.New("connection refused"), nil},
		responses: []chatgpt.ChatCompletionResponse{{}, completionWith(goodCompletion)},
	}
	gen := testGenerator(client)

	reading := gen.Generate(context.Background(), testSnapshot(), astro.Leo)
	require.Equal(t, 2, client.calls)
	require.Equal(t, "Bold Moves Pay Off", reading.Headline)
}

func TestGeneratorFallbackDeterministic(t *testing.T) {
	snap := testSnapshot()

	first := testGenerator(&stubChatClient{errs: []error{errors.New("down"), errors.New("down")}}).
		Generate(context.Background(), snap, astro.Scorpio)
	second := testGenerator(&stubChatClient{errs: []error{errors.New("down"), errors.New("down")}}).
		Generate(context.Background(), snap, astro.Scorpio)

	require.Equal(t, first, second)
	require.NotEmpty(t, first.Headline)
	require.Contains(t, first.Horoscope, "Scorpio")
	require.GreaterOrEqual(t, first.EnergyLevel, 0)
	require.LessOrEqual(t, first.EnergyLevel, 100)
	require.Contains(t, first.CosmicWeather, "Capricorn season")
}

func TestGeneratorFallbackOnMalformedOutput(t *testing.T) {
	client := &stubChatClient{responses: []chatgpt.ChatCompletionResponse{completionWith("the stars are busy, try later")}}
	gen := testGenerator(client)

	reading := gen.Generate(context.Background(), testSnapshot(), astro.Aries)
	// Malformed output is not retried; it degrades straight to the pool.
	require.Equal(t, 1, client.calls)
	require.Contains(t, reading.Horoscope, "Aries")
	require.NotEmpty(t, reading.FocusArea)
}

func TestGeneratorFallbackOnEnergyOutOfRange(t *testing.T) {
	bad := strings.Replace(goodCompletion, "ENERGY_LEVEL: 72", "ENERGY_LEVEL: 140", 1)
	gen := testGenerator(&stubChatClient{responses: []chatgpt.ChatCompletionResponse{completionWith(bad)}})

	reading := gen.Generate(context.Background(), testSnapshot(), astro.Virgo)
	require.GreaterOrEqual(t, reading.EnergyLevel, 0)
	require.LessOrEqual(t, reading.EnergyLevel, 100)
	require.Contains(t, reading.Horoscope, "Virgo")
}

func TestParseLabeledReading(t *testing.T) {
	parsed, err := parseLabeledReading(goodCompletion)
	require.NoError(t, err)
	require.Equal(t, "Bold Moves Pay Off", parsed.headline)
	require.Equal(t, "Career", parsed.focusArea)
	require.Equal(t, 72, parsed.energyLevel)
}

func TestParseLabeledReadingReordered(t *testing.T) {
	reordered := `ENERGY_LEVEL: 55
FOCUS_AREA: Rest
HEADLINE: Slow Is Smooth
HOROSCOPE: Nothing needs forcing today. Let the afternoon set its own pace.`
	parsed, err := parseLabeledReading(reordered)
	require.NoError(t, err)
	require.Equal(t, "Slow Is Smooth", parsed.headline)
	require.Equal(t, 55, parsed.energyLevel)
}

func TestParseLabeledReadingFailures(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "missing headline", in: "HOROSCOPE: x\nFOCUS_AREA: y\nENERGY_LEVEL: 10"},
		{name: "energy not integer", in: strings.Replace(goodCompletion, "72", "high", 1)},
		{name: "energy negative", in: strings.Replace(goodCompletion, "72", "-3", 1)},
		{name: "energy above range", in: strings.Replace(goodCompletion, "72", "101", 1)},
	}

	for _, tc := range cases {
		_, err := parseLabeledReading(tc.in)
		require.Error(t, err, tc.name)
	}
}

func TestCosmicWeatherScenario(t *testing.T) {
	// 2026-01-02: Moon in Pisces, waning gibbous at 78%, Capricorn season,
	// Mercury retrograde, earth dominant.
	weather := buildCosmicWeather(testSnapshot())
	require.Contains(t, weather, "Capricorn season")
	require.Contains(t, weather, "Moon in Pisces")
	require.Contains(t, weather, "waning gibbous")
	require.Contains(t, weather, "78%")
	require.Contains(t, weather, "Mercury retrograde")
	require.Contains(t, weather, "Earth energy")
}

func TestPlaylistParamsDerivation(t *testing.T) {
	params := buildPlaylistParams(testSnapshot(), 60)
	require.Equal(t, 100, params.MinTempo)
	require.Equal(t, 130, params.MaxTempo)
	require.InDelta(t, 0.6, params.Energy, 1e-9)
	require.Equal(t, []string{"folk", "acoustic", "soul"}, params.SeedGenres)
	require.Greater(t, params.Valence, 0.0)
	require.LessOrEqual(t, params.Valence, 1.0)
}
