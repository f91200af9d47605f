package horoscope

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/astrotune/backend/internal/domain/astro"
	"github.com/astrotune/backend/internal/infra/llm/chatgpt"
	apperrors "github.com/astrotune/backend/pkg/errors"
)

// ChatClient is the text-generation backend contract.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// Generator turns a transit snapshot and a target sun sign into a reading.
// It never returns an error: any backend or parse failure degrades to the
// deterministic fallback pool.
type Generator struct {
	cfg     Config
	client  ChatClient
	logger  *slog.Logger
	encoder *tiktoken.Tiktoken
}

// NewGenerator wires the reading generator.
func NewGenerator(cfg Config, client ChatClient, logger *slog.Logger) *Generator {
	log := logger.With("component", "horoscope.generator")
	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		log.Warn("tiktoken encoding unavailable, prompt budget checks disabled", "error", err)
		encoder = nil
	}
	return &Generator{cfg: cfg, client: client, logger: log, encoder: encoder}
}

// Generate produces the reading for one (snapshot, sign) pair.
func (g *Generator) Generate(ctx context.Context, snap astro.TransitSnapshot, sign astro.Sign) Reading {
	reading, err := g.generateFromModel(ctx, snap, sign)
	if err != nil {
		g.logger.Warn("reading generation degraded to fallback",
			"sign", sign.String(), "date", snap.Date, "error", err)
		return fallbackReading(snap, sign)
	}
	return reading
}

func (g *Generator) generateFromModel(ctx context.Context, snap astro.TransitSnapshot, sign astro.Sign) (Reading, error) {
	messages := []chatgpt.Message{
		{Role: "system", Content: g.buildSystemPrompt()},
		{Role: "user", Content: buildTransitPrompt(snap, sign)},
	}
	g.checkPromptBudget(messages)

	attempts := g.cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 2
	}

	var resp chatgpt.ChatCompletionResponse
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err = g.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
			Model:       g.cfg.Model,
			Messages:    messages,
			Temperature: g.cfg.Temperature,
		})
		if err == nil {
			break
		}
		g.logger.Warn("chatgpt request failed", "attempt", attempt, "error", err)
	}
	if err != nil {
		return Reading{}, apperrors.Wrap("llm_error", "chatgpt unreachable", err)
	}
	if len(resp.Choices) == 0 {
		return Reading{}, apperrors.Wrap("llm_error", "chatgpt returned no choices", nil)
	}

	parsed, err := parseLabeledReading(resp.Choices[0].Message.Content)
	if err != nil {
		return Reading{}, apperrors.Wrap("llm_error", "chatgpt response malformed", err)
	}
	if !resp.Usage.IsZero() {
		g.logger.Info("reading generated",
			"sign", sign.String(), "date", snap.Date,
			"prompt_tokens", resp.Usage.PromptTokens, "completion_tokens", resp.Usage.CompletionTokens)
	}

	return Reading{
		Headline:       parsed.headline,
		Horoscope:      parsed.horoscope,
		CosmicWeather:  buildCosmicWeather(snap),
		EnergyLevel:    parsed.energyLevel,
		FocusArea:      parsed.focusArea,
		PlaylistParams: buildPlaylistParams(snap, parsed.energyLevel),
	}, nil
}

func (g *Generator) checkPromptBudget(messages []chatgpt.Message) {
	if g.encoder == nil || g.cfg.PromptTokenBudget <= 0 {
		return
	}
	total := 0
	for _, msg := range messages {
		total += len(g.encoder.Encode(msg.Content, nil, nil))
	}
	if total > g.cfg.PromptTokenBudget {
		g.logger.Warn("prompt exceeds token budget", "tokens", total, "budget", g.cfg.PromptTokenBudget)
	}
}

func (g *Generator) buildSystemPrompt() string {
	base := strings.TrimSpace(g.cfg.Prompt)
	if base == "" {
		base = "You are the resident astrologer of a music app, writing warm, grounded daily horoscopes."
	}
	enforcer := " Respond ONLY with these labeled fields, each on its own line: HEADLINE: (five words at most), HOROSCOPE: (two to three sentences), FOCUS_AREA: (one or two words), ENERGY_LEVEL: (an integer from 0 to 100). Never add other text."
	return base + enforcer
}

// buildTransitPrompt embeds the structured snapshot the model writes from.
func buildTransitPrompt(snap astro.TransitSnapshot, sign astro.Sign) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write today's horoscope for %s.\n", sign)
	fmt.Fprintf(&b, "Date: %s (%s)\n", snap.Date, snap.Timezone)
	fmt.Fprintf(&b, "Season: Sun in %s\n", snap.SunSign)
	fmt.Fprintf(&b, "Moon: in %s, %s at %d%% illumination\n", snap.MoonSign, snap.MoonPhase, snap.MoonIllumination)

	if names := snap.RetrogradeNames(); len(names) > 0 {
		fmt.Fprintf(&b, "Retrograde: %s\n", strings.Join(names, ", "))
	} else {
		b.WriteString("Retrograde: none\n")
	}

	for i, aspect := range snap.MajorAspects {
		if i >= 2 {
			break
		}
		fmt.Fprintf(&b, "Aspect: %s %s %s, orb %.1f degrees", aspect.First, aspect.Type, aspect.Second, aspect.Orb)
		if aspect.ExactAt != nil {
			fmt.Fprintf(&b, ", exact at %s", aspect.ExactAt.Format(time.RFC3339))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Dominant element: %s\n", snap.DominantElement)
	return b.String()
}

type parsedReading struct {
	headline    string
	horoscope   string
	focusArea   string
	energyLevel int
}

var readingLabels = []string{"HEADLINE:", "HOROSCOPE:", "FOCUS_AREA:", "ENERGY_LEVEL:"}

// parseLabeledReading extracts the four required labeled fields, tolerating
// label reordering and surrounding noise.
func parseLabeledReading(content string) (parsedReading, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return parsedReading{}, errors.New("empty llm response")
	}

	type section struct {
		label string
		start int
		end   int
	}
	sections := make([]section, 0, len(readingLabels))
	lower := strings.ToLower(content)
	for _, label := range readingLabels {
		idx := strings.Index(lower, strings.ToLower(label))
		if idx == -1 {
			return parsedReading{}, fmt.Errorf("missing %s section", strings.TrimSuffix(label, ":"))
		}
		sections = append(sections, section{label: label, start: idx, end: idx + len(label)})
	}

	sort.Slice(sections, func(i, j int) bool { return sections[i].start < sections[j].start })

	fields := make(map[string]string, len(sections))
	for i, sec := range sections {
		limit := len(content)
		if i+1 < len(sections) {
			limit = sections[i+1].start
		}
		fields[sec.label] = strings.TrimSpace(content[sec.end:limit])
	}

	out := parsedReading{
		headline:  fields["HEADLINE:"],
		horoscope: fields["HOROSCOPE:"],
		focusArea: fields["FOCUS_AREA:"],
	}
	if out.headline == "" || out.horoscope == "" || out.focusArea == "" {
		return parsedReading{}, errors.New("labeled section empty")
	}

	energyRaw := strings.TrimSpace(strings.Trim(fields["ENERGY_LEVEL:"], "%"))
	energy, err := strconv.Atoi(energyRaw)
	if err != nil {
		return parsedReading{}, fmt.Errorf("energy level not an integer: %q", energyRaw)
	}
	if energy < 0 || energy > 100 {
		return parsedReading{}, fmt.Errorf("energy level %d outside [0,100]", energy)
	}
	out.energyLevel = energy
	return out, nil
}
