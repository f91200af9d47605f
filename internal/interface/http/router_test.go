package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/astrotune/backend/internal/domain/astro"
	"github.com/astrotune/backend/internal/domain/horoscope"
	"github.com/astrotune/backend/internal/domain/natal"
	"github.com/astrotune/backend/internal/infra/config"
	apperrors "github.com/astrotune/backend/pkg/errors"
)

func TestRouter_DailyReadingSuccess(t *testing.T) {
	reading := horoscope.Reading{
		Headline:      "Steady Ground",
		Horoscope:     "A calm day for Capricorn.",
		CosmicWeather: "Capricorn season with the Moon in Pisces.",
		EnergyLevel:   62,
		FocusArea:     "career",
		PlaylistParams: horoscope.PlaylistParams{
			MinTempo:   85,
			MaxTempo:   117,
			Energy:     0.62,
			Valence:    0.66,
			SeedGenres: []string{"acoustic", "folk", "classical"},
		},
	}
	svc := &stubReadingService{
		dailyFn: func(ctx context.Context, req horoscope.Request) (horoscope.Reading, error) {
			require.Equal(t, "capricorn", req.SunSign)
			require.Equal(t, "2026-01-02", req.Date)
			require.Equal(t, "America/New_York", req.Timezone)
			return reading, nil
		},
	}

	rec := performGet("/api/v1/daily-reading?sunSign=capricorn&date=2026-01-02&tz=America/New_York", newRouterUnderTest(t, svc, nil, config.AuthConfig{}))
	require.Equal(t, http.StatusOK, rec.Code)

	var got horoscope.Reading
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, reading, got)
}

func TestRouter_DailyReadingInvalidSign(t *testing.T) {
	svc := &stubReadingService{
		dailyFn: func(ctx context.Context, req horoscope.Request) (horoscope.Reading, error) {
			return horoscope.Reading{}, apperrors.Wrap("invalid_input", "unknown sun sign", nil)
		},
	}

	rec := performGet("/api/v1/daily-reading?sunSign=ophiuchus", newRouterUnderTest(t, svc, nil, config.AuthConfig{}))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "unknown sun sign")
}

func TestRouter_DailyReadingOutOfEpoch(t *testing.T) {
	svc := &stubReadingService{
		dailyFn: func(ctx context.Context, req horoscope.Request) (horoscope.Reading, error) {
			return horoscope.Reading{}, apperrors.Wrap("ephemeris_error", "date outside supported range", nil)
		},
	}

	rec := performGet("/api/v1/daily-reading?sunSign=aries&date=1750-06-01", newRouterUnderTest(t, svc, nil, config.AuthConfig{}))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "ephemeris_error", errBody["error"]["code"])
}

func TestRouter_TransitsSuccess(t *testing.T) {
	svc := &stubReadingService{
		transitsFn: func(ctx context.Context, date, tz string) (astro.TransitSnapshot, error) {
			require.Equal(t, "2026-01-02", date)
			require.Equal(t, "UTC", tz)
			return astro.TransitSnapshot{Date: "2026-01-02", Timezone: "UTC", SunSign: astro.Capricorn}, nil
		},
	}

	rec := performGet("/api/v1/transits?date=2026-01-02&tz=UTC", newRouterUnderTest(t, svc, nil, config.AuthConfig{}))
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Capricorn", got["sun_sign"])
}

func TestRouter_Healthz(t *testing.T) {
	rec := performGet("/healthz", newRouterUnderTest(t, &stubReadingService{}, nil, config.AuthConfig{}))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CreateBirthDataRequiresToken(t *testing.T) {
	authCfg := config.AuthConfig{Enabled: true, Secret: "test-secret", Issuer: "astrotune"}
	server := newRouterUnderTest(t, &stubReadingService{}, &stubNatalService{}, authCfg)

	rec := performPost("/api/v1/birth-data", `{"name":"Ada"}`, "", server)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "unauthorized", errBody["error"]["code"])
}

func TestRouter_CreateBirthDataWithToken(t *testing.T) {
	authCfg := config.AuthConfig{Enabled: true, Secret: "test-secret", Issuer: "astrotune"}
	natalSvc := &stubNatalService{
		createFn: func(ctx context.Context, req natal.CreateRequest) (natal.Profile, error) {
			require.Equal(t, "Ada", req.Name)
			return natal.Profile{Chart: natal.Chart{SunSign: astro.Sagittarius}}, nil
		},
	}
	server := newRouterUnderTest(t, &stubReadingService{}, natalSvc, authCfg)

	body := `{"name":"Ada","birth_time":"1990-12-05T14:30:00Z","latitude":40.7,"longitude":-74.0}`
	rec := performPost("/api/v1/birth-data", body, signTestToken(t, authCfg), server)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_CreateBirthDataRejectsForgedToken(t *testing.T) {
	authCfg := config.AuthConfig{Enabled: true, Secret: "test-secret", Issuer: "astrotune"}
	server := newRouterUnderTest(t, &stubReadingService{}, &stubNatalService{}, authCfg)

	forged := signTestToken(t, config.AuthConfig{Secret: "wrong-secret", Issuer: "astrotune"})
	rec := performPost("/api/v1/birth-data", `{"name":"Ada"}`, forged, server)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_token", errBody["error"]["code"])
}

func TestRouter_GetBirthDataNotFound(t *testing.T) {
	natalSvc := &stubNatalService{
		getFn: func(ctx context.Context, id string) (natal.Profile, error) {
			return natal.Profile{}, apperrors.Wrap("not_found", "birth record not found", nil)
		},
	}
	server := newRouterUnderTest(t, &stubReadingService{}, natalSvc, config.AuthConfig{})

	rec := performGet("/api/v1/birth-data/8d4642d3-8b5a-4d0a-9d0e-0f6c1f7f0f11", server)
	require.Equal(t, http.StatusNotFound, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "not_found", errBody["error"]["code"])
}

func performGet(path string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func performPost(path, body, token string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, readingSvc horoscope.Service, natalSvc natal.Service, authCfg config.AuthConfig) *http.Server {
	t.Helper()
	if natalSvc == nil {
		natalSvc = &stubNatalService{}
	}
	handler := NewHandler(readingSvc, natalSvc, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Auth: authCfg,
	}
	return NewRouter(cfg, handler)
}

func signTestToken(t *testing.T, cfg config.AuthConfig) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "user-123",
		Issuer:    cfg.Issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	require.NoError(t, err)
	return signed
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubReadingService struct {
	dailyFn    func(ctx context.Context, req horoscope.Request) (horoscope.Reading, error)
	transitsFn func(ctx context.Context, date, tz string) (astro.TransitSnapshot, error)
}

func (s *stubReadingService) DailyReading(ctx context.Context, req horoscope.Request) (horoscope.Reading, error) {
	if s.dailyFn != nil {
		return s.dailyFn(ctx, req)
	}
	return horoscope.Reading{}, nil
}

func (s *stubReadingService) Transits(ctx context.Context, date, tz string) (astro.TransitSnapshot, error) {
	if s.transitsFn != nil {
		return s.transitsFn(ctx, date, tz)
	}
	return astro.TransitSnapshot{}, nil
}

type stubNatalService struct {
	createFn func(ctx context.Context, req natal.CreateRequest) (natal.Profile, error)
	getFn    func(ctx context.Context, id string) (natal.Profile, error)
}

func (s *stubNatalService) Create(ctx context.Context, req natal.CreateRequest) (natal.Profile, error) {
	if s.createFn != nil {
		return s.createFn(ctx, req)
	}
	return natal.Profile{}, nil
}

func (s *stubNatalService) Get(ctx context.Context, id string) (natal.Profile, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return natal.Profile{}, nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
