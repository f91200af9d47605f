package natal

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/astrotune/backend/internal/domain/astro"
	apperrors "github.com/astrotune/backend/pkg/errors"
)

// Service exposes birth data registration and chart lookups.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (Profile, error)
	Get(ctx context.Context, id string) (Profile, error)
}

// PositionProvider computes placements at an arbitrary instant.
type PositionProvider interface {
	PositionsAt(at time.Time) ([]astro.PlanetPosition, error)
}

type service struct {
	repo      Repository
	ephemeris PositionProvider
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires up the natal domain.
func NewService(repo Repository, ephemeris PositionProvider, logger *slog.Logger) Service {
	return &service{
		repo:      repo,
		ephemeris: ephemeris,
		logger:    logger.With("component", "natal.service"),
		now:       time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (Profile, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Profile{}, apperrors.Wrap("invalid_input", "name cannot be empty", nil)
	}
	birthTime, err := time.Parse(time.RFC3339, strings.TrimSpace(req.BirthTime))
	if err != nil {
		return Profile{}, apperrors.Wrap("invalid_input", "birth_time must be RFC3339", err)
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		return Profile{}, apperrors.Wrap("invalid_input", "latitude out of range", nil)
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return Profile{}, apperrors.Wrap("invalid_input", "longitude out of range", nil)
	}

	chart, err := s.computeChart(birthTime, req.Latitude, req.Longitude)
	if err != nil {
		return Profile{}, err
	}

	record, err := s.repo.Insert(ctx, BirthRecord{
		ID:        uuid.New(),
		Name:      name,
		BirthTime: birthTime.UTC(),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return Profile{}, apperrors.Wrap("birth_data_error", "failed to store birth record", err)
	}

	s.logger.Info("birth record created", "id", record.ID.String(), "sun_sign", chart.SunSign.String())
	return Profile{Record: record, Chart: chart}, nil
}

func (s *service) Get(ctx context.Context, id string) (Profile, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return Profile{}, apperrors.Wrap("invalid_input", "id must be a UUID", err)
	}
	record, found, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		return Profile{}, apperrors.Wrap("birth_data_error", "failed to load birth record", err)
	}
	if !found {
		return Profile{}, apperrors.Wrap("not_found", "birth record not found", nil)
	}

	chart, err := s.computeChart(record.BirthTime, record.Latitude, record.Longitude)
	if err != nil {
		return Profile{}, err
	}
	return Profile{Record: record, Chart: chart}, nil
}

func (s *service) computeChart(birthTime time.Time, lat, lon float64) (Chart, error) {
	positions, err := s.ephemeris.PositionsAt(birthTime)
	if err != nil {
		return Chart{}, err
	}

	chart := Chart{}
	for _, pos := range positions {
		switch pos.Planet {
		case astro.Sun:
			chart.SunSign = pos.Sign
		case astro.Moon:
			chart.MoonSign = pos.Sign
		}
	}
	chart.Ascendant, chart.AscendantDegree = astro.Ascendant(birthTime, lat, lon)
	return chart, nil
}
