package horoscope

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/astrotune/backend/internal/domain/astro"
	apperrors "github.com/astrotune/backend/pkg/errors"
	"github.com/astrotune/backend/pkg/util"
)

// Service exposes the daily reading pipeline.
type Service interface {
	DailyReading(ctx context.Context, req Request) (Reading, error)
	Transits(ctx context.Context, date, tz string) (astro.TransitSnapshot, error)
}

// SnapshotProvider supplies the deterministic sky snapshot per day.
type SnapshotProvider interface {
	Snapshot(date string, loc *time.Location) (astro.TransitSnapshot, error)
}

// ReadingGenerator produces a reading for one snapshot and sign. It is
// infallible: degraded paths return fallback content.
type ReadingGenerator interface {
	Generate(ctx context.Context, snap astro.TransitSnapshot, sign astro.Sign) Reading
}

type service struct {
	cfg       Config
	ephemeris SnapshotProvider
	generator ReadingGenerator
	store     Store
	logger    *slog.Logger
	group     singleflight.Group
	now       func() time.Time
}

// NewService wires up the reading domain.
func NewService(cfg Config, ephemeris SnapshotProvider, generator ReadingGenerator, store Store, logger *slog.Logger) Service {
	return &service{
		cfg:       cfg,
		ephemeris: ephemeris,
		generator: generator,
		store:     store,
		logger:    logger.With("component", "horoscope.service"),
		now:       time.Now,
	}
}

func (s *service) DailyReading(ctx context.Context, req Request) (Reading, error) {
	sign, err := astro.ParseSign(req.SunSign)
	if err != nil {
		return Reading{}, apperrors.Wrap("invalid_input", "unknown sun sign", err)
	}
	loc, err := s.resolveLocation(req.Timezone)
	if err != nil {
		return Reading{}, err
	}
	date, err := s.resolveDate(req.Date, loc)
	if err != nil {
		return Reading{}, err
	}

	snap, err := s.ephemeris.Snapshot(date, loc)
	if err != nil {
		return Reading{}, err
	}

	key := cacheKey(sign, date, loc)
	if record, ok := s.lookup(ctx, key); ok {
		return record.Reading, nil
	}

	// Single-flight: concurrent misses for the same key share one
	// generation. The shared call is detached from this caller's
	// cancellation so other waiters still receive a result.
	shared, _, _ := s.group.Do(key, func() (any, error) {
		genCtx := context.WithoutCancel(ctx)
		if record, ok := s.lookup(genCtx, key); ok {
			return record.Reading, nil
		}

		reading := s.generator.Generate(genCtx, snap, sign)

		record := CacheRecord{Key: key, Reading: reading, CreatedAt: s.now().UTC()}
		if saveErr := s.store.Save(genCtx, record, util.UntilMidnight(s.now(), loc)); saveErr != nil {
			s.logger.Warn("reading cache save failed", "key", key, "error", saveErr)
		}
		return reading, nil
	})
	return shared.(Reading), nil
}

func (s *service) Transits(ctx context.Context, date, tz string) (astro.TransitSnapshot, error) {
	loc, err := s.resolveLocation(tz)
	if err != nil {
		return astro.TransitSnapshot{}, err
	}
	resolved, err := s.resolveDate(date, loc)
	if err != nil {
		return astro.TransitSnapshot{}, err
	}
	return s.ephemeris.Snapshot(resolved, loc)
}

// lookup treats store failures as misses so a degraded cache backend never
// takes the endpoint down.
func (s *service) lookup(ctx context.Context, key string) (CacheRecord, bool) {
	record, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("reading cache lookup failed", "key", key, "error", err)
		return CacheRecord{}, false
	}
	return record, ok
}

func (s *service) resolveLocation(tz string) (*time.Location, error) {
	name := strings.TrimSpace(tz)
	if name == "" {
		name = s.cfg.DefaultTimezone
	}
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, apperrors.Wrap("invalid_input", "unknown timezone", err)
	}
	return loc, nil
}

func (s *service) resolveDate(input string, loc *time.Location) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return s.now().In(loc).Format("2006-01-02"), nil
	}
	if _, err := time.ParseInLocation("2006-01-02", trimmed, loc); err != nil {
		return "", apperrors.Wrap("invalid_input", "date must be formatted as YYYY-MM-DD", err)
	}
	return trimmed, nil
}

func cacheKey(sign astro.Sign, date string, loc *time.Location) string {
	return fmt.Sprintf("reading:%s:%s:%s", strings.ToLower(sign.String()), date, loc.String())
}
