package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/astrotune/backend/internal/domain/astro"
	"github.com/astrotune/backend/internal/domain/horoscope"
	"github.com/astrotune/backend/internal/domain/natal"
	"github.com/astrotune/backend/internal/infra/config"
	"github.com/astrotune/backend/internal/infra/llm/chatgpt"
	"github.com/astrotune/backend/internal/infra/natalrepo"
	"github.com/astrotune/backend/internal/infra/readingstore"
)

func provideReadingConfig(cfg *config.Config) horoscope.Config {
	return horoscope.Config{
		Model:             cfg.LLM.Model,
		Temperature:       cfg.LLM.Temperature,
		Prompt:            cfg.Reading.Prompt,
		MaxAttempts:       cfg.LLM.MaxAttempts,
		PromptTokenBudget: cfg.Reading.PromptTokenBudget,
		DefaultTimezone:   cfg.Reading.DefaultTimezone,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.RequestTimeout)
}

func provideEphemeris() *astro.Ephemeris {
	return astro.NewEphemeris()
}

func provideReadingStore(cfg *config.Config, logger *slog.Logger) horoscope.Store {
	if cfg.Reading.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return readingstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return readingstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("reading valkey store enabled", "addr", cfg.Reading.Valkey.Addr)
			return readingstore.NewValkeyStore(client, "reading")
		}
	}
	return readingstore.NewMemoryStore()
}

func provideBirthRepository(cfg *config.Config, logger *slog.Logger) natal.Repository {
	fallback := natalrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.BirthData.Postgres.DSN)
	if dsn == "" {
		logger.Info("birth data postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.BirthData.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.BirthData.Postgres.MaxConns
	}
	if cfg.BirthData.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.BirthData.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("birth data postgres repository enabled")
	return natalrepo.NewPostgresRepository(pool)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Reading.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Reading.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Reading.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
