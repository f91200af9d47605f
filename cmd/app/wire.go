//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/astrotune/backend/internal/bootstrap"
	"github.com/astrotune/backend/internal/domain/astro"
	"github.com/astrotune/backend/internal/domain/horoscope"
	"github.com/astrotune/backend/internal/domain/natal"
	"github.com/astrotune/backend/internal/infra/config"
	"github.com/astrotune/backend/internal/infra/llm/chatgpt"
	httpiface "github.com/astrotune/backend/internal/interface/http"
	"github.com/astrotune/backend/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideReadingConfig,
		provideChatGPTClient,
		provideEphemeris,
		provideReadingStore,
		provideBirthRepository,
		horoscope.NewGenerator,
		horoscope.NewService,
		natal.NewService,
		wire.Bind(new(horoscope.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(horoscope.SnapshotProvider), new(*astro.Ephemeris)),
		wire.Bind(new(horoscope.ReadingGenerator), new(*horoscope.Generator)),
		wire.Bind(new(natal.PositionProvider), new(*astro.Ephemeris)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
