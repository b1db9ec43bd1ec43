package app

import (
	"context"
	"fmt"

	apphttp "github.com/playfinity/playfinity-backend/internal/http"
	httpH "github.com/playfinity/playfinity-backend/internal/http/handlers"
	"github.com/playfinity/playfinity-backend/internal/observability"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/services"
)

type App struct {
	Log     *logger.Logger
	Cfg     Config
	Server  *apphttp.Server
	Clients Clients

	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	cfg := LoadConfig()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	shutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	cl := wireClients(log)

	cache := services.NewPredictionCache(log, cl.Store, cl.Hot)
	gate := services.NewTopicGate(log, cl.Store)
	topics := services.NewTopicGenerator(log, cl.Model)
	content := services.NewContentGenerator(log, cl.Model)
	images := services.NewImageSynthesizer(log, cl.Model)

	prediction := services.NewPredictionService(log, cl.Tagger, cl.Caption, topics, cache)
	games := services.NewGamesService(log, cl.Store, cl.Bucket, gate, content, images)
	letters := services.NewLetterService(log, cl.Reader)

	srv := apphttp.NewServer(apphttp.RouterConfig{
		Log:            log,
		HealthHandler:  httpH.NewHealthHandler(),
		StatusHandler:  httpH.NewStatusHandler(log, cl.Store, cl.Bucket, cache, cl.Tagger != nil, cl.Model != nil, cl.Reader != nil),
		PredictHandler: httpH.NewPredictHandler(log, prediction),
		GamesHandler:   httpH.NewGamesHandler(log, games, gate),
		CacheHandler:   httpH.NewCacheHandler(log, cache, topics),
		LetterHandler:  httpH.NewLetterHandler(log, letters),
		DrawingHandler: httpH.NewDrawingHandler(log, cl.Bucket),
		ServiceName:    cfg.ServiceName,
	}, cfg.Port)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Server:       srv,
		Clients:      cl,
		otelShutdown: shutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	a.Clients.close()
	if a.Log != nil {
		a.Log.Sync()
	}
}
