package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/distordia/nexgo/config"
	"github.com/distordia/nexgo/internal/adapter/geoip"
	"github.com/distordia/nexgo/internal/adapter/http/server"
	wshandler "github.com/distordia/nexgo/internal/adapter/http/ws"
	"github.com/distordia/nexgo/internal/adapter/nexus"
	repo "github.com/distordia/nexgo/internal/adapter/postgres"
	rabbitadapter "github.com/distordia/nexgo/internal/adapter/rabbit"
	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/internal/service/auth"
	"github.com/distordia/nexgo/internal/service/board"
	"github.com/distordia/nexgo/internal/service/driver"
	"github.com/distordia/nexgo/internal/store"
	"github.com/distordia/nexgo/pkg/logger"
	"github.com/distordia/nexgo/pkg/postgres"
	"github.com/distordia/nexgo/pkg/rabbit"
	ws "github.com/distordia/nexgo/pkg/wsHub"
)

// App wires the board daemon together: ledger client, local state
// store, sync loops, persistence and the HTTP surface.
type App struct {
	postgresDB *postgres.PostgreDB
	rabbitMQ   *rabbit.RabbitMQ
	httpServer *server.API

	boardService  *board.Service
	driverService *driver.Service
	hub           *ws.SubscriberHub

	cfg config.Config
	log logger.Logger
}

func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	postgresDB, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "Failed to setup database", err)
		return nil, err
	}

	var rabbitMQ *rabbit.RabbitMQ
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			// The broker only carries diagnostics, the board works without it.
			log.Warn(ctx, "Failed to connect to RabbitMQ, events disabled", "error", err.Error())
			rabbitMQ = nil
		}
	}

	ledger := nexus.New(nexus.Config{
		NodeURL:     cfg.Ledger.NodeURL,
		Session:     cfg.Ledger.Session,
		Pin:         cfg.Ledger.Pin,
		CallTimeout: cfg.Ledger.CallTimeout,
	}, log)

	st := store.New()
	producer := rabbitadapter.NewBoardProducer(rabbitMQ)
	hub := ws.NewSubscriberHub(log)

	var boardService *board.Service
	boardHub := wshandler.NewBoardHub(hub, func() []models.BoardListing {
		return boardService.Board(nil)
	}, log)

	boardService = board.New(ledger, st, producer, boardHub, board.Config{
		ListingLimit:    cfg.Ledger.ListingLimit,
		RatingScanLimit: cfg.Ledger.RatingScanLimit,
		ListingRefresh:  cfg.Board.ListingRefresh,
		RatingRefresh:   cfg.Board.RatingRefresh,
	}, cfg.Ledger.Genesis, log)

	locators := make([]driver.Locator, 0, 2)
	if cfg.Position.HasStaticPosition() {
		locators = append(locators, geoip.NewStatic(cfg.Position.StaticLatitude, cfg.Position.StaticLongitude))
	}
	locators = append(locators, geoip.New(cfg.GeoIP.Endpoint))

	settingsRepo := repo.NewSettingsRepo(postgresDB.Pool)

	driverService := driver.New(ledger, locators, settingsRepo, producer, st, driver.Config{
		BroadcastInterval: cfg.Broadcast.Interval,
	}, cfg.Ledger.Genesis, log)

	authService := auth.NewTokenService(
		cfg.Auth.OperatorSecret,
		cfg.Auth.JWTSecret,
		cfg.Ledger.Genesis,
		cfg.Auth.AccessTokenTTL,
		log,
	)

	httpServer, err := server.New(cfg, boardService, boardService, driverService, authService, boardHub, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		return nil, err
	}

	return &App{
		postgresDB:    postgresDB,
		rabbitMQ:      rabbitMQ,
		httpServer:    httpServer,
		boardService:  boardService,
		driverService: driverService,
		hub:           hub,
		cfg:           cfg,
		log:           log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	if err := a.driverService.Bootstrap(ctx); err != nil {
		return fmt.Errorf("driver bootstrap failed: %w", err)
	}

	syncCtx, stopSync := context.WithCancel(ctx)
	go a.boardService.Run(syncCtx)

	a.httpServer.Run(ctx, errCh)
	defer func() {
		stopSync()
		a.close(ctx)
		a.log.Info(ctx, "nexgo closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "nexgo board service started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	a.driverService.Close()

	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if a.hub != nil {
		a.hub.CloseAll()
	}

	if a.rabbitMQ != nil {
		if err := a.rabbitMQ.Close(ctx); err != nil {
			a.log.Warn(ctx, "Failed to gracefully close RabbitMQ connection", "error", err.Error())
		}
	}

	if a.postgresDB != nil {
		a.postgresDB.Close()
	}
}
