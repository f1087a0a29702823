package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/distordia/nexgo/config"
	"github.com/distordia/nexgo/internal/adapter/http/handler"
	"github.com/distordia/nexgo/internal/adapter/http/middleware"
	wshandler "github.com/distordia/nexgo/internal/adapter/http/ws"
	"github.com/distordia/nexgo/pkg/logger"
	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
)

const serverIPAddress = "%s:%s"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	board    *handler.Board
	driver   *handler.Driver
	rating   *handler.Rating
	auth     *handler.Auth
	health   *handler.Health
	boardHub *wshandler.BoardHub
}

func New(
	cfg config.Config,
	boardService handler.BoardService,
	ratingService handler.RatingService,
	driverService handler.DriverService,
	authService handler.AuthService,
	boardHub *wshandler.BoardHub,
	logger logger.Logger,
) (*API, error) {
	if authService == nil {
		return nil, errors.New("auth service is required")
	}

	routes := &handlers{
		board:    handler.NewBoard(boardService, logger),
		driver:   handler.NewDriver(driverService, logger),
		rating:   handler.NewRating(ratingService, logger),
		auth:     handler.NewAuth(authService, logger),
		health:   handler.NewHealth("nexgo", logger),
		boardHub: boardHub,
	}

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(authService, logger),
		addr:   fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.HTTP.Port),
		cfg:    cfg,
		log:    logger,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Metrics("nexgo")(a.m.Logging(a.m.Auth(a.mux)))))
}
