package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	// System Health
	a.mux.HandleFunc("/health", a.routes.health.HealthCheck)

	a.setupSwaggerRoutes()
	a.setupMetricsRoute()

	// Public board surface
	a.mux.HandleFunc("GET /board", a.routes.board.GetBoard)          // Ranked listing board
	a.mux.HandleFunc("GET /ws/board", a.routes.boardHub.HandleWS)    // Live board subscription
	a.mux.HandleFunc("POST /auth/login", a.routes.auth.Login)        // Operator login

	// Mutating surface, needs a bearer token
	a.mux.Handle("POST /board/refresh", a.m.RequireOperator(a.routes.board.Refresh))                     // Force a refresh pass
	a.mux.Handle("POST /ratings", a.m.RequireOperator(a.routes.rating.Submit))                           // Rate a driver
	a.mux.Handle("GET /driver/settings", a.m.RequireOperator(a.routes.driver.GetSettings))               // Driver settings
	a.mux.Handle("PUT /driver/settings", a.m.RequireOperator(a.routes.driver.UpdateSettings))            // Update driver settings
	a.mux.Handle("POST /driver/status", a.m.RequireOperator(a.routes.driver.SetStatus))                  // Switch advertised status
	a.mux.Handle("PUT /driver/position", a.m.RequireOperator(a.routes.driver.SetPosition))               // Pin position manually
	a.mux.Handle("POST /driver/position/acquire", a.m.RequireOperator(a.routes.driver.AcquirePosition))  // Re-run locator chain
	a.mux.Handle("POST /driver/listing", a.m.RequireOperator(a.routes.driver.UpsertListing))             // Write listing on-chain
	a.mux.Handle("POST /driver/broadcast/start", a.m.RequireOperator(a.routes.driver.StartBroadcast))    // Start broadcasting
	a.mux.Handle("POST /driver/broadcast/stop", a.m.RequireOperator(a.routes.driver.StopBroadcast))      // Stop broadcasting
}

// setupSwaggerRoutes configures the Swagger UI endpoint
func (a *API) setupSwaggerRoutes() {
	a.mux.HandleFunc("/swagger/", httpSwagger.Handler())
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func (a *API) setupMetricsRoute() {
	a.mux.Handle("/metrics", promhttp.Handler())
}
