// Package httpapi exposes the forecasting engine over a JSON REST API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/callsight/callsight/core"
	"github.com/callsight/callsight/internal/contract"
	"github.com/callsight/callsight/internal/metrics"
)

// Server hosts the REST API over the forecasting engine and the stores.
type Server struct {
	engine *core.Engine
	stores contract.StoreManager
	cfg    *contract.Config
}

// NewServer creates a server over the given engine and stores.
func NewServer(engine *core.Engine, stores contract.StoreManager, cfg *contract.Config) *Server {
	return &Server{engine: engine, stores: stores, cfg: cfg}
}

// Router builds the API route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(observeMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET", "OPTIONS")

	api.HandleFunc("/forecast", s.handleGenerateForecast).Methods("POST", "OPTIONS")
	api.HandleFunc("/forecasts", s.handleListForecasts).Methods("GET", "OPTIONS")
	api.HandleFunc("/analytics/accuracy", s.handleAccuracy).Methods("GET", "OPTIONS")

	api.HandleFunc("/call-data", s.handleCreateObservation).Methods("POST", "OPTIONS")
	api.HandleFunc("/call-data/bulk", s.handleBulkObservations).Methods("POST", "OPTIONS")
	api.HandleFunc("/call-data", s.handleListObservations).Methods("GET")
	api.HandleFunc("/call-data", s.handleDeleteObservations).Methods("DELETE")

	api.HandleFunc("/upload-csv", s.handleUploadCSV).Methods("POST", "OPTIONS")

	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods("GET")
	return router
}

// Run serves the API until the context is canceled or a shutdown signal
// arrives, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("api server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
