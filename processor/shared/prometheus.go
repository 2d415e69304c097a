package shared

import (
	"context"
	"errors"
	"net/http"
	"rmrk-indexer/logger"
	"rmrk-indexer/processor/config"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Serves /metrics until ctx is cancelled. Does nothing if no address is configured.
func RunMetricsServer(ctx context.Context, cfg *config.MetricsConfig) error {
	if len(cfg.PrometheusAddress) == 0 {
		return nil
	}

	r := mux.NewRouter()

	r.Path("/metrics").Handler(promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.PrometheusAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Error stopping metrics server %v", err)
		}
	}()

	logger.Info("Metrics server listening on %s", cfg.PrometheusAddress)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
