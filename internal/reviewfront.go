package internal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgellow/review-front/internal/apiclient"
	"github.com/dgellow/review-front/internal/config"
	"github.com/dgellow/review-front/internal/log"
	"github.com/dgellow/review-front/internal/metrics"
	"github.com/dgellow/review-front/internal/server"
	"github.com/prometheus/client_golang/prometheus"
)

// ReviewFront represents the complete frontend application
type ReviewFront struct {
	config     config.Config
	httpServer *server.HTTPServer
	limiter    *server.RateLimiter
}

// NewReviewFront creates a new frontend application with all dependencies built
func NewReviewFront(cfg config.Config) (*ReviewFront, error) {
	log.LogInfoWithFields("reviewfront", "Building frontend application", map[string]any{
		"addr":       cfg.Addr,
		"apiBaseURL": cfg.APIBaseURL,
	})

	api := apiclient.NewClient(cfg.APIBaseURL)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	limiter := server.NewRateLimiter(cfg.CallbackRatePerMin)

	router := server.NewRouter(cfg, api, collector, registry, limiter)
	httpServer := server.NewHTTPServer(router, cfg.Addr)

	return &ReviewFront{
		config:     cfg,
		httpServer: httpServer,
		limiter:    limiter,
	}, nil
}

// Run starts the frontend application and blocks until shutdown
func (f *ReviewFront) Run() error {
	log.LogInfoWithFields("reviewfront", "Starting frontend application", map[string]any{
		"addr": f.config.Addr,
	})

	errChan := make(chan error, 1)
	go func() {
		if err := f.httpServer.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var shutdownReason string
	select {
	case sig := <-sigChan:
		shutdownReason = fmt.Sprintf("signal %v", sig)
		log.LogInfoWithFields("reviewfront", "Received shutdown signal", map[string]any{
			"signal": sig.String(),
		})
	case err := <-errChan:
		shutdownReason = fmt.Sprintf("error: %v", err)
		log.LogErrorWithFields("reviewfront", "Shutting down due to error", map[string]any{
			"error": err.Error(),
		})
	}

	log.LogInfoWithFields("reviewfront", "Starting graceful shutdown", map[string]any{
		"reason":  shutdownReason,
		"timeout": "30s",
	})
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := f.httpServer.Stop(shutdownCtx); err != nil {
		log.LogErrorWithFields("reviewfront", "HTTP server shutdown error", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	f.limiter.Stop()

	log.LogInfoWithFields("reviewfront", "Application shutdown complete", map[string]any{
		"reason": shutdownReason,
	})
	return nil
}
