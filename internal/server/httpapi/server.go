// Package httpapi exposes the FoodDiary services as a JSON REST API under /api.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/logging"
	"github.com/dmitrijs2005/fooddiary/internal/server/config"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	address     string
	logger      logging.Logger
	jwtSecret   []byte
	svc         Services
	aiLimiter   *RateLimiter
	corsOrigins []string
}

func NewServer(cfg *config.Config, l logging.Logger, svc Services) (*Server, error) {
	limiter, err := NewRateLimiter(cfg.AIRequestsPerMinute, time.Minute)
	if err != nil {
		return nil, err
	}
	return &Server{
		address:     cfg.EndpointAddrHTTP,
		logger:      l.With("module", "http_server"),
		jwtSecret:   []byte(cfg.SecretKey),
		svc:         svc,
		aiLimiter:   limiter,
		corsOrigins: cfg.CORSAllowedOrigins,
	}, nil
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
