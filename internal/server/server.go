package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gsbenevides2/hassbridge/internal/config"
	"github.com/gsbenevides2/hassbridge/internal/core/port"
	"github.com/gsbenevides2/hassbridge/internal/core/service"
	"github.com/gsbenevides2/hassbridge/internal/util"

	"go.uber.org/zap"
)

// HealthCheck reports whether the bridge can serve requests.
type HealthCheck func(ctx context.Context) error

type Server struct {
	port     uint
	httpLog  bool
	services *service.Services
	hub      port.HubClient
	health   HealthCheck
	logger   *zap.Logger
}

func New(cfg config.Config, services *service.Services, hub port.HubClient, health HealthCheck, logger *zap.Logger) *Server {
	if health == nil {
		health = func(context.Context) error { return nil }
	}
	return &Server{
		port:     cfg.Port,
		httpLog:  cfg.HttpLog,
		services: services,
		hub:      hub,
		health:   health,
		logger:   util.ComponentLogger("server", logger),
	}
}

func (s *Server) HTTPServer() *http.Server {
	// Declare Server config
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
