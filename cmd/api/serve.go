package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gsbenevides2/hassbridge/internal/mqtt"
	"github.com/gsbenevides2/hassbridge/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and keep discovery in sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Create context that listens for the interrupt signal from the OS.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			b, err := newBridge(ctx)
			if err != nil {
				return err
			}
			defer b.close()

			if b.publisher != nil {
				if err := b.publisher.Start(ctx); err != nil {
					logger.Warn("discovery start failed", zap.Error(err))
				}
			}
			if err := b.services.Announce(ctx); err != nil {
				// discovery never blocks the REST path
				logger.Warn("announce failed", zap.Error(err))
			}

			srv := server.New(*cfg, b.services, b.hub, healthCheck(b.mqtt), logger).HTTPServer()

			// Create a done channel to signal when the shutdown is complete
			done := make(chan bool, 1)
			go gracefulShutdown(ctx, srv, done)

			logger.Info("listening", zap.String("addr", srv.Addr))
			err = srv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server error: %w", err)
			}

			// Wait for the graceful shutdown to complete
			<-done
			log.Println("Graceful shutdown complete.")
			return nil
		},
	}
}

func healthCheck(client *mqtt.MQTTClient) server.HealthCheck {
	return func(context.Context) error {
		if client != nil && !client.IsConnected() {
			return mqtt.ErrNotConnected
		}
		return nil
	}
}

func gracefulShutdown(ctx context.Context, apiServer *http.Server, done chan bool) {
	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}
