package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"

	"roombook/internal/health"
	"roombook/internal/notifications"
	"roombook/pkg/config"
	"roombook/pkg/middleware"
)

const ServiceName = "notifier"

// The notifier consumes reservation events and renders them to organizers.
func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Notifier worker", "topic", cfg.KafkaReservationTopic, "group_id", cfg.KafkaNotifierGroupID)

	consumer := cfg.NewKafkaConsumer(notifications.EventHandler(notifications.NewLogSink(cfg.Log)))

	healthHandler := health.NewHealthHandler(nil, cfg.Log).WithStats(func() any {
		return cfg.KafkaMetrics.Snapshot()
	})
	router := httprouter.New()
	healthHandler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Recovery(cfg.Log)(router),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := consumer.Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		cfg.Log.Info("Starting health server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		cfg.Log.Info("Shutting down notifier")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		cfg.Log.Error("Notifier stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped", "stats", cfg.KafkaMetrics.Snapshot())
}
