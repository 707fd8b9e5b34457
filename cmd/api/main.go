package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/unasp-marketplace/internal/api"
	"github.com/example/unasp-marketplace/internal/auth"
	"github.com/example/unasp-marketplace/internal/config"
	"github.com/example/unasp-marketplace/internal/domain/cart"
	"github.com/example/unasp-marketplace/internal/infrastructure/kafka"
	"github.com/example/unasp-marketplace/internal/infrastructure/store"
	"github.com/example/unasp-marketplace/internal/logger"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log = log.With(zap.String("service", "api"))

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting marketplace cart api",
		zap.Strings("kafka_brokers", cfg.KafkaBrokers),
		zap.String("kafka_topic", cfg.KafkaTopic),
		zap.String("addr", cfg.HTTPAddr),
	)

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := store.ConnectPostgres(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()
	log.Info("connected to postgres")

	var eventStore store.EventStoreInterface
	switch cfg.EventStore {
	case "memory":
		eventStore = store.NewEventStore(producer)
	default:
		eventStore = store.NewPostgresEventStore(db, producer)
	}
	log.Info("event store ready", zap.String("kind", cfg.EventStore))
	catalog := store.NewPostgresCatalog(db)

	carts := cart.NewRegistry(func(userID string, m *cart.Manager) {
		cart.NewEventRecorder(eventStore, userID, log).Attach(m)
	})

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL)

	router := api.NewRouter(api.RouterConfig{
		Handlers: api.NewHandlers(carts, catalog, eventStore, log),
		Tokens:   tokens,
		Logger:   log,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server started", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
