package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-storage-samples/internal/cache"
	"github.com/ariefcatur/go-storage-samples/internal/config"
	"github.com/ariefcatur/go-storage-samples/internal/esx"
	"github.com/ariefcatur/go-storage-samples/internal/events"
	"github.com/ariefcatur/go-storage-samples/internal/httpx"
	kafkax "github.com/ariefcatur/go-storage-samples/internal/kafka"
	"github.com/ariefcatur/go-storage-samples/internal/logging"
	"github.com/ariefcatur/go-storage-samples/internal/postgres"
	"github.com/ariefcatur/go-storage-samples/internal/products"
	"github.com/ariefcatur/go-storage-samples/internal/redisx"
	"github.com/ariefcatur/go-storage-samples/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat).With("service", cfg.ServiceName)
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Postgres
	if cfg.MigrateOnStart {
		if err := migrate(ctx, cfg.PostgresDSN); err != nil {
			fatal(log, "migrate", err)
		}
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns)
	if err != nil {
		fatal(log, "db connect", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(redisx.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		fatal(log, "redis", err)
	}

	// Elasticsearch
	es, err := esx.New(esx.Options{Addresses: cfg.ESAddresses, Username: cfg.ESUsername, Password: cfg.ESPassword})
	if err != nil {
		fatal(log, "elasticsearch", err)
	}
	if err := esx.Ping(ctx, es); err != nil {
		log.Warn("elasticsearch unreachable", "addresses", cfg.ESAddresses, "err", err)
	}
	productStore := products.NewESStore(es, cfg.ESIndex)
	if err := productStore.EnsureIndex(ctx); err != nil {
		log.Warn("elasticsearch index not ready", "index", cfg.ESIndex, "err", err)
	}

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, cfg.KafkaEventsTopic, 1024, log)
	prod.Start(ctx)

	consumerDone := make(chan struct{})
	if cfg.ConsumerEnabled {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaEventsTopic, cfg.ConsumerWorkers, log)
		go func() {
			defer close(consumerDone)
			log.Info("event consumer started", "group", cfg.KafkaGroupID, "topic", cfg.KafkaEventsTopic, "workers", cfg.ConsumerWorkers)
			if err := cons.Start(ctx, events.LogHandler(log)); err != nil {
				log.Error("consumer exit", "err", err)
			}
		}()
	} else {
		close(consumerDone)
	}

	router := httpx.NewRouter(httpx.Deps{
		Users:          users.NewService(users.NewRepo(db), log),
		Products:       products.NewService(productStore, log),
		Cache:          cache.NewService(rdb, log),
		Events:         events.NewPublisher(prod, log),
		Log:            log,
		RequestTimeout: cfg.RequestTimeout,
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "listen", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error("http shutdown", "err", err)
	}
	prod.Close() // flush queued events and close the writer
	cancel()
	prod.WaitClosed()
	<-consumerDone
}

func migrate(ctx context.Context, dsn string) error {
	sqlDB, err := postgres.OpenDB(dsn)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return postgres.Migrate(ctx, sqlDB)
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "err", err)
	os.Exit(1)
}
