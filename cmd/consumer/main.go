package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-storage-samples/internal/config"
	"github.com/ariefcatur/go-storage-samples/internal/events"
	kafkax "github.com/ariefcatur/go-storage-samples/internal/kafka"
	"github.com/ariefcatur/go-storage-samples/internal/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat).With("service", cfg.ServiceName+"-consumer")
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaEventsTopic, cfg.ConsumerWorkers, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("event consumer started", "group", cfg.KafkaGroupID, "topic", cfg.KafkaEventsTopic, "workers", cfg.ConsumerWorkers)
		if err := cons.Start(ctx, events.LogHandler(log)); err != nil {
			log.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Info("shutting down consumer")
	case <-ctx.Done():
	}
	cancel()
	<-done
}
