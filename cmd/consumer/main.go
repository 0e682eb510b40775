package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stay/config"
	"stay/di"
	"stay/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := di.InitializeConsumer()

	log.Info().Str("topic", cfg.Kafka.Topic.BookingEvents).Msg("Starting booking event consumer.")

	consumer.StartConsumer(ctx)

	log.Info().Msg("Booking event consumer shut down.")
}
