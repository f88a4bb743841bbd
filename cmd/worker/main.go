/**
 * Scoreboard Worker - Main Entry Point
 *
 * Background worker for the volleyball scoreboard system. Consumes roster
 * extraction jobs from Redis, runs OCR on roster screenshots, fills team
 * lineups in PostgreSQL, and streams job events over the score sync channel.
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/courtside/scoreboard-worker/internal/config"
	"github.com/courtside/scoreboard-worker/internal/extract"
	"github.com/courtside/scoreboard-worker/internal/logging"
	"github.com/courtside/scoreboard-worker/internal/queue"
	"github.com/courtside/scoreboard-worker/internal/roster"
	"github.com/courtside/scoreboard-worker/internal/scoreboard"
)

func main() {
	log := logging.NewLogger("main")

	if err := godotenv.Load(".env"); err != nil {
		log.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log.Info("starting scoreboard worker",
		"queue", cfg.QueueName,
		"concurrency", cfg.WorkerConcurrency,
		"languages", cfg.OCRLanguages,
		"rosterSlots", cfg.RosterSlots)

	store, err := roster.NewStore(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.EnsureSchema(schemaCtx); err != nil {
		cancelSchema()
		log.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}
	cancelSchema()

	channel, err := scoreboard.NewChannel(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer channel.Close()

	engine := extract.NewTesseract(cfg.OCRLanguages...)
	extractor := extract.NewExtractor(engine, cfg.Tuning())

	consumer, err := queue.NewConsumer(&queue.ConsumerConfig{
		RedisURL:          cfg.RedisURL,
		QueueName:         cfg.QueueName,
		Concurrency:       cfg.WorkerConcurrency,
		ExtractionTimeout: time.Duration(cfg.ExtractionTimeout) * time.Millisecond,
		MaxImageSize:      cfg.MaxImageSize,
		RosterSlots:       cfg.RosterSlots,
		Extractor:         extractor,
		Store:             store,
		Events:            channel,
	})
	if err != nil {
		log.Error("failed to create queue consumer", "error", err)
		os.Exit(1)
	}

	if err := consumer.Start(); err != nil {
		log.Error("failed to start queue consumer", "error", err)
		os.Exit(1)
	}

	log.Info("worker ready, waiting for extraction jobs")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	log.Info("shutting down", "signal", sig.String())
	consumer.Stop()
	log.Info("worker stopped")
}
