package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vitals-server/confs"
	"vitals-server/db"
	"vitals-server/server"
	"vitals-server/services"
)

func main() {
	// load config
	cfg, err := confs.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// connect to database Postgres
	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer database.Close()

	var opts []server.Option
	if cfg.OpenAIKey != "" {
		opts = append(opts, server.WithCompleter(services.NewOpenAICompleter(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)))
	} else {
		log.Println("[ai] OPENAI_API_KEY not set, tips will use the fallback bundle")
	}
	if len(cfg.KafkaBrokers) > 0 {
		opts = append(opts, server.WithPublishers(services.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// run server
	if err := server.NewServer(cfg, database, opts...).Start(ctx); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
