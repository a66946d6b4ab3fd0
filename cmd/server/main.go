// Package main implements the entry point for the vocadrill API server,
// which manages users' vocabulary corpora, schedules spaced-repetition
// reviews, and generates practice scenarios through an LLM.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	// A missing .env file is fine; the environment may carry everything.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if *migrateCmd != "" {
		if err := app.runMigrations(ctx, *migrateCmd); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		return
	}

	if err := app.migrateUp(ctx); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	if err := app.serve(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
