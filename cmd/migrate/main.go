package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gamebank/internal/config"
	"gamebank/internal/repository"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		fmt.Println("Error: migration command is required")
		fmt.Println("Usage: go run ./cmd/migrate [command]")
		fmt.Println("Commands: up, down, status, redo")
		os.Exit(1)
	}

	dsn, err := cfg.DSN()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Printf("Starting migration: %s", args[0])

	if err := repository.RunMigrations(ctx, dsn, args[0]); err != nil {
		log.Fatalf("Migration error: %v", err)
	}

	fmt.Println("Migration finished successfully")
}
