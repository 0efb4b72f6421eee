package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"time"

	"gamebank/internal/cli"
	"gamebank/internal/config"
	"gamebank/internal/engine"
	"gamebank/internal/infrastructure"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if _, err := infrastructure.NewLogger(cfg, os.Stderr); err != nil {
		log.Fatalf("Logger error: %v", err)
	}

	ui := cli.NewUI(nil, bufio.NewReader(os.Stdin), os.Stdout)
	eng := engine.New(engine.Options{
		SessionID:     cfg.SessionID,
		TopUpDelay:    cfg.TopUpDelay,
		PurchaseDelay: cfg.PurchaseDelay,
		Observers:     []engine.Observer{ui.Observer()},
	})
	ui.SetService(eng)

	ui.Run(context.Background())

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := eng.Close(closeCtx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}
