package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agamariel/bankdash/internal/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log.Printf("Config: address=%s redis=%q token_ttl=%s snapshots=%s idempotency_ttl=%s",
		cfg.RunAddress, cfg.RedisAddress, cfg.TokenExpiration, cfg.SnapshotInterval, cfg.IdempotencyTTL)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(rootCtx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Сервер, упавший сам по себе, завершает процесс так же, как сигнал
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Start(rootCtx)
	}()

	exitCode := 0
	select {
	case <-rootCtx.Done():
		log.Println("Shutdown signal received")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server error: %v", err)
			exitCode = 1
		}
	}
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
		exitCode = 1
	}
	if exitCode != 0 {
		cancel()
		os.Exit(exitCode)
	}
}
