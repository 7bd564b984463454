package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "bookinghub/docs"
	"bookinghub/internal/adapter/http/routes"
	"bookinghub/internal/config"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Booking Hub API
// @version         1.0
// @description     Booking lifecycle transitions with per-recipient notification streams.
// @description     Clients follow their stream over /v1/realtime and replay missed items with ?since=.

// @contact.name   Booking Hub maintainers

// @host localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name        bookings
// @tag.description Create bookings and move them through their lifecycle.
// @tag.name        notifications
// @tag.description Durable notification streams and acknowledgements.
// @tag.name        admin
// @tag.description Operator broadcast.
// @tag.name        realtime
// @tag.description WebSocket delivery with backlog replay.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("[main] starting service=%s store=%s relay=%t", cfg.ServiceName, cfg.StoreDriver, cfg.RedisURL != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := routes.Run(ctx, cfg); err != nil {
		stop()
		log.Fatalf("Failed to run the application: %v", err)
	}
}
