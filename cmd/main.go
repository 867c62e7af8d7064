package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/currilab/curricula-backend/internal/app"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")

	a, err := app.New(configPath)
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		a.Log.Error("server failed", "error", err)
		os.Exit(1)
	}
}
