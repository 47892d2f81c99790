package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/workshop-financial-engine/internal/commands"
	"github.com/workshop-financial-engine/internal/config"
	"github.com/workshop-financial-engine/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig("finctl")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Documents go to stdout, so logs stay on stderr
	log := logger.NewLoggerWithWriter(cfg, os.Stderr)

	root := commands.NewRootCommand(commands.NewLiveBackend(cfg, log))
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
