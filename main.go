package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthurdotwork/relay/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd.NewRootCommand(ctx).ExecuteContext(ctx); err != nil {
		slog.ErrorContext(ctx, "error running relay", "error", err)
		cancel()
		os.Exit(1)
	}
}
