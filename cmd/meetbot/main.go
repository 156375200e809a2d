package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/meetbot/internal/cli"
	"github.com/example/meetbot/internal/config"
	"github.com/example/meetbot/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code. Logs go
// to stderr so table output on stdout stays clean.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	logger := logging.New(stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	root := cli.NewRootCmd(&cli.Dependencies{
		Config: cfg,
		Logger: logger,
		Out:    stdout,
	})
	root.SetArgs(args)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "error", err)
		return 1
	}
	return 0
}
