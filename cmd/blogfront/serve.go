package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/eringen/blogfront"
	"github.com/eringen/blogfront/views"
)

const shutdownTimeout = 10 * time.Second

func serveAction(c *cli.Context) error {
	cfg, err := blogfront.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Addr = blogfront.EnvOr("BLOGFRONT_ADDR", cfg.Addr)

	app := blogfront.New(cfg, views.Default())

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	select {
	case err := <-errCh:
		if cerr := app.Close(); err == nil {
			err = cerr
		}
		return err
	case <-ctx.Done():
	}

	app.Echo.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errCh
}
