package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/classbridge-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.Forward(gctx); err != nil {
			return fmt.Errorf("realtime forwarder: %w", err)
		}
		<-gctx.Done()
		return nil
	})
	g.Go(func() error {
		a.Log.Info("server listening", "address", a.Address())
		return a.Server.Run(gctx, a.Address())
	})

	if err := g.Wait(); err != nil {
		a.Log.Error("server stopped", "error", err)
		a.Close()
		os.Exit(1)
	}
	a.Log.Info("server stopped")
}
