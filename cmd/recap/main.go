package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/overtime-backend-go/internal/bootstrap"
	"github.com/cmlabs-hris/overtime-backend-go/internal/config"
	overtimeService "github.com/cmlabs-hris/overtime-backend-go/internal/service/overtime"
)

const appVersion = "1.0.0"

func main() {
	open := func(ctx context.Context) (*app, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.App.SlogLevel(),
		})))

		store, err := bootstrap.OpenStore(ctx, cfg)
		if err != nil {
			return nil, err
		}

		return &app{
			service: overtimeService.NewOvertimeService(store.Records),
			files:   store.Files,
			workers: cfg.Archive.Workers,
			close:   store.Close,
		}, nil
	}

	if err := newRootCmd(open).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
