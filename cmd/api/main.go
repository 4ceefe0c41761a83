package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/overtime-backend-go/internal/bootstrap"
	"github.com/cmlabs-hris/overtime-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/overtime-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/sse"
	overtimeService "github.com/cmlabs-hris/overtime-backend-go/internal/service/overtime"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.SlogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open record store: ", err)
	}
	defer store.Close()

	hub := sse.NewHub(32)
	overtimeSvc := overtimeService.NewOvertimeService(store.Records, hub)

	scheduler := cron.NewScheduler(ctx)
	if cfg.Archive.Enabled {
		recapJobs := cron.NewRecapJobs(overtimeSvc, store.Files, cfg.Archive.Workers)
		recapJobs.RegisterJobs(scheduler, cfg.Archive.Interval)
	}
	scheduler.Start()
	defer scheduler.Stop()

	overtimeHandler := appHTTP.NewOvertimeHandler(overtimeSvc, hub)
	router := appHTTP.NewRouter(cfg.App, overtimeHandler)

	// Request contexts derive from ctx so open event streams end on shutdown
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("Server running", "addr", "http://localhost"+server.Addr, "store", cfg.Store.Type)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	slog.Info("Server stopped")
}
