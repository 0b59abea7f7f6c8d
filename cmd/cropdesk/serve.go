package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cropdesk/internal/auth"
	"cropdesk/internal/crop"
	"cropdesk/internal/db"
	httpx "cropdesk/internal/http"
	"cropdesk/internal/jobs"
	"cropdesk/internal/kv"
	"cropdesk/internal/logger"
)

type ServeCmd struct {
	Addr     string `help:"Overrides HTTP_ADDR."`
	NoWorker bool   `help:"Do not start the background worker."`
}

func (c *ServeCmd) Run(a *app) error {
	cfg := a.cfg
	if c.Addr != "" {
		cfg.HTTPAddr = c.Addr
	}

	gdb, err := db.Connect(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return err
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret, cfg.TokenTTL)
	r := httpx.NewRouter(cfg, gdb, jwtSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !c.NoWorker {
		jobsRepo := &jobs.Repo{DB: gdb}
		crops := &crop.Repository{Store: kv.NewGormStore(gdb), Repairs: jobsRepo}

		worker := &jobs.Worker{ID: workerID(), Repo: jobsRepo, Interval: cfg.WorkerPollInterval}
		worker.Handle(crop.RepairJobType, crops.HandleRepairJob)
		go worker.Run(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "driver", cfg.DBDriver, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-ch:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		return err
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

func workerID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "cropdesk"
	}
	return host + "-worker-1"
}
